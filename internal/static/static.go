// Package static serves the built single-page frontend.  Requests that do
// not name an existing file receive the bundle's index document so client
// side routing works on reload.
package static

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

const indexFile = "index.html"

// Available reports whether root contains a bundle entry document.
func Available(root string) bool {
	fi, err := os.Stat(filepath.Join(root, indexFile))
	return err == nil && !fi.IsDir()
}

// SPA returns a middleware serving files under root with an index fallback.
// Paths equal to or below any of skip are left to the router.
func SPA(root string, skip ...string) echo.MiddlewareFunc {
	return echomw.StaticWithConfig(echomw.StaticConfig{
		Root:  root,
		Index: indexFile,
		HTML5: true,
		Skipper: func(c echo.Context) bool {
			p := c.Request().URL.Path
			for _, s := range skip {
				if p == s || strings.HasPrefix(p, s+"/") {
					return true
				}
			}
			return false
		},
	})
}
