package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/trip-ticket-log/internal/config"
)

func TestCaptureWriterTruncates(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 4}

	_, err := cw.Write([]byte("abc"))
	require.NoError(t, err)
	assert.False(t, cw.truncated())
	_, err = cw.Write([]byte("defg"))
	require.NoError(t, err)

	assert.True(t, cw.truncated())
	assert.Equal(t, "abcd", cw.buf.String())
	assert.Equal(t, "abcdefg", rec.Body.String(), "client receives everything")
}

func TestPayloadKeepsHeadersAndBody(t *testing.T) {
	hdr := http.Header{}
	hdr.Set(echo.HeaderContentDisposition, `attachment; filename="tickets.csv"`)

	bs, err := encodePayload(http.StatusOK, hdr, []byte("id,tripId\n"))
	require.NoError(t, err)

	status, gotHdr, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, hdr.Get(echo.HeaderContentDisposition), gotHdr.Get(echo.HeaderContentDisposition))
	assert.Equal(t, "id,tripId\n", string(body))

	_, _, _, ok = decodePayload(bs[:5])
	assert.False(t, ok)
}

func TestResponseCacheDisabledPassesThrough(t *testing.T) {
	rc := NewResponseCache(config.CacheConfig{Enabled: true}, nil, quietLogger())

	calls := 0
	next := func(c echo.Context) error { calls++; return c.String(http.StatusOK, "ok") }
	for _, mw := range []echo.MiddlewareFunc{rc.Read(), rc.Invalidate()} {
		req := httptest.NewRequest(http.MethodGet, "/api/tickets", nil)
		rec := httptest.NewRecorder()
		require.NoError(t, mw(next)(echo.New().NewContext(req, rec)))
		assert.Empty(t, rec.Header().Get("X-Cache"))
	}
	assert.Equal(t, 2, calls)
}
