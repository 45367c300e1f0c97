// Command issue-token prints a supervisor access token signed with
// AUTH_JWT_SECRET.
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/iliyamo/trip-ticket-log/internal/config"
	"github.com/iliyamo/trip-ticket-log/internal/middleware"
	"github.com/iliyamo/trip-ticket-log/internal/utils"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "issue-token:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	flagSet := pflag.NewFlagSet("issue-token", pflag.ContinueOnError)
	subject := flagSet.StringP("subject", "s", "", "who the token is issued to (required)")
	role := flagSet.String("role", middleware.RoleSupervisor, "role claim")
	ttl := flagSet.Duration("ttl", 12*time.Hour, "token lifetime")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if *subject == "" {
		return errors.New("--subject is required")
	}

	tok, err := utils.NewAccessToken(cfg.AuthSecret, *subject, *role, *ttl)
	if err != nil {
		return err
	}
	fmt.Println(tok.Token)
	fmt.Fprintf(os.Stderr, "expires %s\n", tok.Exp.Format(time.RFC3339))
	return nil
}
