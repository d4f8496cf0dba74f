// Copyright (c) 2026 Plume. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command guardcheck reports how the back-office route guard treats a token.
//
// It resolves the token through GET /api/v1/auth/me on a running API, then
// evaluates each path against the navigation table:
//
//	guardcheck --api https://api.plume.blog --token "$TOKEN" /admin /admin/blogs/new
//
// Output is one line per path. The exit status is 2 when any path redirects.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/taibuivan/plume/internal/platform/sec"
	"github.com/taibuivan/plume/internal/web/guard"
)

// errRedirected marks a run where at least one path was denied.
var errRedirected = errors.New("guardcheck: access denied for at least one path")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	err := run(ctx, os.Args[1:], os.Stdout, logger, nil)
	switch {
	case err == nil:
	case errors.Is(err, errRedirected):
		os.Exit(2)
	case errors.Is(err, pflag.ErrHelp):
	default:
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer, logger *slog.Logger, httpClient *http.Client) error {
	var (
		apiURL         string
		token          string
		roles          []string
		pagePermission bool
		timeout        time.Duration
	)

	flagSet := pflag.NewFlagSet("guardcheck", pflag.ContinueOnError)
	flagSet.StringVar(&apiURL, "api", "http://localhost:8080", "base URL of the Plume API")
	flagSet.StringVar(&token, "token", os.Getenv("PLUME_ACCESS_TOKEN"), "access token (default $PLUME_ACCESS_TOKEN)")
	flagSet.StringSliceVar(&roles, "role", nil, "restrict the view to these roles (repeatable)")
	flagSet.BoolVar(&pagePermission, "page-permission", true, "also consult the per-role page table")
	flagSet.DurationVar(&timeout, "timeout", 10*time.Second, "session lookup timeout")

	if err := flagSet.Parse(args); err != nil {
		return err
	}

	paths := flagSet.Args()
	if len(paths) == 0 {
		return errors.New("guardcheck: at least one path is required")
	}

	options := guard.Options{RequirePagePermission: pagePermission}
	for _, raw := range roles {
		role := sec.ParseRole(raw)
		if role == sec.RoleAnonymous {
			return fmt.Errorf("guardcheck: unknown role %q", raw)
		}
		options.AllowedRoles = append(options.AllowedRoles, role)
	}

	lookupCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	user, err := guard.NewSessionClient(apiURL, httpClient).CurrentUser(lookupCtx, token)
	if err != nil {
		return err
	}

	var target string
	routeGuard := guard.NewRouteGuard(options, guard.NavigatorFunc(func(to string) { target = to }), logger)

	denied := false
	for _, path := range paths {
		target = ""
		state := guard.State{User: user, Path: path}

		if routeGuard.Render(state, func() {}) {
			fmt.Fprintf(stdout, "%s\t%s\n", guard.Allow, path)
			continue
		}

		outcome := guard.Evaluate(state, options, guard.DefaultAccessTable())
		denied = denied || outcome.Verdict == guard.Redirect
		fmt.Fprintf(stdout, "%s\t%s\t%s\t%s\n", outcome.Verdict, path, target, outcome.Reason)
	}

	if denied {
		return errRedirected
	}
	return nil
}
