package main

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// healthCheckCommand probes a running server, for container HEALTHCHECK use.
func healthCheckCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health-check",
		Short: "Check the health endpoint of a running server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHealthCheck(cmd.Context(), a.cfg.Addr)
		},
	}
}

// runHealthCheck performs a health check against the running server.
func runHealthCheck(ctx context.Context, addr string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, healthURL(addr), nil)
	if err != nil {
		return err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check failed: status %d", resp.StatusCode)
	}
	return nil
}

// healthURL builds the health endpoint URL for a listen address such as
// ":8000" or "0.0.0.0:8000".
func healthURL(addr string) string {
	host := addr
	switch {
	case strings.HasPrefix(addr, ":"):
		host = "localhost" + addr
	case strings.HasPrefix(addr, "0.0.0.0:"):
		host = "localhost" + strings.TrimPrefix(addr, "0.0.0.0")
	}
	return "http://" + host + "/api/health"
}
