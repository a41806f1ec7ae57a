package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/marcelsud/webhook-relay/config"
	"github.com/marcelsud/webhook-relay/relay"
)

/* probe - Standalone CLI tool to check the configured webhook endpoint
 * Usage: go run cmd/probe/main.go [sync]
 * Runs the handshake round trip; with the sync argument it also pushes
 * the structure-sync payload so the receiver can map variables.
 * Exit codes: 0 = reachable, 1 = unreachable or unconfigured
 */

func main() {
	cfg, err := config.GetConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if cfg.WebhookURL == "" {
		fmt.Fprintln(os.Stderr, "WEBHOOK_URL is not configured")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	sender := relay.NewHTTPSender(cfg.WebhookURL)

	result := sender.Probe(ctx)
	if !result.Success {
		fmt.Fprintf(os.Stderr, "probe failed: %s\n", result.Message)
		os.Exit(1)
	}
	fmt.Printf("probe ok: %s (%dms)\n", result.Message, result.ResponseTime)

	if len(os.Args) > 1 && os.Args[1] == "sync" {
		result = sender.SyncStructure(ctx)
		if !result.Success {
			fmt.Fprintf(os.Stderr, "structure sync failed: %s\n", result.Message)
			os.Exit(1)
		}
		fmt.Printf("structure sync ok: %s\n", result.Message)
	}
}
