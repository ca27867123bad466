// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// status_cmd.go - the status command: daemon health and download summary.
package cli

import (
	"context"
	"fmt"

	"github.com/jeranaias/hubrun-tui/internal/hub"
)

// HandleStatus reports daemon reachability and per-status download counts.
func HandleStatus(ctx context.Context, args Args, client *hub.Client) error {
	daemonUp := client.CheckRunning(ctx) == nil

	counts := map[hub.Status]int{}
	var listErr error
	if daemonUp {
		table, err := client.ListDownloads(ctx)
		if err != nil {
			listErr = err
		} else {
			for _, rec := range table {
				counts[rec.Status]++
			}
		}
	}

	if args.JSON {
		data := map[string]interface{}{
			"daemon_up":   daemonUp,
			"downloading": counts[hub.StatusDownloading],
			"paused":      counts[hub.StatusPaused],
			"failed":      counts[hub.StatusError],
			"ready":       counts[hub.StatusReady],
		}
		if listErr != nil {
			return NewJSONErrorResponse("status", listErr).Print()
		}
		return NewJSONResponse("status", data).Print()
	}

	fmt.Println(TitleStyle.Render("hubrun status"))
	if daemonUp {
		fmt.Printf("  %s%s\n", RenderLabel("Daemon:", 14), SuccessStyle.Render("running"))
	} else {
		fmt.Printf("  %s%s\n", RenderLabel("Daemon:", 14), FailedStyle.Render("not reachable"))
		fmt.Println(DimStyle.Render("  start it, or check hub.base_url in ~/.hubrun/config.toml"))
		return nil
	}

	if listErr != nil {
		return listErr
	}

	fmt.Printf("  %s%s\n", RenderLabel("Downloading:", 14), DownloadingStyle.Render(fmt.Sprintf("%d", counts[hub.StatusDownloading])))
	fmt.Printf("  %s%s\n", RenderLabel("Paused:", 14), PausedStyle.Render(fmt.Sprintf("%d", counts[hub.StatusPaused])))
	fmt.Printf("  %s%s\n", RenderLabel("Failed:", 14), FailedStyle.Render(fmt.Sprintf("%d", counts[hub.StatusError])))
	fmt.Printf("  %s%s\n", RenderLabel("Ready:", 14), ReadyStyle.Render(fmt.Sprintf("%d", counts[hub.StatusReady])))
	return nil
}
