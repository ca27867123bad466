// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// downloads_cmd.go - list/pause/resume/cancel/delete command handlers.
package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/jeranaias/hubrun-tui/internal/downloads"
	"github.com/jeranaias/hubrun-tui/internal/hub"
	"github.com/jeranaias/hubrun-tui/internal/util"
)

// HandleList prints the daemon's download table grouped by status.
func HandleList(ctx context.Context, args Args, client *hub.Client) error {
	table, err := client.ListDownloads(ctx)
	if err != nil {
		if args.JSON {
			return NewJSONErrorResponse("list", err).Print()
		}
		return err
	}

	records := make([]hub.DownloadRecord, 0, len(table))
	for _, rec := range table {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })

	if args.JSON {
		return NewJSONResponse("list", records).Print()
	}

	if len(records) == 0 {
		fmt.Println(DimStyle.Render("No downloads."))
		return nil
	}

	sections := []struct {
		status hub.Status
		title  string
	}{
		{hub.StatusDownloading, "Downloading"},
		{hub.StatusPaused, "Paused"},
		{hub.StatusError, "Failed"},
		{hub.StatusReady, "Ready"},
	}

	for _, section := range sections {
		var group []hub.DownloadRecord
		for _, rec := range records {
			if rec.Status == section.status {
				group = append(group, rec)
			}
		}
		if len(group) == 0 {
			continue
		}

		fmt.Println(SectionStyle.Render(fmt.Sprintf("%s (%d)", section.title, len(group))))
		for _, rec := range group {
			printDownloadRow(rec)
		}
	}
	return nil
}

// printDownloadRow prints one download line.
func printDownloadRow(rec hub.DownloadRecord) {
	style := StatusStyleFor(rec.Status.String())
	id := util.PadRight(util.TruncateWidth(rec.ID, 48), 48)

	switch rec.Status {
	case hub.StatusDownloading, hub.StatusPaused:
		fmt.Printf("  %s  %s\n", style.Render(id), DimStyle.Render(util.FormatProgress(rec.Downloaded, rec.Total)))
	case hub.StatusReady:
		fmt.Printf("  %s  %s\n", style.Render(id), DimStyle.Render(util.FormatBytes(rec.Total)))
	default:
		fmt.Printf("  %s\n", style.Render(id))
	}
}

// HandlePause pauses a download.
func HandlePause(ctx context.Context, args Args, client *hub.Client) error {
	return runControl(ctx, args, client, "pause", client.PauseDownload)
}

// HandleResume resumes a paused download.
func HandleResume(ctx context.Context, args Args, client *hub.Client) error {
	return runControl(ctx, args, client, "resume", client.ResumeDownload)
}

// HandleCancel cancels a download.
func HandleCancel(ctx context.Context, args Args, client *hub.Client) error {
	return runControl(ctx, args, client, "cancel", client.CancelDownload)
}

// HandleDelete deletes a downloaded model after confirmation.
func HandleDelete(ctx context.Context, args Args, client *hub.Client) error {
	id, err := resolveTarget(ctx, args, client, "delete")
	if err != nil {
		return reportError("delete", args, err)
	}

	confirmed, err := RequireConfirmation(args.Confirm, "delete "+id, args.JSON)
	if err != nil {
		return reportError("delete", args, err)
	}
	if !confirmed {
		ShowCancellationMessage()
		return nil
	}

	if err := client.DeleteModel(ctx, id); err != nil {
		return reportError("delete", args, err)
	}
	return reportSuccess("delete", args, id)
}

// runControl resolves the target identifier and issues one daemon command.
func runControl(ctx context.Context, args Args, client *hub.Client, op string, command func(context.Context, string) error) error {
	id, err := resolveTarget(ctx, args, client, op)
	if err != nil {
		return reportError(op, args, err)
	}
	if err := command(ctx, id); err != nil {
		return reportError(op, args, err)
	}
	return reportSuccess(op, args, id)
}

// resolveTarget maps the user-supplied identifier to a daemon-tracked one.
// Exact matches win; otherwise a unique substring match is accepted, so
// "Llama-2-7B" finds "TheBloke/Llama-2-7B-Q4_K_M".
func resolveTarget(ctx context.Context, args Args, client *hub.Client, op string) (string, error) {
	if args.Target == "" {
		return "", fmt.Errorf("usage: hubrun %s <id>", op)
	}

	table, err := client.ListDownloads(ctx)
	if err != nil {
		// The daemon may still know the id even if the listing failed.
		return args.Target, nil
	}
	if _, ok := table[args.Target]; ok {
		return args.Target, nil
	}

	var matches []string
	for id := range table {
		if downloads.MatchesIdentifier(id, args.Target) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no download matches %q", args.Target)
	case 1:
		return matches[0], nil
	default:
		sort.Strings(matches)
		return "", fmt.Errorf("%q is ambiguous: matches %v", args.Target, matches)
	}
}

// reportError prints a command failure in the requested format.
func reportError(op string, args Args, err error) error {
	if args.JSON {
		return NewJSONErrorResponse(op, err).Print()
	}
	return err
}

// reportSuccess prints a command success in the requested format.
func reportSuccess(op string, args Args, id string) error {
	if args.JSON {
		return NewJSONResponse(op, map[string]string{"id": id}).Print()
	}
	if !args.Quiet {
		fmt.Println(SuccessStyle.Render("[OK]") + " " + op + " " + id)
	}
	return nil
}
