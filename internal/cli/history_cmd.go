// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// history_cmd.go - the history command: past completed and deleted
// downloads from the local store.
package cli

import (
	"fmt"
	"strconv"

	"github.com/jeranaias/hubrun-tui/internal/storage"
	"github.com/jeranaias/hubrun-tui/internal/util"
)

// HandleHistory prints recent download events, optionally filtered to one
// identifier with --id.
func HandleHistory(args Args, hist *storage.History) error {
	limit := 50
	if raw, ok := args.Options["limit"]; ok {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return reportError("history", args, fmt.Errorf("invalid --limit %q", raw))
		}
		limit = n
	}

	var events []storage.Event
	var err error
	if id, ok := args.Options["id"]; ok {
		events, err = hist.ForDownload(id)
	} else {
		events, err = hist.Recent(limit)
	}
	if err != nil {
		return reportError("history", args, err)
	}

	if args.JSON {
		type jsonEvent struct {
			DownloadID string `json:"download_id"`
			Event      string `json:"event"`
			Downloaded int64  `json:"downloaded"`
			Total      int64  `json:"total"`
			At         string `json:"at"`
		}
		out := make([]jsonEvent, 0, len(events))
		for _, ev := range events {
			out = append(out, jsonEvent{
				DownloadID: ev.DownloadID,
				Event:      ev.Event,
				Downloaded: ev.Downloaded,
				Total:      ev.Total,
				At:         ev.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
			})
		}
		return NewJSONResponse("history", out).Print()
	}

	if len(events) == 0 {
		fmt.Println(DimStyle.Render("No history yet."))
		return nil
	}

	fmt.Println(TitleStyle.Render("Download history"))
	for _, ev := range events {
		when := ev.CreatedAt.Local().Format("2006-01-02 15:04")
		var verdict string
		switch ev.Event {
		case storage.EventCompleted:
			verdict = SuccessStyle.Render("completed") + " " + DimStyle.Render(util.FormatBytes(ev.Total))
		case storage.EventDeleted:
			verdict = FailedStyle.Render("deleted")
		default:
			verdict = DimStyle.Render(ev.Event)
		}
		fmt.Printf("  %s  %s  %s\n", DimStyle.Render(when), util.PadRight(util.TruncateWidth(ev.DownloadID, 44), 44), verdict)
	}
	return nil
}
