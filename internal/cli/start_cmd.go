// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// start_cmd.go - the start command: catalog lookup, fitness check, and
// the download request.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/jeranaias/hubrun-tui/internal/catalog"
	"github.com/jeranaias/hubrun-tui/internal/detect"
	"github.com/jeranaias/hubrun-tui/internal/downloads"
	"github.com/jeranaias/hubrun-tui/internal/hub"
	"github.com/jeranaias/hubrun-tui/internal/util"
)

// HandleStart looks a repository up in the catalog, picks the files to
// fetch, warns when the model will not fit, and asks the daemon to start
// the download.
func HandleStart(ctx context.Context, args Args, client *hub.Client, cat *catalog.Client) error {
	if args.Target == "" {
		return reportError("start", args, fmt.Errorf("usage: hubrun start <repo> [quant]"))
	}

	repoID, err := catalog.ParseRepoID(args.Target)
	if err != nil {
		return reportError("start", args, err)
	}

	model, err := cat.Model(ctx, repoID)
	if err != nil {
		return reportError("start", args, err)
	}

	files, err := pickFiles(model, args.Quant)
	if err != nil {
		return reportError("start", args, err)
	}

	warnIfTooLarge(args, model.ID)

	req := hub.StartDownloadRequest{
		ModelID:   model.ID,
		ModelType: model.ModelType(),
		Files:     files,
	}
	if _, err := client.StartDownload(ctx, req); err != nil {
		return reportError("start", args, err)
	}

	id := downloads.Resolve(model.ID, model.ModelType(), files)
	if args.JSON {
		return NewJSONResponse("start", map[string]interface{}{
			"id":    id,
			"files": files,
		}).Print()
	}
	if !args.Quiet {
		fmt.Println(SuccessStyle.Render("[OK]") + " downloading " + id)
		fmt.Println(DimStyle.Render("  track it with: hubrun list"))
	}
	return nil
}

// pickFiles chooses which repository files to request.
func pickFiles(model *catalog.Model, quant string) ([]string, error) {
	if quant != "" {
		file, err := model.FindQuant(quant)
		if err != nil {
			return nil, err
		}
		return []string{file}, nil
	}
	if model.Quantized() {
		return model.GGUFFiles(), nil
	}
	if len(model.Files) == 0 {
		return nil, fmt.Errorf("%s has no downloadable files", model.ID)
	}
	return model.Files, nil
}

// warnIfTooLarge estimates the model's memory footprint from its name and
// prints a warning when it exceeds what this machine can load. The check
// is advisory; the download proceeds either way.
func warnIfTooLarge(args Args, modelID string) {
	if args.JSON || args.Quiet {
		return
	}

	params := detect.ParamCount(modelID)
	if params == 0 {
		return
	}

	fit, err := detect.Check(defaultFitnessPath())
	if err != nil {
		return
	}

	size := detect.EstimateSize(params, args.Quant)
	if !fit.CanLoad(size) {
		fmt.Fprintln(os.Stderr, WarningStyle.Render(
			"[!] this model likely needs "+util.FormatBytes(size)+
				" of memory; this machine has "+util.FormatBytes(int64(fit.TotalRAM))))
		if rec := fit.RecommendQuant(modelID); rec != "" {
			fmt.Fprintln(os.Stderr, DimStyle.Render("    consider quantization "+rec))
		}
	}
}
