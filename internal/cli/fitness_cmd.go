// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// fitness_cmd.go - the fitness command: will a model fit this machine?
package cli

import (
	"fmt"
	"os"

	"github.com/jeranaias/hubrun-tui/internal/detect"
	"github.com/jeranaias/hubrun-tui/internal/util"
)

// HandleFitness reports whether a model, named by repository or by a bare
// parameter count like "13b", fits this machine's RAM and disk.
func HandleFitness(args Args) error {
	if args.Target == "" {
		return reportError("fitness", args, fmt.Errorf("usage: hubrun fitness <repo|size>  e.g. hubrun fitness 13b"))
	}

	fit, err := detect.Check(defaultFitnessPath())
	if err != nil {
		return reportError("fitness", args, err)
	}

	params := detect.ParamCount(args.Target)
	size := detect.EstimateSize(params, args.Quant)
	recommended := fit.RecommendQuant(args.Target)

	if args.JSON {
		return NewJSONResponse("fitness", map[string]interface{}{
			"target":            args.Target,
			"params_billion":    params,
			"estimated_bytes":   size,
			"total_ram":         fit.TotalRAM,
			"available_ram":     fit.AvailableRAM,
			"free_disk":         fit.FreeDisk,
			"fits_in_memory":    fit.CanLoad(size),
			"fits_on_disk":      fit.CanHold(size),
			"recommended_quant": recommended,
		}).Print()
	}

	fmt.Println(TitleStyle.Render("Fitness check: " + args.Target))
	fmt.Println(DimStyle.Render("  " + fit.Describe()))
	fmt.Println()

	if params == 0 {
		fmt.Println(DimStyle.Render("  no parameter count in the name; sizing unavailable"))
	} else {
		fmt.Printf("  %s%s\n", RenderLabel("Parameters:", 16), ValueStyle.Render(fmt.Sprintf("%.1fB", params)))
		fmt.Printf("  %s%s\n", RenderLabel("Estimated:", 16), ValueStyle.Render(util.FormatBytes(size)))
		fmt.Printf("  %s%s\n", RenderLabel("Loads in RAM:", 16), yesNo(fit.CanLoad(size)))
		fmt.Printf("  %s%s\n", RenderLabel("Fits on disk:", 16), yesNo(fit.CanHold(size)))
	}

	if recommended != "" {
		fmt.Printf("  %s%s\n", RenderLabel("Recommended:", 16), SuccessStyle.Render(recommended))
	} else {
		fmt.Println(WarningStyle.Render("  [!] no quantization of this model fits in memory"))
	}
	return nil
}

// yesNo renders a boolean verdict.
func yesNo(ok bool) string {
	if ok {
		return SuccessStyle.Render("yes")
	}
	return FailedStyle.Render("no")
}

// defaultFitnessPath picks the volume to measure: the home directory,
// where the daemon stores models, falling back to the working directory.
func defaultFitnessPath() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}
