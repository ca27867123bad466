// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package detect

import (
	"regexp"
	"strconv"
	"strings"
)

// =============================================================================
// QUANTIZATION RECOMMENDATION
// =============================================================================

// quant describes one gguf quantization level. bitsPerWeight drives the
// size estimate; rank orders levels from smallest to best quality.
type quant struct {
	label         string
	bitsPerWeight float64
	rank          int
}

// Common levels, smallest first. Exotic levels (IQ*, Q2_K_S, ...) are left
// out; the daemon downloads whatever the user names explicitly.
var quants = []quant{
	{"Q2_K", 2.6, 0},
	{"Q3_K_M", 3.9, 1},
	{"Q4_K_M", 4.8, 2},
	{"Q5_K_M", 5.7, 3},
	{"Q6_K", 6.6, 4},
	{"Q8_0", 8.5, 5},
}

var paramPattern = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*b\b`)

// ParamCount extracts the parameter count, in billions, from a model name
// like "org/Llama-3.1-8B-Instruct-GGUF". Zero means the name carries no
// count.
func ParamCount(modelName string) float64 {
	m := paramPattern.FindStringSubmatch(modelName)
	if m == nil {
		return 0
	}
	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	return n
}

// EstimateSize estimates the file size in bytes of a model with the given
// parameter count (in billions) at a quantization level. Unknown levels
// fall back to Q4_K_M's density. Zero params means no estimate.
func EstimateSize(paramsB float64, quantLabel string) int64 {
	if paramsB <= 0 {
		return 0
	}
	bits := 4.8
	needle := strings.ToUpper(quantLabel)
	for _, q := range quants {
		if strings.Contains(needle, q.label) {
			bits = q.bitsPerWeight
			break
		}
	}
	return int64(paramsB * 1e9 * bits / 8)
}

// RecommendQuant picks the best quantization level of a model that the
// machine can still load, preferring higher quality. Empty result means
// even the smallest level will not fit.
func (f *Fitness) RecommendQuant(modelName string) string {
	paramsB := ParamCount(modelName)
	if paramsB <= 0 {
		// Without a parameter count there is nothing to rank on; suggest
		// the usual sweet spot.
		return "Q4_K_M"
	}

	best := ""
	for _, q := range quants {
		if f.CanLoad(EstimateSize(paramsB, q.label)) {
			best = q.label
		}
	}
	return best
}
