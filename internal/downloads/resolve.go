// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package downloads

import (
	"path"
	"strings"
)

// =============================================================================
// IDENTIFIER RESOLUTION
// =============================================================================

// Resolve derives the identifier the daemon will track a download under.
//
// For a quantized model fetched as a single file, the daemon keys the
// download by author prefix plus the file name without its extension, not by
// the repository model id:
//
//	Resolve("org/Model-GGUF", "quantized", []string{"Model-Q4.gguf"})
//	// => "org/Model-Q4"
//
// The author prefix is everything before the first "/"; a model id without
// one is its own prefix. Everything else is tracked under the model id
// verbatim.
func Resolve(modelID, modelType string, files []string) string {
	if !isQuantized(modelType) || len(files) != 1 {
		return modelID
	}

	base := path.Base(files[0])
	if ext := path.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	if base == "" || base == "." {
		return modelID
	}

	prefix := modelID
	if slash := strings.Index(modelID, "/"); slash >= 0 {
		prefix = modelID[:slash]
	}
	return prefix + "/" + base
}

// isQuantized reports whether a model type denotes a quantized artifact.
// The daemon is loose about the exact string, so match loosely too.
func isQuantized(modelType string) bool {
	t := strings.ToLower(modelType)
	return t == "quantized" || strings.Contains(t, "gguf")
}

// MatchesIdentifier reports whether two download identifiers refer to the
// same download. The daemon sometimes reports an id with extra path or
// quantization detail relative to what we resolved, so containment in either
// direction counts as a match.
func MatchesIdentifier(a, b string) bool {
	if a == b {
		return true
	}
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
