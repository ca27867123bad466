// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package downloads

import "testing"

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		modelID   string
		modelType string
		files     []string
		want      string
	}{
		{
			name:      "quantized single file",
			modelID:   "org/Model-GGUF",
			modelType: "quantized",
			files:     []string{"Model-Q4.gguf"},
			want:      "org/Model-Q4",
		},
		{
			name:      "gguf type counts as quantized",
			modelID:   "org/M",
			modelType: "gguf",
			files:     []string{"f.gguf"},
			want:      "org/f",
		},
		{
			name:      "case-insensitive model type",
			modelID:   "org/M",
			modelType: "GGUF",
			files:     []string{"f.gguf"},
			want:      "org/f",
		},
		{
			name:      "file in subdirectory",
			modelID:   "org/Model-GGUF",
			modelType: "quantized",
			files:     []string{"quant/Model-Q8_0.gguf"},
			want:      "org/Model-Q8_0",
		},
		{
			name:      "non-quantized keeps model id",
			modelID:   "org/Model",
			modelType: "safetensors",
			files:     []string{"model-00001.safetensors"},
			want:      "org/Model",
		},
		{
			name:      "multiple files keep model id",
			modelID:   "org/Model-GGUF",
			modelType: "quantized",
			files:     []string{"a.gguf", "b.gguf"},
			want:      "org/Model-GGUF",
		},
		{
			name:      "no files keep model id",
			modelID:   "org/Model-GGUF",
			modelType: "quantized",
			files:     nil,
			want:      "org/Model-GGUF",
		},
		{
			name:      "model id without author prefix is its own prefix",
			modelID:   "Model-GGUF",
			modelType: "quantized",
			files:     []string{"Model-Q4.gguf"},
			want:      "Model-GGUF/Model-Q4",
		},
		{
			name:      "file without extension",
			modelID:   "org/Model",
			modelType: "quantized",
			files:     []string{"weights"},
			want:      "org/weights",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.modelID, tt.modelType, tt.files)
			if got != tt.want {
				t.Errorf("Resolve(%q, %q, %v) = %q, want %q",
					tt.modelID, tt.modelType, tt.files, got, tt.want)
			}
		})
	}
}

func TestMatchesIdentifier(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"org/Model-Q4", "org/Model-Q4", true},
		{"org/Model-Q4", "org/Model-Q4.gguf", true},
		{"org/Model-Q4.gguf", "org/Model-Q4", true},
		{"Model-Q4", "org/Model-Q4", true},
		{"org/Model-Q4", "org/Other", false},
		{"", "org/Model-Q4", false},
		{"org/Model-Q4", "", false},
		{"", "", true},
	}

	for _, tt := range tests {
		if got := MatchesIdentifier(tt.a, tt.b); got != tt.want {
			t.Errorf("MatchesIdentifier(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
