// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package detect

import (
	"os"
	"strings"
	"testing"
)

func TestCheckReturnsNumbers(t *testing.T) {
	f, err := Check(os.TempDir())
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if f.TotalRAM == 0 {
		t.Error("total RAM should be nonzero")
	}
	if f.Path != os.TempDir() {
		t.Errorf("path = %q", f.Path)
	}
	if !strings.Contains(f.Describe(), "GiB") {
		t.Errorf("Describe = %q", f.Describe())
	}
}

func TestCanHold(t *testing.T) {
	f := &Fitness{FreeDisk: 10 << 30}
	if !f.CanHold(4 << 30) {
		t.Error("4 GiB should fit in 10 GiB free")
	}
	if f.CanHold(10 << 30) {
		t.Error("margin must be respected")
	}
	if f.CanHold(-1) {
		t.Error("negative sizes never fit")
	}
}

func TestCanLoad(t *testing.T) {
	f := &Fitness{TotalRAM: 16 << 30}
	if !f.CanLoad(8 << 30) {
		t.Error("8 GiB model should load on 16 GiB")
	}
	if f.CanLoad(15 << 30) {
		t.Error("15 GiB model exceeds the 90% budget on 16 GiB")
	}
}

func TestParamCount(t *testing.T) {
	tests := []struct {
		name string
		want float64
	}{
		{"org/Llama-3.1-8B-Instruct-GGUF", 8},
		{"org/Qwen2.5-0.5B", 0.5},
		{"org/Mixtral-8x7B", 7}, // first count wins; good enough for sizing
		{"org/model-no-size", 0},
	}
	for _, tt := range tests {
		if got := ParamCount(tt.name); got != tt.want {
			t.Errorf("ParamCount(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestEstimateSize(t *testing.T) {
	// 8B at Q4_K_M: 8e9 * 4.8 / 8 = 4.8e9
	got := EstimateSize(8, "Q4_K_M")
	if got != int64(4.8e9) {
		t.Errorf("EstimateSize = %d", got)
	}
	if EstimateSize(0, "Q4_K_M") != 0 {
		t.Error("unknown param count yields no estimate")
	}
}

func TestRecommendQuant(t *testing.T) {
	roomy := &Fitness{TotalRAM: 64 << 30}
	if got := roomy.RecommendQuant("org/Llama-8B-GGUF"); got != "Q8_0" {
		t.Errorf("roomy machine should take the best level, got %q", got)
	}

	tight := &Fitness{TotalRAM: 4 << 30}
	if got := tight.RecommendQuant("org/Llama-8B-GGUF"); got != "Q2_K" {
		t.Errorf("tight machine should fall back to the smallest level, got %q", got)
	}

	tiny := &Fitness{TotalRAM: 1 << 30}
	if got := tiny.RecommendQuant("org/Llama-8B-GGUF"); got != "" {
		t.Errorf("impossible fit should return empty, got %q", got)
	}

	if got := roomy.RecommendQuant("org/model"); got != "Q4_K_M" {
		t.Errorf("unknown size defaults to Q4_K_M, got %q", got)
	}
}
