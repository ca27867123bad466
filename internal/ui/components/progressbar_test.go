// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	"github.com/jeranaias/hubrun-tui/internal/ui/styles"
)

func barTheme() *styles.Theme {
	return styles.NewThemeWithBackground(true)
}

func TestProgressBarEmpty(t *testing.T) {
	pb := NewProgressBar(barTheme(), 10)
	out := pb.View(0)
	if !strings.Contains(out, "[----------]") {
		t.Errorf("empty bar = %q", out)
	}
	if !strings.Contains(out, "0.0%") {
		t.Errorf("missing percent: %q", out)
	}
}

func TestProgressBarFull(t *testing.T) {
	pb := NewProgressBar(barTheme(), 10)
	out := pb.View(1)
	if !strings.Contains(out, "[==========]") {
		t.Errorf("full bar = %q", out)
	}
	if !strings.Contains(out, "100.0%") {
		t.Errorf("missing percent: %q", out)
	}
}

func TestProgressBarPartialHasArrowHead(t *testing.T) {
	pb := NewProgressBar(barTheme(), 10)
	out := pb.View(0.5)
	if !strings.Contains(out, "====>") {
		t.Errorf("partial bar = %q", out)
	}
	if !strings.Contains(out, "50.0%") {
		t.Errorf("missing percent: %q", out)
	}
}

func TestProgressBarClamps(t *testing.T) {
	pb := NewProgressBar(barTheme(), 10)
	if out := pb.View(1.5); !strings.Contains(out, "100.0%") {
		t.Errorf("overshoot not clamped: %q", out)
	}
	if out := pb.View(-0.5); !strings.Contains(out, "0.0%") {
		t.Errorf("undershoot not clamped: %q", out)
	}
}

func TestProgressBarIndeterminate(t *testing.T) {
	pb := NewProgressBar(barTheme(), 10)
	out := pb.ViewIndeterminate()
	if !strings.Contains(out, "[----------]") {
		t.Errorf("indeterminate bar = %q", out)
	}
	if strings.Contains(out, "%") {
		t.Errorf("indeterminate bar should not show a percentage: %q", out)
	}
}
