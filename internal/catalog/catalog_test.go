// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestParseRepoID(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"org/model", "org/model", false},
		{"  org/model  ", "org/model", false},
		{"https://huggingface.co/org/model", "org/model", false},
		{"https://huggingface.co/org/model/tree/main", "org/model", false},
		{"https://example.com/org/model", "", true},
		{"model", "", true},
		{"org/model/extra", "", true},
		{"/model", "", true},
		{"org/", "", true},
	}

	for _, tt := range tests {
		got, err := ParseRepoID(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseRepoID(%q) expected error, got %q", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseRepoID(%q): %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseRepoID(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestModelListing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/models/org/Model-GGUF" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(repoInfo{Siblings: []sibling{
			{Rfilename: "README.md"},
			{Rfilename: "Model-Q4_K_M.gguf"},
			{Rfilename: "Model-Q8_0.gguf"},
			{Rfilename: ""},
		}})
	}))
	defer srv.Close()

	client := NewClientWithBaseURL(srv.URL)
	model, err := client.Model(context.Background(), "org/Model-GGUF")
	if err != nil {
		t.Fatalf("Model: %v", err)
	}

	if len(model.Files) != 3 {
		t.Errorf("expected 3 files (empty names dropped), got %v", model.Files)
	}
	gguf := model.GGUFFiles()
	if len(gguf) != 2 {
		t.Errorf("expected 2 gguf files, got %v", gguf)
	}
	if !model.Quantized() {
		t.Error("repo with gguf files should report quantized")
	}
	if model.ModelType() != "gguf" {
		t.Errorf("ModelType = %q", model.ModelType())
	}
}

func TestModelNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	client := NewClientWithBaseURL(srv.URL)
	if _, err := client.Model(context.Background(), "org/missing"); err == nil {
		t.Fatal("expected not-found error")
	}
}

func TestFindQuant(t *testing.T) {
	model := &Model{
		ID: "org/Model-GGUF",
		Files: []string{
			"Model-Q4_K_M.gguf",
			"Model-Q4_K_S.gguf",
			"Model-Q8_0.gguf",
			"README.md",
		},
	}

	file, err := model.FindQuant("q8_0")
	if err != nil {
		t.Fatalf("FindQuant: %v", err)
	}
	if file != "Model-Q8_0.gguf" {
		t.Errorf("FindQuant = %q", file)
	}

	if _, err := model.FindQuant("q4_k"); err == nil {
		t.Error("ambiguous label should error")
	}
	if _, err := model.FindQuant("iq2"); err == nil {
		t.Error("missing label should error")
	}
}

func TestDownloadURLEscapesSegments(t *testing.T) {
	model := &Model{ID: "org/model"}
	got := model.DownloadURL("sub dir/file name.gguf")
	want := "https://huggingface.co/org/model/resolve/main/sub%20dir/file%20name.gguf?download=true"
	if got != want {
		t.Errorf("DownloadURL = %q, want %q", got, want)
	}
}

func TestModelTypeWithoutGGUF(t *testing.T) {
	model := &Model{ID: "org/model", Files: []string{"model.safetensors", "config.json"}}
	if model.Quantized() {
		t.Error("no gguf files, not quantized")
	}
	if model.ModelType() != "safetensors" {
		t.Errorf("ModelType = %q", model.ModelType())
	}
}
