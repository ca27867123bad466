// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package catalog looks up model repositories on the Hugging Face hub and
// turns them into download requests for the daemon.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

// =============================================================================
// REPO IDENTIFIERS
// =============================================================================

// ParseRepoID normalizes user input into an "owner/name" repository id.
// Accepts the bare id or a full huggingface.co URL.
func ParseRepoID(input string) (string, error) {
	input = strings.TrimSpace(input)

	if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
		u, err := url.Parse(input)
		if err != nil {
			return "", fmt.Errorf("parsing repository URL %q: %w", input, err)
		}
		if u.Host != "huggingface.co" {
			return "", fmt.Errorf("expected a huggingface.co URL, got host %q", u.Host)
		}
		parts := strings.Split(strings.TrimPrefix(u.Path, "/"), "/")
		if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
			return "", fmt.Errorf("invalid repository path %q, expected owner/name", u.Path)
		}
		return parts[0] + "/" + parts[1], nil
	}

	if strings.Count(input, "/") == 1 {
		parts := strings.Split(input, "/")
		if parts[0] != "" && parts[1] != "" {
			return input, nil
		}
	}
	return "", fmt.Errorf("invalid repository id %q, expected owner/name or a huggingface.co URL", input)
}

// =============================================================================
// MODEL
// =============================================================================

// Model is one repository's file listing.
type Model struct {
	ID    string
	Files []string
}

// GGUFFiles returns the repository's .gguf files.
func (m *Model) GGUFFiles() []string {
	var out []string
	for _, f := range m.Files {
		if strings.EqualFold(path.Ext(f), ".gguf") {
			out = append(out, f)
		}
	}
	return out
}

// Quantized reports whether the repository ships gguf quantizations.
func (m *Model) Quantized() bool {
	return len(m.GGUFFiles()) > 0
}

// ModelType is the type string the daemon expects for this repository.
func (m *Model) ModelType() string {
	if m.Quantized() {
		return "gguf"
	}
	return "safetensors"
}

// FindQuant picks the single gguf file whose name carries the given
// quantization label, matched case-insensitively ("q4_k_m" finds
// "Model-Q4_K_M.gguf"). Ambiguous or missing labels are errors.
func (m *Model) FindQuant(label string) (string, error) {
	needle := strings.ToLower(label)
	var matches []string
	for _, f := range m.GGUFFiles() {
		if strings.Contains(strings.ToLower(path.Base(f)), needle) {
			matches = append(matches, f)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no gguf file in %s matches quantization %q", m.ID, label)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("quantization %q is ambiguous in %s: %s", label, m.ID, strings.Join(matches, ", "))
	}
}

// DownloadURL builds the direct resolve URL for one repository file, with
// each path segment percent-escaped.
func (m *Model) DownloadURL(file string) string {
	parts := strings.Split(file, "/")
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = url.PathEscape(p)
	}
	return fmt.Sprintf("https://huggingface.co/%s/resolve/main/%s?download=true", m.ID, strings.Join(escaped, "/"))
}

// =============================================================================
// CLIENT
// =============================================================================

// Client fetches repository metadata from the Hugging Face API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a catalog client against the public API.
func NewClient() *Client {
	return NewClientWithBaseURL("https://huggingface.co")
}

// NewClientWithBaseURL creates a catalog client against a custom API host.
func NewClientWithBaseURL(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type repoInfo struct {
	Siblings []sibling `json:"siblings"`
}

type sibling struct {
	Rfilename string `json:"rfilename"`
}

// Model fetches the file listing for a repository id.
func (c *Client) Model(ctx context.Context, repoID string) (*Model, error) {
	apiURL := fmt.Sprintf("%s/api/models/%s", c.baseURL, repoID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request for %s: %w", repoID, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", repoID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("repository %s not found (it may be private)", repoID)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog request for %s failed: %s", repoID, resp.Status)
	}

	var info repoInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decoding listing for %s: %w", repoID, err)
	}

	model := &Model{ID: repoID}
	for _, s := range info.Siblings {
		if s.Rfilename == "" {
			continue
		}
		model.Files = append(model.Files, s.Rfilename)
	}
	return model, nil
}
