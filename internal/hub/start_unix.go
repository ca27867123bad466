// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

//go:build !windows
// +build !windows

package hub

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
	"time"
)

// findDaemonExecutable searches for hubd in common installation paths on Unix.
// Returns the full path to hubd if found.
func findDaemonExecutable() (string, error) {
	// First, check if hubd is in PATH
	if path, err := exec.LookPath("hubd"); err == nil {
		return path, nil
	}

	// Common installation paths on Unix/macOS
	possiblePaths := []string{
		"/usr/local/bin/hubd",
		"/usr/bin/hubd",
		"/opt/hubrun/hubd",
	}

	// User home directory locations
	if home := os.Getenv("HOME"); home != "" {
		possiblePaths = append(possiblePaths,
			filepath.Join(home, ".local", "bin", "hubd"),
			filepath.Join(home, ".hubrun", "bin", "hubd"),
			filepath.Join(home, "bin", "hubd"),
		)
	}

	// Check each possible path
	for _, p := range possiblePaths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	// Not found - return error with helpful message
	return "", fmt.Errorf("hubd not found in PATH or common installation directories. " +
		"Please ensure the hub daemon is installed. Checked: PATH, /usr/local/bin, /usr/bin, ~/.local/bin, ~/.hubrun/bin")
}

// startDaemonProcess starts the hub daemon on Unix/macOS.
// Uses Unix-specific process attributes for proper background execution.
func (c *Client) startDaemonProcess(ctx context.Context) error {
	daemonPath, err := findDaemonExecutable()
	if err != nil {
		return &ClientError{
			Type:    ErrTypeConnection,
			Message: "failed to find hub daemon executable",
			Cause:   err,
		}
	}

	cmd := exec.Command(daemonPath, "serve")

	// Pass environment variables to the child process so model cache paths
	// and proxy settings reach the daemon.
	cmd.Env = os.Environ()

	// Setpgid creates a new process group so the daemon survives the client
	// exiting and can be terminated independently.
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true,
	}

	// Don't capture output - let it run independently
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.Stdin = nil

	if err := cmd.Start(); err != nil {
		return &ClientError{
			Type:    ErrTypeConnection,
			Message: fmt.Sprintf("failed to start hub daemon (path: %s)", daemonPath),
			Cause:   err,
		}
	}

	// Release the process so it continues running after we exit
	if cmd.Process != nil {
		if err := cmd.Process.Release(); err != nil {
			// Non-fatal: process started but release failed
		}
	}

	// Wait for the daemon to become ready (poll for up to 10 seconds)
	deadline := time.Now().Add(10 * time.Second)
	startTime := time.Now()
	var lastErr error

	fmt.Fprintf(os.Stderr, "Starting hub daemon...\n")

	for time.Now().Before(deadline) {
		// Check if parent context was cancelled
		select {
		case <-ctx.Done():
			return &ClientError{
				Type:    ErrTypeConnection,
				Message: "hub daemon startup cancelled",
				Cause:   ctx.Err(),
			}
		default:
		}

		checkCtx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
		lastErr = c.CheckRunning(checkCtx)
		cancel()

		if lastErr == nil {
			elapsed := time.Since(startTime)
			fmt.Fprintf(os.Stderr, "Hub daemon started successfully (%.1fs)\n", elapsed.Seconds())
			return nil
		}

		elapsed := time.Since(startTime)
		fmt.Fprintf(os.Stderr, "\rStarting hub daemon... %.1fs elapsed", elapsed.Seconds())

		time.Sleep(500 * time.Millisecond)
	}

	fmt.Fprintf(os.Stderr, "\n")

	return &ClientError{
		Type:    ErrTypeConnection,
		Message: fmt.Sprintf("hub daemon started but not responding after 10 seconds (path: %s)", daemonPath),
		Cause:   lastErr,
	}
}
