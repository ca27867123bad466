// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

//go:build windows
// +build windows

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

// Windows-specific creation flags
const (
	// CREATE_NO_WINDOW prevents a console window from being created
	CREATE_NO_WINDOW = 0x08000000
	// DETACHED_PROCESS creates a new process that is detached from the console
	DETACHED_PROCESS = 0x00000008
)

// findDaemonExecutable searches for hubd.exe in common installation paths on
// Windows. Returns the full path to hubd.exe if found.
func findDaemonExecutable() (string, error) {
	// First, check if hubd is in PATH
	if path, err := exec.LookPath("hubd.exe"); err == nil {
		return path, nil
	}
	if path, err := exec.LookPath("hubd"); err == nil {
		return path, nil
	}

	possiblePaths := []string{}

	// User install location: %LOCALAPPDATA%\Programs\Hubrun\hubd.exe
	if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
		possiblePaths = append(possiblePaths, filepath.Join(localAppData, "Programs", "Hubrun", "hubd.exe"))
	}

	// System install locations
	possiblePaths = append(possiblePaths,
		`C:\Program Files\Hubrun\hubd.exe`,
		`C:\Program Files (x86)\Hubrun\hubd.exe`,
	)

	// User profile locations (alternative installs)
	if userProfile := os.Getenv("USERPROFILE"); userProfile != "" {
		possiblePaths = append(possiblePaths,
			filepath.Join(userProfile, ".hubrun", "bin", "hubd.exe"),
		)
	}

	for _, p := range possiblePaths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", fmt.Errorf("hubd.exe not found in PATH or common installation directories. " +
		"Please ensure the hub daemon is installed. Checked: PATH, %%LOCALAPPDATA%%\\Programs\\Hubrun, " +
		"C:\\Program Files\\Hubrun")
}

// startDaemonProcess starts the hub daemon on Windows.
// Uses Windows-specific process creation flags for proper background execution.
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

	// - CREATE_NEW_PROCESS_GROUP: allows independent termination
	// - CREATE_NO_WINDOW: prevents a console window from appearing
	// - DETACHED_PROCESS: detaches from the parent console
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP | CREATE_NO_WINDOW | DETACHED_PROCESS,
	}

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

	// Wait for the daemon to become ready. Windows cold starts are slower,
	// especially on first launch, so allow 15 seconds.
	deadline := time.Now().Add(15 * time.Second)
	startTime := time.Now()
	var lastErr error

	fmt.Fprintf(os.Stderr, "Starting hub daemon...\n")

	for time.Now().Before(deadline) {
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
		Message: fmt.Sprintf("hub daemon started but not responding after 15 seconds (path: %s)", daemonPath),
		Cause:   lastErr,
	}
}
