// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package detect inspects the local machine before large model downloads.
//
// A download that completes but cannot fit in memory, or fills the disk on
// the way down, wastes hours of bandwidth. Check gathers the numbers once;
// callers decide how strict to be with them.
package detect

import (
	"fmt"

	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

// Fitness is a snapshot of the resources that bound a model download.
type Fitness struct {
	// TotalRAM and AvailableRAM are physical memory in bytes.
	TotalRAM     uint64
	AvailableRAM uint64

	// FreeDisk is free space in bytes on the volume holding Path.
	FreeDisk uint64
	Path     string
}

// diskMargin keeps slack below truly full. Filling a volume to the last
// byte breaks the daemon's own bookkeeping writes.
const diskMargin = 1 << 30 // 1 GiB

// Check gathers a fitness snapshot for the volume holding path.
func Check(path string) (*Fitness, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return nil, fmt.Errorf("reading memory stats: %w", err)
	}

	du, err := disk.Usage(path)
	if err != nil {
		return nil, fmt.Errorf("reading disk usage for %s: %w", path, err)
	}

	return &Fitness{
		TotalRAM:     vm.Total,
		AvailableRAM: vm.Available,
		FreeDisk:     du.Free,
		Path:         path,
	}, nil
}

// CanHold reports whether size bytes fit on disk with margin to spare.
func (f *Fitness) CanHold(size int64) bool {
	if size < 0 {
		return false
	}
	return uint64(size)+diskMargin <= f.FreeDisk
}

// CanLoad reports whether a model of size bytes could plausibly be loaded
// at runtime. Inference needs headroom beyond the raw weights, so a model
// larger than 90% of total RAM is ruled out.
func (f *Fitness) CanLoad(size int64) bool {
	if size < 0 {
		return false
	}
	budget := f.TotalRAM - f.TotalRAM/10
	return uint64(size) <= budget
}

// Describe renders the snapshot for human eyes.
func (f *Fitness) Describe() string {
	return fmt.Sprintf("RAM %.1f GiB total, %.1f GiB available; disk %.1f GiB free at %s",
		gib(f.TotalRAM), gib(f.AvailableRAM), gib(f.FreeDisk), f.Path)
}

func gib(b uint64) float64 {
	return float64(b) / (1 << 30)
}
