// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command dispatch for hubrun.
package cli

import (
	"fmt"
	"os"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdList
	CmdStart
	CmdPause
	CmdResume
	CmdCancel
	CmdDelete
	CmdStatus
	CmdHistory
	CmdFitness
	CmdConfig
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet   bool
	Verbose bool
	JSON    bool
	Confirm bool
	HubURL  string

	// Command-specific
	Target     string // download identifier or repository reference
	Quant      string // quantization filter for start/fitness
	ConfigKey  string
	ConfigVal  string
	Subcommand string

	// Raw args (remaining after flag parsing)
	Raw []string

	// Options holds command-specific named options (e.g., --limit)
	Options map[string]string
}

const usageText = `hubrun - terminal client for the local model hub daemon

Hubrun manages model downloads through hubd, the local model-hub
daemon. Without a command it opens the interactive TUI.

Usage:
  hubrun                       Start TUI (default)
  hubrun list, ls              List downloads grouped by status
  hubrun start <repo> [quant]  Download a model from the catalog
  hubrun pause <id>            Pause a download
  hubrun resume <id>           Resume a paused download
  hubrun cancel <id>           Cancel a download
  hubrun delete <id>           Delete a downloaded model
    --confirm                  Skip the interactive confirmation
  hubrun status, s             Show daemon status and summary
  hubrun history               Show completed and deleted downloads
    --limit N                  Show last N events (default: 50)
    --id ID                    Filter by download identifier
  hubrun fitness <repo|size>   Check if a model fits this machine
  hubrun config [show|get|set|path]
                               Configuration management
  hubrun version               Show version information

Global Flags:
  --hub URL       Override the daemon address
  --json          Machine-readable output
  -q, --quiet     Minimal output
  -v, --verbose   Debug output

Examples:
  hubrun start TheBloke/Llama-2-7B-GGUF q4_k_m
  hubrun start https://huggingface.co/org/model
  hubrun pause "TheBloke/Llama-2-7B-Q4_K_M"
  hubrun delete "TheBloke/Llama-2-7B-Q4_K_M" --confirm
  hubrun list --json
  hubrun history --limit 20
  hubrun fitness 13b
  hubrun config set poll.interval_ms 500

Version: %s
`

// PrintUsage prints the usage/help text.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("hubrun version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
}

// Parse parses command-line arguments and returns the command and args.
func Parse() (Command, Args) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses the given arguments. Split out from Parse for tests.
func ParseArgs(args []string) (Command, Args) {
	remaining, parsedArgs := parseGlobalFlags(args)

	// If no remaining args, default to TUI
	if len(remaining) == 0 {
		return CmdTUI, parsedArgs
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsedArgs.Raw = remaining

	switch cmd {
	case "tui":
		return CmdTUI, parsedArgs

	case "list", "ls", "l":
		return CmdList, parsedArgs

	case "start", "download", "dl":
		parseStartArgs(&parsedArgs, remaining)
		return CmdStart, parsedArgs

	case "pause":
		parseTargetArgs(&parsedArgs, remaining)
		return CmdPause, parsedArgs

	case "resume":
		parseTargetArgs(&parsedArgs, remaining)
		return CmdResume, parsedArgs

	case "cancel":
		parseTargetArgs(&parsedArgs, remaining)
		return CmdCancel, parsedArgs

	case "delete", "rm", "remove":
		parseTargetArgs(&parsedArgs, remaining)
		return CmdDelete, parsedArgs

	case "status", "s":
		return CmdStatus, parsedArgs

	case "history", "hist":
		parseHistoryArgs(&parsedArgs, remaining)
		return CmdHistory, parsedArgs

	case "fitness", "fit":
		parseStartArgs(&parsedArgs, remaining)
		return CmdFitness, parsedArgs

	case "config":
		parseConfigArgs(&parsedArgs, remaining)
		return CmdConfig, parsedArgs

	case "version", "-v", "--version":
		return CmdVersion, parsedArgs

	case "help", "-h", "--help":
		return CmdHelp, parsedArgs

	default:
		// Unknown command: show help rather than guessing.
		parsedArgs.Raw = append([]string{cmd}, remaining...)
		return CmdHelp, parsedArgs
	}
}

// parseGlobalFlags extracts global flags from args and returns remaining args.
func parseGlobalFlags(args []string) ([]string, Args) {
	var remaining []string
	parsedArgs := Args{
		Options: make(map[string]string),
	}

	i := 0
	for i < len(args) {
		arg := args[i]

		switch arg {
		case "-q", "--quiet":
			parsedArgs.Quiet = true
		case "-v", "--verbose":
			parsedArgs.Verbose = true
		case "--json":
			parsedArgs.JSON = true
		case "--confirm":
			parsedArgs.Confirm = true
		case "--hub":
			if i+1 < len(args) {
				i++
				parsedArgs.HubURL = args[i]
			}
		default:
			if strings.HasPrefix(arg, "--hub=") {
				parsedArgs.HubURL = strings.TrimPrefix(arg, "--hub=")
			} else {
				remaining = append(remaining, arg)
			}
		}
		i++
	}

	return remaining, parsedArgs
}

// parseTargetArgs captures the download identifier for single-target commands.
func parseTargetArgs(args *Args, remaining []string) {
	if len(remaining) > 0 {
		args.Target = remaining[0]
	}
}

// parseStartArgs captures the repository reference and optional quant label.
func parseStartArgs(args *Args, remaining []string) {
	positional := collectOptions(args, remaining)
	if len(positional) > 0 {
		args.Target = positional[0]
	}
	if len(positional) > 1 {
		args.Quant = positional[1]
	}
}

// parseHistoryArgs captures history filters.
func parseHistoryArgs(args *Args, remaining []string) {
	positional := collectOptions(args, remaining)
	if len(positional) > 0 {
		args.Target = positional[0]
	}
}

// parseConfigArgs captures the config subcommand and key/value.
func parseConfigArgs(args *Args, remaining []string) {
	positional := collectOptions(args, remaining)
	if len(positional) > 0 {
		args.Subcommand = strings.ToLower(positional[0])
	}
	if len(positional) > 1 {
		args.ConfigKey = positional[1]
	}
	if len(positional) > 2 {
		args.ConfigVal = strings.Join(positional[2:], " ")
	}
}

// collectOptions splits "--name value" pairs into args.Options and returns
// the positional arguments.
func collectOptions(args *Args, remaining []string) []string {
	var positional []string
	i := 0
	for i < len(remaining) {
		arg := remaining[i]
		if strings.HasPrefix(arg, "--") {
			name := strings.TrimPrefix(arg, "--")
			if eq := strings.Index(name, "="); eq >= 0 {
				args.Options[name[:eq]] = name[eq+1:]
			} else if i+1 < len(remaining) && !strings.HasPrefix(remaining[i+1], "--") {
				i++
				args.Options[name] = remaining[i]
			} else {
				args.Options[name] = "true"
			}
		} else {
			positional = append(positional, arg)
		}
		i++
	}
	return positional
}
