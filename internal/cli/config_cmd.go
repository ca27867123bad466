// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - the config command: show, get, set, path.
package cli

import (
	"fmt"

	"github.com/jeranaias/hubrun-tui/internal/config"
)

// HandleConfig manages the configuration file.
func HandleConfig(args Args) error {
	switch args.Subcommand {
	case "", "show":
		return configShow(args)
	case "get":
		return configGet(args)
	case "set":
		return configSet(args)
	case "path":
		return configPath(args)
	default:
		return reportError("config", args, fmt.Errorf("unknown config subcommand %q (use show|get|set|path)", args.Subcommand))
	}
}

func configShow(args Args) error {
	cfg, err := config.Load()
	if err != nil {
		return reportError("config", args, err)
	}

	if args.JSON {
		return NewJSONResponse("config", cfg).Print()
	}

	fmt.Println(TitleStyle.Render("hubrun configuration"))
	for _, key := range config.Keys() {
		value, err := cfg.Get(key)
		if err != nil {
			continue
		}
		fmt.Printf("  %s%s\n", RenderLabel(key, 24), ValueStyle.Render(value))
	}
	return nil
}

func configGet(args Args) error {
	if args.ConfigKey == "" {
		return reportError("config", args, fmt.Errorf("usage: hubrun config get <key>"))
	}

	cfg, err := config.Load()
	if err != nil {
		return reportError("config", args, err)
	}

	value, err := cfg.Get(args.ConfigKey)
	if err != nil {
		return reportError("config", args, err)
	}

	if args.JSON {
		return NewJSONResponse("config", map[string]string{args.ConfigKey: value}).Print()
	}
	fmt.Println(value)
	return nil
}

func configSet(args Args) error {
	if args.ConfigKey == "" || args.ConfigVal == "" {
		return reportError("config", args, fmt.Errorf("usage: hubrun config set <key> <value>"))
	}

	cfg, err := config.Load()
	if err != nil {
		return reportError("config", args, err)
	}

	if err := cfg.Set(args.ConfigKey, args.ConfigVal); err != nil {
		return reportError("config", args, err)
	}
	if err := config.Save(cfg); err != nil {
		return reportError("config", args, err)
	}

	if args.JSON {
		return NewJSONResponse("config", map[string]string{args.ConfigKey: args.ConfigVal}).Print()
	}
	if !args.Quiet {
		fmt.Println(SuccessStyle.Render("[OK]") + " " + args.ConfigKey + " = " + args.ConfigVal)
	}
	return nil
}

func configPath(args Args) error {
	path, err := config.ConfigPathTOML()
	if err != nil {
		return reportError("config", args, err)
	}
	if args.JSON {
		return NewJSONResponse("config", map[string]string{"path": path}).Print()
	}
	fmt.Println(path)
	return nil
}
