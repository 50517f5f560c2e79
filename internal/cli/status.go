// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - Status command implementation for gemchat.
//
// Command: status
// Short:   Show credential, storage, and terminal status
//
// Examples:
//   gemchat status          Full status report
//   gemchat status -q       Exit code only (0 = key configured)
package cli

import (
	"fmt"
	"os"

	"github.com/miastudio/gemchat-tui/internal/config"
	"github.com/miastudio/gemchat-tui/internal/model"
	"github.com/miastudio/gemchat-tui/internal/persona"
	"github.com/miastudio/gemchat-tui/internal/speech"
)

// HandleStatus handles the "status" command.
func HandleStatus(args Args) error {
	cfg := config.Global()
	keyConfigured := cfg.API.Key != ""

	// Quiet mode: exit code only
	if args.Quiet {
		if !keyConfigured {
			os.Exit(1)
		}
		return nil
	}

	fmt.Println()
	fmt.Println(TitleStyle.Render("gemchat Status"))
	fmt.Println(RenderSeparatorAdaptive())
	fmt.Println()

	// Credential
	fmt.Println(SectionStyle.Render("Credential"))
	if keyConfigured {
		source := "config file"
		if os.Getenv(config.EnvAPIKey) != "" {
			source = config.EnvAPIKey
		} else if config.UsingLegacyKey() {
			source = config.EnvAPIKeyLegacy + " (legacy)"
		}
		fmt.Printf("  %s %s\n", RenderStatus("ok"), ValueStyle.Render("API key set via "+source))
		if config.UsingLegacyKey() {
			fmt.Printf("  %s %s\n", RenderStatus("warn"),
				DimStyle.Render("Prefer "+config.EnvAPIKey+" over the legacy variable"))
		}
	} else {
		fmt.Printf("  %s %s\n", RenderStatus("fail"), ErrorStyle.Render("No API key configured"))
		fmt.Printf("       %s\n", DimStyle.Render("Set "+config.EnvAPIKey+" to enable sending"))
	}
	fmt.Println()

	// Defaults
	fmt.Println(SectionStyle.Render("Defaults"))
	fmt.Printf("  %s%s\n", RenderLabel("Model:"), ValueStyle.Render(model.DefaultModelID))
	fmt.Printf("  %s%s\n", RenderLabel("Persona:"), ValueStyle.Render(persona.Resolve(persona.DefaultID).Name))
	fmt.Printf("  %s%s\n", RenderLabel("Base URL:"), ValueStyle.Render(cfg.API.BaseURL))
	fmt.Println()

	// Storage
	fmt.Println(SectionStyle.Render("Storage"))
	fmt.Printf("  %s%s\n", RenderLabel("Config file:"), ValueStyle.Render(ConfigPath()))
	if dataDir, err := cfg.DataDir(); err == nil {
		fmt.Printf("  %s%s\n", RenderLabel("Data dir:"), ValueStyle.Render(dataDir))
	}
	if dbPath, err := cfg.CloudDBPath(); err == nil {
		fmt.Printf("  %s%s\n", RenderLabel("Cloud DB:"), ValueStyle.Render(dbPath))
	}
	fmt.Println()

	// Speech
	fmt.Println(SectionStyle.Render("Speech"))
	if !cfg.Speech.Enabled {
		fmt.Printf("  %s %s\n", RenderStatus("off"), DimStyle.Render("Disabled in config"))
	} else {
		command := cfg.Speech.Command
		if command == "" {
			command = speech.DefaultCommand()
		}
		if speech.CommandAvailable(command) {
			fmt.Printf("  %s %s\n", RenderStatus("ok"), ValueStyle.Render(command))
		} else {
			fmt.Printf("  %s %s\n", RenderStatus("warn"),
				WarningStyle.Render(command+" not found on PATH"))
		}
	}
	fmt.Println()

	// Terminal
	fmt.Println(SectionStyle.Render("Terminal"))
	caps := GetTerminalCapabilities()
	fmt.Printf("  %s%s\n", RenderLabel("TTY:"), ValueStyle.Render(boolString(caps.IsTTY)))
	fmt.Printf("  %s%s\n", RenderLabel("Colors:"), ValueStyle.Render(boolString(caps.ColorsEnabled)))
	fmt.Printf("  %s%dx%d\n", RenderLabel("Size:"), caps.Width, caps.Height)
	fmt.Println()

	return nil
}
