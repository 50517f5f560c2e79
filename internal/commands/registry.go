// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the slash command system for the chat TUI.
package commands

import (
	"strings"

	"github.com/miastudio/gemchat-tui/internal/model"
	"github.com/miastudio/gemchat-tui/internal/persona"
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// Command represents a slash command.
type Command struct {
	// Name is the primary command name (e.g., "/help")
	Name string

	// Aliases are alternative names (e.g., "/h", "/?")
	Aliases []string

	// Description is shown in help and completion
	Description string

	// Usage shows argument syntax (e.g., "/model <name>")
	Usage string

	// Args defines the expected arguments
	Args []ArgDef

	// Build turns validated arguments into the command's action.
	// rawArgs is the unparsed argument text for free-form trailing input.
	Build func(args []string, rawArgs string) (Action, error)

	// Hidden commands don't appear in help
	Hidden bool

	// Category for grouping in help display
	Category string
}

// ArgDef defines an argument for a command.
type ArgDef struct {
	// Name of the argument
	Name string

	// Required indicates if the argument must be provided
	Required bool

	// Type determines completion behavior
	Type ArgType

	// Description explains the argument
	Description string

	// Values for enum types
	Values []string
}

// ArgType indicates what kind of completion to provide.
type ArgType int

const (
	ArgTypeString  ArgType = iota // Free-form string
	ArgTypePersona                // Persona ID from the catalog
	ArgTypeModel                  // Model short name from the registry
	ArgTypeSlot                   // Cloud slot ID
	ArgTypeFile                   // File path
	ArgTypeEnum                   // One of predefined values
)

// =============================================================================
// COMMAND REGISTRY
// =============================================================================

// Registry holds all registered commands.
type Registry struct {
	commands map[string]*Command
	aliases  map[string]*Command
}

// NewRegistry creates a registry with all built-in commands.
func NewRegistry() *Registry {
	r := &Registry{
		commands: make(map[string]*Command),
		aliases:  make(map[string]*Command),
	}
	r.registerBuiltins()
	return r
}

// Register adds a command to the registry.
func (r *Registry) Register(cmd *Command) {
	r.commands[cmd.Name] = cmd
	for _, alias := range cmd.Aliases {
		r.aliases[alias] = cmd
	}
}

// Get retrieves a command by name or alias.
func (r *Registry) Get(name string) *Command {
	if cmd, ok := r.commands[name]; ok {
		return cmd
	}
	if cmd, ok := r.aliases[name]; ok {
		return cmd
	}
	return nil
}

// All returns all registered commands.
func (r *Registry) All() []*Command {
	cmds := make([]*Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		cmds = append(cmds, cmd)
	}
	return cmds
}

// ByCategory returns visible commands grouped by category.
func (r *Registry) ByCategory() map[string][]*Command {
	result := make(map[string][]*Command)
	for _, cmd := range r.commands {
		if cmd.Hidden {
			continue
		}
		category := cmd.Category
		if category == "" {
			category = "General"
		}
		result[category] = append(result[category], cmd)
	}
	return result
}

// personaIDs returns the catalog IDs for enum-style completion.
func personaIDs() []string {
	ids := make([]string, 0, len(persona.All))
	for _, p := range persona.All {
		ids = append(ids, p.ID)
	}
	return ids
}

// =============================================================================
// BUILT-IN COMMANDS
// =============================================================================

func (r *Registry) registerBuiltins() {
	// Navigation
	r.Register(&Command{
		Name:        "/help",
		Aliases:     []string{"/h", "/?"},
		Description: "Show help and available commands",
		Usage:       "/help [topic]",
		Args: []ArgDef{
			{Name: "topic", Type: ArgTypeString, Description: "Command or category to describe"},
		},
		Category: "Navigation",
		Build: func(args []string, _ string) (Action, error) {
			topic := ""
			if len(args) > 0 {
				topic = args[0]
			}
			return ShowHelp{Topic: topic}, nil
		},
	})

	r.Register(&Command{
		Name:        "/quit",
		Aliases:     []string{"/q", "/exit"},
		Description: "Exit gemchat",
		Category:    "Navigation",
		Build: func([]string, string) (Action, error) {
			return Quit{}, nil
		},
	})

	r.Register(&Command{
		Name:        "/view",
		Aliases:     []string{"/docs", "/dashboard"},
		Description: "Switch the visible view",
		Usage:       "/view <chat|docs|dashboard>",
		Args: []ArgDef{
			{Name: "view", Required: true, Type: ArgTypeEnum,
				Values: []string{"chat", "docs", "dashboard"}, Description: "View name"},
		},
		Category: "Navigation",
		Build: func(args []string, _ string) (Action, error) {
			return SetView{View: strings.ToLower(args[0])}, nil
		},
	})

	// Conversation
	r.Register(&Command{
		Name:        "/clear",
		Aliases:     []string{"/c"},
		Description: "Clear the conversation",
		Category:    "Conversation",
		Build: func([]string, string) (Action, error) {
			return ClearChat{}, nil
		},
	})

	r.Register(&Command{
		Name:        "/save",
		Aliases:     []string{"/s"},
		Description: "Save the session to local storage",
		Category:    "Conversation",
		Build: func([]string, string) (Action, error) {
			return SaveLocal{}, nil
		},
	})

	r.Register(&Command{
		Name:        "/load",
		Aliases:     []string{"/l"},
		Description: "Restore the session from local storage",
		Category:    "Conversation",
		Build: func([]string, string) (Action, error) {
			return LoadLocal{}, nil
		},
	})

	r.Register(&Command{
		Name:        "/cloud",
		Description: "Manage cloud session slots",
		Usage:       "/cloud <save|load|delete|list> [slot]",
		Args: []ArgDef{
			{Name: "op", Required: true, Type: ArgTypeEnum,
				Values: []string{"save", "load", "delete", "list"}, Description: "Slot operation"},
			{Name: "slot", Type: ArgTypeSlot, Description: "Slot ID"},
		},
		Category: "Conversation",
		Build:    buildCloudAction,
	})

	r.Register(&Command{
		Name:        "/image",
		Description: "Send a message with an image attachment",
		Usage:       "/image <path> [message]",
		Args: []ArgDef{
			{Name: "path", Required: true, Type: ArgTypeFile, Description: "Image file path"},
			{Name: "message", Type: ArgTypeString, Description: "Message text"},
		},
		Category: "Conversation",
		Build: func(args []string, _ string) (Action, error) {
			return SendMessage{
				Text:      strings.Join(args[1:], " "),
				ImagePath: args[0],
			}, nil
		},
	})

	r.Register(&Command{
		Name:        "/audio",
		Description: "Send a message with an audio attachment",
		Usage:       "/audio <path> [message]",
		Args: []ArgDef{
			{Name: "path", Required: true, Type: ArgTypeFile, Description: "Audio file path"},
			{Name: "message", Type: ArgTypeString, Description: "Message text"},
		},
		Category: "Conversation",
		Build: func(args []string, _ string) (Action, error) {
			return SendMessage{
				Text:      strings.Join(args[1:], " "),
				AudioPath: args[0],
			}, nil
		},
	})

	// Persona
	r.Register(&Command{
		Name:        "/persona",
		Aliases:     []string{"/p"},
		Description: "Switch persona or list the catalog",
		Usage:       "/persona [id]",
		Args: []ArgDef{
			{Name: "id", Type: ArgTypePersona, Description: "Persona ID"},
		},
		Category: "Persona",
		Build: func(args []string, _ string) (Action, error) {
			if len(args) == 0 {
				return ListPersonas{}, nil
			}
			return ChangePersona{PersonaID: strings.ToLower(args[0])}, nil
		},
	})

	r.Register(&Command{
		Name:        "/personas",
		Description: "List available personas",
		Category:    "Persona",
		Build: func([]string, string) (Action, error) {
			return ListPersonas{}, nil
		},
	})

	r.Register(&Command{
		Name:        "/instructions",
		Aliases:     []string{"/i"},
		Description: "Override a persona's instruction",
		Usage:       "/instructions [persona] [text]",
		Args: []ArgDef{
			{Name: "persona", Type: ArgTypePersona, Description: "Persona ID (defaults to the active one)"},
			{Name: "text", Type: ArgTypeString, Description: "Instruction text (empty restores the default)"},
		},
		Category: "Persona",
		Build: func(args []string, rawArgs string) (Action, error) {
			// A leading persona ID targets that persona; anything else is
			// instruction text for the active one.
			if len(args) > 0 && persona.IsKnown(strings.ToLower(args[0])) {
				rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(rawArgs), args[0]))
				return SetInstruction{PersonaID: strings.ToLower(args[0]), Instruction: rest}, nil
			}
			return SetInstruction{Instruction: rawArgs}, nil
		},
	})

	// Model
	r.Register(&Command{
		Name:        "/model",
		Aliases:     []string{"/m"},
		Description: "Switch or show the current model",
		Usage:       "/model [name]",
		Args: []ArgDef{
			{Name: "name", Type: ArgTypeModel, Description: "Model to switch to"},
		},
		Category: "Model",
		Build: func(args []string, _ string) (Action, error) {
			name := ""
			if len(args) > 0 {
				name = args[0]
			}
			return ChangeModel{ModelID: name}, nil
		},
	})

	r.Register(&Command{
		Name:        "/models",
		Description: "List available models",
		Category:    "Model",
		Build: func([]string, string) (Action, error) {
			return ListModels{}, nil
		},
	})

	// Speech
	r.Register(&Command{
		Name:        "/speak",
		Description: "Play the last AI reply aloud",
		Category:    "Speech",
		Build: func([]string, string) (Action, error) {
			return SpeakLast{}, nil
		},
	})

	r.Register(&Command{
		Name:        "/autoplay",
		Description: "Toggle automatic playback of replies",
		Category:    "Speech",
		Build: func([]string, string) (Action, error) {
			return ToggleAutoPlay{}, nil
		},
	})
}

// buildCloudAction dispatches the /cloud subcommands. The slot argument
// is required for everything except list.
func buildCloudAction(args []string, _ string) (Action, error) {
	op := strings.ToLower(args[0])
	slot := ""
	if len(args) > 1 {
		slot = args[1]
	}

	switch op {
	case "list":
		return CloudList{}, nil
	case "save", "load", "delete":
		if strings.TrimSpace(slot) == "" {
			return nil, &ValidationError{
				Command:  "/cloud",
				Arg:      "slot",
				Message:  "required argument missing",
				Expected: "a slot ID, e.g. /cloud " + op + " monday",
			}
		}
		switch op {
		case "save":
			return CloudSave{SlotID: slot}, nil
		case "load":
			return CloudLoad{SlotID: slot}, nil
		default:
			return CloudDelete{SlotID: slot}, nil
		}
	}
	// Unreachable: op is enum-validated before Build runs.
	return nil, &ValidationError{Command: "/cloud", Arg: "op", Message: "invalid value", Got: op}
}

// modelShortNames exposes the registry's short names for completion.
func modelShortNames() []string {
	return model.ModelShortNames()
}
