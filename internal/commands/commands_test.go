// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"reflect"
	"strings"
	"testing"
)

// =============================================================================
// PARSER TESTS
// =============================================================================

func TestParse_PlainTextBecomesSendMessage(t *testing.T) {
	parser := NewParser(NewRegistry())

	result := parser.Parse("  hello there  ")
	if result.IsCommand {
		t.Error("plain text should not be a command")
	}
	action, ok := result.Action.(SendMessage)
	if !ok {
		t.Fatalf("action = %T, want SendMessage", result.Action)
	}
	if action.Text != "hello there" {
		t.Errorf("text = %q", action.Text)
	}
}

func TestParse_Actions(t *testing.T) {
	parser := NewParser(NewRegistry())

	tests := []struct {
		input string
		want  Action
	}{
		{"/clear", ClearChat{}},
		{"/c", ClearChat{}},
		{"/quit", Quit{}},
		{"/persona miette", ChangePersona{PersonaID: "miette"}},
		{"/persona MIETTE", ChangePersona{PersonaID: "miette"}},
		{"/persona", ListPersonas{}},
		{"/personas", ListPersonas{}},
		{"/model flash", ChangeModel{ModelID: "flash"}},
		{"/model", ChangeModel{}},
		{"/models", ListModels{}},
		{"/save", SaveLocal{}},
		{"/load", LoadLocal{}},
		{"/cloud list", CloudList{}},
		{"/cloud save monday", CloudSave{SlotID: "monday"}},
		{"/cloud load monday", CloudLoad{SlotID: "monday"}},
		{"/cloud delete monday", CloudDelete{SlotID: "monday"}},
		{"/speak", SpeakLast{}},
		{"/autoplay", ToggleAutoPlay{}},
		{"/view docs", SetView{View: "docs"}},
		{"/help", ShowHelp{}},
		{"/help cloud", ShowHelp{Topic: "cloud"}},
		{"/instructions be very terse", SetInstruction{Instruction: "be very terse"}},
		{"/instructions", SetInstruction{}},
		{"/instructions miette be very terse", SetInstruction{PersonaID: "miette", Instruction: "be very terse"}},
		{"/instructions Miette answer in rhyme", SetInstruction{PersonaID: "miette", Instruction: "answer in rhyme"}},
		{"/instructions miette", SetInstruction{PersonaID: "miette"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := parser.Parse(tt.input)
			if result.Error != nil {
				t.Fatalf("Parse(%q): %v", tt.input, result.Error)
			}
			if !reflect.DeepEqual(result.Action, tt.want) {
				t.Errorf("action = %#v, want %#v", result.Action, tt.want)
			}
		})
	}
}

func TestParse_AttachmentCommands(t *testing.T) {
	parser := NewParser(NewRegistry())

	result := parser.Parse(`/image "my photo.png" what is this`)
	if result.Error != nil {
		t.Fatalf("Parse: %v", result.Error)
	}
	action, ok := result.Action.(SendMessage)
	if !ok {
		t.Fatalf("action = %T", result.Action)
	}
	if action.ImagePath != "my photo.png" {
		t.Errorf("image path = %q", action.ImagePath)
	}
	if action.Text != "what is this" {
		t.Errorf("text = %q", action.Text)
	}

	result = parser.Parse("/audio clip.wav")
	action = result.Action.(SendMessage)
	if action.AudioPath != "clip.wav" || action.Text != "" {
		t.Errorf("audio action = %#v", action)
	}
}

func TestParse_Errors(t *testing.T) {
	parser := NewParser(NewRegistry())

	tests := []struct {
		input      string
		wantSubstr string
	}{
		{"/bogus", "unknown command"},
		{"/view", "required argument missing"},
		{"/view sideways", "invalid value"},
		{"/cloud", "required argument missing"},
		{"/cloud save", "required argument missing"},
		{"/cloud frobnicate x", "invalid value"},
		{"/image", "required argument missing"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := parser.Parse(tt.input)
			if result.Error == nil {
				t.Fatalf("Parse(%q) should fail, got %#v", tt.input, result.Action)
			}
			if !strings.Contains(result.Error.Error(), tt.wantSubstr) {
				t.Errorf("error %q missing %q", result.Error, tt.wantSubstr)
			}
			if result.Action != nil {
				t.Errorf("failed parse should carry no action")
			}
		})
	}
}

func TestSplitCommandLine_Quotes(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{`/cloud save "my slot"`, []string{"/cloud", "save", "my slot"}},
		{`/image 'a b.png' hi`, []string{"/image", "a b.png", "hi"}},
		{`plain words here`, []string{"plain", "words", "here"}},
		{`"escaped \" quote"`, []string{`escaped " quote`}},
	}

	for _, tt := range tests {
		if got := splitCommandLine(tt.input); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitCommandLine(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestHelperFunctions(t *testing.T) {
	if !IsCommand("  /help") || IsCommand("help") {
		t.Error("IsCommand misclassified input")
	}
	if got := ExtractCommandName("/model flash"); got != "/model" {
		t.Errorf("ExtractCommandName = %q", got)
	}
	if got := GetPartialCommand("/mo"); got != "/mo" {
		t.Errorf("GetPartialCommand = %q", got)
	}
	if got := GetPartialCommand("/model "); got != "" {
		t.Errorf("GetPartialCommand after space = %q", got)
	}
}

// =============================================================================
// REGISTRY TESTS
// =============================================================================

func TestRegistry_AliasesResolve(t *testing.T) {
	r := NewRegistry()

	for alias, name := range map[string]string{
		"/h":    "/help",
		"/q":    "/quit",
		"/c":    "/clear",
		"/p":    "/persona",
		"/m":    "/model",
		"/docs": "/view",
	} {
		cmd := r.Get(alias)
		if cmd == nil {
			t.Errorf("alias %s not registered", alias)
			continue
		}
		if cmd.Name != name {
			t.Errorf("alias %s resolves to %s, want %s", alias, cmd.Name, name)
		}
	}
}

func TestRegistry_ByCategory(t *testing.T) {
	groups := NewRegistry().ByCategory()

	for _, category := range []string{"Navigation", "Conversation", "Persona", "Model", "Speech"} {
		if len(groups[category]) == 0 {
			t.Errorf("category %s is empty", category)
		}
	}
}

// =============================================================================
// COMPLETION TESTS
// =============================================================================

func TestCompleter_CommandNames(t *testing.T) {
	c := NewCompleter(NewRegistry())

	completions := c.Complete("/mo", 3)
	if len(completions) == 0 {
		t.Fatal("expected completions for /mo")
	}
	if completions[0].Value != "/model" && completions[0].Value != "/models" {
		t.Errorf("top completion = %q", completions[0].Value)
	}
}

func TestCompleter_PersonaArg(t *testing.T) {
	c := NewCompleter(NewRegistry())

	completions := c.Complete("/persona mi", 11)
	values := make([]string, 0, len(completions))
	for _, comp := range completions {
		values = append(values, comp.Value)
	}
	if !reflect.DeepEqual(values, []string{"mia", "miette"}) {
		t.Errorf("values = %v", values)
	}
}

func TestCompleter_EnumArg(t *testing.T) {
	c := NewCompleter(NewRegistry())

	completions := c.Complete("/cloud ", 7)
	if len(completions) != 4 {
		t.Fatalf("got %d completions, want 4 cloud ops", len(completions))
	}
}

func TestCompleter_SlotArg(t *testing.T) {
	c := NewCompleter(NewRegistry())
	c.SlotsFn = func() []string { return []string{"monday", "mar-notes"} }

	completions := c.Complete("/cloud load m", 13)
	if len(completions) != 2 {
		t.Fatalf("got %d completions, want 2", len(completions))
	}

	// Without the callback slot completion is off.
	c.SlotsFn = nil
	if got := c.Complete("/cloud load m", 13); got != nil {
		t.Errorf("expected nil completions, got %v", got)
	}
}

func TestCompletionState_Navigation(t *testing.T) {
	cs := NewCompletionState()
	cs.Update("/mo", []Completion{{Value: "/model"}, {Value: "/models"}})

	if !cs.Visible || cs.Accept() != "/model" {
		t.Errorf("first candidate should be auto-selected, got %q", cs.Accept())
	}
	cs.Next()
	if cs.Accept() != "/models" {
		t.Errorf("Next should advance, got %q", cs.Accept())
	}
	cs.Next()
	if cs.Accept() != "/model" {
		t.Errorf("Next should wrap, got %q", cs.Accept())
	}
	cs.Prev()
	if cs.Accept() != "/models" {
		t.Errorf("Prev should wrap back, got %q", cs.Accept())
	}

	cs.Clear()
	if cs.Visible || cs.Accept() != "" {
		t.Error("Clear should reset the state")
	}
}
