// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - Single query command handler for the gemchat CLI.
//
// `gemchat ask "question"` sends one turn to Gemini with the selected
// persona's instruction and streams the reply to stdout. Markdown is
// rendered through glamour when stdout is a terminal.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/miastudio/gemchat-tui/internal/config"
	"github.com/miastudio/gemchat-tui/internal/gemini"
	"github.com/miastudio/gemchat-tui/internal/model"
	"github.com/miastudio/gemchat-tui/internal/persona"
)

// MaxAttachmentSize is the largest inline attachment we will read (4MB,
// matching the API's inline payload ceiling).
const MaxAttachmentSize = 4 * 1024 * 1024

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// markdownRenderer is the glamour renderer for markdown output.
// USABILITY: Renders markdown responses with syntax highlighting.
var markdownRenderer *glamour.TermRenderer

func init() {
	var err error
	markdownRenderer, err = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		// Fall back to plain text when the renderer is unavailable.
		markdownRenderer = nil
	}
}

// renderMarkdown renders markdown content for terminal display. Without
// a renderer the raw text is word-wrapped to the terminal instead.
func renderMarkdown(content string) string {
	if markdownRenderer == nil {
		return WrapText(content, GetTerminalWidth())
	}
	rendered, err := markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// displayResponse prints a reply, rendering markdown only for TTYs so
// piped output stays clean.
func displayResponse(response string) {
	if IsStdoutTTY() {
		fmt.Print(renderMarkdown(response))
	} else {
		fmt.Println(response)
	}
}

// =============================================================================
// CLIENT SETUP
// =============================================================================

// NewClientFromConfig builds a Gemini client from config and environment.
func NewClientFromConfig(cfg *config.Config) *gemini.Client {
	keyName := config.EnvAPIKey
	if config.UsingLegacyKey() {
		keyName = config.EnvAPIKeyLegacy
	}

	client := gemini.NewClient(cfg.API.Key, keyName)
	if cfg.API.BaseURL != "" {
		client = client.WithBaseURL(cfg.API.BaseURL)
	}
	if cfg.API.MaxRetries > 0 {
		client = client.WithMaxRetries(cfg.API.MaxRetries)
	}
	return client
}

// resolveSelection applies CLI overrides on top of config defaults and
// returns the persona and model id to use.
func resolveSelection(args Args) (persona.Persona, string) {
	personaID := args.Persona
	if personaID == "" {
		personaID = persona.DefaultID
	}
	p := persona.Resolve(personaID)

	modelID := model.ResolveModelID(args.Model)
	return p, modelID
}

// LoadAttachment reads a file into an inline attachment.
func LoadAttachment(path string) (*model.Attachment, error) {
	if path == "" {
		return nil, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %s", path)
		}
		return nil, fmt.Errorf("cannot access file: %w", err)
	}
	if info.Size() > MaxAttachmentSize {
		return nil, fmt.Errorf("file too large: %d bytes (max %d)", info.Size(), MaxAttachmentSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return &model.Attachment{
		Data:     data,
		MimeType: detectMimeType(path),
		FileName: filepath.Base(path),
	}, nil
}

// detectMimeType guesses a MIME type from the file extension.
func detectMimeType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".mp3":
		return "audio/mpeg"
	case ".wav":
		return "audio/wav"
	case ".ogg":
		return "audio/ogg"
	default:
		return "application/octet-stream"
	}
}

// =============================================================================
// ASK COMMAND
// =============================================================================

// HandleAsk handles the ask command: one question, one streamed reply.
func HandleAsk(args Args) {
	if strings.TrimSpace(args.Query) == "" {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: no question given."))
		fmt.Fprintln(os.Stderr, DimStyle.Render(`Usage: gemchat ask "your question"`))
		os.Exit(1)
	}

	cfg := config.Global()
	client := NewClientFromConfig(cfg)
	if !client.IsConfigured() {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: Gemini API key not configured."))
		fmt.Fprintln(os.Stderr, DimStyle.Render("Set GEMCHAT_API_KEY and try again."))
		os.Exit(1)
	}

	p, modelID := resolveSelection(args)
	instruction := persona.EffectiveInstruction(p.ID, nil)

	image, err := LoadAttachment(args.ImagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", ErrorStyle.Render("Error:"), err)
		os.Exit(1)
	}
	audio, err := LoadAttachment(args.AudioPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", ErrorStyle.Render("Error:"), err)
		os.Exit(1)
	}

	turn, ok := gemini.BuildTurn(args.Query, image, audio)
	if !ok {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: cannot send an empty message."))
		os.Exit(1)
	}

	if !args.Quiet {
		fmt.Fprintln(os.Stderr, DimStyle.Render(p.Glyph+" "+p.Name+" · "+modelID))
	}

	ctx, cancel := context.WithTimeout(context.Background(), RequestTimeout(cfg))
	defer cancel()

	start := time.Now()
	reply, err := client.Generate(ctx, modelID, instruction, []gemini.Content{turn})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", ErrorStyle.Render("Error:"), err)
		os.Exit(1)
	}

	displayResponse(reply)

	if args.Verbose {
		fmt.Fprintln(os.Stderr, DimStyle.Render(fmt.Sprintf("(%.1fs)", time.Since(start).Seconds())))
	}
}

// RequestTimeout returns the per-request timeout from config.
func RequestTimeout(cfg *config.Config) time.Duration {
	if cfg.API.TimeoutSecs > 0 {
		return time.Duration(cfg.API.TimeoutSecs) * time.Second
	}
	return 2 * time.Minute
}
