// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive chat command handler for the gemchat CLI.
//
// CLI: Lightweight REPL alternative to the full TUI
// USABILITY: Markdown rendering and input history for better CLI experience
//
// Handles the "gemchat chat" command which provides an interactive REPL
// for conversing with Gemini without the alt-screen TUI.
//
// Command: chat
// Short:   Start an interactive chat session
//
// Examples:
//   gemchat chat                        Start interactive chat (default persona)
//   gemchat chat --persona miette       Use a specific persona
//   gemchat chat --model gemini-2.5-pro Use a specific model
//
// Flags:
//   -m, --model NAME      Use specific model (overrides default)
//   -p, --persona NAME    Use specific persona
//   -v, --verbose         Verbose output
//   -q, --quiet           Minimal output
//
// Interactive Commands (during chat):
//   /help, /h           Show available commands
//   /clear, /c          Clear conversation history
//   /persona [name]     Show or switch persona
//   /model [name]       Show or switch model
//   /status, /s         Show session statistics
//   /history            Show conversation history
//   /quit, /q           Exit chat
//   Ctrl+C              Cancel current generation
//   Ctrl+D              Exit chat
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"

	"github.com/miastudio/gemchat-tui/internal/config"
	"github.com/miastudio/gemchat-tui/internal/gemini"
	"github.com/miastudio/gemchat-tui/internal/model"
	"github.com/miastudio/gemchat-tui/internal/persona"
	"github.com/miastudio/gemchat-tui/internal/ui/styles"
)

// =============================================================================
// STYLES
// =============================================================================

var (
	// Prompt style
	promptStyle = lipgloss.NewStyle().
			Foreground(styles.Cyan).
			Bold(true)

	// Welcome banner style
	welcomeStyle = lipgloss.NewStyle().
			Foreground(styles.Purple).
			Bold(true)

	// Info style
	infoStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary)

	// Command style
	commandStyle = lipgloss.NewStyle().
			Foreground(styles.Emerald)

	// Warning style
	warningStyle = lipgloss.NewStyle().
			Foreground(styles.Amber)

	// Session summary header
	summaryHeaderStyle = lipgloss.NewStyle().
				Foreground(styles.Cyan).
				Bold(true)
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// ChatCLI provides input history and line editing for interactive chat.
// USABILITY: Supports arrow keys for history navigation and line editing.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a new ChatCLI with input history support.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	// Get history file path in config directory
	configDir, err := config.ConfigDir()
	if err != nil {
		// Fallback to temp directory if config dir unavailable
		configDir = os.TempDir()
	}
	historyFile := filepath.Join(configDir, "chat_history")

	cli := &ChatCLI{
		line:        line,
		historyFile: historyFile,
	}

	// Load existing history
	cli.LoadHistory()

	return cli
}

// LoadHistory loads command history from file.
func (c *ChatCLI) LoadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads a line of input with the given prompt.
// Supports history navigation with arrow keys.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}

	// Add non-empty input to history
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}

	return input, nil
}

// SaveHistory persists command history to file with secure permissions.
func (c *ChatCLI) SaveHistory() {
	// Ensure config directory exists
	if err := config.EnsureConfigDir(); err != nil {
		return
	}

	// Create file with secure permissions (0600 - owner read/write only)
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()

	c.line.WriteHistory(f)
}

// Close saves history and closes the liner.
func (c *ChatCLI) Close() {
	c.SaveHistory()
	c.line.Close()
}

// =============================================================================
// SESSION STATE
// =============================================================================

// ChatSession holds the state for an interactive chat session.
type ChatSession struct {
	// Conversation history (persona and model changes replay this)
	Messages []*model.Message

	// Configuration
	Config  *config.Config
	Persona persona.Persona
	ModelID string
	Quiet   bool
	Verbose bool

	// Tracking
	StartTime  time.Time
	Exchanges  int
	TotalChars int

	// Gemini plumbing
	Client      *gemini.Client
	Context     *gemini.ContextManager
	Coordinator *gemini.Coordinator

	// Cancel function for current stream
	CancelFunc context.CancelFunc

	// Input history handler
	// USABILITY: Provides readline-like input with history
	InputCLI *ChatCLI
}

// NewChatSession creates a new chat session.
func NewChatSession(args Args) *ChatSession {
	cfg := config.Global()
	client := NewClientFromConfig(cfg)

	p, modelID := resolveSelection(args)
	instruction := persona.EffectiveInstruction(p.ID, nil)

	cm := gemini.NewContextManager(client, modelID, instruction)

	return &ChatSession{
		Messages:    make([]*model.Message, 0),
		Config:      cfg,
		Persona:     p,
		ModelID:     modelID,
		Quiet:       args.Quiet,
		Verbose:     args.Verbose,
		StartTime:   time.Now(),
		Client:      client,
		Context:     cm,
		Coordinator: gemini.NewCoordinator(client, cm),
		InputCLI:    NewChatCLI(),
	}
}

// =============================================================================
// CHAT HANDLER
// =============================================================================

// HandleChat handles the "chat" command with full interactive support.
func HandleChat(args Args) error {
	session := NewChatSession(args)

	if !session.Client.IsConfigured() {
		return fmt.Errorf("Gemini API key not configured. Set %s and try again", config.EnvAPIKey)
	}

	// Show welcome message
	if !session.Quiet {
		printWelcome(session)
	}

	// Ensure input history is saved on exit
	// USABILITY: Save history for future sessions
	defer session.InputCLI.Close()

	// Set up signal handling for graceful Ctrl+C
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Handle signals in a goroutine
	go func() {
		for sig := range sigChan {
			if sig == os.Interrupt || sig == syscall.SIGTERM {
				// First Ctrl+C cancels current operation
				if session.CancelFunc != nil {
					session.CancelFunc()
					session.CancelFunc = nil
					fmt.Fprintln(os.Stderr, "\n"+warningStyle.Render("[Cancelled]"))
				}
			}
		}
	}()

	// Main REPL loop using liner for input history
	// USABILITY: Provides readline-like line editing and history navigation
	for {
		// Read input with history support
		input, err := session.InputCLI.ReadInput(promptStyle.Render("gemchat> "))
		if err != nil {
			if err == liner.ErrPromptAborted {
				// Ctrl+C pressed - exit gracefully
				fmt.Println()
				printExitSummary(session)
				return nil
			}
			// EOF (Ctrl+D) or other error - exit gracefully
			fmt.Println()
			printExitSummary(session)
			return nil
		}

		input = strings.TrimSpace(input)

		// Skip empty input
		if input == "" {
			continue
		}

		// Handle slash commands
		if strings.HasPrefix(input, "/") {
			shouldContinue, err := handleSlashCommand(input, session)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s %v\n",
					ErrorStyle.Render("[Error]"),
					err)
			}
			if !shouldContinue {
				printExitSummary(session)
				return nil
			}
			continue
		}

		// Handle exit/quit without slash
		if strings.EqualFold(input, "exit") || strings.EqualFold(input, "quit") {
			printExitSummary(session)
			return nil
		}

		// Process the message
		if err := processMessage(session, input); err != nil {
			fmt.Fprintf(os.Stderr, "%s %v\n",
				ErrorStyle.Render("[Error]"),
				err)
		}
	}
}

// =============================================================================
// MESSAGE PROCESSING
// =============================================================================

// processMessage sends a message through the coordinator and streams the
// response.
func processMessage(session *ChatSession, input string) error {
	// Create cancellable context
	ctx, cancel := context.WithCancel(context.Background())
	session.CancelFunc = cancel
	defer func() {
		session.CancelFunc = nil
		cancel()
	}()

	// Determine if we should use markdown rendering
	// USABILITY: Render markdown on TTY for better formatting
	useMarkdown := IsStdoutTTY()

	startTime := time.Now()
	fmt.Println() // Space before response

	var reply strings.Builder
	var sendErr error

	session.Coordinator.SendStreaming(ctx, input, nil, nil, gemini.Callbacks{
		OnToken: func(text string) {
			reply.WriteString(text)
			// Stream output when not using markdown; with markdown we
			// collect and render at the end for proper formatting.
			if !useMarkdown {
				fmt.Print(text)
			}
		},
		OnError: func(message string, definitive bool) {
			sendErr = fmt.Errorf("%s", message)
		},
	})

	if sendErr != nil {
		return sendErr
	}

	responseContent := reply.String()

	// USABILITY: Display response with markdown rendering when on TTY
	if useMarkdown {
		displayResponse(responseContent)
	}

	// Ensure newline after response
	fmt.Println()
	fmt.Println() // Extra space after response

	// Record the exchange for /history and persona/model replays
	session.Messages = append(session.Messages,
		model.NewUserMessage(input),
		model.NewMessage(model.SenderAI, responseContent).WithPersona(
			session.Persona.Name,
			session.Persona.Glyph,
			session.Persona.AvatarRef,
			session.Persona.StyleTag,
		),
	)
	session.Exchanges++
	session.TotalChars += len(input) + len(responseContent)

	// Show brief stats (unless quiet)
	if !session.Quiet {
		showBriefStats(session, len(responseContent), time.Since(startTime))
	}

	return nil
}

// showBriefStats shows brief stats after a response.
func showBriefStats(session *ChatSession, chars int, duration time.Duration) {
	fmt.Fprintf(os.Stderr, "%s %s | %d chars | %s\n",
		infoStyle.Render("[Stats]"),
		commandStyle.Render(session.ModelID),
		chars,
		duration.Round(time.Millisecond))
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

// handleSlashCommand processes slash commands.
// Returns (shouldContinue, error) where shouldContinue=false means exit.
func handleSlashCommand(cmd string, session *ChatSession) (bool, error) {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return true, nil
	}

	command := strings.ToLower(parts[0])
	args := parts[1:]

	switch command {
	case "/help", "/h", "/?":
		printChatHelp()
		return true, nil

	case "/clear", "/c":
		session.Messages = session.Messages[:0]
		session.Context.Reset(persona.EffectiveInstruction(session.Persona.ID, nil), nil)
		fmt.Println(commandStyle.Render("[Conversation cleared]"))
		return true, nil

	case "/persona", "/p":
		return handlePersonaCommand(session, args)

	case "/model", "/m":
		return handleModelCommand(session, args)

	case "/status", "/s":
		printStatus(session)
		return true, nil

	case "/quit", "/q", "/exit":
		return false, nil

	case "/history":
		printHistory(session)
		return true, nil

	case "/":
		// Just "/" shows help
		printChatHelp()
		return true, nil

	default:
		return true, fmt.Errorf("unknown command: %s (type /help for commands)", command)
	}
}

// handlePersonaCommand handles the /persona command.
func handlePersonaCommand(session *ChatSession, args []string) (bool, error) {
	if len(args) == 0 {
		fmt.Printf("%s Current persona: %s\n",
			infoStyle.Render("[Persona]"),
			commandStyle.Render(session.Persona.Name))
		for _, p := range persona.All {
			marker := "  "
			if p.ID == session.Persona.ID {
				marker = "* "
			}
			fmt.Printf("  %s%s %s\n", marker, commandStyle.Render(p.ID), infoStyle.Render(p.Name))
		}
		return true, nil
	}

	id := strings.ToLower(args[0])
	if !persona.IsKnown(id) {
		return true, fmt.Errorf("unknown persona: %s", id)
	}
	if id == session.Persona.ID {
		fmt.Println(infoStyle.Render("[Persona already active]"))
		return true, nil
	}

	session.Persona = persona.Resolve(id)
	instruction := persona.EffectiveInstruction(id, nil)
	session.Context.Rebuild("", instruction, session.Messages)

	fmt.Printf("%s Switched to persona: %s\n",
		commandStyle.Render("[OK]"),
		session.Persona.Name)
	return true, nil
}

// handleModelCommand handles the /model command.
func handleModelCommand(session *ChatSession, args []string) (bool, error) {
	if len(args) == 0 {
		fmt.Printf("%s Current model: %s\n",
			infoStyle.Render("[Model]"),
			commandStyle.Render(session.ModelID))
		for _, short := range model.ModelShortNames() {
			fmt.Printf("    %s\n", infoStyle.Render(short))
		}
		return true, nil
	}

	newModel := model.ResolveModelID(args[0])
	if newModel == session.ModelID {
		fmt.Println(infoStyle.Render("[Model already active]"))
		return true, nil
	}

	session.ModelID = newModel
	session.Context.Rebuild(newModel, persona.EffectiveInstruction(session.Persona.ID, nil), session.Messages)

	fmt.Printf("%s Switched to model: %s\n",
		commandStyle.Render("[OK]"),
		newModel)
	return true, nil
}

// =============================================================================
// DISPLAY FUNCTIONS
// =============================================================================

// printWelcome prints the welcome banner.
func printWelcome(session *ChatSession) {
	fmt.Println()
	fmt.Println(welcomeStyle.Render("gemchat interactive chat"))
	fmt.Println(infoStyle.Render(strings.Repeat("─", 30)))
	fmt.Println(commandStyle.Render(session.Persona.Glyph + " " + persona.WelcomeText(session.Persona, session.ModelID)))
	fmt.Printf("%s %s\n",
		infoStyle.Render("Persona:"),
		commandStyle.Render(session.Persona.Name))
	fmt.Printf("%s %s\n",
		infoStyle.Render("Model:"),
		commandStyle.Render(session.ModelID))

	if config.UsingLegacyKey() {
		fmt.Printf("%s %s\n",
			infoStyle.Render("Key:"),
			warningStyle.Render("Legacy "+config.EnvAPIKeyLegacy+" (prefer "+config.EnvAPIKey+")"))
	}

	fmt.Println()
	fmt.Println(infoStyle.Render("Type your message and press Enter. Commands: /help, /quit"))
	fmt.Println()
}

// printChatHelp prints available commands.
func printChatHelp() {
	fmt.Println()
	fmt.Println(summaryHeaderStyle.Render("Available Commands"))
	fmt.Println(infoStyle.Render(strings.Repeat("─", 20)))
	fmt.Println()

	commands := []struct {
		cmd  string
		desc string
	}{
		{"/help, /h", "Show this help"},
		{"/clear, /c", "Clear conversation history"},
		{"/persona [name]", "Show or switch persona"},
		{"/model [name]", "Show or switch model"},
		{"/status, /s", "Show session statistics"},
		{"/history", "Show conversation history"},
		{"/quit, /q", "Exit chat"},
	}

	for _, c := range commands {
		fmt.Printf("  %s  %s\n",
			commandStyle.Render(fmt.Sprintf("%-16s", c.cmd)),
			infoStyle.Render(c.desc))
	}

	fmt.Println()
	fmt.Println(infoStyle.Render("Tip: Ctrl+C cancels current generation, Ctrl+D exits"))
	fmt.Println()
}

// printStatus prints session statistics.
func printStatus(session *ChatSession) {
	elapsed := time.Since(session.StartTime).Round(time.Second)

	fmt.Println()
	fmt.Println(summaryHeaderStyle.Render("Session Status"))
	fmt.Println(infoStyle.Render(strings.Repeat("─", 20)))
	fmt.Println()

	fmt.Printf("  %s %s\n",
		infoStyle.Render("Persona:"),
		commandStyle.Render(session.Persona.Name))
	fmt.Printf("  %s %s\n",
		infoStyle.Render("Model:"),
		commandStyle.Render(session.ModelID))
	fmt.Printf("  %s %s\n",
		infoStyle.Render("Duration:"),
		elapsed.String())
	fmt.Printf("  %s %d messages\n",
		infoStyle.Render("History:"),
		len(session.Messages))
	fmt.Printf("  %s %d exchanges, %d chars\n",
		infoStyle.Render("Traffic:"),
		session.Exchanges,
		session.TotalChars)

	fmt.Println()
}

// printHistory prints conversation history.
func printHistory(session *ChatSession) {
	if len(session.Messages) == 0 {
		fmt.Println(infoStyle.Render("[No messages yet]"))
		return
	}

	fmt.Println()
	fmt.Println(summaryHeaderStyle.Render("Conversation History"))
	fmt.Println(infoStyle.Render(strings.Repeat("─", 25)))
	fmt.Println()

	for i, msg := range session.Messages {
		var role string
		switch msg.Sender {
		case model.SenderUser:
			role = lipgloss.NewStyle().Foreground(styles.Cyan).Render("You")
		case model.SenderAI:
			role = lipgloss.NewStyle().Foreground(styles.Purple).Render(msg.PersonaName)
		default:
			role = lipgloss.NewStyle().Foreground(styles.Amber).Render("System")
		}

		// Truncate long messages using rune-based truncation for Unicode safety
		content := msg.Text
		runes := []rune(content)
		if len(runes) > 100 {
			content = string(runes[:100]) + "..."
		}
		content = strings.ReplaceAll(content, "\n", " ")

		fmt.Printf("  %d. %s: %s\n", i+1, role, content)
	}

	fmt.Println()
}

// printExitSummary prints the session summary on exit.
func printExitSummary(session *ChatSession) {
	// Skip if no queries
	if session.Exchanges == 0 {
		fmt.Println(infoStyle.Render("Goodbye!"))
		return
	}

	elapsed := time.Since(session.StartTime).Round(time.Second)

	fmt.Println()
	fmt.Println(summaryHeaderStyle.Render("Session Summary"))
	fmt.Println(infoStyle.Render(strings.Repeat("─", 15)))

	fmt.Printf("  %s %d\n",
		infoStyle.Render("Exchanges:"),
		session.Exchanges)
	fmt.Printf("  %s %d chars\n",
		infoStyle.Render("Traffic:"),
		session.TotalChars)
	fmt.Printf("  %s %s\n",
		infoStyle.Render("Duration:"),
		elapsed.String())

	fmt.Println()
	fmt.Println(infoStyle.Render("Goodbye!"))
}
