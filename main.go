// gemchat TUI - Mia's Gem Chat Studio in the terminal.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/miastudio/gemchat-tui/internal/cli"
	"github.com/miastudio/gemchat-tui/internal/commands"
	"github.com/miastudio/gemchat-tui/internal/config"
	"github.com/miastudio/gemchat-tui/internal/gemini"
	"github.com/miastudio/gemchat-tui/internal/model"
	"github.com/miastudio/gemchat-tui/internal/persona"
	"github.com/miastudio/gemchat-tui/internal/session"
	"github.com/miastudio/gemchat-tui/internal/speech"
	"github.com/miastudio/gemchat-tui/internal/storage"
	"github.com/miastudio/gemchat-tui/internal/ui/chat"
	"github.com/miastudio/gemchat-tui/internal/ui/components"
	"github.com/miastudio/gemchat-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Global program reference for async streaming
var (
	programRef *tea.Program
	programMu  sync.Mutex
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdTUI:
		runTUI(args)
	case cli.CmdAsk:
		cli.HandleAsk(args)
	case cli.CmdChat:
		if err := cli.HandleChat(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case cli.CmdStatus:
		if err := cli.HandleStatus(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case cli.CmdConfig:
		if err := cli.HandleConfig(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case cli.CmdVersion:
		cli.PrintVersion()
	case cli.CmdHelp:
		cli.PrintUsage()
	}
}

// sendToProgram delivers a message into the running Bubble Tea loop from a
// network or speech goroutine. Safe to call before the program starts;
// the message is dropped in that case.
func sendToProgram(msg tea.Msg) {
	programMu.Lock()
	p := programRef
	programMu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

// =============================================================================
// SETTINGS PERSISTENCE
// =============================================================================

// settingsFileName holds the per-user session settings inside the data dir.
const settingsFileName = "settings.json"

// loadSettings reads persisted settings, falling back to defaults when the
// file is missing or corrupt.
func loadSettings(dataDir string) *config.Settings {
	data, err := os.ReadFile(filepath.Join(dataDir, settingsFileName))
	if err != nil {
		return config.DefaultSettings()
	}
	return config.ParseSettings(data)
}

// saveSettings writes settings to the data dir. Failures are reported to
// the caller for a toast; the in-memory settings stay authoritative.
func saveSettings(dataDir string, s *config.Settings) error {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}
	data, err := s.Encode()
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dataDir, settingsFileName), data, 0o600)
}

// =============================================================================
// TUI ENTRY POINT
// =============================================================================

func runTUI(args cli.Args) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	config.SetGlobal(cfg)

	if config.UsingLegacyKey() {
		fmt.Fprintf(os.Stderr, "Warning: credential from legacy %s, prefer %s\n",
			config.EnvAPIKeyLegacy, config.EnvAPIKey)
	}

	dataDir, err := cfg.DataDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving data directory: %v\n", err)
		os.Exit(1)
	}

	settings := loadSettings(dataDir)

	// CLI overrides apply for this run and persist on the next settings
	// write, same as switching in-session.
	if args.Persona != "" {
		if persona.IsKnown(args.Persona) {
			settings.ActivePersonaID = strings.ToLower(args.Persona)
		} else {
			fmt.Fprintf(os.Stderr, "Warning: unknown persona %q, using %s\n", args.Persona, settings.ActivePersonaID)
		}
	}
	if args.Model != "" {
		if model.IsKnownModel(args.Model) {
			settings.SelectedModel = model.ResolveModelID(args.Model)
		} else {
			fmt.Fprintf(os.Stderr, "Warning: unknown model %q, using %s\n", args.Model, settings.SelectedModel)
		}
	}

	// Storage backends: the local slot lives in flat files, cloud slots in
	// SQLite. A failed SQLite open degrades to a second file backend so
	// cloud slot commands keep working.
	localKV := storage.NewFileKV(dataDir)
	var cloudKV storage.KV
	dbPath, err := cfg.CloudDBPath()
	if err == nil {
		cloudKV, err = storage.NewSQLiteKV(dbPath)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: cloud database unavailable (%v), using file storage\n", err)
		cloudKV = storage.NewFileKV(filepath.Join(dataDir, "cloud"))
	}
	gateway := storage.NewGateway(localKV, cloudKV)
	defer gateway.Close()

	m := newRootModel(cfg, settings, gateway, dataDir)

	// Config edits apply live, so setting an API key in another terminal
	// unblocks the running session.
	if path, err := config.ConfigPath(); err == nil {
		watcher, err := config.NewWatcher(path, func(next *config.Config) {
			sendToProgram(configReloadedMsg{Config: next})
		})
		if err == nil && watcher.Watch() == nil {
			defer watcher.Close()
		}
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

	programMu.Lock()
	programRef = p
	programMu.Unlock()

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// ROOT MODEL
// =============================================================================

// View names for the header tabs and the /view command.
const (
	viewChat      = "chat"
	viewDocs      = "docs"
	viewDashboard = "dashboard"
)

// configReloadedMsg carries a freshly loaded config from the file watcher.
type configReloadedMsg struct {
	Config *config.Config
}

// speechNoticeMsg carries a speech subsystem notification from a playback
// goroutine into the TUI loop.
type speechNoticeMsg struct {
	Message  string
	Level    speech.NotifyLevel
	Duration time.Duration
}

// Cloud slot operation results. The operations run as commands so a slow
// database never blocks the render loop.
type cloudSavedMsg struct {
	SlotID string
	Err    error
}

type cloudLoadedMsg struct {
	SlotID string
	Data   *storage.SlotData
	Found  bool
	Err    error
}

type cloudDeletedMsg struct {
	SlotID string
	Err    error
}

type cloudListMsg struct {
	Slots []string
	Err   error
}

// Model is the root orchestrator: it owns the network side (client,
// context, coordinator), persistence, speech, and the session manager,
// and routes everything else to the chat view.
type Model struct {
	cfg      *config.Config
	settings *config.Settings
	dataDir  string

	theme    *styles.Theme
	registry *commands.Registry

	chatModel chat.Model
	header    *components.Header
	statusBar *components.StatusBar

	client      *gemini.Client
	contextMgr  *gemini.ContextManager
	coordinator *gemini.Coordinator

	gateway *storage.Gateway
	speaker *speech.Speaker
	sess    *session.Manager

	activeView string
	persona    persona.Persona

	width  int
	height int
}

func newRootModel(cfg *config.Config, settings *config.Settings, gateway *storage.Gateway, dataDir string) *Model {
	theme := styles.NewTheme()
	registry := commands.NewRegistry()

	p := persona.Resolve(settings.ActivePersonaID)
	instruction := persona.EffectiveInstruction(p.ID, settings.CustomInstructions)

	client := cli.NewClientFromConfig(cfg)
	contextMgr := gemini.NewContextManager(client, settings.SelectedModel, instruction)
	coordinator := gemini.NewCoordinator(client, contextMgr)

	chatModel := chat.New(theme, registry)
	chatModel.SetPersona(p)
	chatModel.SetModel(modelDisplayName(settings.SelectedModel))
	chatModel.SetKeyConfigured(client.IsConfigured())

	header := components.NewHeader(theme)
	header.SetPersona(p)
	header.SetModel(modelDisplayName(settings.SelectedModel))
	header.SetView(viewChat)

	statusBar := components.NewStatusBar(theme)
	statusBar.SetPersona(p.Name, p.StyleTag)
	statusBar.SetModel(modelDisplayName(settings.SelectedModel))
	statusBar.SetAutoPlay(settings.AutoPlayReplies)
	statusBar.SetSlot(settings.CurrentCloudSlotID)
	if client.IsConfigured() {
		statusBar.SetStatus(components.StatusReady)
	} else {
		statusBar.SetStatus(components.StatusBlocked)
	}

	var engine speech.Engine = speech.NopEngine{}
	if cfg.Speech.Enabled {
		command := cfg.Speech.Command
		if command == "" {
			command = speech.DefaultCommand()
		}
		engine = speech.NewCommandEngine(command)
	}
	speaker := speech.NewSpeaker(engine, func(message string, level speech.NotifyLevel, duration time.Duration) {
		sendToProgram(speechNoticeMsg{Message: message, Level: level, Duration: duration})
	})

	sess := session.NewManager(session.DefaultConfig())

	m := &Model{
		cfg:         cfg,
		settings:    settings,
		dataDir:     dataDir,
		theme:       theme,
		registry:    registry,
		chatModel:   chatModel,
		header:      header,
		statusBar:   statusBar,
		client:      client,
		contextMgr:  contextMgr,
		coordinator: coordinator,
		gateway:     gateway,
		speaker:     speaker,
		sess:        sess,
		activeView:  viewChat,
		persona:     p,
	}

	// Restore the local session, or open with the persona's welcome
	// banner. Restored messages pick up the active persona's display
	// fields so a persona switched since the save renders consistently.
	if msgs, ok := gateway.LoadLocal(); ok && len(msgs) > 0 {
		restampPersona(msgs, p)
		m.chatModel.ResetTranscript(msgs)
		m.contextMgr.Rebuild("", instruction, m.replayHistory())
		m.statusBar.SetMessageCount(len(msgs))
	} else {
		m.appendWelcome()
	}

	// Initial autoplay is non-interactive; permission refusals stay
	// silent.
	if settings.AutoPlayReplies && cfg.Speech.Enabled {
		if last := m.chatModel.Transcript().LastAIMessage(); last != nil && !last.IsError {
			text := last.Text
			go speaker.Speak(text, "Auto-play", true)
		}
	}

	// Cloud slot IDs feed /cloud tab completion.
	m.chatModel.Completer().SlotsFn = func() []string {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		slots, err := gateway.ListCloudSlots(ctx)
		if err != nil {
			return nil
		}
		return slots
	}

	return m
}

// modelDisplayName maps a model ID to its human-readable name, falling
// back to the raw ID for anything not in the registry.
func modelDisplayName(modelID string) string {
	if info, ok := model.GetModelInfo(modelID); ok {
		return info.Name
	}
	return modelID
}

// currentInstruction resolves the active persona's effective instruction,
// honoring per-persona overrides.
func (m *Model) currentInstruction() string {
	return persona.EffectiveInstruction(m.persona.ID, m.settings.CustomInstructions)
}

// replayHistory is the transcript filtered to completed turns, for
// rebuilding the conversation context after a persona or model switch.
func (m *Model) replayHistory() []*model.Message {
	return m.chatModel.Transcript().ReplayHistory()
}

// appendWelcome adds the active persona's greeting to the transcript.
func (m *Model) appendWelcome() {
	text := persona.WelcomeText(m.persona, modelDisplayName(m.settings.SelectedModel))
	notice := model.NewAINotice(text, model.CategoryWelcome)
	notice.WithPersona(m.persona.Name, m.persona.Glyph, m.persona.AvatarRef, m.persona.StyleTag)
	m.chatModel.AppendMessage(notice)
	m.statusBar.SetMessageCount(m.chatModel.Transcript().Len())
}

// restampPersona refreshes AI-message display fields so a stored session
// renders under the currently active persona.
func restampPersona(msgs []*model.Message, p persona.Persona) {
	for _, msg := range msgs {
		if msg.Sender == model.SenderAI {
			msg.WithPersona(p.Name, p.Glyph, p.AvatarRef, p.StyleTag)
		}
	}
}

// appendNotice adds a system notification to the transcript, stamped
// with the active persona.
func (m *Model) appendNotice(text string) {
	notice := model.NewAINotice(text, model.CategorySystemNotification)
	notice.WithPersona(m.persona.Name, m.persona.Glyph, m.persona.AvatarRef, m.persona.StyleTag)
	m.chatModel.AppendMessage(notice)
	m.statusBar.SetMessageCount(m.chatModel.Transcript().Len())
}

// speakLastReply voices the newest AI reply after a session restore. Runs
// as initial autoplay so permission refusals stay silent.
func (m *Model) speakLastReply() {
	if !m.settings.AutoPlayReplies || !m.cfg.Speech.Enabled {
		return
	}
	last := m.chatModel.Transcript().LastAIReply()
	if last == nil {
		return
	}
	text := last.Text
	speaker := m.speaker
	go speaker.Speak(text, "Auto-play", true)
}

// autoSpeak voices a notification when auto-play is on. No-op when speech
// is disabled.
func (m *Model) autoSpeak(text string) {
	if !m.settings.AutoPlayReplies || !m.cfg.Speech.Enabled {
		return
	}
	speaker := m.speaker
	go speaker.Speak(text, "Auto-play", false)
}

// persistSettings writes settings and surfaces failures as a toast.
func (m *Model) persistSettings() tea.Cmd {
	if err := saveSettings(m.dataDir, m.settings); err != nil {
		return m.chatModel.NotifyWarning("Could not save settings: " + err.Error())
	}
	return nil
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.chatModel.Init(), session.TickCmd())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case chat.SubmitMsg:
		m.sess.RecordActivity()
		return m.dispatch(msg.Action)

	case chat.StreamCompleteMsg:
		m.statusBar.SetStatus(components.StatusReady)
		var cmds []tea.Cmd
		m.chatModel, cmds = m.forwardToChat(msg, cmds)
		// A /clear mid-stream orphans the reply; an orphaned completion
		// must not dirty the session or get spoken.
		if m.chatModel.Transcript().ByID(msg.MessageID) != nil {
			m.sess.MarkDirty()
			m.statusBar.SetMessageCount(m.chatModel.Transcript().Len())
			if msg.Text != "" {
				m.autoSpeak(msg.Text)
			}
		}
		return m, tea.Batch(cmds...)

	case chat.StreamErrorMsg:
		m.statusBar.SetStatus(components.StatusReady)
		var cmds []tea.Cmd
		m.chatModel, cmds = m.forwardToChat(msg, cmds)
		return m, tea.Batch(cmds...)

	case configReloadedMsg:
		return m.handleConfigReloaded(msg.Config)

	case speechNoticeMsg:
		return m, m.speechToast(msg)

	case cloudSavedMsg:
		return m.handleCloudSaved(msg)

	case cloudLoadedMsg:
		return m.handleCloudLoaded(msg)

	case cloudDeletedMsg:
		return m.handleCloudDeleted(msg)

	case cloudListMsg:
		return m.handleCloudList(msg)

	case session.TickMsg:
		return m, m.sess.HandleTick()

	case session.TimeoutWarningMsg:
		return m, m.chatModel.NotifyWarning(
			"Session idle, auto-save in " + session.FormatDuration(msg.Remaining) + ".")

	case session.AutoSaveMsg:
		if m.sess.IsDirty() {
			if err := m.gateway.SaveLocal(m.chatModel.Transcript().Messages); err == nil {
				m.sess.MarkClean()
			}
		}
		return m, nil

	case session.TimeoutMsg:
		// Idle timeout saves and keeps running; the transcript survives a
		// later crash or close.
		if m.sess.IsDirty() {
			if err := m.gateway.SaveLocal(m.chatModel.Transcript().Messages); err == nil {
				m.sess.MarkClean()
			}
		}
		m.sess.RecordActivity()
		return m, nil
	}

	var cmds []tea.Cmd
	m.chatModel, cmds = m.forwardToChat(msg, cmds)
	return m, tea.Batch(cmds...)
}

// forwardToChat routes a message to the chat sub-model.
func (m *Model) forwardToChat(msg tea.Msg, cmds []tea.Cmd) (chat.Model, []tea.Cmd) {
	updated, cmd := m.chatModel.Update(msg)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}
	return updated, cmds
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.theme.SetSize(width, height)
	m.header.SetWidth(width)
	m.statusBar.SetWidth(width)

	chrome := lipgloss.Height(m.header.View()) + lipgloss.Height(m.statusBar.View())
	contentHeight := height - chrome
	if contentHeight < 5 {
		contentHeight = 5
	}
	m.chatModel.SetSize(width, contentHeight)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.sess.RecordActivity()

	// The panel views only need a way back; everything else belongs to
	// the chat input.
	if m.activeView != viewChat {
		switch msg.String() {
		case "esc", "q", "enter":
			m.setView(viewChat)
			return m, nil
		case "ctrl+c":
			return m, tea.Quit
		}
		return m, nil
	}

	var cmds []tea.Cmd
	m.chatModel, cmds = m.forwardToChat(msg, cmds)
	return m, tea.Batch(cmds...)
}

func (m *Model) View() string {
	var content string
	switch m.activeView {
	case viewDocs:
		content = m.placePanel(components.RenderDocsPanel(m.theme, m.registry, m.width))
	case viewDashboard:
		content = m.placePanel(components.RenderDashboardPanel(m.theme, m.dashboardData(), m.width))
	default:
		content = m.chatModel.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.header.View(),
		content,
		m.statusBar.View(),
	)
}

// placePanel centers a panel in the content area between header and
// status bar.
func (m *Model) placePanel(panel string) string {
	chrome := lipgloss.Height(m.header.View()) + lipgloss.Height(m.statusBar.View())
	contentHeight := m.height - chrome
	if contentHeight < lipgloss.Height(panel) {
		return panel
	}
	return lipgloss.Place(m.width, contentHeight, lipgloss.Center, lipgloss.Center, panel)
}

func (m *Model) dashboardData() components.DashboardData {
	info, _ := model.GetModelInfo(m.settings.SelectedModel)

	var slots []string
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if listed, err := m.gateway.ListCloudSlots(ctx); err == nil {
		slots = listed
	}

	return components.DashboardData{
		Persona:       m.persona,
		ModelName:     info.Name,
		ModelID:       info.ID,
		ModelContext:  fmt.Sprintf("%d tokens", info.MaxTokens),
		KeyConfigured: m.client.IsConfigured(),
		SlotID:        m.settings.CurrentCloudSlotID,
		SlotList:      slots,
		AutoPlay:      m.settings.AutoPlayReplies,
		MessageCount:  m.chatModel.Transcript().Len(),
		HistoryLimit:  model.MaxMessages,
		Instruction:   m.currentInstruction(),
	}
}

func (m *Model) setView(view string) {
	m.activeView = view
	m.header.SetView(view)
}

// handleConfigReloaded swaps in a changed config. The client is rebuilt
// because the credential or base URL may have changed; the conversation
// context survives via a history replay.
func (m *Model) handleConfigReloaded(cfg *config.Config) (tea.Model, tea.Cmd) {
	wasConfigured := m.client.IsConfigured()

	m.cfg = cfg
	config.SetGlobal(cfg)

	m.client = cli.NewClientFromConfig(cfg)
	m.contextMgr = gemini.NewContextManager(m.client, m.settings.SelectedModel, m.currentInstruction())
	m.contextMgr.Rebuild("", m.currentInstruction(), m.replayHistory())
	m.coordinator = gemini.NewCoordinator(m.client, m.contextMgr)

	configured := m.client.IsConfigured()
	m.chatModel.SetKeyConfigured(configured)
	if configured {
		m.statusBar.SetStatus(components.StatusReady)
	} else {
		m.statusBar.SetStatus(components.StatusBlocked)
	}
	if m.width > 0 {
		// The credential banner changes the chat viewport height.
		m.resize(m.width, m.height)
	}

	if !wasConfigured && configured {
		return m, m.chatModel.NotifySuccess("API key detected. Chat is ready.")
	}
	return m, m.chatModel.NotifyInfo("Configuration reloaded.")
}

// speechToast converts a speech notification into the matching toast.
func (m *Model) speechToast(msg speechNoticeMsg) tea.Cmd {
	duration := msg.Duration
	if duration <= 0 {
		duration = components.ErrorToastDuration
	}
	kind := components.ToastInfo
	switch msg.Level {
	case speech.NotifyWarning:
		kind = components.ToastWarning
	case speech.NotifyError:
		kind = components.ToastError
	}
	return m.chatModel.NotifyToast(components.NewToastWithDuration(msg.Message, kind, duration))
}

// =============================================================================
// ACTION DISPATCH
// =============================================================================

// dispatch executes one resolved slash command or plain message send.
func (m *Model) dispatch(action commands.Action) (tea.Model, tea.Cmd) {
	switch act := action.(type) {
	case commands.SendMessage:
		return m.handleSend(act)

	case commands.ChangePersona:
		return m.handleChangePersona(act.PersonaID)

	case commands.ListPersonas:
		return m.handleListPersonas()

	case commands.ChangeModel:
		return m.handleChangeModel(act.ModelID)

	case commands.ListModels:
		return m.handleListModels()

	case commands.SetInstruction:
		return m.handleSetInstruction(act)

	case commands.ClearChat:
		return m.handleClearChat()

	case commands.SetView:
		switch act.View {
		case viewChat, viewDocs, viewDashboard:
			m.setView(act.View)
			return m, nil
		}
		return m, m.chatModel.NotifyError("Unknown view: " + act.View)

	case commands.SaveLocal:
		return m.handleSaveLocal()

	case commands.LoadLocal:
		return m.handleLoadLocal()

	case commands.CloudSave:
		return m.handleCloudSave(act.SlotID)

	case commands.CloudLoad:
		slotID := act.SlotID
		gateway := m.gateway
		return m, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			data, found, err := gateway.LoadCloud(ctx, slotID)
			return cloudLoadedMsg{SlotID: slotID, Data: data, Found: found, Err: err}
		}

	case commands.CloudDelete:
		slotID := act.SlotID
		gateway := m.gateway
		return m, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			err := gateway.DeleteCloud(ctx, slotID)
			return cloudDeletedMsg{SlotID: slotID, Err: err}
		}

	case commands.CloudList:
		gateway := m.gateway
		return m, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			slots, err := gateway.ListCloudSlots(ctx)
			return cloudListMsg{Slots: slots, Err: err}
		}

	case commands.SpeakLast:
		return m.handleSpeakLast()

	case commands.ToggleAutoPlay:
		return m.handleToggleAutoPlay()

	case commands.ShowHelp:
		return m.handleShowHelp(act.Topic)

	case commands.Quit:
		m.speaker.Stop()
		if err := saveSettings(m.dataDir, m.settings); err == nil {
			m.sess.MarkClean()
		}
		return m, tea.Quit
	}

	return m, nil
}

// =============================================================================
// MESSAGE SEND AND STREAMING
// =============================================================================

func (m *Model) handleSend(act commands.SendMessage) (tea.Model, tea.Cmd) {
	if !m.client.IsConfigured() {
		return m, m.chatModel.NotifyError(
			"No API key configured. Set " + config.EnvAPIKey + " or run: gemchat config set api_key <key>")
	}

	var image, audio *model.Attachment
	var err error
	if image, err = cli.LoadAttachment(act.ImagePath); err != nil {
		return m, m.chatModel.NotifyError("Image: " + err.Error())
	}
	if audio, err = cli.LoadAttachment(act.AudioPath); err != nil {
		return m, m.chatModel.NotifyError("Audio: " + err.Error())
	}

	messageID, cmd := m.chatModel.BeginStream(act.Text, image, audio)
	m.statusBar.SetStatus(components.StatusStreaming)
	m.statusBar.SetMessageCount(m.chatModel.Transcript().Len())
	m.sess.MarkDirty()

	// Capture everything the goroutine needs; the model must not be
	// touched off the render loop.
	coordinator := m.coordinator
	timeout := cli.RequestTimeout(m.cfg)
	text := act.Text

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		sendToProgram(chat.StreamStartMsg{MessageID: messageID})

		var reply strings.Builder
		failed := false

		coordinator.SendStreaming(ctx, text, image, audio, gemini.Callbacks{
			OnToken: func(token string) {
				reply.WriteString(token)
				sendToProgram(chat.StreamTokenMsg{MessageID: messageID, Token: token})
			},
			OnError: func(message string, definitive bool) {
				failed = true
				sendToProgram(chat.StreamErrorMsg{
					MessageID:  messageID,
					Message:    message,
					Definitive: definitive,
				})
			},
			OnDone: func() {
				if !failed {
					sendToProgram(chat.StreamCompleteMsg{MessageID: messageID, Text: reply.String()})
				}
			},
		})
	}()

	return m, cmd
}

// =============================================================================
// PERSONA AND MODEL ACTIONS
// =============================================================================

func (m *Model) handleChangePersona(personaID string) (tea.Model, tea.Cmd) {
	if !persona.IsKnown(personaID) {
		return m, m.chatModel.NotifyError(
			"Unknown persona: " + personaID + ". Available: " + strings.Join(personaIDList(), ", "))
	}

	p := persona.Resolve(personaID)
	if p.ID == m.persona.ID {
		return m, m.chatModel.NotifyInfo(p.Name + " is already active.")
	}

	m.persona = p
	m.settings.ActivePersonaID = p.ID

	instruction := m.currentInstruction()
	m.contextMgr.Rebuild("", instruction, m.replayHistory())

	m.chatModel.SetPersona(p)
	m.header.SetPersona(p)
	m.statusBar.SetPersona(p.Name, p.StyleTag)

	changeText := persona.ChangeText(p)
	m.appendNotice(changeText)
	m.autoSpeak(changeText)
	m.sess.MarkDirty()

	return m, tea.Batch(
		m.chatModel.NotifySuccess("Persona switched to "+p.Name+"."),
		m.persistSettings(),
	)
}

func (m *Model) handleListPersonas() (tea.Model, tea.Cmd) {
	var b strings.Builder
	b.WriteString("Available personas:\n")
	for _, p := range persona.All {
		marker := "  "
		if p.ID == m.persona.ID {
			marker = "* "
		}
		fmt.Fprintf(&b, "%s%s %s (%s): %s\n", marker, p.Glyph, p.Name, p.ID, p.Description)
	}
	b.WriteString("\nSwitch with /persona <id>.")

	m.appendNotice(b.String())
	return m, nil
}

func (m *Model) handleChangeModel(nameOrID string) (tea.Model, tea.Cmd) {
	if nameOrID == "" {
		return m, m.chatModel.NotifyInfo("Current model: " + modelDisplayName(m.settings.SelectedModel))
	}

	if !model.IsKnownModel(nameOrID) {
		return m, m.chatModel.NotifyError(
			"Unknown model: " + nameOrID + ". Available: " + strings.Join(model.ModelShortNames(), ", "))
	}

	resolved := model.ResolveModelID(nameOrID)
	if resolved == m.settings.SelectedModel {
		return m, m.chatModel.NotifyInfo(modelDisplayName(resolved) + " is already selected.")
	}

	m.settings.SelectedModel = resolved
	m.contextMgr.Rebuild(resolved, m.currentInstruction(), m.replayHistory())

	display := modelDisplayName(resolved)
	m.chatModel.SetModel(display)
	m.header.SetModel(display)
	m.statusBar.SetModel(display)

	m.appendNotice("Model switched to " + display + ".")
	m.autoSpeak("Model switched to " + display + ".")
	m.sess.MarkDirty()

	return m, tea.Batch(
		m.chatModel.NotifySuccess("Model switched to "+display+"."),
		m.persistSettings(),
	)
}

func (m *Model) handleListModels() (tea.Model, tea.Cmd) {
	shorts := model.ModelShortNames()
	sort.Strings(shorts)

	var b strings.Builder
	b.WriteString("Available models:\n")
	for _, short := range shorts {
		info, ok := model.GetModelInfo(short)
		if !ok {
			continue
		}
		marker := "  "
		if info.ID == m.settings.SelectedModel {
			marker = "* "
		}
		fmt.Fprintf(&b, "%s%s (%s, %s): %s\n", marker, info.Name, short, info.Tier, info.Description)
	}
	b.WriteString("\nSwitch with /model <name>.")

	m.appendNotice(b.String())
	return m, nil
}

func (m *Model) handleSetInstruction(act commands.SetInstruction) (tea.Model, tea.Cmd) {
	targetID := act.PersonaID
	if targetID == "" {
		targetID = m.persona.ID
	}
	target := persona.Resolve(targetID)
	instruction := strings.TrimSpace(act.Instruction)

	if instruction == "" {
		delete(m.settings.CustomInstructions, target.ID)
	} else {
		m.settings.CustomInstructions[target.ID] = instruction
	}

	// Editing a background persona just persists; the live context only
	// follows the active persona's instruction.
	if target.ID != m.persona.ID {
		return m, m.persistSettings()
	}

	m.contextMgr.Rebuild("", m.currentInstruction(), m.replayHistory())

	text := "Instruction updated for " + target.Name + "."
	if instruction == "" {
		text = target.Name + "'s instruction restored to its default."
	}
	m.appendNotice(text)
	m.autoSpeak(text)
	m.sess.MarkDirty()

	return m, tea.Batch(m.chatModel.NotifySuccess(text), m.persistSettings())
}

// =============================================================================
// TRANSCRIPT AND LOCAL PERSISTENCE
// =============================================================================

// handleClearChat hard-resets the conversation: fresh transcript with a
// new welcome banner, local persistence wiped, cloud slot binding dropped.
func (m *Model) handleClearChat() (tea.Model, tea.Cmd) {
	m.chatModel.ResetTranscript(nil)
	m.contextMgr.Reset(m.currentInstruction(), nil)
	m.appendWelcome()

	var cmds []tea.Cmd
	if err := m.gateway.ClearLocal(); err != nil {
		cmds = append(cmds, m.chatModel.NotifyWarning("Could not clear saved session: "+err.Error()))
	}
	if m.settings.CurrentCloudSlotID != "" {
		m.settings.CurrentCloudSlotID = ""
		m.statusBar.SetSlot("")
		cmds = append(cmds, m.persistSettings())
	}
	m.sess.MarkClean()
	cmds = append(cmds, m.chatModel.NotifySuccess("Conversation cleared."))
	return m, tea.Batch(cmds...)
}

func (m *Model) handleSaveLocal() (tea.Model, tea.Cmd) {
	if err := m.gateway.SaveLocal(m.chatModel.Transcript().Messages); err != nil {
		return m, m.chatModel.NotifyError("Save failed: " + err.Error())
	}
	m.sess.MarkClean()
	return m, tea.Batch(
		m.chatModel.NotifySuccess("Session saved locally."),
		m.persistSettings(),
	)
}

func (m *Model) handleLoadLocal() (tea.Model, tea.Cmd) {
	msgs, found := m.gateway.LoadLocal()
	if !found {
		return m, m.chatModel.NotifyWarning("No locally saved session found.")
	}

	restampPersona(msgs, m.persona)
	m.chatModel.ResetTranscript(msgs)
	m.contextMgr.Rebuild("", m.currentInstruction(), m.replayHistory())

	// A local restore detaches the conversation from any cloud slot.
	var cmds []tea.Cmd
	if m.settings.CurrentCloudSlotID != "" {
		m.settings.CurrentCloudSlotID = ""
		m.statusBar.SetSlot("")
		cmds = append(cmds, m.persistSettings())
	}

	m.appendNotice(fmt.Sprintf("Session restored from local storage (%d messages).", len(msgs)))
	m.speakLastReply()
	m.sess.MarkClean()

	cmds = append(cmds, m.chatModel.NotifySuccess(fmt.Sprintf("Session restored (%d messages).", len(msgs))))
	return m, tea.Batch(cmds...)
}

// =============================================================================
// CLOUD SLOTS
// =============================================================================

func (m *Model) handleCloudSave(slotID string) (tea.Model, tea.Cmd) {
	// The save runs off the render loop; snapshot the transcript so later
	// edits never race the write.
	msgs := m.chatModel.Transcript().Clone().Messages
	snapshot := m.settings.Clone()
	gateway := m.gateway

	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := gateway.SaveCloud(ctx, slotID, msgs, snapshot)
		return cloudSavedMsg{SlotID: slotID, Err: err}
	}
}

func (m *Model) handleCloudSaved(msg cloudSavedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		return m, m.chatModel.NotifyError("Cloud save failed: " + msg.Err.Error())
	}

	m.settings.CurrentCloudSlotID = msg.SlotID
	m.statusBar.SetSlot(msg.SlotID)
	m.sess.MarkClean()

	return m, tea.Batch(
		m.chatModel.NotifySuccess("Session saved to slot "+msg.SlotID+"."),
		m.persistSettings(),
	)
}

func (m *Model) handleCloudLoaded(msg cloudLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		return m, m.chatModel.NotifyError("Cloud load failed: " + msg.Err.Error())
	}
	if !msg.Found {
		return m, m.chatModel.NotifyWarning("No session in slot " + msg.SlotID + ".")
	}

	// The slot's settings snapshot restores the conversation exactly as
	// it was saved: persona, model, overrides, and autoplay.
	if msg.Data.Settings != nil {
		snapshot := msg.Data.Settings.Clone()
		snapshot.Normalize()
		snapshot.CurrentCloudSlotID = msg.SlotID
		m.settings = snapshot

		p := persona.Resolve(snapshot.ActivePersonaID)
		m.persona = p
		m.chatModel.SetPersona(p)
		m.header.SetPersona(p)
		m.statusBar.SetPersona(p.Name, p.StyleTag)

		display := modelDisplayName(snapshot.SelectedModel)
		m.chatModel.SetModel(display)
		m.header.SetModel(display)
		m.statusBar.SetModel(display)
		m.statusBar.SetAutoPlay(snapshot.AutoPlayReplies)
	} else {
		m.settings.CurrentCloudSlotID = msg.SlotID
	}
	m.statusBar.SetSlot(msg.SlotID)

	restampPersona(msg.Data.Messages, m.persona)
	m.chatModel.ResetTranscript(msg.Data.Messages)
	m.statusBar.SetMessageCount(len(msg.Data.Messages))

	m.contextMgr.Rebuild(m.settings.SelectedModel, m.currentInstruction(), m.replayHistory())

	// A cloud restore supersedes whatever the local slot held.
	var cmds []tea.Cmd
	if err := m.gateway.ClearLocal(); err != nil {
		cmds = append(cmds, m.chatModel.NotifyWarning("Could not clear local session: "+err.Error()))
	}

	m.appendNotice(fmt.Sprintf("Session restored from cloud slot %s (%d messages).", msg.SlotID, len(msg.Data.Messages)))
	m.speakLastReply()
	m.sess.MarkClean()

	cmds = append(cmds,
		m.chatModel.NotifySuccess(fmt.Sprintf("Slot %s restored (%d messages).", msg.SlotID, len(msg.Data.Messages))),
		m.persistSettings(),
	)
	return m, tea.Batch(cmds...)
}

func (m *Model) handleCloudDeleted(msg cloudDeletedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		return m, m.chatModel.NotifyError("Cloud delete failed: " + msg.Err.Error())
	}

	cmds := []tea.Cmd{m.chatModel.NotifySuccess("Slot " + msg.SlotID + " deleted.")}

	// Deleting the slot the session came from orphans the transcript;
	// reset back to a fresh conversation.
	if msg.SlotID == m.settings.CurrentCloudSlotID {
		m.settings.CurrentCloudSlotID = ""
		m.statusBar.SetSlot("")
		m.chatModel.ResetTranscript(nil)
		m.contextMgr.Reset(m.currentInstruction(), nil)
		m.appendWelcome()
		cmds = append(cmds,
			m.chatModel.NotifyInfo("Active slot deleted, conversation reset."),
			m.persistSettings(),
		)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleCloudList(msg cloudListMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		return m, m.chatModel.NotifyError("Cloud list failed: " + msg.Err.Error())
	}
	if len(msg.Slots) == 0 {
		return m, m.chatModel.NotifyInfo("No cloud slots saved yet. Save one with /cloud save <slot>.")
	}

	var b strings.Builder
	b.WriteString("Saved cloud slots:\n")
	for _, slot := range msg.Slots {
		marker := "  "
		if slot == m.settings.CurrentCloudSlotID {
			marker = "* "
		}
		b.WriteString(marker + slot + "\n")
	}
	b.WriteString("\nLoad with /cloud load <slot>.")

	m.appendNotice(b.String())
	return m, nil
}

// =============================================================================
// SPEECH ACTIONS
// =============================================================================

func (m *Model) handleSpeakLast() (tea.Model, tea.Cmd) {
	last := m.chatModel.Transcript().LastAIReply()
	if last == nil || strings.TrimSpace(last.Text) == "" {
		return m, m.chatModel.NotifyWarning("No reply to speak yet.")
	}
	if !m.cfg.Speech.Enabled {
		return m, m.chatModel.NotifyWarning("Speech is disabled. Enable with: gemchat config set speech_enabled true")
	}

	text := last.Text
	speaker := m.speaker
	go speaker.Speak(text, "Manual play", false)

	return m, m.chatModel.NotifyInfo("Speaking last reply...")
}

func (m *Model) handleToggleAutoPlay() (tea.Model, tea.Cmd) {
	m.settings.AutoPlayReplies = !m.settings.AutoPlayReplies
	m.statusBar.SetAutoPlay(m.settings.AutoPlayReplies)

	state := "off"
	if m.settings.AutoPlayReplies {
		state = "on"
	}
	return m, tea.Batch(
		m.chatModel.NotifySuccess("Auto-play is now "+state+"."),
		m.persistSettings(),
	)
}

// =============================================================================
// HELP
// =============================================================================

func (m *Model) handleShowHelp(topic string) (tea.Model, tea.Cmd) {
	if topic == "" {
		m.setView(viewDocs)
		return m, nil
	}

	name := "/" + strings.TrimPrefix(strings.ToLower(topic), "/")
	cmd := m.registry.Get(name)
	if cmd == nil {
		return m, m.chatModel.NotifyError("No help for " + topic + ". Try /help for the full list.")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s\n", cmd.Name, cmd.Description)
	if cmd.Usage != "" {
		b.WriteString("Usage: " + cmd.Usage + "\n")
	}
	if len(cmd.Aliases) > 0 {
		b.WriteString("Aliases: " + strings.Join(cmd.Aliases, ", "))
	}

	m.appendNotice(strings.TrimRight(b.String(), "\n"))
	return m, nil
}

// personaIDList returns the catalog IDs, sorted for stable error text.
func personaIDList() []string {
	ids := make([]string, 0, len(persona.All))
	for _, p := range persona.All {
		ids = append(ids, p.ID)
	}
	sort.Strings(ids)
	return ids
}
