// Package ui provides the terminal UI for studypal.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"

	"github.com/studypal/studypal/chat"
	"github.com/studypal/studypal/speech"
	"github.com/studypal/studypal/study"
)

const statusMessageTimeout = 3 * time.Second

// panelID identifies one of the study panels.
type panelID int

const (
	panelSummary panelID = iota
	panelFlashcards
	panelQuiz
	panelChat
	panelExplain
)

var panelNames = map[panelID]string{
	panelSummary:    "Summary",
	panelFlashcards: "Flashcards",
	panelQuiz:       "Quiz",
	panelChat:       "Chat",
	panelExplain:    "Explain",
}

func (p panelID) String() string { return panelNames[p] }

// Deps are the collaborators the UI drives. All of them are constructed
// in main so tests can substitute mocks. Playback hardware is shared;
// each panel builds its own speech controller and cache on top of it.
type Deps struct {
	Session     *study.Session
	Engine      *speech.Engine
	Synthesizer speech.Synthesizer
	Chat        *chat.Controller

	// SpeechStore, when set, persists synthesized payloads under the
	// per-panel caches.
	SpeechStore speech.PayloadStore

	// DocumentChanged delivers a signal when the PDF changes on disk.
	// Nil disables watching.
	DocumentChanged <-chan struct{}

	// Reload re-extracts the document and swaps it into the session.
	Reload func(context.Context) error
}

// Common stuff we'll need to access in all panels.
type commonModel struct {
	cfg    Config
	deps   Deps
	width  int
	height int
}

// speechSet is one panel's narration plumbing: its own controller and
// cache over the shared engine. The cache is cleared when the panel's
// subject content changes.
type speechSet struct {
	ctl   *speech.Controller
	cache *speech.Cache
}

func newSpeechSet(common *commonModel) speechSet {
	cache := speech.NewCache()
	if common.deps.SpeechStore != nil {
		cache = speech.NewCacheWithStore(common.deps.SpeechStore)
	}
	return speechSet{
		ctl:   speech.NewController(common.deps.Engine, cache, common.deps.Synthesizer),
		cache: cache,
	}
}

// NewProgram returns a new Tea program.
func NewProgram(cfg Config, deps Deps) *tea.Program {
	log.Debug("starting studypal UI", "path", cfg.Path, "mock", cfg.MockAI)

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.EnableMouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	return tea.NewProgram(newModel(cfg, deps), opts...)
}

type model struct {
	common   *commonModel
	panel    panelID
	fatalErr error

	// Panel sub-models
	summary    summaryModel
	flashcards flashcardsModel
	quiz       quizModel
	chat       chatModel
	explain    explainModel

	speechState   speech.State
	speechPolling bool

	status      string
	statusIsErr bool
}

func newModel(cfg Config, deps Deps) tea.Model {
	common := &commonModel{cfg: cfg, deps: deps}
	return model{
		common:     common,
		panel:      panelSummary,
		summary:    newSummaryModel(common),
		flashcards: newFlashcardsModel(common),
		quiz:       newQuizModel(common),
		chat:       newChatModel(common),
		explain:    newExplainModel(common),
	}
}

func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.summary.init()}
	if m.common.deps.DocumentChanged != nil {
		cmds = append(cmds, waitForDocumentChange(m.common.deps.DocumentChanged))
	}
	return tea.Batch(cmds...)
}

// panelSpeech returns the named panel's narration controller.
func (m *model) panelSpeech(p panelID) *speech.Controller {
	switch p {
	case panelFlashcards:
		return m.flashcards.speech.ctl
	case panelQuiz:
		return m.quiz.speech.ctl
	case panelChat:
		return m.chat.speech.ctl
	case panelExplain:
		return m.explain.speech.ctl
	default:
		return m.summary.speech.ctl
	}
}

// stopSpeech is the implicit stop that runs on panel switches and quit.
// Every controller is stopped: the engine allows one playback, but a
// superseded panel could still be mid-Generating.
func (m *model) stopSpeech() {
	for p := panelSummary; p <= panelExplain; p++ {
		m.panelSpeech(p).Stop()
	}
	m.speechState = speech.StateIdle
}

// switchPanel changes the active panel, stopping any narration first.
func (m *model) switchPanel(p panelID) tea.Cmd {
	if p == m.panel {
		return nil
	}
	m.stopSpeech()
	m.panel = p
	log.Debug("switched panel", "panel", p.String())

	// Lazily kick off generation the first time a panel is shown.
	switch p {
	case panelFlashcards:
		if !m.flashcards.loaded {
			return m.flashcards.init()
		}
	case panelQuiz:
		if !m.quiz.loaded {
			return m.quiz.init()
		}
	case panelChat:
		return m.chat.focus()
	case panelExplain:
		return m.explain.focus()
	}
	return nil
}

// readAloud toggles narration of the active panel's visible text.
func (m *model) readAloud() tea.Cmd {
	var text string
	switch m.panel {
	case panelSummary:
		text = m.summary.readText()
	case panelFlashcards:
		text = m.flashcards.readText()
	case panelQuiz:
		text = m.quiz.readText()
	case panelChat:
		text = m.chat.readText()
	case panelExplain:
		text = m.explain.readText()
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}

	cmds := []tea.Cmd{speakCmd(m.panelSpeech(m.panel), text)}
	if !m.speechPolling {
		m.speechPolling = true
		cmds = append(cmds, speechPollCmd())
	}
	return tea.Batch(cmds...)
}

func (m *model) setStatus(s string, isErr bool) tea.Cmd {
	m.status = s
	m.statusIsErr = isErr
	return statusTimeoutCmd(statusMessageTimeout)
}

// capturing reports whether the active panel owns the keyboard, in which
// case single-letter global shortcuts must not fire.
func (m model) capturing() bool {
	switch m.panel {
	case panelChat:
		return m.chat.capturing()
	case panelExplain:
		return m.explain.capturing()
	}
	return false
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// If there's been a fatal error, any key exits.
	if m.fatalErr != nil {
		if _, ok := msg.(tea.KeyMsg); ok {
			return m, tea.Quit
		}
	}

	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.stopSpeech()
			return m, tea.Quit

		case "tab":
			next := (m.panel + 1) % panelID(len(panelNames))
			cmd := m.switchPanel(next)
			return m, cmd

		case "shift+tab":
			prev := (m.panel - 1 + panelID(len(panelNames))) % panelID(len(panelNames))
			cmd := m.switchPanel(prev)
			return m, cmd

		case "esc":
			if m.capturing() {
				// Let the panel release its input focus.
				break
			}

		case "q":
			if !m.capturing() {
				m.stopSpeech()
				return m, tea.Quit
			}

		case " ":
			if !m.capturing() {
				cmd := m.readAloud()
				return m, cmd
			}

		case "s":
			if !m.capturing() {
				m.stopSpeech()
				return m, nil
			}

		case "r":
			if !m.capturing() {
				m.stopSpeech()
				switch m.panel {
				case panelSummary:
					return m, m.summary.refresh()
				case panelFlashcards:
					return m, m.flashcards.refresh()
				case panelQuiz:
					return m, m.quiz.refresh()
				}
			}

		case "ctrl+z":
			return m, tea.Suspend
		}

	case tea.WindowSizeMsg:
		m.common.width = msg.Width
		m.common.height = msg.Height
		m.summary.setSize(msg.Width, msg.Height)
		m.flashcards.setSize(msg.Width, msg.Height)
		m.quiz.setSize(msg.Width, msg.Height)
		m.chat.setSize(msg.Width, msg.Height)
		m.explain.setSize(msg.Width, msg.Height)

	case speechTickMsg:
		ctl := m.panelSpeech(m.panel)
		state := ctl.State()
		m.speechState = state
		if state == speech.StateIdle {
			m.speechPolling = false
			if err := ctl.Err(); err != nil {
				cmds = append(cmds, m.setStatus(err.Error(), true))
			}
		} else {
			cmds = append(cmds, speechPollCmd())
		}

	case documentChangedMsg:
		log.Info("document changed on disk, reloading")
		cmds = append(cmds, m.setStatus("Document changed, reloading…", false))
		cmds = append(cmds, reloadDocumentCmd(m.common.deps.Reload))
		cmds = append(cmds, waitForDocumentChange(m.common.deps.DocumentChanged))

	case documentReloadedMsg:
		if msg.err != nil {
			cmds = append(cmds, m.setStatus("Reload failed: "+msg.err.Error(), true))
			break
		}
		// Drop generated panels so they rebuild from the new text. Their
		// narration stops and their speech caches go with them.
		m.stopSpeech()
		m.summary = newSummaryModel(m.common)
		m.flashcards = newFlashcardsModel(m.common)
		m.quiz = newQuizModel(m.common)
		m.summary.setSize(m.common.width, m.common.height)
		m.flashcards.setSize(m.common.width, m.common.height)
		m.quiz.setSize(m.common.width, m.common.height)
		cmds = append(cmds, m.setStatus("Document reloaded", false))
		cmds = append(cmds, m.summary.init())

	case statusTimeoutMsg:
		m.status = ""
		m.statusIsErr = false

	case errMsg:
		m.fatalErr = msg.err
		return m, nil
	}

	// Panel updates. Generation results are routed regardless of the
	// active panel so a slow response still lands.
	var cmd tea.Cmd
	m.summary, cmd = m.summary.update(msg, m.panel == panelSummary)
	cmds = append(cmds, cmd)
	m.flashcards, cmd = m.flashcards.update(msg, m.panel == panelFlashcards)
	cmds = append(cmds, cmd)
	m.quiz, cmd = m.quiz.update(msg, m.panel == panelQuiz)
	cmds = append(cmds, cmd)
	m.chat, cmd = m.chat.update(msg, m.panel == panelChat)
	cmds = append(cmds, cmd)
	m.explain, cmd = m.explain.update(msg, m.panel == panelExplain)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m model) View() string {
	if m.fatalErr != nil {
		return errorView(m.fatalErr, true)
	}

	var body string
	switch m.panel {
	case panelSummary:
		body = m.summary.view()
	case panelFlashcards:
		body = m.flashcards.view()
	case panelQuiz:
		body = m.quiz.view()
	case panelChat:
		body = m.chat.view()
	case panelExplain:
		body = m.explain.view()
	}

	return m.tabsView() + "\n" + body + "\n" + m.statusBarView()
}

func (m model) tabsView() string {
	tabs := make([]string, 0, len(panelNames))
	for p := panelSummary; p <= panelExplain; p++ {
		if p == m.panel {
			tabs = append(tabs, activeTabStyle.Render(p.String()))
		} else {
			tabs = append(tabs, tabStyle.Render(p.String()))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m model) statusBarView() string {
	doc := m.common.deps.Session.Document()
	left := fmt.Sprintf(" %s (%s)", doc.Path, humanize.Bytes(uint64(doc.Size)))
	if doc.OCR {
		left += " [OCR]"
	}

	var middle string
	switch m.speechState {
	case speech.StateGenerating:
		middle = generatingStyle.Render(" ◌ synthesizing")
	case speech.StatePlaying:
		middle = speakingStyle.Render(" ♪ speaking")
	}

	right := m.status
	style := statusBarStyle
	if m.statusIsErr {
		style = statusErrorStyle
	}

	bar := left + middle
	if right != "" {
		bar += "  " + right
	}
	if w := m.common.width; w > 0 && lipgloss.Width(bar) < w {
		bar += strings.Repeat(" ", w-lipgloss.Width(bar))
	}
	return style.Render(bar)
}

func errorView(err error, fatal bool) string {
	exitMsg := "press any key to "
	if fatal {
		exitMsg += "exit"
	} else {
		exitMsg += "return"
	}
	s := fmt.Sprintf("%s\n\n%v\n\n%s",
		errorTitleStyle.Render("ERROR"),
		err,
		subtleStyle.Render(exitMsg),
	)
	return "\n" + indent(s, 3)
}

// COMMANDS

func waitForDocumentChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return documentChangedMsg{}
	}
}

func reloadDocumentCmd(reload func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		if reload == nil {
			return documentReloadedMsg{}
		}
		return documentReloadedMsg{err: reload(context.Background())}
	}
}

// ETC

// Lightweight version of reflow's indent function.
func indent(s string, n int) string {
	if n <= 0 || s == "" {
		return s
	}
	l := strings.Split(s, "\n")
	b := strings.Builder{}
	i := strings.Repeat(" ", n)
	for _, v := range l {
		fmt.Fprintf(&b, "%s%s\n", i, v)
	}
	return b.String()
}
