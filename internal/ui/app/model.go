// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"path/filepath"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/jeranaias/notate/internal/annotation"
	"github.com/jeranaias/notate/internal/config"
	"github.com/jeranaias/notate/internal/diff"
	"github.com/jeranaias/notate/internal/filetree"
	"github.com/jeranaias/notate/internal/review"
	"github.com/jeranaias/notate/internal/ui/components"
	"github.com/jeranaias/notate/internal/ui/styles"
	"github.com/jeranaias/notate/internal/vcs"
)

// =============================================================================
// MODE
// =============================================================================

// Mode is what the screen is currently showing and where keys go.
type Mode int

const (
	ModeBrowse Mode = iota
	ModeFile
	ModeDiff
	ModeAnnotate
	ModeList
	ModeHelp
)

// String returns the mode name shown in the status bar.
func (m Mode) String() string {
	switch m {
	case ModeBrowse:
		return "browse"
	case ModeFile:
		return "file"
	case ModeDiff:
		return "diff"
	case ModeAnnotate:
		return "annotate"
	case ModeList:
		return "list"
	case ModeHelp:
		return "help"
	default:
		return "unknown"
	}
}

// =============================================================================
// OPTIONS
// =============================================================================

// Options configure a Model. Only Root is required.
type Options struct {
	Root     string         // Directory shown in the tree
	File     string         // File opened at startup, if any
	Config   *config.Config // Defaults to config.Default()
	Theme    *styles.Theme  // Defaults to NewTheme(Config.UI.Theme)
	Provider vcs.Provider   // Baseline source, nil compares against nothing
	Status   StatusSource   // Git status for tree markers, may be nil
	Store    *review.Store  // Verdict storage, may be nil
	Watch    bool           // Reload on filesystem changes
	Logger   zerolog.Logger

	// Clipboard copies text; defaults to the system clipboard.
	Clipboard func(string) error
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the root Bubble Tea model.
type Model struct {
	opts  Options
	cfg   *config.Config
	theme *styles.Theme
	keys  KeyMap
	log   zerolog.Logger

	// Components
	tree     *components.FileTreeView
	source   *components.SourceView
	diffView *components.DiffViewer
	list     *components.AnnotationList
	status   *components.StatusBar
	prompt   textinput.Model
	help     help.Model

	// State
	mode        Mode
	prevMode    Mode   // mode to return to from overlays
	contentMode Mode   // ModeFile or ModeDiff, shown beside the tree
	path        string // open file, absolute
	loading     string // file whose load result is awaited
	doc         *annotation.Document
	highlighter *components.Highlighter
	fileTree    *filetree.Tree
	gitStatus   map[string]vcs.FileStatus
	baseline    string
	tracked     bool
	verdicts    map[string]review.Verdict
	watcher     *filetree.Watcher
	promptLine  int
	unified     bool // preferred diff layout, split when there is room

	width    int
	height   int
	quitting bool
}

// New creates a Model for opts.
func New(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme(cfg.UI.Theme)
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}
	if abs, err := filepath.Abs(opts.Root); err == nil {
		opts.Root = abs
	}
	if opts.File != "" {
		if abs, err := filepath.Abs(opts.File); err == nil {
			opts.File = abs
		}
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Annotation text (empty removes)"
	ti.CharLimit = 500
	ti.Cursor.SetMode(cursor.CursorStatic)

	m := Model{
		opts:        opts,
		cfg:         cfg,
		theme:       theme,
		keys:        DefaultKeyMap(),
		log:         opts.Logger.With().Str("component", "ui").Logger(),
		tree:        components.NewFileTreeView(theme),
		source:      components.NewSourceView(theme),
		diffView:    components.NewDiffViewer(theme),
		list:        components.NewAnnotationList(theme),
		status:      components.NewStatusBar(theme),
		prompt:      ti,
		help:        help.New(),
		mode:        ModeBrowse,
		contentMode: ModeFile,
		loading:     opts.File,
		verdicts:    map[string]review.Verdict{},
		width:       80,
		height:      24,
	}

	m.source.SetTabWidth(cfg.UI.TabWidth)
	m.source.SetLineNumbers(cfg.UI.LineNumbers)
	m.diffView.SetTabWidth(cfg.UI.TabWidth)
	m.diffView.SetLineNumbers(cfg.UI.LineNumbers)
	m.diffView.SetShowWhitespace(cfg.Diff.ShowWhitespace)
	m.status.Shortcuts = shortcuts(m.keys)
	m.resize()
	return m
}

// Init starts loading the tree, git status, stored verdicts, the initial
// file and the watcher.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		buildTreeCmd(m.opts.Root, m.treeOptions()),
		loadStatusCmd(m.opts.Status),
		loadVerdictsCmd(m.opts.Store),
	}
	if m.opts.File != "" {
		cmds = append(cmds, loadFileCmd(m.opts.File, m.loadOptions(), m.opts.Provider, m.opts.Store))
	}
	if m.opts.Watch {
		cmds = append(cmds, startWatcherCmd(m.opts.Root, m.cfg.Files.IgnorePatterns, m.debounce(), m.log))
	}
	return tea.Batch(cmds...)
}

// Mode returns the current mode.
func (m Model) Mode() Mode {
	return m.mode
}

// Path returns the path of the open file.
func (m Model) Path() string {
	return m.path
}

// Document returns the open document.
func (m Model) Document() *annotation.Document {
	return m.doc
}

// Result returns the diff of the open file.
func (m Model) Result() diff.Result {
	return m.diffView.Result()
}

// Close stops the watcher. It is safe to call more than once.
func (m Model) Close() error {
	if m.watcher != nil {
		return m.watcher.Close()
	}
	return nil
}

func (m Model) treeOptions() filetree.Options {
	return filetree.Options{Ignore: m.cfg.Files.IgnorePatterns}
}

func (m Model) loadOptions() annotation.LoadOptions {
	return annotation.LoadOptions{
		Markers: m.cfg.Annotations.Markers,
		MaxSize: m.cfg.Files.MaxFileSize,
	}
}

// loadFile starts loading path. Results for any other path that arrive
// later are dropped.
func (m *Model) loadFile(path string) tea.Cmd {
	m.loading = path
	return loadFileCmd(path, m.loadOptions(), m.opts.Provider, m.opts.Store)
}

func (m Model) debounce() time.Duration {
	if m.cfg.Files.WatchDebounceMS > 0 {
		return time.Duration(m.cfg.Files.WatchDebounceMS) * time.Millisecond
	}
	return filetree.DefaultDebounce
}

// showTree reports whether the layout has room for the tree pane.
func (m Model) showTree() bool {
	return m.theme.GetLayoutMode() != styles.LayoutNarrow
}

// resize distributes the terminal size over the panes. Each pane has a one
// cell border on every side and the status bar takes the last line.
func (m *Model) resize() {
	m.theme.SetSize(m.width, m.height)

	paneHeight := max(1, m.height-1-2)
	treeWidth := 0
	if m.showTree() {
		treeWidth = min(m.cfg.UI.TreeWidth, m.width/2)
		m.tree.SetSize(max(1, treeWidth-2), paneHeight)
	}
	contentWidth := max(1, m.width-treeWidth-2)

	m.source.SetSize(contentWidth, paneHeight)
	m.diffView.SetSize(contentWidth, paneHeight)
	m.list.SetSize(min(m.width-4, 100), max(1, m.height-8))
	m.status.SetWidth(m.width)
	m.prompt.Width = max(10, min(m.width-10, 100))
	m.help.Width = m.width

	m.diffView.SetUnified(m.unified || m.theme.GetLayoutMode() != styles.LayoutWide)
}

// shortcuts converts the short help bindings for the status bar.
func shortcuts(k KeyMap) []components.Shortcut {
	var out []components.Shortcut
	for _, b := range k.ShortHelp() {
		h := b.Help()
		out = append(out, components.Shortcut{Key: h.Key, Desc: h.Desc})
	}
	return out
}
