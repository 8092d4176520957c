// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/notate/internal/annotation"
	"github.com/jeranaias/notate/internal/diff"
	"github.com/jeranaias/notate/internal/filetree"
	"github.com/jeranaias/notate/internal/review"
	"github.com/jeranaias/notate/internal/ui/components"
)

// =============================================================================
// UPDATE
// =============================================================================

// Update handles messages and returns the updated model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case treeLoadedMsg:
		return m.handleTree(msg)

	case statusLoadedMsg:
		if msg.err != nil {
			m.log.Warn().Err(msg.err).Msg("git status failed")
			return m, nil
		}
		m.gitStatus = msg.status
		if m.fileTree != nil {
			m.fileTree.SetStatus(m.gitStatus)
		}
		return m, nil

	case verdictsLoadedMsg:
		if msg.err != nil {
			m.setError("Reading verdicts", msg.err)
			return m, nil
		}
		m.verdicts = msg.verdicts
		m.tree.SetVerdicts(m.verdicts)
		return m, nil

	case fileLoadedMsg:
		return m.handleFileLoaded(msg)

	case verdictSavedMsg:
		if msg.err != nil {
			m.setError("Saving verdict", msg.err)
			return m, nil
		}
		m.log.Info().Str("path", msg.path).Stringer("verdict", msg.verdict).Msg("file reviewed")
		m.status.SetMessage(fmt.Sprintf("%s %s", capitalize(msg.verdict.String()), m.relPath(msg.path)), false)
		return m, nil

	case watcherStartedMsg:
		if msg.err != nil {
			m.setError("Watching files", msg.err)
			return m, nil
		}
		m.watcher = msg.watcher
		return m, waitForChangesCmd(m.watcher)

	case filesChangedMsg:
		return m.handleFilesChanged(msg)

	case watcherClosedMsg:
		m.watcher = nil
		return m, nil
	}

	if m.mode == ModeAnnotate {
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd
	}
	return m, nil
}

// =============================================================================
// DATA MESSAGES
// =============================================================================

func (m Model) handleTree(msg treeLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.setError("Scanning files", msg.err)
		return m, nil
	}

	// Keep directories open across rescans.
	if m.fileTree != nil {
		for _, dir := range expandedDirs(m.fileTree.Root()) {
			if i := msg.tree.Find(dir); i >= 0 {
				if e := msg.tree.Visible()[i]; !e.Node.Expanded {
					msg.tree.Toggle(i)
				}
			}
		}
	}
	if m.path != "" {
		msg.tree.Find(m.path)
	}
	if m.gitStatus != nil {
		msg.tree.SetStatus(m.gitStatus)
	}

	m.fileTree = msg.tree
	m.tree.SetTree(m.fileTree)
	if m.path != "" {
		m.tree.Select(m.path)
	}
	return m, nil
}

// expandedDirs lists the paths of expanded directories below root.
func expandedDirs(root *filetree.Node) []string {
	var dirs []string
	var walk func(n *filetree.Node)
	walk = func(n *filetree.Node) {
		for _, c := range n.Children {
			if c.IsDir && c.Expanded {
				dirs = append(dirs, c.Path)
				walk(c)
			}
		}
	}
	if root != nil {
		walk(root)
	}
	return dirs
}

func (m Model) handleFileLoaded(msg fileLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.path != m.loading {
		return m, nil
	}
	if msg.err != nil {
		m.setError("Opening "+m.relPath(msg.path), msg.err)
		return m, nil
	}
	if msg.baselineErr != nil {
		m.log.Warn().Err(msg.baselineErr).Str("path", msg.path).Msg("baseline unavailable")
		m.status.SetMessage("No baseline: "+msg.baselineErr.Error(), true)
	}

	samePath := msg.path == m.path
	if !samePath || m.highlighter == nil {
		m.highlighter = components.NewHighlighter(msg.path, m.cfg.UI.SyntaxStyle, lipgloss.ColorProfile())
	}

	m.path = msg.path
	m.doc = msg.doc
	m.baseline = msg.baseline
	m.tracked = msg.tracked

	m.source.SetDocument(m.doc, m.highlighter)
	if !samePath {
		m.source.GotoLine(1)
	}
	m.diffView.SetHighlighter(m.highlighter)
	m.diffView.SetDiff(m.relPath(m.path), msg.result, m.doc.Lines)
	m.list.SetItems(m.doc.Annotations())

	if m.opts.Store != nil {
		m.applyStoredVerdict(msg.verdict)
	}

	m.status.Path = m.relPath(m.path)
	m.status.Summary = msg.result.Summary()
	if !samePath {
		m.tree.Select(m.path)
	}
	m.log.Debug().Str("path", m.path).Str("summary", m.status.Summary).Msg("file loaded")
	return m, nil
}

// applyStoredVerdict shows entry on the diff unless the file changed since
// it was reviewed.
func (m *Model) applyStoredVerdict(entry *review.Entry) {
	if entry == nil {
		m.diffView.ClearVerdict()
		return
	}
	if entry.Stale(review.HashLines(m.doc.Stripped())) {
		m.diffView.ClearVerdict()
		m.status.SetMessage(fmt.Sprintf("Changed since %s", entry.Verdict), false)
		return
	}
	switch entry.Verdict {
	case review.Approved:
		m.diffView.Approve()
	case review.Rejected:
		m.diffView.Reject()
	}
}

func (m Model) handleFilesChanged(msg filesChangedMsg) (tea.Model, tea.Cmd) {
	m.log.Debug().Strs("paths", msg.paths).Msg("files changed")

	cmds := []tea.Cmd{
		buildTreeCmd(m.opts.Root, m.treeOptions()),
		loadStatusCmd(m.opts.Status),
		waitForChangesCmd(m.watcher),
	}
	if m.path != "" {
		for _, p := range msg.paths {
			if filepath.Clean(p) == m.path {
				cmds = append(cmds, m.loadFile(m.path))
				break
			}
		}
	}
	return m, tea.Batch(cmds...)
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m.quit()
	}

	switch m.mode {
	case ModeAnnotate:
		return m.handlePromptKey(msg)
	case ModeHelp:
		if key.Matches(msg, m.keys.Help, m.keys.Back, m.keys.Quit) {
			m.mode = m.prevMode
		}
		return m, nil
	case ModeList:
		return m.handleListKey(msg)
	}

	m.status.ClearMessage()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.Help):
		m.prevMode = m.mode
		m.mode = ModeHelp
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		cmd := m.refresh()
		return m, cmd

	case key.Matches(msg, m.keys.Focus):
		if m.mode == ModeBrowse {
			if m.doc != nil {
				m.mode = m.contentMode
			}
		} else {
			m.mode = ModeBrowse
		}
		return m, nil

	case key.Matches(msg, m.keys.Back):
		m.mode = ModeBrowse
		return m, nil

	case key.Matches(msg, m.keys.Diff):
		if m.doc == nil {
			m.status.SetMessage("No file open", true)
			return m, nil
		}
		if m.mode == ModeDiff {
			m.mode = ModeFile
		} else {
			m.mode = ModeDiff
		}
		m.contentMode = m.mode
		return m, nil

	case key.Matches(msg, m.keys.Unified):
		m.diffView.ToggleUnified()
		m.unified = m.diffView.Unified()
		return m, nil

	case key.Matches(msg, m.keys.Approve):
		return m.setVerdict(review.Approved)

	case key.Matches(msg, m.keys.Reject):
		return m.setVerdict(review.Rejected)
	}

	switch m.mode {
	case ModeBrowse:
		return m.handleBrowseKey(msg)
	case ModeFile:
		return m.handleFileKey(msg)
	case ModeDiff:
		return m.handleDiffKey(msg)
	}
	return m, nil
}

func (m Model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	page := max(1, m.height-4)

	switch {
	case key.Matches(msg, m.keys.Up):
		m.tree.MoveUp()
	case key.Matches(msg, m.keys.Down):
		m.tree.MoveDown()
	case key.Matches(msg, m.keys.PageUp):
		for range page {
			m.tree.MoveUp()
		}
	case key.Matches(msg, m.keys.PageDown):
		for range page {
			m.tree.MoveDown()
		}
	case key.Matches(msg, m.keys.Enter):
		sel := m.tree.Selected()
		if sel == nil {
			return m, nil
		}
		if sel.IsDir {
			m.tree.Toggle()
			return m, nil
		}
		m.mode = m.contentMode
		if sel.Path != m.path {
			cmd := m.loadFile(sel.Path)
			return m, cmd
		}
		return m, nil
	default:
		return m, nil
	}

	// Preview the file under the cursor.
	if sel := m.tree.Selected(); sel != nil && !sel.IsDir && sel.Path != m.path && sel.Path != m.loading {
		cmd := m.loadFile(sel.Path)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleFileKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.doc == nil {
		return m, nil
	}
	page := max(1, m.height-4)

	switch {
	case key.Matches(msg, m.keys.Up):
		m.source.MoveUp(1)
	case key.Matches(msg, m.keys.Down):
		m.source.MoveDown(1)
	case key.Matches(msg, m.keys.PageUp):
		m.source.MoveUp(page)
	case key.Matches(msg, m.keys.PageDown):
		m.source.MoveDown(page)
	case key.Matches(msg, m.keys.NextHunk):
		m.jumpToChange(true)
	case key.Matches(msg, m.keys.PrevHunk):
		m.jumpToChange(false)
	case key.Matches(msg, m.keys.Annotate):
		return m.openPrompt()
	case key.Matches(msg, m.keys.Unannotate):
		m.unannotate()
	case key.Matches(msg, m.keys.List):
		m.list.SetItems(m.doc.Annotations())
		m.prevMode = m.mode
		m.mode = ModeList
	case key.Matches(msg, m.keys.Copy):
		line := annotation.Strip(m.source.CurrentLine(), m.doc.Marker)
		m.copy(line, fmt.Sprintf("Copied line %d", m.source.Line()))
	}
	return m, nil
}

func (m Model) handleDiffKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.doc == nil {
		return m, nil
	}
	page := max(1, m.height-5)

	switch {
	case key.Matches(msg, m.keys.Up):
		m.diffView.ScrollUp(1)
	case key.Matches(msg, m.keys.Down):
		m.diffView.ScrollDown(1)
	case key.Matches(msg, m.keys.PageUp):
		m.diffView.ScrollUp(page)
	case key.Matches(msg, m.keys.PageDown):
		m.diffView.ScrollDown(page)
	case key.Matches(msg, m.keys.NextHunk):
		if !m.diffView.NextHunk() {
			m.status.SetMessage("No further changes", false)
		}
	case key.Matches(msg, m.keys.PrevHunk):
		if !m.diffView.PrevHunk() {
			m.status.SetMessage("No earlier changes", false)
		}
	case key.Matches(msg, m.keys.Annotate, m.keys.Unannotate):
		m.status.SetMessage("Press d for the file view to edit annotations", false)
	case key.Matches(msg, m.keys.Copy):
		patch := diff.FormatUnified(m.relPath(m.path), m.diffView.Result(), m.cfg.Diff.ContextLines)
		if patch == "" {
			m.status.SetMessage("No changes to copy", false)
			return m, nil
		}
		m.copy(patch, "Copied diff")
	}
	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.list.MoveUp()
	case key.Matches(msg, m.keys.Down):
		m.list.MoveDown()
	case key.Matches(msg, m.keys.Enter):
		if a, ok := m.list.Selected(); ok {
			m.source.GotoLine(a.Line)
			m.mode = ModeFile
			m.contentMode = ModeFile
			return m, nil
		}
		m.mode = m.prevMode
	case key.Matches(msg, m.keys.Back, m.keys.List, m.keys.Quit):
		m.mode = m.prevMode
	}
	return m, nil
}

// =============================================================================
// ANNOTATIONS
// =============================================================================

func (m Model) openPrompt() (tea.Model, tea.Cmd) {
	line := m.source.Line()
	if line == 0 {
		m.status.SetMessage("Nothing to annotate", true)
		return m, nil
	}

	existing := ""
	for _, a := range m.doc.Annotations() {
		if a.Line == line {
			existing = a.Text
			break
		}
	}

	m.promptLine = line
	m.prompt.SetValue(existing)
	m.prompt.CursorEnd()
	cmd := m.prompt.Focus()
	m.prevMode = m.mode
	m.mode = ModeAnnotate
	return m, cmd
}

func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.closePrompt()
		return m, nil

	case tea.KeyEnter:
		text := strings.TrimSpace(m.prompt.Value())
		line := m.promptLine
		m.closePrompt()

		if text == "" {
			if m.doc.Unannotate(line) {
				m.saveDocument(fmt.Sprintf("Removed annotation from line %d", line))
			}
			return m, nil
		}
		if err := m.doc.Annotate(line, text); err != nil {
			m.setError("Annotating", err)
			return m, nil
		}
		m.saveDocument(fmt.Sprintf("Annotated line %d", line))
		return m, nil
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m *Model) closePrompt() {
	m.prompt.Blur()
	m.prompt.Reset()
	m.mode = m.prevMode
}

func (m *Model) unannotate() {
	line := m.source.Line()
	if line == 0 || !m.doc.Unannotate(line) {
		m.status.SetMessage(fmt.Sprintf("No annotation on line %d", line), false)
		return
	}
	m.saveDocument(fmt.Sprintf("Removed annotation from line %d", line))
}

// saveDocument writes the document and redraws everything that shows it.
// Annotations never change the stripped lines, so the diff is reused.
func (m *Model) saveDocument(done string) {
	if err := m.doc.Save(); err != nil {
		m.setError("Saving "+m.relPath(m.path), err)
		return
	}
	m.source.SetDocument(m.doc, m.highlighter)
	m.diffView.SetDiff(m.relPath(m.path), m.diffView.Result(), m.doc.Lines)
	m.list.SetItems(m.doc.Annotations())
	m.status.SetMessage(done, false)
	m.log.Info().Str("path", m.path).Msg(done)
}

// =============================================================================
// ACTIONS
// =============================================================================

func (m Model) setVerdict(v review.Verdict) (tea.Model, tea.Cmd) {
	if m.doc == nil {
		m.status.SetMessage("No file open", true)
		return m, nil
	}

	switch v {
	case review.Approved:
		m.diffView.Approve()
	case review.Rejected:
		m.diffView.Reject()
	}
	m.verdicts[m.path] = v
	m.tree.SetVerdicts(m.verdicts)

	if m.opts.Store == nil {
		m.status.SetMessage(fmt.Sprintf("%s (not saved)", capitalize(v.String())), false)
		return m, nil
	}
	return m, markCmd(m.opts.Store, m.path, review.HashLines(m.doc.Stripped()), v)
}

// jumpToChange moves the source cursor to the next or previous working line
// that differs from HEAD.
func (m *Model) jumpToChange(forward bool) {
	cur := m.source.Line()
	target := 0
	for _, l := range m.diffView.Result().Lines {
		if l.Working == nil || l.Kind() == diff.LineUnchanged {
			continue
		}
		n := l.Working.Number
		if forward && n > cur {
			target = n
			break
		}
		if !forward && n < cur {
			target = n
		}
	}
	if target == 0 {
		m.status.SetMessage("No further changes", false)
		return
	}
	m.source.GotoLine(target)
}

func (m *Model) copy(text, done string) {
	if err := m.opts.Clipboard(text); err != nil {
		m.setError("Copying", err)
		return
	}
	m.status.SetMessage(done, false)
}

func (m *Model) refresh() tea.Cmd {
	cmds := []tea.Cmd{
		buildTreeCmd(m.opts.Root, m.treeOptions()),
		loadStatusCmd(m.opts.Status),
		loadVerdictsCmd(m.opts.Store),
	}
	if m.path != "" {
		cmds = append(cmds, m.loadFile(m.path))
	}
	return tea.Batch(cmds...)
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	if err := m.Close(); err != nil {
		m.log.Warn().Err(err).Msg("closing watcher")
	}
	return m, tea.Quit
}

// setError shows err in the status bar and logs it.
func (m *Model) setError(action string, err error) {
	m.log.Error().Err(err).Msg(action)
	m.status.SetMessage(fmt.Sprintf("%s: %v", action, err), true)
}

// relPath returns path relative to the browsed root when it lies below it.
func (m Model) relPath(path string) string {
	if rel, err := filepath.Rel(m.opts.Root, path); err == nil && !strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(rel)
	}
	return path
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
