// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/jeranaias/notate/internal/annotation"
	"github.com/jeranaias/notate/internal/ui/styles"
	"github.com/jeranaias/notate/internal/util"
)

// AnnotationList is a selectable list of the annotations of one file.
type AnnotationList struct {
	theme  *styles.Theme
	items  []annotation.Annotation
	cursor int
	width  int
	height int
}

// NewAnnotationList creates an empty list.
func NewAnnotationList(theme *styles.Theme) *AnnotationList {
	return &AnnotationList{theme: theme, width: 60, height: 10}
}

// SetItems replaces the annotations.
func (l *AnnotationList) SetItems(items []annotation.Annotation) {
	l.items = items
	l.cursor = max(0, min(l.cursor, len(items)-1))
}

// Len returns the number of annotations.
func (l *AnnotationList) Len() int {
	return len(l.items)
}

// SetSize sets the list dimensions.
func (l *AnnotationList) SetSize(width, height int) {
	l.width = width
	l.height = height
}

// MoveUp moves the selection up.
func (l *AnnotationList) MoveUp() {
	l.cursor = max(0, l.cursor-1)
}

// MoveDown moves the selection down.
func (l *AnnotationList) MoveDown() {
	l.cursor = max(0, min(l.cursor+1, len(l.items)-1))
}

// Selected returns the selected annotation.
func (l *AnnotationList) Selected() (annotation.Annotation, bool) {
	if len(l.items) == 0 {
		return annotation.Annotation{}, false
	}
	return l.items[l.cursor], true
}

// View renders the list in a box.
func (l *AnnotationList) View() string {
	var body string
	if len(l.items) == 0 {
		body = l.theme.Placeholder.Render("No annotations in this file")
	} else {
		inner := max(10, l.width-6)
		start := max(0, l.cursor-max(1, l.height)+1)
		end := min(len(l.items), start+max(1, l.height))

		var rows []string
		for i := start; i < end; i++ {
			a := l.items[i]
			num := fmt.Sprintf("%5d  ", a.Line)
			text := util.PadWidth(a.Text, max(1, inner-len(num)))
			row := l.theme.LineNumber.Render(num) + l.theme.Annotation.Render(text)
			if i == l.cursor {
				row = l.theme.Selected.Render(num + text)
			}
			rows = append(rows, row)
		}
		body = strings.Join(rows, "\n")
	}

	title := l.theme.HeaderTitle.Render(fmt.Sprintf("Annotations (%d)", len(l.items)))
	return l.theme.HelpBox.Render(title + "\n\n" + body)
}
