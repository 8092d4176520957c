// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package annotation reads and writes inline review annotations.
//
// An annotation is a trailing comment of the form
//
//	<code> <marker> [ANNOTATION] <text>
//
// where marker is the line-comment syntax of the file's language ("//" for
// Go, "#" for Python, ...). Annotations live in the working copy only, so
// diffs against the last commit are computed on the stripped lines.
//
// # Usage
//
//	doc, err := annotation.Load("main.go", annotation.LoadOptions{Markers: cfg.Annotations.Markers})
//	if err != nil {
//	    return err
//	}
//	if err := doc.Annotate(12, "check the error path"); err != nil {
//	    return err
//	}
//	result := diff.Align(doc.Stripped(), baseline)
//	err = doc.Save()
package annotation
