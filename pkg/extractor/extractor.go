// Copyright Docuchat Authors
// SPDX-License-Identifier: Apache-2.0

// Package extractor turns uploaded file content into plain text plus a
// declared page count. Extraction failure is an error here; callers decide
// whether to tolerate it (the upload pipeline substitutes a sentinel).
package extractor

import (
	"path/filepath"
	"strings"
)

// ExtractText extracts plain text and a page count from file content based
// on the file extension. Unknown formats pass through as single-page plain
// text.
func ExtractText(content []byte, filename string) (string, int, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf":
		return extractPDF(content)
	default:
		return extractText(content)
	}
}
