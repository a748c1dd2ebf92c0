// Copyright Docuchat Authors
// SPDX-License-Identifier: Apache-2.0

package extractor

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// extractPDF extracts text content and the page count from a PDF file.
func extractPDF(content []byte) (string, int, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", 0, fmt.Errorf("open PDF: %w", err)
	}

	var sb strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(text)
	}

	if strings.TrimSpace(sb.String()) == "" {
		// Image-only or encrypted PDFs open fine but yield nothing.
		return "", 0, fmt.Errorf("no extractable text in PDF")
	}

	if numPages < 1 {
		numPages = 1
	}
	return sb.String(), numPages, nil
}
