// Copyright Docuchat Authors
// SPDX-License-Identifier: Apache-2.0

package extractor

// extractText returns the content as-is (plain text pass-through, one page).
func extractText(content []byte) (string, int, error) {
	return string(content), 1, nil
}
