package testgen

import (
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

const (
	maxExtractPages = 5

	UnreadableText = "⚠️ Unable to read text from this file."
	EmptyText      = "No readable text found in this PDF."
)

// ExtractText returns the text of the first pages of a PDF, one paragraph per page.
// Failures never surface: unreadable files yield UnreadableText and text-less ones EmptyText.
func ExtractText(r io.ReaderAt, size int64) (text string) {
	defer func() {
		// the pdf reader panics on some malformed files
		if rec := recover(); rec != nil {
			text = UnreadableText
		}
	}()

	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return UnreadableText
	}

	var sb strings.Builder
	pages := reader.NumPage()
	if pages > maxExtractPages {
		pages = maxExtractPages
	}
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			return UnreadableText
		}
		fmt.Fprintf(&sb, "%s\n\n", strings.Join(strings.Fields(content), " "))
	}
	if strings.TrimSpace(sb.String()) == "" {
		return EmptyText
	}
	return sb.String()
}

// Preview shortens text to n runes, marking the cut with "...".
func Preview(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}
