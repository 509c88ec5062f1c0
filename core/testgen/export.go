package testgen

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
	"github.com/pkg/errors"
)

const (
	pageBreakY = 270.0
	topY       = 20.0
)

// WritePDF renders test as a plain A4 question paper, optionally with the answers.
func WritePDF(w io.Writer, test Test, showAnswers bool) error {
	doc := gofpdf.New("P", "mm", "A4", "")
	tr := doc.UnicodeTranslatorFromDescriptor("")
	doc.AddPage()

	title := test.FileName
	if title == "" {
		title = "Untitled"
	}
	y := topY
	doc.SetFont("Helvetica", "", 14)
	doc.Text(10, y, tr("Generated Test — "+title))
	y += 10
	doc.SetFont("Helvetica", "", 11)

	for i, q := range test.Questions {
		if y > pageBreakY {
			doc.AddPage()
			y = topY
		}
		doc.Text(10, y, tr(fmt.Sprintf("%d. %s", i+1, q.Text)))
		y += 8

		for _, opt := range q.Options {
			doc.Text(14, y, tr(opt))
			y += 6
		}

		if showAnswers {
			doc.SetTextColor(0, 128, 0)
			doc.Text(14, y, tr("Answer: "+q.Answer))
			doc.SetTextColor(0, 0, 0)
			y += 8
		}
		y += 4
	}
	return errors.Wrap(doc.Output(w), "writing pdf")
}
