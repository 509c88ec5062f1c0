package testgen

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Aastha-hs1d/JyotiPortal/core"
)

const pendingAnswer = "Answer coming soon..."

var mcqOptions = []string{"A. Option 1", "B. Option 2", "C. Option 3", "D. Option 4"}

// Build makes a placeholder test from validated options.
func Build(opts Options, now core.DateTime) Test {
	difficulty := strings.ToUpper(opts.Difficulty[:1]) + opts.Difficulty[1:]
	questions := make([]Question, 0, opts.Count)
	for i := 1; i <= opts.Count; i++ {
		q := Question{
			ID:     i,
			Text:   fmt.Sprintf("Q%d. (%s) This is a %s question based on concept #%d.", i, difficulty, opts.Type, i),
			Answer: pendingAnswer,
		}
		if opts.Type == TypeMCQ {
			q.Options = append([]string(nil), mcqOptions...)
		}
		questions = append(questions, q)
	}
	return Test{
		ID:         uuid.NewString(),
		FileName:   opts.FileName,
		Type:       opts.Type,
		Count:      opts.Count,
		Difficulty: opts.Difficulty,
		Date:       now,
		Questions:  questions,
	}
}
