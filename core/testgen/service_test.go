package testgen

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aastha-hs1d/JyotiPortal/core"
)

type fakeRepo struct {
	tests []Test
}

func (r *fakeRepo) QueryAllTests(context.Context) ([]Test, error) {
	res := make([]Test, len(r.tests))
	copy(res, r.tests)
	return res, nil
}

func (r *fakeRepo) SaveTests(_ context.Context, tests []Test) error {
	r.tests = tests
	return nil
}

func setup(t *testing.T) (*Service, *fakeRepo) {
	t.Helper()
	repo := &fakeRepo{}
	return NewService(repo, core.NewValidator(core.NewTranslator())), repo
}

func TestBuild(t *testing.T) {
	now := core.DateTime{Time: time.Date(2024, 4, 15, 9, 0, 0, 0, time.UTC)}

	mcq := Build(Options{FileName: "ch1.pdf", Type: TypeMCQ, Difficulty: DifficultyHard, Count: 3}, now)
	require.Len(t, mcq.Questions, 3)
	assert.Equal(t, "Q2. (Hard) This is a mcq question based on concept #2.", mcq.Questions[1].Text)
	assert.Equal(t, mcqOptions, mcq.Questions[0].Options)
	assert.Equal(t, "Answer coming soon...", mcq.Questions[2].Answer)
	assert.NotEmpty(t, mcq.ID)

	short := Build(Options{FileName: "ch1.pdf", Type: TypeShort, Difficulty: DifficultyEasy, Count: 1}, now)
	assert.Nil(t, short.Questions[0].Options)
	assert.NotEqual(t, mcq.ID, short.ID)
}

func TestService_Generate(t *testing.T) {
	ctx := context.Background()
	svc, repo := setup(t)

	var last Test
	for i := 0; i < 7; i++ {
		test, err := svc.Generate(ctx, Options{FileName: "notes.pdf", Count: i + 1})
		require.NoError(t, err)
		assert.Equal(t, TypeMixed, test.Type)
		assert.Equal(t, DifficultyMedium, test.Difficulty)
		last = test
	}
	require.Len(t, repo.tests, keepTests)
	assert.Equal(t, last.ID, repo.tests[0].ID)
	assert.Equal(t, 3, repo.tests[4].Count)

	got, err := svc.GetByID(ctx, last.ID)
	require.NoError(t, err)
	assert.Equal(t, last.ID, got.ID)
	_, err = svc.GetByID(ctx, "nope")
	assert.Equal(t, ErrNotFound, err)

	tests := []struct {
		name string
		opts Options
	}{
		{"no file", Options{Count: 1}},
		{"zero questions", Options{FileName: "a.pdf", Count: 0}},
		{"unknown type", Options{FileName: "a.pdf", Type: "essay", Count: 1}},
		{"unknown difficulty", Options{FileName: "a.pdf", Difficulty: "extreme", Count: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Generate(ctx, tt.opts)
			assert.Error(t, err)
		})
	}
}

func TestService_ExportPDF(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t)
	test, err := svc.Generate(ctx, Options{FileName: "notes.pdf", Type: TypeMCQ, Count: 40})
	require.NoError(t, err)

	var plain, answers bytes.Buffer
	require.NoError(t, svc.ExportPDF(ctx, test.ID, false, &plain))
	require.NoError(t, svc.ExportPDF(ctx, test.ID, true, &answers))
	assert.True(t, strings.HasPrefix(plain.String(), "%PDF-"))
	assert.Greater(t, answers.Len(), plain.Len())

	assert.Equal(t, ErrNotFound, svc.ExportPDF(ctx, "nope", false, &plain))
}

func TestExtractText_unreadable(t *testing.T) {
	data := []byte("definitely not a pdf")
	assert.Equal(t, UnreadableText, ExtractText(bytes.NewReader(data), int64(len(data))))
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "abc", Preview("abc", 5))
	assert.Equal(t, "ab...", Preview("abcdef", 2))
}

func TestTest_legacyJSON(t *testing.T) {
	data := []byte(`[{"id": 1712345678901, "fileName": "ch2.pdf", "type": "mcq", "count": 1, "difficulty": "easy",
		"date": "4/15/2024, 9:30:00 AM", "questions": [{"id": 1, "text": "Q1.", "options": null, "answer": "x"}]}]`)
	var tests []Test
	require.NoError(t, json.Unmarshal(data, &tests))
	require.Len(t, tests, 1)
	assert.Equal(t, "1712345678901", tests[0].ID)
	assert.True(t, tests[0].Date.IsZero())
	assert.Equal(t, "ch2.pdf", tests[0].FileName)
	require.Len(t, tests[0].Questions, 1)
}
