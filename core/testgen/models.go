package testgen

import (
	"encoding/json"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Aastha-hs1d/JyotiPortal/core"
)

const (
	TypeMCQ     = "mcq"
	TypeShort   = "short"
	TypeLong    = "long"
	TypeFillups = "fillups"
	TypeMixed   = "mixed"

	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

type Question struct {
	ID      int      `json:"id"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
	Answer  string   `json:"answer"`
}

// Test is a generated question paper.
type Test struct {
	ID         string        `json:"id"`
	FileName   string        `json:"fileName"`
	Type       string        `json:"type"`
	Count      int           `json:"count"`
	Difficulty string        `json:"difficulty"`
	Date       core.DateTime `json:"date"`
	Questions  []Question    `json:"questions"`
}

// UnmarshalJSON also reads tests saved by the browser dashboard, which used numeric ids
// and locale formatted dates. Unreadable dates are left zero.
func (t *Test) UnmarshalJSON(data []byte) error {
	type alias Test
	var raw struct {
		alias
		ID   json.RawMessage `json:"id"`
		Date json.RawMessage `json:"date"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*t = Test(raw.alias)

	var id string
	if err := json.Unmarshal(raw.ID, &id); err == nil {
		t.ID = id
	} else {
		t.ID = strings.TrimSpace(string(raw.ID))
	}
	var date core.DateTime
	if err := json.Unmarshal(raw.Date, &date); err == nil {
		t.Date = date
	}
	return nil
}

// Options contains the preferences a test is generated with.
type Options struct {
	FileName   string `json:"fileName" validate:"notblank"`
	Type       string `json:"type" validate:"oneof=mcq short long fillups mixed"`
	Difficulty string `json:"difficulty" validate:"oneof=easy medium hard"`
	Count      int    `json:"count" validate:"min=1,max=100"`
}

func (o *Options) Validate(validate *validator.Validate) error {
	o.FileName = core.CleanString(o.FileName)
	o.Type = core.CleanString(o.Type, true /* lower */)
	if o.Type == "" {
		o.Type = TypeMixed
	}
	o.Difficulty = core.CleanString(o.Difficulty, true /* lower */)
	if o.Difficulty == "" {
		o.Difficulty = DifficultyMedium
	}
	return validate.Struct(o)
}
