package core

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
)

// AmountInput is a money amount as typed in a form. It decodes from a JSON string or number.
type AmountInput string

func (a *AmountInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return errors.Wrap(err, "decoding amount")
		}
		*a = AmountInput(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return errors.Wrap(err, "decoding amount")
	}
	*a = AmountInput(n.String())
	return nil
}
