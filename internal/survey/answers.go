package survey

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotObject is returned when the submission body is valid JSON but not an object.
var ErrNotObject = errors.New("submission body must be a JSON object")

var errInvalidJSON = errors.New("decode submission: invalid JSON")

// DecodeAnswers parses a submission body into Answers.
// Values are passed through without validation: strings keep their text,
// null stays nil, anything else keeps its compact JSON text. Unknown keys
// are ignored. An empty body is an empty submission.
func DecodeAnswers(body []byte) (Answers, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return Answers{}, nil
	}
	if body[0] != '{' {
		if json.Valid(body) {
			return nil, ErrNotObject
		}
		return nil, errInvalidJSON
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode submission: %w", err)
	}

	out := make(Answers, len(Fields))
	for _, f := range Fields {
		v, ok := raw[f.JSON]
		if !ok {
			continue
		}
		s, err := scalarText(v)
		if err != nil {
			return nil, fmt.Errorf("decode field %s: %w", f.JSON, err)
		}
		out[f.JSON] = s
	}
	return out, nil
}

func scalarText(v json.RawMessage) (*string, error) {
	v = bytes.TrimSpace(v)
	if len(v) == 0 || bytes.Equal(v, []byte("null")) {
		return nil, nil
	}
	if v[0] == '"' {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return nil, err
		}
		return &s, nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, v); err != nil {
		return nil, err
	}
	s := buf.String()
	return &s, nil
}
