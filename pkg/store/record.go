package store

import (
	"bytes"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/goccy/go-json"

	"github.com/goliatone/go-formserve/pkg/schema"
)

// Record is one accepted submission. It is never mutated once appended.
//
// On disk a record is a flat JSON object: one key per field name plus the
// schema.TimestampKey holding an RFC 3339 UTC timestamp.
type Record struct {
	Answers   map[string]string
	Timestamp time.Time
}

// NewRecord copies answers and normalises the timestamp to UTC.
func NewRecord(answers map[string]string, ts time.Time) Record {
	return Record{
		Answers:   cloneAnswers(answers),
		Timestamp: ts.UTC(),
	}
}

// Clone returns a deep copy of r.
func (r Record) Clone() Record {
	return Record{Answers: cloneAnswers(r.Answers), Timestamp: r.Timestamp}
}

// MarshalJSON implements json.Marshaler.
func (r Record) MarshalJSON() ([]byte, error) {
	flat := make(map[string]string, len(r.Answers)+1)
	for key, value := range r.Answers {
		if key == schema.TimestampKey {
			return nil, fmt.Errorf("store: answer key %q collides with the timestamp", key)
		}
		if !utf8.ValidString(key) || !utf8.ValidString(value) {
			return nil, fmt.Errorf("store: answer %q is not valid UTF-8", key)
		}
		flat[key] = value
	}
	flat[schema.TimestampKey] = r.Timestamp.UTC().Format(time.RFC3339Nano)
	return json.Marshal(flat)
}

// UnmarshalJSON implements json.Unmarshaler. Answer values must be strings;
// null is read as an empty answer.
func (r *Record) UnmarshalJSON(data []byte) error {
	if !bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		return errors.New("record must be a JSON object")
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	rawTS, ok := raw[schema.TimestampKey]
	if !ok {
		return fmt.Errorf("record is missing %q", schema.TimestampKey)
	}
	var tsText string
	if err := json.Unmarshal(rawTS, &tsText); err != nil {
		return fmt.Errorf("record %q must be a string: %w", schema.TimestampKey, err)
	}
	ts, err := time.Parse(time.RFC3339Nano, tsText)
	if err != nil {
		return fmt.Errorf("record %q: %w", schema.TimestampKey, err)
	}

	answers := make(map[string]string, len(raw)-1)
	for key, value := range raw {
		if key == schema.TimestampKey {
			continue
		}
		var text *string
		if err := json.Unmarshal(value, &text); err != nil {
			return fmt.Errorf("record answer %q must be a string: %w", key, err)
		}
		if text != nil {
			answers[key] = *text
		} else {
			answers[key] = ""
		}
	}

	r.Answers = answers
	r.Timestamp = ts.UTC()
	return nil
}

func cloneAnswers(src map[string]string) map[string]string {
	out := make(map[string]string, len(src))
	for key, value := range src {
		out[key] = value
	}
	return out
}
