package domain

import (
	"bytes"
	"encoding/json"
)

// LabeledValue is one row of a report section. Value holds a string or a number.
type LabeledValue struct {
	Label string
	Value any
}

// Section is an ordered list of report rows. Labels are unique within a section.
type Section []LabeledValue

// Report holds the four sections produced from a single analysis.
type Report struct {
	Overview          Section
	LoadingExperience Section
	Statistics        Section
	RuleSetResults    Section
}

// Lookup returns the value of the first row carrying label.
func (s Section) Lookup(label string) (any, bool) {
	for _, row := range s {
		if row.Label == label {
			return row.Value, true
		}
	}
	return nil, false
}

// MarshalJSON encodes the section as a JSON object keyed by label. Keys keep
// the position of their first occurrence; a repeated label overwrites the value.
func (s Section) MarshalJSON() ([]byte, error) {
	index := make(map[string]int, len(s))
	var labels []string
	values := make([]any, 0, len(s))
	for _, row := range s {
		if i, ok := index[row.Label]; ok {
			values[i] = row.Value
			continue
		}
		index[row.Label] = len(labels)
		labels = append(labels, row.Label)
		values = append(values, row.Value)
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, label := range labels {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalValue(label)
		if err != nil {
			return nil, err
		}
		value, err := marshalValue(values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func marshalValue(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
