package exams

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/Its-donkey/examdeck/internal/ui/model"
)

// decodeFilterOptions expects {"examBoards":[...],"levels":[...],"subjects":[...]}.
// Missing or null lists decode as empty.
func decodeFilterOptions(endpoint string, body []byte) (model.FilterOptions, error) {
	if firstByte(body) != '{' {
		return model.FilterOptions{}, &SchemaError{Endpoint: endpoint, Reason: "expected a JSON object"}
	}
	var opts model.FilterOptions
	if err := json.Unmarshal(body, &opts); err != nil {
		return model.FilterOptions{}, &SchemaError{Endpoint: endpoint, Reason: "decode filter options", Err: err}
	}
	if opts.ExamBoards == nil {
		opts.ExamBoards = []string{}
	}
	if opts.Levels == nil {
		opts.Levels = []string{}
	}
	if opts.Subjects == nil {
		opts.Subjects = []string{}
	}
	return opts, nil
}

// decodeExams expects an array of objects carrying string "level" and "subject"
// fields. Any other fields are kept in Exam.Extra.
func decodeExams(endpoint string, body []byte) ([]model.Exam, error) {
	if firstByte(body) != '[' {
		return nil, &SchemaError{Endpoint: endpoint, Reason: "expected a JSON array"}
	}
	var rows []map[string]json.RawMessage
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, &SchemaError{Endpoint: endpoint, Reason: "decode exams", Err: err}
	}

	exams := make([]model.Exam, 0, len(rows))
	for i, row := range rows {
		if row == nil {
			return nil, &SchemaError{Endpoint: endpoint, Reason: fmt.Sprintf("exam %d is not an object", i)}
		}
		level, err := requiredString(row, "level")
		if err != nil {
			return nil, &SchemaError{Endpoint: endpoint, Reason: fmt.Sprintf("exam %d", i), Err: err}
		}
		subject, err := requiredString(row, "subject")
		if err != nil {
			return nil, &SchemaError{Endpoint: endpoint, Reason: fmt.Sprintf("exam %d", i), Err: err}
		}
		delete(row, "level")
		delete(row, "subject")

		exam := model.Exam{Level: level, Subject: subject}
		if len(row) > 0 {
			exam.Extra = row
		}
		exams = append(exams, exam)
	}
	return exams, nil
}

func requiredString(row map[string]json.RawMessage, key string) (string, error) {
	raw, ok := row[key]
	if !ok {
		return "", fmt.Errorf("missing %q", key)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil || firstByte(raw) != '"' {
		return "", fmt.Errorf("%q must be a string", key)
	}
	return s, nil
}

func firstByte(b []byte) byte {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return 0
	}
	return b[0]
}
