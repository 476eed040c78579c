package model

import (
	"encoding/json"
	"net/url"
)

// Selection is the user's current exam board, level and subject choice.
// An empty field means the matching dropdown has nothing selected.
type Selection struct {
	ExamBoard string `json:"examBoard"`
	Level     string `json:"level"`
	Subject   string `json:"subject"`
}

// Form encodes the selection the way the filter endpoints expect it.
func (s Selection) Form() url.Values {
	return url.Values{
		"examBoard": {s.ExamBoard},
		"level":     {s.Level},
		"subject":   {s.Subject},
	}
}

// FilterOptions lists the server-declared values for the three filter dropdowns.
type FilterOptions struct {
	ExamBoards []string `json:"examBoards"`
	Levels     []string `json:"levels"`
	Subjects   []string `json:"subjects"`
}

// Exam is a single result row rendered as a card.
type Exam struct {
	Level   string `json:"level"`
	Subject string `json:"subject"`

	// Extra keeps the fields the card does not display.
	Extra map[string]json.RawMessage `json:"-"`
}
