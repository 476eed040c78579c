// Package dom describes the page elements the exam deck reads and mutates,
// independent of whether they live in a browser or in a parsed HTML tree.
package dom

import (
	"fmt"
	"strings"
)

// Element IDs the host page must provide.
const (
	UpdateButtonID    = "updateButton"
	CardDeckID        = "examsCardDeck"
	ExamBoardSelectID = "examBoardSelect"
	LevelSelectID     = "levelSelect"
	SubjectSelectID   = "subjectSelect"
)

// Card markup classes.
const (
	CardClass      = "card"
	CardBodyClass  = "card-body"
	CardTitleClass = "card-title"
	CardTextClass  = "card-text"
)

// Document looks up elements by id. The bool result is false when the id is missing
// or names an element of the wrong kind.
type Document interface {
	Select(id string) (Select, bool)
	Container(id string) (Container, bool)
	Button(id string) (Button, bool)
}

// Select is a <select> element.
type Select interface {
	// Value returns the selected option's value, or "" when nothing is selected.
	Value() string
	// HasOption reports whether an option with the given value attribute exists.
	HasOption(value string) bool
	// SelectOption selects the option with the given value without firing change
	// events and reports whether one exists.
	SelectOption(value string) bool
	// AddOption appends an <option>.
	AddOption(text, value string)
	// OnChange registers fn for change events and returns a func that unregisters it.
	OnChange(fn func()) (release func())
}

// Container is an element whose children are replaced wholesale.
type Container interface {
	// RemoveFirstChild removes the first child node and reports whether there was one.
	RemoveFirstChild() bool
	// AppendCard appends a <div class="card"> with the title in an <h5> and the text in an <h6>.
	AppendCard(card Card)
}

// Button is a clickable element.
type Button interface {
	OnClick(fn func()) (release func())
}

// Card is the content of one card element.
type Card struct {
	Title string
	Text  string
}

// Clear removes children one at a time from the front until c is empty and
// returns how many were removed.
func Clear(c Container) int {
	removed := 0
	for c.RemoveFirstChild() {
		removed++
	}
	return removed
}

// MissingElementError reports the page elements that could not be resolved.
type MissingElementError struct {
	IDs []string
}

func (e *MissingElementError) Error() string {
	return fmt.Sprintf("dom: missing required element(s): %s", strings.Join(e.IDs, ", "))
}

// Elements holds the resolved host page elements.
type Elements struct {
	UpdateButton    Button
	CardDeck        Container
	ExamBoardSelect Select
	LevelSelect     Select
	SubjectSelect   Select
}

// Selects returns the three filter dropdowns in exam board, level, subject order.
func (e Elements) Selects() []Select {
	return []Select{e.ExamBoardSelect, e.LevelSelect, e.SubjectSelect}
}

// Resolve looks up every required element. All missing ids are reported together.
func Resolve(doc Document) (Elements, error) {
	var (
		els     Elements
		missing []string
		ok      bool
	)
	if els.UpdateButton, ok = doc.Button(UpdateButtonID); !ok {
		missing = append(missing, UpdateButtonID)
	}
	if els.CardDeck, ok = doc.Container(CardDeckID); !ok {
		missing = append(missing, CardDeckID)
	}
	if els.ExamBoardSelect, ok = doc.Select(ExamBoardSelectID); !ok {
		missing = append(missing, ExamBoardSelectID)
	}
	if els.LevelSelect, ok = doc.Select(LevelSelectID); !ok {
		missing = append(missing, LevelSelectID)
	}
	if els.SubjectSelect, ok = doc.Select(SubjectSelectID); !ok {
		missing = append(missing, SubjectSelectID)
	}
	if len(missing) > 0 {
		return Elements{}, &MissingElementError{IDs: missing}
	}
	return els, nil
}
