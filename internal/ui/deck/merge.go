package deck

import (
	"github.com/Its-donkey/examdeck/internal/ui/dom"
	"github.com/Its-donkey/examdeck/internal/ui/model"
)

// ReadSelection reads the three dropdown values. No validation is applied.
func ReadSelection(els dom.Elements) model.Selection {
	return model.Selection{
		ExamBoard: els.ExamBoardSelect.Value(),
		Level:     els.LevelSelect.Value(),
		Subject:   els.SubjectSelect.Value(),
	}
}

// MergeResult counts the options appended to each dropdown.
type MergeResult struct {
	ExamBoards int
	Levels     int
	Subjects   int
}

// MergeFilterOptions appends server options to the dropdowns. Exam boards and
// levels only gain values not already present, so those lists only ever grow;
// a value that is already present gets selected instead, which leaves the last
// such value of the response as the current choice. Subjects are appended as
// received, duplicates included, and never change the selection.
func MergeFilterOptions(els dom.Elements, opts model.FilterOptions) MergeResult {
	return MergeResult{
		ExamBoards: appendMissing(els.ExamBoardSelect, opts.ExamBoards),
		Levels:     appendMissing(els.LevelSelect, opts.Levels),
		Subjects:   appendAll(els.SubjectSelect, opts.Subjects),
	}
}

func appendMissing(sel dom.Select, values []string) int {
	added := 0
	for _, v := range values {
		if sel.SelectOption(v) {
			continue
		}
		sel.AddOption(v, v)
		added++
	}
	return added
}

// TODO: decide with the API owners whether subjects should use appendMissing;
// repeated syncs currently duplicate every subject option.
func appendAll(sel dom.Select, values []string) int {
	for _, v := range values {
		sel.AddOption(v, v)
	}
	return len(values)
}

// RenderExams empties deck and appends one card per exam, in order.
func RenderExams(deck dom.Container, exams []model.Exam) {
	dom.Clear(deck)
	for _, exam := range exams {
		deck.AppendCard(dom.Card{Title: exam.Level, Text: exam.Subject})
	}
}
