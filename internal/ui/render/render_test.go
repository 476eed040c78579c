package render

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/Its-donkey/examdeck/internal/ui/dom"
	"github.com/Its-donkey/examdeck/internal/ui/model"
	"github.com/Its-donkey/examdeck/logging"
)

const hostPage = `<!doctype html>
<html><body>
<button id="updateButton">Update</button>
<select id="examBoardSelect"><option value="AQA">AQA</option></select>
<select id="levelSelect"></select>
<select id="subjectSelect"></select>
<div id="examsCardDeck"></div>
</body></html>`

type stubAPI struct {
	mu         sync.Mutex
	filters    model.FilterOptions
	exams      []model.Exam
	err        error
	selections []model.Selection
}

func (s *stubAPI) UpdateFilters(_ context.Context, sel model.Selection) (model.FilterOptions, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selections = append(s.selections, sel)
	return s.filters, s.err
}

func (s *stubAPI) GetExams(_ context.Context, sel model.Selection) ([]model.Exam, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selections = append(s.selections, sel)
	return s.exams, nil
}

func quietLogger() *logging.Logger {
	return logging.New("test", logging.ERROR, io.Discard)
}

func TestPageRendersFiltersSelectionAndCards(t *testing.T) {
	api := &stubAPI{
		filters: model.FilterOptions{
			ExamBoards: []string{"AQA", "Edexcel"},
			Levels:     []string{"A-Level"},
			Subjects:   []string{"Physics", "Chemistry"},
		},
		exams: []model.Exam{
			{Level: "A-Level", Subject: "Physics"},
			{Level: "A-Level", Subject: "Chemistry"},
		},
	}
	sel := model.Selection{Level: "A-Level", Subject: "Physics"}

	res, err := Page(context.Background(), strings.NewReader(hostPage), api, sel, quietLogger())
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	want := model.Selection{ExamBoard: "AQA", Level: "A-Level", Subject: "Physics"}
	if res.Selection != want {
		t.Fatalf("expected selection %+v got %+v", want, res.Selection)
	}
	for _, got := range api.selections {
		if got != want {
			t.Fatalf("api called with %+v want %+v", got, want)
		}
	}
	if res.Merged.ExamBoards != 1 || res.Merged.Levels != 1 || res.Merged.Subjects != 2 {
		t.Fatalf("unexpected merge result %+v", res.Merged)
	}

	doc := res.Document
	if n := doc.Find("#examBoardSelect option").Length(); n != 2 {
		t.Fatalf("expected 2 exam boards got %d", n)
	}
	if v := doc.Find("#subjectSelect option[selected]").AttrOr("value", ""); v != "Physics" {
		t.Fatalf("expected Physics selected got %q", v)
	}
	cards := doc.Find("#examsCardDeck > .card")
	if cards.Length() != 2 || cards.Eq(1).Find(".card-text").Text() != "Chemistry" {
		t.Fatalf("unexpected cards: %s", doc.String())
	}
}

func TestPageKeepsGoingWhenSelectionIsNotAnOption(t *testing.T) {
	api := &stubAPI{exams: []model.Exam{}}
	res, err := Page(context.Background(), strings.NewReader(hostPage), api, model.Selection{Level: "GCSE"}, quietLogger())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if res.Document.Find("#levelSelect option").Length() != 0 {
		t.Fatal("unknown level should not be added as an option")
	}
}

func TestPageFailsWhenAFetchFails(t *testing.T) {
	boom := errors.New("api down")
	api := &stubAPI{err: boom}
	if _, err := Page(context.Background(), strings.NewReader(hostPage), api, model.Selection{}, quietLogger()); !errors.Is(err, boom) {
		t.Fatalf("expected api error got %v", err)
	}
}

func TestPageFailsOnIncompleteHostPage(t *testing.T) {
	_, err := Page(context.Background(), strings.NewReader(`<div id="examsCardDeck"></div>`), &stubAPI{}, model.Selection{}, quietLogger())
	var missing *dom.MissingElementError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingElementError got %v", err)
	}
}
