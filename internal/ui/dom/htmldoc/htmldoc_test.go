package htmldoc

import (
	"errors"
	"strings"
	"testing"

	"github.com/Its-donkey/examdeck/internal/ui/dom"
)

const page = `<!doctype html>
<html><body>
<button id="updateButton">Update</button>
<select id="examBoardSelect"><option value="AQA">AQA</option></select>
<select id="levelSelect"></select>
<select id="subjectSelect"><option>Physics</option><option value="chem" selected>Chemistry</option></select>
<div id="examsCardDeck">
  <div class="card">stale</div>
</div>
</body></html>`

func mustParse(t *testing.T) *Document {
	t.Helper()
	doc, err := ParseString(page)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func TestResolveFindsHostElements(t *testing.T) {
	doc := mustParse(t)
	if _, err := dom.Resolve(doc); err != nil {
		t.Fatalf("resolve: %v", err)
	}
}

func TestResolveReportsEveryMissingID(t *testing.T) {
	doc, err := ParseString(`<div id="examsCardDeck"></div><div id="levelSelect"></div>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	_, err = dom.Resolve(doc)
	var missing *dom.MissingElementError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingElementError got %v", err)
	}
	want := []string{dom.UpdateButtonID, dom.ExamBoardSelectID, dom.LevelSelectID, dom.SubjectSelectID}
	if strings.Join(missing.IDs, ",") != strings.Join(want, ",") {
		t.Fatalf("expected %v got %v", want, missing.IDs)
	}
}

func TestSelectValueFollowsBrowserRules(t *testing.T) {
	doc := mustParse(t)
	tests := []struct {
		id   string
		want string
	}{
		{id: dom.ExamBoardSelectID, want: "AQA"},
		{id: dom.LevelSelectID, want: ""},
		{id: dom.SubjectSelectID, want: "chem"},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			sel, ok := doc.Select(tt.id)
			if !ok {
				t.Fatalf("select %s not found", tt.id)
			}
			if got := sel.Value(); got != tt.want {
				t.Fatalf("expected %q got %q", tt.want, got)
			}
		})
	}
}

func TestHasOptionMatchesValueAttribute(t *testing.T) {
	doc := mustParse(t)
	sel, _ := doc.Select(dom.SubjectSelectID)
	if !sel.HasOption("Physics") {
		t.Fatal("option without value attribute should match on text")
	}
	if !sel.HasOption("chem") || sel.HasOption("Chemistry") {
		t.Fatal("option with value attribute should match on the attribute only")
	}
}

func TestAddOptionAppends(t *testing.T) {
	doc := mustParse(t)
	sel, _ := doc.Select(dom.LevelSelectID)
	sel.AddOption("A-Level", "A-Level")
	sel.AddOption("GCSE <9-1>", "GCSE")

	opts := doc.Find("#levelSelect option")
	if opts.Length() != 2 {
		t.Fatalf("expected 2 options got %d", opts.Length())
	}
	if opts.Eq(1).Text() != "GCSE <9-1>" || opts.Eq(1).AttrOr("value", "") != "GCSE" {
		t.Fatalf("unexpected second option: %q", doc.String())
	}
	if !strings.Contains(doc.String(), "GCSE &lt;9-1&gt;") {
		t.Fatal("option text should be escaped when rendered")
	}
}

func TestContainerClearAndAppendCard(t *testing.T) {
	doc := mustParse(t)
	deck, ok := doc.Container(dom.CardDeckID)
	if !ok {
		t.Fatal("deck not found")
	}
	// whitespace text, the stale card, trailing whitespace
	if removed := dom.Clear(deck); removed != 3 {
		t.Fatalf("expected 3 removed nodes got %d", removed)
	}
	deck.AppendCard(dom.Card{Title: "A-Level", Text: "Physics"})

	cards := doc.Find("#examsCardDeck > div.card")
	if cards.Length() != 1 {
		t.Fatalf("expected 1 card got %d", cards.Length())
	}
	if cards.Find(".card-title").Text() != "A-Level" || cards.Find(".card-text").Text() != "Physics" {
		t.Fatalf("unexpected card markup: %s", doc.String())
	}
	if !strings.Contains(doc.String(), `<div class="card-body"><h5 class="card-title">A-Level</h5><h6 class="card-text">Physics</h6></div>`) {
		t.Fatalf("expected h5 title and h6 text: %s", doc.String())
	}
}

func TestChooseFiresChangeListeners(t *testing.T) {
	doc := mustParse(t)
	sel, _ := doc.Select(dom.SubjectSelectID)

	var seen []string
	release := sel.OnChange(func() { seen = append(seen, sel.Value()) })
	if err := doc.Choose(dom.SubjectSelectID, "Physics"); err != nil {
		t.Fatalf("choose: %v", err)
	}
	release()
	if err := doc.Choose(dom.SubjectSelectID, "chem"); err != nil {
		t.Fatalf("choose: %v", err)
	}

	if len(seen) != 1 || seen[0] != "Physics" {
		t.Fatalf("expected one change with Physics, got %v", seen)
	}
	if got := sel.Value(); got != "chem" {
		t.Fatalf("expected chem selected got %q", got)
	}
}

func TestChooseRejectsUnknownOption(t *testing.T) {
	doc := mustParse(t)
	if err := doc.Choose(dom.ExamBoardSelectID, "OCR"); err == nil {
		t.Fatal("expected error for unknown option")
	}
	if err := doc.Choose(dom.CardDeckID, "x"); err == nil {
		t.Fatal("expected error for non-select element")
	}
}

func TestClickRunsListenersInOrder(t *testing.T) {
	doc := mustParse(t)
	btn, ok := doc.Button(dom.UpdateButtonID)
	if !ok {
		t.Fatal("button not found")
	}
	var order []int
	btn.OnClick(func() { order = append(order, 1) })
	btn.OnClick(func() { order = append(order, 2) })
	if err := doc.Click(dom.UpdateButtonID); err != nil {
		t.Fatalf("click: %v", err)
	}
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Fatalf("unexpected order %v", order)
	}
}

func TestSelectOptionSelectsWithoutFiringListeners(t *testing.T) {
	doc, err := ParseString(`<select id="levelSelect"><option value="GCSE">GCSE</option><option value="A-Level">A-Level</option><option value="A-Level">A-Level (old)</option></select>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	sel, _ := doc.Select(dom.LevelSelectID)
	fired := 0
	sel.OnChange(func() { fired++ })

	tests := []struct {
		value string
		found bool
		want  string
	}{
		{value: "A-Level", found: true, want: "A-Level"},
		{value: "AS", found: false, want: "A-Level"},
		{value: "GCSE", found: true, want: "GCSE"},
	}
	for _, tt := range tests {
		if got := sel.SelectOption(tt.value); got != tt.found {
			t.Fatalf("SelectOption(%q) = %v want %v", tt.value, got, tt.found)
		}
		if got := sel.Value(); got != tt.want {
			t.Fatalf("after SelectOption(%q) value = %q want %q", tt.value, got, tt.want)
		}
	}
	if fired != 0 {
		t.Fatalf("SelectOption fired %d change listeners", fired)
	}

	sel.SelectOption("A-Level")
	if got := doc.Find("#levelSelect option[selected]"); got.Length() != 1 || got.Text() != "A-Level (old)" {
		t.Fatalf("expected only the last matching option selected: %s", doc.String())
	}
}

func TestFindReturnsDetachedCopies(t *testing.T) {
	doc := mustParse(t)
	found := doc.Find("#examsCardDeck")

	deck, _ := doc.Container(dom.CardDeckID)
	dom.Clear(deck)
	deck.AppendCard(dom.Card{Title: "GCSE", Text: "Biology"})

	if got := found.Find(".card").Text(); got != "stale" {
		t.Fatalf("earlier result changed with the page: %q", got)
	}
	if got := doc.Find("#examsCardDeck .card-text").Text(); got != "Biology" {
		t.Fatalf("expected fresh lookup to see the new card, got %q", got)
	}
}
