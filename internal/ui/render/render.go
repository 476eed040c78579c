// Package render builds a filled-in exam deck page without a browser, using the
// same merge and render rules as the in-browser controller.
package render

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/Its-donkey/examdeck/internal/ui/deck"
	"github.com/Its-donkey/examdeck/internal/ui/dom"
	"github.com/Its-donkey/examdeck/internal/ui/dom/htmldoc"
	"github.com/Its-donkey/examdeck/internal/ui/model"
	"github.com/Its-donkey/examdeck/logging"
)

// Result is a rendered page and the data that went into it.
type Result struct {
	Document  *htmldoc.Document
	Selection model.Selection
	Filters   model.FilterOptions
	Exams     []model.Exam
	Merged    deck.MergeResult
}

// Page parses the host page, fetches filter options and exams for the selection
// concurrently, merges the options, selects the requested values and renders the
// cards. Empty fields of sel fall back to what the page already has selected.
func Page(ctx context.Context, page io.Reader, api deck.API, sel model.Selection, logger *logging.Logger) (*Result, error) {
	doc, err := htmldoc.Parse(page)
	if err != nil {
		return nil, err
	}
	els, err := dom.Resolve(doc)
	if err != nil {
		return nil, err
	}
	sel = overlay(deck.ReadSelection(els), sel)

	res := &Result{Document: doc, Selection: sel}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		opts, err := api.UpdateFilters(gctx, sel)
		if err != nil {
			return fmt.Errorf("fetch filters: %w", err)
		}
		res.Filters = opts
		return nil
	})
	g.Go(func() error {
		exams, err := api.GetExams(gctx, sel)
		if err != nil {
			return fmt.Errorf("fetch exams: %w", err)
		}
		res.Exams = exams
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res.Merged = deck.MergeFilterOptions(els, res.Filters)
	choices := []struct{ id, value string }{
		{dom.ExamBoardSelectID, sel.ExamBoard},
		{dom.LevelSelectID, sel.Level},
		{dom.SubjectSelectID, sel.Subject},
	}
	for _, choice := range choices {
		if choice.value == "" {
			continue
		}
		if err := doc.Choose(choice.id, choice.value); err != nil {
			logger.Warn("render", "selected value is not an option", map[string]any{
				"select": choice.id,
				"value":  choice.value,
			})
		}
	}
	deck.RenderExams(els.CardDeck, res.Exams)

	logger.Info("render", "page rendered", map[string]any{
		"examBoard": sel.ExamBoard,
		"level":     sel.Level,
		"subject":   sel.Subject,
		"cards":     len(res.Exams),
	})
	return res, nil
}

func overlay(base, override model.Selection) model.Selection {
	if override.ExamBoard != "" {
		base.ExamBoard = override.ExamBoard
	}
	if override.Level != "" {
		base.Level = override.Level
	}
	if override.Subject != "" {
		base.Subject = override.Subject
	}
	return base
}
