package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Its-donkey/examdeck/internal/ui/exams"
	"github.com/Its-donkey/examdeck/internal/ui/model"
	"github.com/Its-donkey/examdeck/internal/ui/render"
)

// NewRenderCmd creates the render command.
func NewRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the exam deck page for a selection without a browser",
		Long: `render loads the host page, fetches filter options and exams for the
selection from the exams API, and prints the filled-in page.
With --format text only the card list is printed.`,
		Args: cobra.NoArgs,
		RunE: runRender,
	}
	cmd.Flags().String("page", "ui/index.html", "host page to fill in")
	cmd.Flags().String("exam-board", "", "exam board to select")
	cmd.Flags().String("level", "", "level to select")
	cmd.Flags().String("subject", "", "subject to select")
	cmd.Flags().StringP("output", "o", "", "write to a file instead of stdout")
	cmd.Flags().String("format", "html", "output format: html or text")
	return cmd
}

func runRender(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("format")
	if format != "html" && format != "text" {
		return fmt.Errorf("unknown format %q", format)
	}

	logger, closeLog, err := newLogger("examdeck-render", cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()

	pagePath, _ := cmd.Flags().GetString("page")
	page, err := os.Open(pagePath)
	if err != nil {
		return fmt.Errorf("open page: %w", err)
	}
	defer page.Close()

	var sel model.Selection
	sel.ExamBoard, _ = cmd.Flags().GetString("exam-board")
	sel.Level, _ = cmd.Flags().GetString("level")
	sel.Subject, _ = cmd.Flags().GetString("subject")

	client := exams.NewClient(exams.Config{
		BaseURL:     cfg.API.BaseURL,
		FiltersPath: cfg.API.FiltersPath,
		ExamsPath:   cfg.API.ExamsPath,
		Timeout:     cfg.API.Timeout(),
		Logger:      logger,
	})

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	res, err := render.Page(ctx, page, client, sel, logger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if path, _ := cmd.Flags().GetString("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		out = f
	}
	if format == "text" {
		return writeText(out, res)
	}
	return res.Document.Render(out)
}

func writeText(w io.Writer, res *render.Result) error {
	sel := res.Selection
	if _, err := fmt.Fprintf(w, "exam board: %s\nlevel: %s\nsubject: %s\n", orDash(sel.ExamBoard), orDash(sel.Level), orDash(sel.Subject)); err != nil {
		return err
	}
	if len(res.Exams) == 0 {
		_, err := fmt.Fprintln(w, "no exams")
		return err
	}
	for i, exam := range res.Exams {
		if _, err := fmt.Fprintf(w, "%d. %s / %s\n", i+1, exam.Level, exam.Subject); err != nil {
			return err
		}
	}
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
