// Package export renders the study material as a spreadsheet workbook.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/p-n-ai/pai-study/internal/knowledge"
)

// Sheet names.
const (
	FlashcardsSheet = "Flashcards"
	QuizSheet       = "Quiz"
)

// ContentType is the MIME type of the written workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var (
	flashcardHeader = []any{"Term", "Definition"}
	quizHeader      = []any{"ID", "Question", "Option A", "Option B", "Option C", "Option D", "Answer", "Explanation"}
)

// WriteWorkbook writes flashcards and quiz questions from store to w, one
// sheet each, with a bold header row.
func WriteWorkbook(w io.Writer, store *knowledge.Store) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", FlashcardsSheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	if _, err := f.NewSheet(QuizSheet); err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	cards := [][]any{flashcardHeader}
	for _, c := range store.Flashcards() {
		cards = append(cards, []any{c.Term, c.Definition})
	}
	if err := writeSheet(f, FlashcardsSheet, cards, bold); err != nil {
		return err
	}

	questions := [][]any{quizHeader}
	for _, q := range store.Quiz() {
		row := []any{q.ID, q.Question}
		for _, o := range q.Options {
			row = append(row, o)
		}
		questions = append(questions, append(row, q.Answer, q.Explanation))
	}
	if err := writeSheet(f, QuizSheet, questions, bold); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, rows [][]any, headerStyle int) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+1, err)
		}
	}

	last, err := excelize.ColumnNumberToName(len(rows[0]))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last+"1", headerStyle); err != nil {
		return fmt.Errorf("styling %s header: %w", sheet, err)
	}
	if err := f.SetColWidth(sheet, "A", last, 24); err != nil {
		return fmt.Errorf("sizing %s columns: %w", sheet, err)
	}
	return nil
}
