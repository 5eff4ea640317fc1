package excel

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/example/vocabengine/internal/database"
	"github.com/example/vocabengine/pkg/models"
)

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath            string // Path to the Excel file
	TermColumn          string // Column with the term
	TranslationColumn   string // Column with the translation
	CategoryColumn      string // Column with the category
	ExampleColumn       string // Column with the example sentence
	DifficultyColumn    string // Column with the difficulty
	PronunciationColumn string // Column with the pronunciation URL
	SheetName           string // Name of the sheet to import
	StartRow            int    // The row to start importing from (1-based index)
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		TermColumn:          "A",
		TranslationColumn:   "B",
		CategoryColumn:      "C",
		ExampleColumn:       "D",
		DifficultyColumn:    "E",
		PronunciationColumn: "F",
		SheetName:           "Sheet1",
		StartRow:            2, // Skip the header row
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	Created        int
	Updated        int
	Skipped        int
	Errors         []string
}

// ImportCards imports flashcards from an Excel file
func ImportCards(config ImportConfig) (*ImportResult, error) {
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %v", err)
	}
	defer f.Close()

	cardRepo := database.NewCardRepository()
	result := &ImportResult{Errors: make([]string, 0)}

	rows, err := f.GetRows(config.SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %v", err)
	}

	for i, row := range rows {
		if i < config.StartRow-1 {
			continue
		}
		result.TotalProcessed++

		if err := processRow(row, config, cardRepo, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", i+1, err))
		}
	}

	return result, nil
}

// processRow imports one spreadsheet row as a card
func processRow(row []string, config ImportConfig, cardRepo *database.CardRepository, result *ImportResult) error {
	term := cellValue(row, config.TermColumn)
	translation := cellValue(row, config.TranslationColumn)
	if term == "" || translation == "" {
		result.Skipped++
		return nil
	}

	card := models.Flashcard{
		Term:          term,
		Translation:   translation,
		Category:      cellValue(row, config.CategoryColumn),
		Example:       cellValue(row, config.ExampleColumn),
		Pronunciation: cellValue(row, config.PronunciationColumn),
		Difficulty:    1,
	}
	if raw := cellValue(row, config.DifficultyColumn); raw != "" {
		if d, err := strconv.Atoi(raw); err == nil && d >= 1 && d <= 5 {
			card.Difficulty = d
		}
	}

	existing, err := cardRepo.GetByTermAndCategory(card.Term, card.Category)
	if err == nil {
		card.ID = existing.ID
		if err := cardRepo.Update(&card); err != nil {
			return err
		}
		result.Updated++
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	if err := cardRepo.Create(&card); err != nil {
		return err
	}
	result.Created++
	return nil
}

// cellValue reads a cell by column letter, tolerating short rows.
func cellValue(row []string, column string) string {
	idx := columnIndex(column)
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// columnIndex converts a column letter ("A", "B", ..., "AA") to an index.
func columnIndex(column string) int {
	column = strings.ToUpper(strings.TrimSpace(column))
	if column == "" {
		return -1
	}
	idx := 0
	for _, ch := range column {
		if ch < 'A' || ch > 'Z' {
			return -1
		}
		idx = idx*26 + int(ch-'A') + 1
	}
	return idx - 1
}
