package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/recallbot/internal/database"
	"github.com/example/recallbot/pkg/models"
	"github.com/xuri/excelize/v2"
)

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath          string // Path to the Excel or CSV file
	WordColumn        string // Column with the word
	TranslationColumn string // Column with the translation
	ExampleColumn     string // Column with the usage example
	SheetName         string // Name of the sheet to import
	StartRow          int    // The row to start importing from (1-based index)
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		WordColumn:        "A",
		TranslationColumn: "B",
		ExampleColumn:     "C",
		SheetName:         "Sheet1",
		StartRow:          2, // By default, start from the second row (skip header)
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	Created        int
	Updated        int
	Errors         []string
}

// ImportWords imports words from an Excel or CSV file
func ImportWords(ctx context.Context, config ImportConfig) (*ImportResult, error) {
	ext := strings.ToLower(filepath.Ext(config.FilePath))
	if ext == ".csv" {
		return importFromCSV(ctx, config)
	}
	return importFromExcel(ctx, config)
}

// importFromExcel imports words from an Excel file
func importFromExcel(ctx context.Context, config ImportConfig) (*ImportResult, error) {
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %v", err)
	}
	defer f.Close()

	wordRepo := database.NewWordRepository()
	result := &ImportResult{
		Errors: make([]string, 0),
	}

	rows, err := f.GetRows(config.SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %v", err)
	}

	for i, row := range rows {
		// Skip header rows
		if i < config.StartRow-1 {
			continue
		}

		var word, translation, example string
		if colIdx := columnToIndex(config.WordColumn); colIdx < len(row) {
			word = row[colIdx]
		}
		if colIdx := columnToIndex(config.TranslationColumn); colIdx < len(row) {
			translation = row[colIdx]
		}
		if colIdx := columnToIndex(config.ExampleColumn); colIdx < len(row) {
			example = row[colIdx]
		}

		result.TotalProcessed++
		if err := importWord(ctx, wordRepo, word, translation, example, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", i+1, err))
		}
	}

	return result, nil
}

// importFromCSV imports words from a CSV file with word,translation,example rows
func importFromCSV(ctx context.Context, config ImportConfig) (*ImportResult, error) {
	file, err := os.Open(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	wordRepo := database.NewWordRepository()
	result := &ImportResult{
		Errors: make([]string, 0),
	}

	rowNum := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %v", err)
		}

		rowNum++
		if rowNum < config.StartRow {
			continue
		}

		var word, translation, example string
		if len(row) > 0 {
			word = row[0]
		}
		if len(row) > 1 {
			translation = row[1]
		}
		if len(row) > 2 {
			example = row[2]
		}

		result.TotalProcessed++
		if err := importWord(ctx, wordRepo, word, translation, example, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
		}
	}

	return result, nil
}

// importWord creates a word or updates the existing one with the same text
func importWord(ctx context.Context, wordRepo *database.WordRepository, word, translation, example string, result *ImportResult) error {
	word = strings.TrimSpace(word)
	translation = strings.TrimSpace(translation)
	example = strings.TrimSpace(example)

	if word == "" {
		return fmt.Errorf("word cannot be empty")
	}
	if translation == "" {
		return fmt.Errorf("translation cannot be empty")
	}

	existing, err := wordRepo.GetByWord(ctx, word)
	if err != nil {
		return fmt.Errorf("failed to look up existing word: %v", err)
	}

	if existing != nil {
		existing.Translation = translation
		existing.Example = example
		if err := wordRepo.Update(ctx, existing); err != nil {
			return fmt.Errorf("failed to update word: %v", err)
		}
		result.Updated++
		return nil
	}

	newWord := &models.Word{
		Word:        word,
		Translation: translation,
		Example:     example,
	}
	if err := wordRepo.Create(ctx, newWord); err != nil {
		return fmt.Errorf("failed to create word: %v", err)
	}
	result.Created++

	return nil
}

// columnToIndex converts an Excel column letter to a zero-based index
func columnToIndex(column string) int {
	column = strings.ToUpper(column)
	index := 0
	for i := 0; i < len(column); i++ {
		index = index*26 + int(column[i]-'A'+1)
	}
	return index - 1
}
