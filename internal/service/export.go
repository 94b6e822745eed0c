package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/insaafai/ipc-quiz-bot/internal/domain/entities"
)

const (
	exportSheet = "Quiz history"
	exportLimit = 1000
)

// HistoryExporter renders a user's quiz history as an xlsx workbook.
type HistoryExporter struct {
	stats  *StatsService
	titles map[string]string
}

func NewHistoryExporter(stats *StatsService, levels []*entities.QuizLevel) *HistoryExporter {
	titles := make(map[string]string, len(levels))
	for _, l := range levels {
		titles[l.ID] = l.Title
	}

	return &HistoryExporter{
		stats:  stats,
		titles: titles,
	}
}

// Export returns the workbook bytes of the user's quiz history.
func (e *HistoryExporter) Export(ctx context.Context, userID int64) ([]byte, error) {
	records, err := e.stats.History(ctx, userID, exportLimit)
	if err != nil {
		return nil, err
	}

	return e.build(records)
}

func (e *HistoryExporter) build(records []*entities.ScoreRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	header := []any{"Date", "Level", "Title", "Score, %"}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}

		row := []any{
			r.RecordedAt.UTC().Format("2006-01-02 15:04"),
			r.LevelID,
			e.titles[r.LevelID],
			r.Percentage,
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	return buf.Bytes(), nil
}
