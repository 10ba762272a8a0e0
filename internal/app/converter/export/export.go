package export

import (
	"fmt"
	"io"
	"time"

	"github.com/tealeg/xlsx"
	"voice-transcriber/internal/app/session"
)

// ContentType is the MIME type of the workbook written by ToExcel.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Report is the content of an exported workbook.
type Report struct {
	Source        string
	Transcription string
	Summary       string
	MaxWords      int
	Stats         session.Statistics
	GeneratedAt   time.Time
}

// ToExcel writes r as a workbook with a results sheet and a statistics sheet.
func ToExcel(w io.Writer, r Report) error {
	file := xlsx.NewFile()

	results, err := file.AddSheet("Results")
	if err != nil {
		return fmt.Errorf("failed to add results sheet: %w", err)
	}
	addRow(results, "Source", "Generated At", "Transcription", "Summary")
	addRow(results, r.Source, r.GeneratedAt.Format(time.RFC3339), r.Transcription, r.Summary)

	stats, err := file.AddSheet("Statistics")
	if err != nil {
		return fmt.Errorf("failed to add statistics sheet: %w", err)
	}
	addRow(stats, "Metric", "Value")
	addIntRow(stats, "Transcription Words", r.Stats.TranscriptionWords)
	addIntRow(stats, "Transcription Characters", r.Stats.TranscriptionChars)
	addIntRow(stats, "Summary Words", r.Stats.SummaryWords)
	addIntRow(stats, "Summary Characters", r.Stats.SummaryChars)
	row := stats.AddRow()
	row.AddCell().Value = "Compression Ratio (%)"
	row.AddCell().SetFloatWithFormat(r.Stats.CompressionRatio, "0.0")
	addIntRow(stats, "Transcription Reading Minutes", r.Stats.TranscriptionReadingMinutes)
	addIntRow(stats, "Summary Reading Minutes", r.Stats.SummaryReadingMinutes)
	addIntRow(stats, "Time Saved Minutes", r.Stats.TimeSavedMinutes)
	addIntRow(stats, "Max Summary Words", r.MaxWords)

	if err := file.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func addRow(sheet *xlsx.Sheet, values ...string) {
	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().Value = v
	}
}

func addIntRow(sheet *xlsx.Sheet, label string, value int) {
	row := sheet.AddRow()
	row.AddCell().Value = label
	row.AddCell().SetInt(value)
}
