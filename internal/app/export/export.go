// Package export writes transcripts and run history to Excel workbooks.
package export

import (
	"fmt"
	"time"

	"github.com/tealeg/xlsx"
	"videotextcut/internal/app/model"
)

// TranscriptToExcel writes one row per segment, deleted ones included
func TranscriptToExcel(t *model.TranscriptData, outputFilePath string) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Transcript")
	if err != nil {
		return err
	}

	addHeader(sheet, "ID", "Start", "End", "Duration", "Text", "Filler", "Deleted", "Confidence")
	for _, seg := range t.Segments {
		row := sheet.AddRow()
		row.AddCell().SetInt(seg.ID)
		row.AddCell().SetFloatWithFormat(seg.StartTime, "0.00")
		row.AddCell().SetFloatWithFormat(seg.EndTime, "0.00")
		row.AddCell().SetFloatWithFormat(seg.Duration(), "0.00")
		row.AddCell().Value = seg.Text
		row.AddCell().SetBool(seg.IsFiller)
		row.AddCell().SetBool(seg.IsDeleted)
		row.AddCell().SetFloatWithFormat(seg.Confidence, "0.000")
	}

	if err := file.Save(outputFilePath); err != nil {
		return fmt.Errorf("failed to save %s: %w", outputFilePath, err)
	}
	return nil
}

// RunsToExcel writes the run history
func RunsToExcel(runs []model.Run, outputFilePath string) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Runs")
	if err != nil {
		return err
	}

	addHeader(sheet, "ID", "Kind", "Started", "Elapsed", "Source", "Output", "Provider",
		"Segments", "Fillers", "Source Duration", "Kept Duration", "Source Bytes", "Error Message")
	for _, r := range runs {
		row := sheet.AddRow()
		row.AddCell().Value = r.ID
		row.AddCell().Value = string(r.Kind)
		row.AddCell().Value = r.StartedAt.Format(time.RFC3339)
		row.AddCell().Value = r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond).String()
		row.AddCell().Value = r.SourcePath
		row.AddCell().Value = r.OutputPath
		row.AddCell().Value = r.Provider
		row.AddCell().SetInt(r.SegmentCount)
		row.AddCell().SetInt(r.FillerCount)
		row.AddCell().Value = fmt.Sprintf("%.2f", r.SourceDuration)
		row.AddCell().Value = fmt.Sprintf("%.2f", r.KeptDuration)
		row.AddCell().SetInt(int(r.SourceSize))
		row.AddCell().Value = r.ErrorMessage
	}

	if err := file.Save(outputFilePath); err != nil {
		return fmt.Errorf("failed to save %s: %w", outputFilePath, err)
	}
	return nil
}

func addHeader(sheet *xlsx.Sheet, titles ...string) {
	row := sheet.AddRow()
	for _, title := range titles {
		row.AddCell().Value = title
	}
}
