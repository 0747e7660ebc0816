// Package export renders a user's project library to spreadsheet and CSV
// formats for download.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/tealeg/xlsx"

	"studyforge/internal/app/model"
)

// Format names accepted by the export endpoint.
const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
)

var columns = []string{
	"ID",
	"Name",
	"File",
	"Kind",
	"Category",
	"Status",
	"Transcription",
	"Generation",
	"Features",
	"Duration",
	"Created",
}

// Write renders the projects in the requested format.
func Write(projects []model.Project, format string, w io.Writer) error {
	switch format {
	case FormatXLSX:
		return writeXLSX(projects, w)
	case FormatCSV:
		return writeCSV(projects, w)
	default:
		return fmt.Errorf("unsupported export format: %s", format)
	}
}

func writeXLSX(projects []model.Project, w io.Writer) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Projects")
	if err != nil {
		return fmt.Errorf("failed to add sheet: %w", err)
	}

	headerRow := sheet.AddRow()
	for _, col := range columns {
		headerRow.AddCell().Value = col
	}

	for _, p := range projects {
		row := sheet.AddRow()
		for _, val := range projectRow(p) {
			row.AddCell().Value = val
		}
	}

	return file.Write(w)
}

func writeCSV(projects []model.Project, w io.Writer) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	if err := csvWriter.Write(columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, p := range projects {
		if err := csvWriter.Write(projectRow(p)); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	return nil
}

func projectRow(p model.Project) []string {
	return []string{
		p.ID,
		p.DisplayName,
		p.FileName,
		string(p.Kind),
		p.Category,
		string(p.Status),
		string(p.JobStatus.Transcription),
		string(p.JobStatus.ContentGeneration),
		strconv.Itoa(len(p.Content.FilledFeatures())),
		strconv.Itoa(p.Duration),
		p.CreatedAt.Format(time.RFC3339),
	}
}
