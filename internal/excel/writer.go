// Renders assessed gigs into a shareable spreadsheet: styled header,
// score color-coding, clickable listing URLs.

package excel

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"go-gigharvest-automation/internal/scraper"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Freelance Gigs"

type column struct {
	title string
	width float64
}

var columns = []column{
	{"Title", 40},
	{"Company", 25},
	{"Location", 20},
	{"Type", 15},
	{"Posted", 12},
	{"Keyword", 18},
	{"Score", 8},
	{"AI Analysis", 50},
	{"Job URL", 60},
	{"Scraped At", 20},
}

type Writer struct{}

func NewWriter() *Writer {
	return &Writer{}
}

// Write saves the gigs to an xlsx file at path and returns the
// resolved output location.
func (w *Writer) Write(gigs []scraper.Gig, path string) (string, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return "", err
	}

	if err := w.writeHeader(f); err != nil {
		return "", fmt.Errorf("failed to write header: %w", err)
	}
	if err := w.writeRows(f, gigs); err != nil {
		return "", fmt.Errorf("failed to write rows: %w", err)
	}

	//filterable columns, frozen header row
	lastCol, _ := excelize.ColumnNumberToName(len(columns))
	if err := f.AutoFilter(sheetName, fmt.Sprintf("A1:%s1", lastCol), nil); err != nil {
		return "", err
	}
	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return "", err
	}

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save workbook: %w", err)
	}

	log.Printf("📁 Saved %d gigs to %s", len(gigs), path)
	return path, nil
}

func (w *Writer) writeHeader(f *excelize.File) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF", Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}

	for i, col := range columns {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		cell := name + "1"
		if err := f.SetCellValue(sheetName, cell, col.title); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			return err
		}
		if err := f.SetColWidth(sheetName, name, name, col.width); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeRows(f *excelize.File, gigs []scraper.Gig) error {
	goodScore, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"C6EFCE"}, Pattern: 1},
	})
	if err != nil {
		return err
	}
	avgScore, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"FFEB9C"}, Pattern: 1},
	})
	if err != nil {
		return err
	}
	linkStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: "0563C1", Underline: "single"},
	})
	if err != nil {
		return err
	}

	for i, gig := range gigs {
		row := i + 2
		values := []any{
			gig.Title,
			gig.Company,
			gig.Location,
			gig.JobType,
			gig.PostedDate,
			gig.SearchKeyword,
			gig.QualityScore,
			gig.AIAnalysis,
			gig.URL,
			gig.ScrapedAt,
		}

		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return err
			}
		}

		//color code the score column
		scoreCell, _ := excelize.CoordinatesToCellName(7, row)
		if gig.QualityScore >= 7 {
			f.SetCellStyle(sheetName, scoreCell, scoreCell, goodScore)
		} else if gig.QualityScore >= 5 {
			f.SetCellStyle(sheetName, scoreCell, scoreCell, avgScore)
		}

		//make the listing URL clickable
		if gig.URL != "" && gig.URL != scraper.FieldUnavailable {
			urlCell, _ := excelize.CoordinatesToCellName(9, row)
			if err := f.SetCellHyperLink(sheetName, urlCell, gig.URL, "External"); err != nil {
				return err
			}
			f.SetCellStyle(sheetName, urlCell, urlCell, linkStyle)
		}
	}
	return nil
}
