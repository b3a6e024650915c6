package formatter

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	colorMainHeading = "#0080FF"
	colorSubHeading  = "#969696"
	colorGreen       = "#037D50"
	colorRed         = "#CC0000"
	colorWhite       = "#FFFFFF"

	cellFontSize = 13

	// defaultSheet is created by excelize with every new file
	defaultSheet = "Sheet1"
)

// Workbook is the report spreadsheet. Each report section adds one sheet.
type Workbook struct {
	file   *excelize.File
	styles styles
	sheets []SheetSummary
}

// SheetSummary is the number of data rows written to a sheet
type SheetSummary struct {
	Name string
	Rows int
}

type styles struct {
	mainHeading int
	subHeading  int
	cell        int
	green       int
	red         int
}

// NewWorkbook creates an empty workbook with the report styles registered
func NewWorkbook() (*Workbook, error) {
	f := excelize.NewFile()

	s, err := newStyles(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &Workbook{file: f, styles: s}, nil
}

func newStyles(f *excelize.File) (styles, error) {
	border := []excelize.Border{
		{Type: "left", Color: "#000000", Style: 1},
		{Type: "top", Color: "#000000", Style: 1},
		{Type: "bottom", Color: "#000000", Style: 1},
		{Type: "right", Color: "#000000", Style: 1},
	}
	heading := func(fill string) *excelize.Style {
		return &excelize.Style{
			Font:      &excelize.Font{Bold: true, Color: colorWhite, Size: cellFontSize},
			Fill:      excelize.Fill{Type: "pattern", Color: []string{fill}, Pattern: 1},
			Border:    border,
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		}
	}
	body := func(color string) *excelize.Style {
		return &excelize.Style{
			Font:      &excelize.Font{Size: cellFontSize, Color: color},
			Border:    border,
			Alignment: &excelize.Alignment{Vertical: "center"},
		}
	}

	var s styles
	for _, def := range []struct {
		id    *int
		style *excelize.Style
	}{
		{&s.mainHeading, heading(colorMainHeading)},
		{&s.subHeading, heading(colorSubHeading)},
		{&s.cell, body("")},
		{&s.green, body(colorGreen)},
		{&s.red, body(colorRed)},
	} {
		id, err := f.NewStyle(def.style)
		if err != nil {
			return styles{}, fmt.Errorf("error creating cell style: %w", err)
		}
		*def.id = id
	}
	return s, nil
}

// Sheets returns the sheets written so far with their data row counts
func (w *Workbook) Sheets() []SheetSummary {
	return w.sheets
}

// SaveAs writes the workbook to path
func (w *Workbook) SaveAs(path string) error {
	if len(w.sheets) > 0 {
		if err := w.file.DeleteSheet(defaultSheet); err != nil {
			return fmt.Errorf("error removing default sheet: %w", err)
		}
		w.file.SetActiveSheet(0)
	}
	if err := w.file.SaveAs(path); err != nil {
		return fmt.Errorf("error saving workbook %s: %w", path, err)
	}
	return nil
}

// Close releases the workbook's resources
func (w *Workbook) Close() error {
	return w.file.Close()
}

// cell is a value with the style it is written in
type cell struct {
	value any
	style int
}

// sheet writes rows top to bottom
type sheet struct {
	wb   *Workbook
	name string
	row  int
	rows int
}

// newSheet adds a sheet with one heading row. widths sets the width of the
// columns from A onwards.
func (w *Workbook) newSheet(name string, widths []float64, headings ...string) (*sheet, error) {
	if _, err := w.file.NewSheet(name); err != nil {
		return nil, fmt.Errorf("error adding sheet %q: %w", name, err)
	}
	for i, width := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := w.file.SetColWidth(name, col, col, width); err != nil {
			return nil, fmt.Errorf("error sizing column %s of %q: %w", col, name, err)
		}
	}

	s := &sheet{wb: w, name: name, row: 1}
	cells := make([]cell, len(headings))
	for i, h := range headings {
		cells[i] = cell{value: h, style: w.styles.mainHeading}
	}
	if err := s.write(cells...); err != nil {
		return nil, err
	}
	return s, nil
}

// write puts cells on the next row
func (s *sheet) write(cells ...cell) error {
	for i, c := range cells {
		ref, err := excelize.CoordinatesToCellName(i+1, s.row)
		if err != nil {
			return err
		}
		if err := s.wb.file.SetCellValue(s.name, ref, c.value); err != nil {
			return fmt.Errorf("error writing %s!%s: %w", s.name, ref, err)
		}
		if err := s.wb.file.SetCellStyle(s.name, ref, ref, c.style); err != nil {
			return fmt.Errorf("error styling %s!%s: %w", s.name, ref, err)
		}
	}
	s.row++
	return nil
}

// add writes a data row
func (s *sheet) add(values ...any) error {
	cells := make([]cell, len(values))
	for i, v := range values {
		if c, ok := v.(cell); ok {
			cells[i] = c
			continue
		}
		cells[i] = cell{value: v, style: s.wb.styles.cell}
	}
	if err := s.write(cells...); err != nil {
		return err
	}
	s.rows++
	return nil
}

// total writes a summary row in the sub heading style
func (s *sheet) total(values ...any) error {
	cells := make([]cell, len(values))
	for i, v := range values {
		cells[i] = cell{value: v, style: s.wb.styles.subHeading}
	}
	return s.write(cells...)
}

// done records the sheet in the workbook summary and returns its data row count
func (s *sheet) done() int {
	s.wb.sheets = append(s.wb.sheets, SheetSummary{Name: s.name, Rows: s.rows})
	return s.rows
}

// flag renders ok as a green or red cell
func (s *sheet) flag(ok bool, yes, no any) cell {
	if ok {
		return cell{value: yes, style: s.wb.styles.green}
	}
	return cell{value: no, style: s.wb.styles.red}
}

func costHeading(pastDays int) string {
	return fmt.Sprintf("Cost (in USD) for past %d days", pastDays)
}

func incomingHeading(pastDays int) string {
	return fmt.Sprintf("Incoming GBs in last %d days", pastDays)
}
