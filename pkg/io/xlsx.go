package io

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/matzehuels/ifcqto/pkg/takeoff"
)

// XLSXSheet is the content of a takeoff workbook.
type XLSXSheet struct {
	// Title is used as the sheet name (max 31 characters) and the heading.
	Title    string
	Subtitle string
	Elements []takeoff.Element
}

// xlsxHeaders are the column headers of the data table.
var xlsxHeaders = []string{
	"ID", "GlobalId", "Type", "Name", "Level", "Classification",
	"Net Volume", "Gross Volume", "Area", "Material", "Fraction", "Material Volume", "Width (mm)",
}

// xlsxWidths are the column widths, matching xlsxHeaders.
var xlsxWidths = []float64{8, 24, 24, 36, 16, 14, 12, 12, 10, 28, 10, 16, 12}

const (
	xlsxHeaderRow = 4
	maxSheetName  = 31
)

// WriteXLSX writes a workbook with one row per element and material.
// Element columns repeat on each material row so the sheet can be filtered
// and pivoted directly. A totals row sums the material volumes.
func WriteXLSX(w io.Writer, sheet XLSXSheet) error {
	f := excelize.NewFile()
	defer f.Close()

	name := sheetName(sheet.Title)
	if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
		return fmt.Errorf("set sheet name: %w", err)
	}

	lastCol, err := excelize.ColumnNumberToName(len(xlsxHeaders))
	if err != nil {
		return err
	}
	for i, width := range xlsxWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(name, col, col, width); err != nil {
			return fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	styles, err := newXLSXStyles(f)
	if err != nil {
		return err
	}

	if err := f.MergeCell(name, "A1", lastCol+"1"); err != nil {
		return fmt.Errorf("merge title: %w", err)
	}
	f.SetCellValue(name, "A1", sanitizeCell(orDefault(sheet.Title, "Quantity Takeoff")))
	f.SetCellStyle(name, "A1", lastCol+"1", styles.title)
	if sheet.Subtitle != "" {
		if err := f.MergeCell(name, "A2", lastCol+"2"); err != nil {
			return fmt.Errorf("merge subtitle: %w", err)
		}
		f.SetCellValue(name, "A2", sanitizeCell(sheet.Subtitle))
	}

	for i, h := range xlsxHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, xlsxHeaderRow)
		f.SetCellValue(name, cell, h)
	}
	f.SetCellStyle(name, fmt.Sprintf("A%d", xlsxHeaderRow), fmt.Sprintf("%s%d", lastCol, xlsxHeaderRow), styles.header)

	row := xlsxHeaderRow + 1
	var total float64
	for _, el := range sheet.Elements {
		materials := el.Materials()
		if len(materials) == 0 {
			materials = []string{""}
		}
		for _, mat := range materials {
			values := elementCells(el)
			if mat != "" {
				r, _ := el.MaterialVolumes.Get(mat)
				values = append(values, sanitizeCell(mat), r.Fraction, optional(r.Volume), optional(r.Width))
				if r.Volume != nil {
					total += *r.Volume
				}
			}
			cell, _ := excelize.CoordinatesToCellName(1, row)
			if err := f.SetSheetRow(name, cell, &values); err != nil {
				return fmt.Errorf("write row %d: %w", row, err)
			}
			f.SetCellStyle(name, cell, fmt.Sprintf("%s%d", lastCol, row), styles.cell)
			row++
		}
	}

	row++
	f.SetCellValue(name, fmt.Sprintf("K%d", row), "Total:")
	f.SetCellStyle(name, fmt.Sprintf("K%d", row), fmt.Sprintf("K%d", row), styles.totalLabel)
	f.SetCellValue(name, fmt.Sprintf("L%d", row), total)
	f.SetCellStyle(name, fmt.Sprintf("L%d", row), fmt.Sprintf("L%d", row), styles.totalValue)

	if err := f.SetPanes(name, &excelize.Panes{
		Freeze:      true,
		YSplit:      xlsxHeaderRow,
		TopLeftCell: fmt.Sprintf("A%d", xlsxHeaderRow+1),
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func elementCells(el takeoff.Element) []any {
	var net, gross any
	if el.Volume != nil {
		net, gross = optional(el.Volume.Net), optional(el.Volume.Gross)
	}
	return []any{
		el.ID,
		el.GlobalID,
		el.Type,
		sanitizeCell(el.Name),
		sanitizeCell(el.Level),
		sanitizeCell(el.ClassificationID),
		net,
		gross,
		el.Area,
	}
}

// optional returns the value of p, or nil for an empty cell.
func optional(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

type xlsxStyles struct {
	title, header, cell, totalLabel, totalValue int
}

func newXLSXStyles(f *excelize.File) (xlsxStyles, error) {
	var s xlsxStyles
	var err error
	if s.title, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16},
	}); err != nil {
		return s, fmt.Errorf("create title style: %w", err)
	}
	if s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorders(),
	}); err != nil {
		return s, fmt.Errorf("create header style: %w", err)
	}
	if s.cell, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Border: thinBorders(),
	}); err != nil {
		return s, fmt.Errorf("create cell style: %w", err)
	}
	if s.totalLabel, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "right"},
	}); err != nil {
		return s, fmt.Errorf("create total label style: %w", err)
	}
	if s.totalValue, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
	}); err != nil {
		return s, fmt.Errorf("create total value style: %w", err)
	}
	return s, nil
}

// sheetName derives a valid sheet name from title: characters Excel
// rejects are replaced and the result is cut to 31 runes.
func sheetName(title string) string {
	name := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`:\/?*[]`, r) {
			return '_'
		}
		return r
	}, strings.Trim(strings.TrimSpace(title), "'"))
	if r := []rune(name); len(r) > maxSheetName {
		name = string(r[:maxSheetName])
	}
	if name == "" {
		name = "QTO"
	}
	return name
}

// sanitizeCell prefixes text that a spreadsheet would evaluate as a formula.
func sanitizeCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{Type: side, Color: "#000000", Style: 1}
	}
	return borders
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
