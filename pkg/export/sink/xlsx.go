package sink

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/matzehuels/treelayout/pkg/export"
	"github.com/matzehuels/treelayout/pkg/hierarchy"
)

// maxSheetName is Excel's limit on worksheet name length.
const maxSheetName = 31

// RenderXLSX writes one worksheet per tree, named after its root, each
// holding an [export.Columns] header and the tree's flattened rows.
//
// Sheet names are cleaned of the characters Excel rejects, cut to 31
// characters and made unique. An empty trees slice yields a workbook with a
// single empty sheet.
func RenderXLSX(trees []*hierarchy.Tree) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const defaultSheet = "Sheet1"
	used := make(map[string]bool)

	for i, t := range trees {
		name := uniqueSheetName(SheetName(t.Root), used)
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, name); err != nil {
				return nil, fmt.Errorf("sheet %s: %w", name, err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("sheet %s: %w", name, err)
		}
		if err := writeSheet(f, name, export.Flatten(t)); err != nil {
			return nil, fmt.Errorf("sheet %s: %w", name, err)
		}
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet string, rows []export.Row) error {
	header := make([]any, len(export.Columns))
	for i, c := range export.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		vals := r.Values()
		if err := f.SetSheetRow(sheet, cell, &vals); err != nil {
			return err
		}
	}
	return nil
}

// SheetName converts a root id into a valid worksheet name.
func SheetName(root string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, root)
	name = strings.Trim(name, "'")
	if runes := []rune(name); len(runes) > maxSheetName {
		name = string(runes[:maxSheetName])
	}
	if name == "" {
		name = "root"
	}
	return name
}

// uniqueSheetName appends ~2, ~3, ... when name is taken. Excel compares
// sheet names case-insensitively.
func uniqueSheetName(name string, used map[string]bool) string {
	candidate := name
	for n := 2; used[strings.ToLower(candidate)]; n++ {
		suffix := fmt.Sprintf("~%d", n)
		base := []rune(name)
		if len(base)+len(suffix) > maxSheetName {
			base = base[:maxSheetName-len(suffix)]
		}
		candidate = string(base) + suffix
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}
