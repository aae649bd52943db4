package dataprocessing

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"osccli/pkg/contracts/domain"
)

// Table is the uniform row representation every format handler produces.
// The first non-blank row is the header as stored in the file.
type Table struct {
	Rows      [][]string
	Malformed int  // lines the container decoder could not split into cells
	Date1904  bool // numeric dates count days from 1904-01-01
}

// SerialDates returns how bare numbers in the table's cells are read as dates
func (t *Table) SerialDates(format domain.Format) SerialDates {
	switch {
	case format == domain.FormatDelimited:
		return SerialNone
	case t.Date1904:
		return Serial1904
	default:
		return Serial1900
	}
}

// FormatHandler reads one container format into a Table
type FormatHandler interface {
	Format() domain.Format
	ReadTable(path string) (*Table, error)
}

// handlers is the closed set of supported formats
var handlers = map[domain.Format]FormatHandler{
	domain.FormatDelimited:         csvHandler{},
	domain.FormatSpreadsheet:       xlsxHandler{},
	domain.FormatLegacySpreadsheet: xlsHandler{},
}

// HandlerFor returns the handler for format, or false for an unsupported one
func HandlerFor(format domain.Format) (FormatHandler, bool) {
	h, ok := handlers[format]
	return h, ok
}

// csvHandler reads comma-delimited text
type csvHandler struct{}

func (csvHandler) Format() domain.Format { return domain.FormatDelimited }

func (csvHandler) ReadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	// Allow ragged rows; missing trailing cells are treated as empty.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	table := &Table{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				table.Malformed++
				continue
			}
			return nil, fmt.Errorf("failed to read csv: %w", err)
		}
		table.Rows = append(table.Rows, record)
	}
	return table, nil
}

// xlsxHandler reads the first worksheet of an Office Open XML workbook
type xlsxHandler struct{}

func (xlsxHandler) Format() domain.Format { return domain.FormatSpreadsheet }

func (xlsxHandler) ReadTable(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no worksheets")
	}

	// Raw values keep date cells as serial numbers instead of locale-formatted text.
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	table := &Table{Rows: rows}
	props, err := f.GetWorkbookProps()
	if err != nil {
		return nil, fmt.Errorf("failed to read workbook properties: %w", err)
	}
	if props.Date1904 != nil {
		table.Date1904 = *props.Date1904
	}
	return table, nil
}

// xlsHandler reads the first worksheet of a BIFF (Excel 97-2003) workbook
type xlsHandler struct{}

func (xlsHandler) Format() domain.Format { return domain.FormatLegacySpreadsheet }

func (xlsHandler) ReadTable(path string) (table *Table, err error) {
	// The BIFF decoder panics on some truncated files.
	defer func() {
		if r := recover(); r != nil {
			table, err = nil, fmt.Errorf("corrupt workbook: %v", r)
		}
	}()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	wb, err := xls.OpenReader(f, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	if wb == nil {
		return nil, fmt.Errorf("file has no workbook stream")
	}
	date1904 := xlsDate1904(wb)
	useRawNumbers(wb)

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, fmt.Errorf("workbook has no worksheets")
	}

	table = &Table{Date1904: date1904}
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheetRow(sheet, i)
		if row == nil {
			table.Rows = append(table.Rows, nil)
			continue
		}
		cells := make([]string, row.LastCol())
		for c := row.FirstCol(); c < row.LastCol(); c++ {
			cells[c] = row.Col(c)
		}
		table.Rows = append(table.Rows, cells)
	}
	return table, nil
}

// sheetRow returns row i, or nil when the sheet stores nothing for it
func sheetRow(sheet *xls.WorkSheet, i int) (row *xls.Row) {
	// WorkSheet.Row dereferences the missing entry of a sparse sheet.
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return sheet.Row(i)
}

// useRawNumbers resets every cell style to the General number format. The
// BIFF reader renders date-formatted numbers as "2006.01" or RFC3339 text,
// losing the day and time; with General it renders the stored serial.
func useRawNumbers(wb *xls.WorkBook) {
	for _, xf := range wb.Xfs {
		switch x := xf.(type) {
		case *xls.Xf8:
			x.Format = 0
		case *xls.Xf5:
			x.Format = 0
		}
	}
}

// xlsDate1904 reports whether the workbook uses the 1904 date system. The
// reader keeps the DATEMODE record private, so a known serial is rendered
// through a temporary custom date style and the resulting year checked.
func xlsDate1904(wb *xls.WorkBook) bool {
	const probeFormat = 0xFFFF
	const probeSerial = 100 // 1900-04-09 or 1904-04-10

	if wb.Formats == nil {
		wb.Formats = make(map[uint16]*xls.Format)
	}
	_, hadFormat := wb.Formats[probeFormat]
	if !hadFormat {
		wb.Formats[probeFormat] = &xls.Format{}
	}
	wb.Xfs = append(wb.Xfs, &xls.Xf8{Format: probeFormat})
	defer func() {
		wb.Xfs = wb.Xfs[:len(wb.Xfs)-1]
		if !hadFormat {
			delete(wb.Formats, probeFormat)
		}
	}()

	rk := xls.XfRk{Index: uint16(len(wb.Xfs) - 1), Rk: xls.RK(probeSerial<<2 | 2)}
	t, err := time.Parse(time.RFC3339, rk.String(wb))
	return err == nil && t.Year() == 1904
}
