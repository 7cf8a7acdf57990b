package preview

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/filereview/internal/common"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

// Source says where the bytes came from. It only changes text decoding:
// uploads must be UTF-8, stored blobs are read as latin-1 so any byte
// sequence decodes.
type Source int

const (
	SourceUpload Source = iota
	SourceStored
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Parser parses tabular files. MaxRows <= 0 means no limit.
type Parser struct {
	MaxRows int
}

func NewParser(maxRows int) *Parser {
	return &Parser{MaxRows: maxRows}
}

// Parse classifies name/contentType and parses data accordingly.
// It returns common.ErrUnsupportedFormat without reading data when the
// format is unknown, and an error wrapping common.ErrParseFailure when
// data does not fit the format.
func (p *Parser) Parse(name, contentType string, data []byte, src Source) (*Table, error) {
	f := Classify(name, contentType)

	var (
		t   *Table
		err error
	)
	switch f.Kind {
	case KindExcel:
		t, err = p.parseExcel(data)
	case KindDelimited, KindCSV:
		var text string
		text, err = decodeText(data, src)
		if err != nil {
			return nil, err
		}
		delim := f.Delimiter
		if delim == 0 {
			delim = sniffDelimiter(text)
		}
		t, err = p.parseDelimited(text, delim)
	default:
		return nil, fmt.Errorf("%w: %s", common.ErrUnsupportedFormat, name)
	}
	if err != nil {
		return nil, err
	}

	t.Kind = f.Kind
	return t, nil
}

func decodeText(data []byte, src Source) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	if src == SourceStored {
		b, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err != nil {
			return "", fmt.Errorf("%w: %v", common.ErrParseFailure, err)
		}
		return string(b), nil
	}

	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: content is not valid UTF-8", common.ErrParseFailure)
	}
	return string(data), nil
}

// parseDelimited pads short rows to the header width; longer rows fail.
func (p *Parser) parseDelimited(text string, delim rune) (*Table, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: no columns to parse", common.ErrParseFailure)
	}
	if err != nil {
		return nil, parseErr(err)
	}

	t := &Table{Columns: uniqueColumns(header)}
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, parseErr(err)
		}
		if len(rec) > len(t.Columns) {
			line, _ := r.FieldPos(0)
			return nil, fmt.Errorf("%w: line %d: expected %d fields, saw %d",
				common.ErrParseFailure, line, len(t.Columns), len(rec))
		}
		if p.full(t) {
			t.Truncated = true
			break
		}
		t.Rows = append(t.Rows, pad(rec, len(t.Columns)))
	}
	return t, nil
}

func parseErr(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return fmt.Errorf("%w: line %d: %v", common.ErrParseFailure, pe.Line, pe.Err)
	}
	return fmt.Errorf("%w: %v", common.ErrParseFailure, err)
}

// parseExcel reads the first sheet. Short rows are padded to the widest row.
func (p *Parser) parseExcel(data []byte) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrParseFailure, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", common.ErrParseFailure)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrParseFailure, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no columns to parse", common.ErrParseFailure)
	}

	width := 0
	for _, r := range rows {
		width = max(width, len(r))
	}
	if width == 0 {
		return nil, fmt.Errorf("%w: no columns to parse", common.ErrParseFailure)
	}

	t := &Table{Columns: uniqueColumns(pad(rows[0], width))}
	for _, r := range rows[1:] {
		if p.full(t) {
			t.Truncated = true
			break
		}
		t.Rows = append(t.Rows, pad(r, width))
	}
	return t, nil
}

func (p *Parser) full(t *Table) bool {
	return p.MaxRows > 0 && len(t.Rows) >= p.MaxRows
}

func pad(row []string, width int) []string {
	if len(row) >= width {
		return row
	}
	out := make([]string, width)
	copy(out, row)
	return out
}
