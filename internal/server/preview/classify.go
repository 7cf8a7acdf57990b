// Package preview turns uploaded or stored bytes into a Table for display.
//
// Classify picks one Kind per file. Parse dispatches on that Kind exactly
// once; there is no other place where extensions or content types are
// inspected.
package preview

import (
	"mime"
	"path/filepath"
	"strings"
)

// Kind is the table format a file is parsed as.
type Kind int

const (
	KindUnsupported Kind = iota
	KindExcel
	KindDelimited
	KindCSV
)

func (k Kind) String() string {
	switch k {
	case KindExcel:
		return "excel"
	case KindDelimited:
		return "delimited"
	case KindCSV:
		return "csv"
	default:
		return "unsupported"
	}
}

// Format is a classified file: its Kind and, for text kinds, the delimiter.
// Delimiter 0 on KindDelimited means "sniff it from the content".
type Format struct {
	Kind      Kind
	Delimiter rune
}

var excelContentTypes = map[string]bool{
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
}

// Classify maps a filename and an optional declared content type to a Format.
// The extension decides when it is known; the content type is only a
// fallback, except that an Excel content type always wins.
func Classify(name, contentType string) Format {
	ct := normalizeContentType(contentType)
	ext := strings.ToLower(filepath.Ext(name))

	switch {
	case ext == ".xls" || ext == ".xlsx" || excelContentTypes[ct]:
		return Format{Kind: KindExcel}
	case ext == ".tsv":
		return Format{Kind: KindDelimited, Delimiter: '\t'}
	case ext == ".txt":
		return Format{Kind: KindDelimited}
	case ext == ".csv":
		return Format{Kind: KindCSV, Delimiter: ','}
	case ct == "text/plain":
		return Format{Kind: KindDelimited}
	case ct == "text/csv":
		return Format{Kind: KindCSV, Delimiter: ','}
	}
	return Format{Kind: KindUnsupported}
}

func normalizeContentType(ct string) string {
	if ct == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(ct))
	}
	return mt
}
