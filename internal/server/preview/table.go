package preview

import "strconv"

// Table is a parsed file: a header row and data rows of equal width.
type Table struct {
	Kind    Kind
	Columns []string
	Rows    [][]string
	// Truncated is set when rows beyond the parser's limit were dropped.
	Truncated bool
}

// uniqueColumns suffixes repeated header names as name.1, name.2, ... and
// names empty headers "Unnamed: i".
func uniqueColumns(cols []string) []string {
	out := make([]string, len(cols))
	taken := make(map[string]bool, len(cols))
	next := make(map[string]int)
	for i, c := range cols {
		if c == "" {
			c = "Unnamed: " + strconv.Itoa(i)
		}
		name := c
		for taken[name] {
			next[c]++
			name = c + "." + strconv.Itoa(next[c])
		}
		taken[name] = true
		out[i] = name
	}
	return out
}
