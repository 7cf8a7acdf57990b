package preview

import "strings"

// candidates in tie-break order.
var candidates = []rune{',', '\t', ';', '|'}

const sniffLines = 10

// sniffDelimiter picks the candidate that splits the first lines into the
// same, largest number of fields. Quoted sections are skipped. Text with no
// candidate at all is treated as a single comma-separated column.
func sniffDelimiter(text string) rune {
	lines := firstLines(text, sniffLines)
	if len(lines) == 0 {
		return ','
	}

	best, bestCount := rune(0), 0
	for _, c := range candidates {
		n := countOutsideQuotes(lines[0], c)
		if n == 0 {
			continue
		}
		consistent := true
		for _, l := range lines[1:] {
			if countOutsideQuotes(l, c) != n {
				consistent = false
				break
			}
		}
		if consistent && n > bestCount {
			best, bestCount = c, n
		}
	}
	if best != 0 {
		return best
	}

	// nothing consistent: take whatever splits the header most
	for _, c := range candidates {
		if n := countOutsideQuotes(lines[0], c); n > bestCount {
			best, bestCount = c, n
		}
	}
	if best == 0 {
		return ','
	}
	return best
}

func firstLines(text string, n int) []string {
	var out []string
	for _, l := range strings.Split(text, "\n") {
		l = strings.TrimRight(l, "\r")
		if strings.TrimSpace(l) == "" {
			continue
		}
		out = append(out, l)
		if len(out) == n {
			break
		}
	}
	return out
}

func countOutsideQuotes(line string, c rune) int {
	n, quoted := 0, false
	for _, r := range line {
		switch {
		case r == '"':
			quoted = !quoted
		case r == c && !quoted:
			n++
		}
	}
	return n
}
