package csvseries

import "strings"

// Candidates are the delimiters tried, in priority order.
var Candidates = []rune{',', ';', '\t', ' '}

// sampleLines is how many non-blank lines feed delimiter detection.
const sampleLines = 5

// DetectDelimiter picks the delimiter for sample (non-blank lines, header
// first). It returns the first candidate that splits every sample line the
// same non-zero number of times; failing that, the first candidate present
// anywhere in the sample; failing that, a comma.
func DetectDelimiter(sample []string) rune {
	if d, ok := firstMatch(Candidates, func(d rune) bool { return consistent(sample, d) }); ok {
		return d
	}
	if d, ok := firstMatch(Candidates, func(d rune) bool { return present(sample, d) }); ok {
		return d
	}
	return ','
}

func firstMatch(candidates []rune, match func(rune) bool) (rune, bool) {
	for _, d := range candidates {
		if match(d) {
			return d, true
		}
	}
	return 0, false
}

func consistent(sample []string, d rune) bool {
	if len(sample) == 0 {
		return false
	}
	want := countUnquoted(sample[0], d)
	if want == 0 {
		return false
	}
	for _, line := range sample[1:] {
		if countUnquoted(line, d) != want {
			return false
		}
	}
	return true
}

func present(sample []string, d rune) bool {
	for _, line := range sample {
		if strings.ContainsRune(line, d) {
			return true
		}
	}
	return false
}

// countUnquoted counts d outside double-quoted sections of line.
func countUnquoted(line string, d rune) int {
	var (
		n      int
		quoted bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			quoted = !quoted
		case r == d && !quoted:
			n++
		}
	}
	return n
}
