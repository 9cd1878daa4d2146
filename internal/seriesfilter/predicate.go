package seriesfilter

import "strings"

// Predicate decides whether a series is included in a filtered sort.
// A file matches when its series number ends in Digit and its
// description contains one of Substrings, case-insensitively.
type Predicate struct {
	Digit      string
	Substrings []string
}

// Default accepts the structural MRI acquisitions: series numbers
// ending in "1" whose description mentions T1, T2 or FLAIR.
func Default() Predicate {
	return Predicate{
		Digit:      "1",
		Substrings: []string{"T1", "T2", "FLAIR"},
	}
}

// Match reports whether a series with the given description and number
// passes the filter.
func (p Predicate) Match(description, number string) bool {
	if !strings.HasSuffix(number, p.Digit) {
		return false
	}

	upper := strings.ToUpper(description)
	for _, sub := range p.Substrings {
		if strings.Contains(upper, strings.ToUpper(sub)) {
			return true
		}
	}
	return false
}
