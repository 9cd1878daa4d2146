package counter

import (
	"fmt"
	"sync"
)

// Format controls the token prefixes and zero-pad widths.
type Format struct {
	DatePrefix   string
	DateWidth    int
	SeriesPrefix string
	SeriesWidth  int
	ImagePrefix  string
	ImageWidth   int
}

// DefaultFormat matches the archive layout tokens: DAT0001, SEQ0001,
// IM000001.
func DefaultFormat() Format {
	return Format{
		DatePrefix:   "DAT",
		DateWidth:    4,
		SeriesPrefix: "SEQ",
		SeriesWidth:  4,
		ImagePrefix:  "IM",
		ImageWidth:   6,
	}
}

type dateKey struct {
	patientID string
	studyDate string
}

type seriesKey struct {
	patientID    string
	studyDate    string
	seriesNumber string
}

// Registry assigns small sequential identifiers to composite keys.
// Within one run a key always maps to the same token and distinct keys
// map to distinct tokens, assigned 1-based in first-seen order. The
// registry is the single linearizable authority for counters: all
// workers share one instance and every lookup-or-insert runs under the
// mutex, so the first-seen-wins semantics hold under concurrency.
type Registry struct {
	mu     sync.Mutex
	format Format
	dates  map[dateKey]int
	series map[seriesKey]int
	images map[string]int
}

// NewRegistry creates an empty registry using format.
func NewRegistry(format Format) *Registry {
	return &Registry{
		format: format,
		dates:  make(map[dateKey]int),
		series: make(map[seriesKey]int),
		images: make(map[string]int),
	}
}

// DateID returns the token for a (patientID, studyDate) key, assigning
// the next value on first sight.
func (r *Registry) DateID(patientID, studyDate string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := dateKey{patientID, studyDate}
	n, ok := r.dates[key]
	if !ok {
		n = len(r.dates) + 1
		r.dates[key] = n
	}
	return formatToken(r.format.DatePrefix, r.format.DateWidth, n)
}

// SeriesID returns the token for a (patientID, studyDate, seriesNumber)
// key, assigning the next value on first sight.
func (r *Registry) SeriesID(patientID, studyDate, seriesNumber string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := seriesKey{patientID, studyDate, seriesNumber}
	n, ok := r.series[key]
	if !ok {
		n = len(r.series) + 1
		r.series[key] = n
	}
	return formatToken(r.format.SeriesPrefix, r.format.SeriesWidth, n)
}

// ImageName returns the next sequential image filename for a
// destination directory (IM000001, IM000002, ...). Unlike DateID and
// SeriesID this advances on every call.
func (r *Registry) ImageName(directory string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.images[directory]++
	return formatToken(r.format.ImagePrefix, r.format.ImageWidth, r.images[directory])
}

func formatToken(prefix string, width, n int) string {
	return fmt.Sprintf("%s%0*d", prefix, width, n)
}
