package dispatch

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sync"

	"github.com/schollz/progressbar/v3"
)

// PerFile runs the full pipeline for one input file.
type PerFile func(path string) Outcome

// Options configures a dispatch run.
type Options struct {
	// Workers bounds the pool size; <= 0 selects max(2, NumCPU/2).
	Workers int
	// Progress receives the textual progress bar; nil disables it.
	Progress io.Writer
}

// DefaultWorkers sizes the pool to half the available cores, at
// least 2.
func DefaultWorkers() int {
	n := runtime.NumCPU() / 2
	if n < 2 {
		n = 2
	}
	return n
}

// Run distributes files across a bounded worker pool, executing fn for
// each. A panic or error inside one file's pipeline becomes a failure
// outcome and never aborts the run. The returned tally accounts for
// every file exactly once.
func Run(ctx context.Context, files []string, opts Options, fn PerFile) Tally {
	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers()
	}
	if workers > len(files) && len(files) > 0 {
		workers = len(files)
	}

	bar := newBar(len(files), opts.Progress)

	jobs := make(chan string)
	results := make(chan Outcome)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				results <- runOne(path, fn)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, path := range files {
			select {
			case jobs <- path:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var tally Tally
	for outcome := range results {
		tally.add(outcome)
		bar.Add(1)
	}
	bar.Finish()

	return tally
}

func runOne(path string, fn PerFile) (outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome = Fail(path, fmt.Errorf("panic while processing: %v", r))
		}
	}()
	return fn(path)
}

func newBar(total int, w io.Writer) *progressbar.ProgressBar {
	if w == nil {
		w = io.Discard
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Processing"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("file"),
		progressbar.OptionClearOnFinish(),
	)
}
