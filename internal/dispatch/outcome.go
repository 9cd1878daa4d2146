package dispatch

// Status classifies the result of one file's pipeline.
type Status int

const (
	Success Status = iota
	Failure
	Skipped
)

// Outcome is the per-file result aggregated into the final tally.
type Outcome struct {
	Path   string
	Status Status
	Err    error
}

// Succeed builds a success outcome.
func Succeed(path string) Outcome {
	return Outcome{Path: path, Status: Success}
}

// Fail builds a failure outcome.
func Fail(path string, err error) Outcome {
	return Outcome{Path: path, Status: Failure, Err: err}
}

// Skip builds a skipped outcome.
func Skip(path string) Outcome {
	return Outcome{Path: path, Status: Skipped}
}

// Tally counts every enumerated file exactly once.
type Tally struct {
	Success int
	Failed  int
	Skipped int
}

func (t *Tally) add(o Outcome) {
	switch o.Status {
	case Success:
		t.Success++
	case Failure:
		t.Failed++
	case Skipped:
		t.Skipped++
	}
}

// Total returns the number of files accounted for.
func (t Tally) Total() int {
	return t.Success + t.Failed + t.Skipped
}
