package sink

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Policy selects how destination filename collisions are handled.
type Policy int

const (
	// Uniquify appends _1, _2, ... before the extension until a free
	// name is found. Never overwrites.
	Uniquify Policy = iota
	// Guarded skips the file when the destination exists, unless the
	// force flag allows overwriting.
	Guarded
)

// ErrDestinationExists reports a collision under the Guarded policy
// without force.
var ErrDestinationExists = errors.New("destination file already exists")

// Reservation is an exclusively created destination file. The caller
// must finish it with exactly one of WriteDataset, CopyFrom, MoveFrom
// or Abort.
type Reservation struct {
	file *os.File
	Path string
}

// Reserve creates the destination file for name under dir according to
// the collision policy. Creation uses O_EXCL so two workers racing for
// the same literal name cannot both win; under Uniquify the loser
// simply moves on to the next suffix.
func Reserve(dir, name string, policy Policy, force bool) (*Reservation, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create output directory: %w", err)
	}

	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)

	candidate := name
	for suffix := 1; ; suffix++ {
		path := filepath.Join(dir, candidate)
		file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			return &Reservation{file: file, Path: path}, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("could not create output file: %w", err)
		}

		if policy == Guarded {
			if !force {
				return nil, ErrDestinationExists
			}
			file, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
			if err != nil {
				return nil, fmt.Errorf("could not overwrite output file: %w", err)
			}
			return &Reservation{file: file, Path: path}, nil
		}

		candidate = fmt.Sprintf("%s_%d%s", base, suffix, ext)
	}
}

// Abort discards the reservation and removes the placeholder file.
func (r *Reservation) Abort() {
	if r.file != nil {
		r.file.Close()
		r.file = nil
	}
	os.Remove(r.Path)
}
