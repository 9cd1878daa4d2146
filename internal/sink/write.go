package sink

import (
	"fmt"
	"io"
	"os"

	"github.com/BV-RADS/BIDS-creator-tool/internal/dicomfile"
)

// WriteDataset serializes a mutated dataset into the reserved file.
func (r *Reservation) WriteDataset(ds *dicomfile.Dataset) error {
	if err := ds.Write(r.file); err != nil {
		r.close()
		return err
	}
	return r.close()
}

// CopyFrom streams the source file verbatim into the reserved file.
func (r *Reservation) CopyFrom(src string) error {
	in, err := os.Open(src)
	if err != nil {
		r.close()
		return fmt.Errorf("could not open source file: %w", err)
	}
	defer in.Close()

	if _, err := io.Copy(r.file, in); err != nil {
		r.close()
		return fmt.Errorf("could not copy file: %w", err)
	}
	return r.close()
}

// MoveFrom moves the source file onto the reserved path: a rename when
// possible, falling back to copy-and-remove across devices.
func (r *Reservation) MoveFrom(src string) error {
	r.close()

	if err := os.Rename(src, r.Path); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("could not open source file: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(r.Path, os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("could not open destination file: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("could not copy file: %w", err)
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}

func (r *Reservation) close() error {
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}
