// Package protocol rewrites the ProtocolName tag in place so that
// converted series carry the name of the folder they were sorted into.
package protocol

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/suyashkumar/dicom/pkg/tag"

	"github.com/BV-RADS/BIDS-creator-tool/internal/dicomfile"
	"github.com/BV-RADS/BIDS-creator-tool/internal/dispatch"
)

// Rewriter stamps each file's ProtocolName with its parent directory
// basename and saves the file in place.
type Rewriter struct {
	Logger *slog.Logger
}

// Process handles one file.
func (rw *Rewriter) Process(path string) dispatch.Outcome {
	ds, err := dicomfile.Read(path)
	if err != nil {
		rw.Logger.Warn("could not read file", "path", path, "error", err)
		return dispatch.Fail(path, err)
	}

	parent := filepath.Base(filepath.Dir(path))
	if err := ds.EnsureString(tag.ProtocolName, parent); err != nil {
		rw.Logger.Warn("could not set protocol name", "path", path, "error", err)
		return dispatch.Fail(path, err)
	}

	if err := saveInPlace(ds, path); err != nil {
		rw.Logger.Warn("could not save file", "path", path, "error", err)
		return dispatch.Fail(path, err)
	}

	return dispatch.Succeed(path)
}

// saveInPlace writes to a sibling temp file and renames it over the
// original, so a failed serialization never corrupts the source.
func saveInPlace(ds *dicomfile.Dataset, path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".protocol-*.tmp")
	if err != nil {
		return fmt.Errorf("could not create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if err := ds.Write(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("could not close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("could not replace original file: %w", err)
	}
	return nil
}
