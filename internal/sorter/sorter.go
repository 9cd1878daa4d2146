// Package sorter implements the per-file classification, anonymization
// and dispatch pipeline shared by the sort, filter and archive
// commands.
package sorter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/BV-RADS/BIDS-creator-tool/internal/anonymize"
	"github.com/BV-RADS/BIDS-creator-tool/internal/counter"
	"github.com/BV-RADS/BIDS-creator-tool/internal/dicomfile"
	"github.com/BV-RADS/BIDS-creator-tool/internal/dispatch"
	"github.com/BV-RADS/BIDS-creator-tool/internal/identity"
	"github.com/BV-RADS/BIDS-creator-tool/internal/pathtemplate"
	"github.com/BV-RADS/BIDS-creator-tool/internal/seriesfilter"
	"github.com/BV-RADS/BIDS-creator-tool/internal/sink"
)

// Naming selects how output filenames are proposed before collision
// resolution.
type Naming int

const (
	// NameFromSource keeps the source file's basename.
	NameFromSource Naming = iota
	// NameFromInstanceUID uses "<SOPInstanceUID>.dcm".
	NameFromInstanceUID
	// NameFromImageCounter draws IM000001-style names from the
	// counter registry, one sequence per destination directory.
	NameFromImageCounter
)

// Sorter holds the configuration and shared state for one run. The
// anonymization options and filter are read-only after construction;
// the counter registry serializes its own access.
type Sorter struct {
	Logger *slog.Logger

	DestRoot string
	Pattern  string

	Anonymize  anonymize.Options
	Decompress bool
	Filter     *seriesfilter.Predicate

	Counters *counter.Registry
	Naming   Naming

	Policy sink.Policy
	Force  bool
	Move   bool

	Workers  int
	Progress io.Writer
}

// Run enumerates inputRoot and processes every file through the
// pipeline, returning the final tally. Setup-level problems (missing
// input root) are returned as errors before any dispatch begins.
func (s *Sorter) Run(ctx context.Context, inputRoot string) (dispatch.Tally, error) {
	info, err := os.Stat(inputRoot)
	if err != nil {
		return dispatch.Tally{}, fmt.Errorf("input directory does not exist: %s", inputRoot)
	}
	if !info.IsDir() {
		return dispatch.Tally{}, fmt.Errorf("input path is not a directory: %s", inputRoot)
	}

	files, err := dicomfile.FindFiles(inputRoot)
	if err != nil {
		return dispatch.Tally{}, fmt.Errorf("could not enumerate input files: %w", err)
	}
	s.Logger.Info("enumerated input files", "count", len(files), "root", inputRoot)

	opts := dispatch.Options{Workers: s.Workers}
	if s.Progress != nil {
		opts.Progress = s.Progress
	}

	return dispatch.Run(ctx, files, opts, s.Process), nil
}

// Process runs the full pipeline for one file: decode, filter,
// anonymize, path resolution, collision resolution and output.
func (s *Sorter) Process(path string) dispatch.Outcome {
	if dicomfile.IsRasterImage(path) {
		s.Logger.Debug("skipping raster image", "path", path)
		return dispatch.Skip(path)
	}

	ds, err := dicomfile.Read(path)
	if err != nil {
		s.Logger.Warn("not a DICOM file", "path", path, "error", err)
		return dispatch.Fail(path, err)
	}

	if s.Anonymize.Enabled() {
		if err := anonymize.Apply(ds, s.Anonymize); err != nil {
			s.Logger.Warn("could not anonymize file", "path", path, "error", err)
			return dispatch.Fail(path, err)
		}
	}

	key := identity.Extract(ds)

	if s.Filter != nil && !s.Filter.Match(key.SeriesDescription, key.SeriesNumber) {
		s.Logger.Info("series criteria not met", "path", path,
			"series", key.SeriesDescription, "number", key.SeriesNumber)
		return dispatch.Skip(path)
	}

	if s.Decompress {
		decompressed, err := dicomfile.Decompress(ds)
		if err != nil {
			s.Logger.Warn("could not decompress dataset", "path", path, "error", err)
		}
		ds = decompressed
	}

	dir, err := s.destinationDir(key)
	if err != nil {
		s.Logger.Warn("could not resolve destination", "path", path, "error", err)
		return dispatch.Fail(path, err)
	}

	reservation, err := sink.Reserve(dir, s.proposeName(path, key, dir), s.Policy, s.Force)
	if err != nil {
		if errors.Is(err, sink.ErrDestinationExists) {
			s.Logger.Info("destination exists, skipping", "path", path, "dir", dir)
			return dispatch.Skip(path)
		}
		return dispatch.Fail(path, err)
	}

	if err := s.deliver(reservation, ds, path); err != nil {
		reservation.Abort()
		s.Logger.Warn("could not write output file", "path", path, "error", err)
		return dispatch.Fail(path, err)
	}

	return dispatch.Succeed(path)
}

// destinationDir resolves the output directory for a file. Counter
// tokens are looked up only when the pattern uses them so that unused
// registries never assign values.
func (s *Sorter) destinationDir(key identity.Key) (string, error) {
	counters := make(map[string]string)
	if s.Counters != nil {
		if pathtemplate.UsesCounter(s.Pattern, pathtemplate.TokenDateID) {
			counters[pathtemplate.TokenDateID] = s.Counters.DateID(key.PatientID, key.StudyDate)
		}
		if pathtemplate.UsesCounter(s.Pattern, pathtemplate.TokenSeriesID) {
			counters[pathtemplate.TokenSeriesID] = s.Counters.SeriesID(key.PatientID, key.StudyDate, key.SeriesNumber)
		}
	}

	rel, err := pathtemplate.Resolve(s.Pattern, key, counters)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.DestRoot, filepath.FromSlash(rel)), nil
}

func (s *Sorter) proposeName(path string, key identity.Key, dir string) string {
	switch s.Naming {
	case NameFromInstanceUID:
		return key.InstanceUID + ".dcm"
	case NameFromImageCounter:
		return s.Counters.ImageName(dir)
	default:
		return filepath.Base(path)
	}
}

func (s *Sorter) deliver(r *sink.Reservation, ds *dicomfile.Dataset, src string) error {
	switch {
	case ds.Dirty():
		if err := r.WriteDataset(ds); err != nil {
			return err
		}
		if s.Move {
			return os.Remove(src)
		}
		return nil
	case s.Move:
		return r.MoveFrom(src)
	default:
		return r.CopyFrom(src)
	}
}
