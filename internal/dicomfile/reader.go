package dicomfile

import (
	"fmt"
	"io"
	"os"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
)

// Dataset wraps a decoded DICOM dataset together with its source path.
// It tracks whether any tag was mutated so callers can decide between
// re-serializing and copying the source file verbatim.
type Dataset struct {
	data  dicom.Dataset
	path  string
	dirty bool
}

// Read reads a DICOM file and returns the full dataset.
func Read(path string) (*Dataset, error) {
	return read(path)
}

// ReadMetadata reads only the metadata (no pixel data).
func ReadMetadata(path string) (*Dataset, error) {
	return read(path, dicom.SkipPixelData())
}

func read(path string, opts ...dicom.ParseOption) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("could not stat file: %w", err)
	}

	ds, err := dicom.Parse(file, info.Size(), nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("could not parse DICOM: %w", err)
	}

	return &Dataset{data: ds, path: path}, nil
}

// FromDataset wraps an already-decoded dataset.
func FromDataset(ds dicom.Dataset, path string) *Dataset {
	return &Dataset{data: ds, path: path}
}

// Path returns the source file path.
func (d *Dataset) Path() string { return d.path }

// Dirty reports whether any tag has been mutated since decode.
func (d *Dataset) Dirty() bool { return d.dirty }

// String returns the string value of a tag. The second return value is
// false when the tag is absent or has no value, so lookups never fail.
func (d *Dataset) String(t tag.Tag) (string, bool) {
	elem, err := d.data.FindElementByTag(t)
	if err != nil || elem.Value == nil {
		return "", false
	}

	value := elem.Value.GetValue()
	if value == nil {
		return "", false
	}

	switch v := value.(type) {
	case []string:
		if len(v) == 0 {
			return "", false
		}
		return v[0], true
	case string:
		return v, true
	case []int:
		if len(v) == 0 {
			return "", false
		}
		return fmt.Sprintf("%d", v[0]), true
	}

	return fmt.Sprintf("%v", value), true
}

// TransferSyntax returns the transfer syntax UID, if present.
func (d *Dataset) TransferSyntax() string {
	v, _ := d.String(tag.TransferSyntaxUID)
	return v
}

// HasMagic reports whether the file at path carries the DICOM magic
// bytes ("DICM" at offset 128). A cheap pre-check only; decode remains
// the authority since the preamble is optional in the wild.
func HasMagic(path string) bool {
	file, err := os.Open(path)
	if err != nil {
		return false
	}
	defer file.Close()

	header := make([]byte, 132)
	if _, err := io.ReadFull(file, header); err != nil {
		return false
	}
	return string(header[128:132]) == "DICM"
}
