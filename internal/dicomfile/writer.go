package dicomfile

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
)

// SetString replaces the value of an existing tag. Absent tags are left
// untouched: anonymization policy only rewrites fields that are present.
func (d *Dataset) SetString(t tag.Tag, value string) error {
	elem, err := d.data.FindElementByTag(t)
	if err != nil {
		return nil
	}

	newValue, err := dicom.NewValue([]string{value})
	if err != nil {
		return fmt.Errorf("could not create value: %w", err)
	}

	newElem := &dicom.Element{
		Tag:                    t,
		ValueRepresentation:    elem.ValueRepresentation,
		RawValueRepresentation: elem.RawValueRepresentation,
		ValueLength:            uint32(len(value)),
		Value:                  newValue,
	}

	for i, e := range d.data.Elements {
		if e.Tag == t {
			d.data.Elements[i] = newElem
			d.dirty = true
			return nil
		}
	}

	return nil
}

// EnsureString sets a tag value, appending a new element when the tag
// is absent from the dataset.
func (d *Dataset) EnsureString(t tag.Tag, value string) error {
	if _, ok := d.String(t); ok {
		return d.SetString(t, value)
	}

	elem, err := dicom.NewElement(t, []string{value})
	if err != nil {
		return fmt.Errorf("could not create element: %w", err)
	}
	d.data.Elements = append(d.data.Elements, elem)
	d.dirty = true
	return nil
}

// Clear sets a tag value to the empty string if the tag is present.
func (d *Dataset) Clear(t tag.Tag) error {
	return d.SetString(t, "")
}

// Write serializes the dataset to w with relaxed verification; many
// real-world DICOM files do not strictly follow VR specifications.
func (d *Dataset) Write(w io.Writer) error {
	if err := dicom.Write(w, d.data,
		dicom.SkipVRVerification(),
		dicom.SkipValueTypeVerification(),
		dicom.DefaultMissingTransferSyntax(),
	); err != nil {
		return fmt.Errorf("could not write DICOM: %w", err)
	}
	return nil
}

// Save writes the dataset to outputPath, creating parent directories.
func (d *Dataset) Save(outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("could not create output directory: %w", err)
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("could not create output file: %w", err)
	}
	defer file.Close()

	if err := d.Write(file); err != nil {
		return err
	}
	return file.Close()
}
