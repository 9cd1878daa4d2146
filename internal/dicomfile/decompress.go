package dicomfile

import (
	"fmt"
	"os"
	"os/exec"
)

// Transfer syntaxes that need no decompression.
var uncompressedSyntaxes = map[string]bool{
	"1.2.840.10008.1.2":   true, // implicit VR little endian
	"1.2.840.10008.1.2.1": true, // explicit VR little endian
	"1.2.840.10008.1.2.2": true, // explicit VR big endian
}

// IsCompressed reports whether the dataset's transfer syntax is a
// compressed encoding. An absent transfer syntax is treated as
// uncompressed.
func (d *Dataset) IsCompressed() bool {
	ts := d.TransferSyntax()
	return ts != "" && !uncompressedSyntaxes[ts]
}

// Decompress converts a compressed dataset to an uncompressed transfer
// syntax using dcmtk's dcmdjpeg. Best effort: callers are expected to
// log the error and carry on with the original dataset when it fails.
func Decompress(d *Dataset) (*Dataset, error) {
	if !d.IsCompressed() {
		return d, nil
	}

	if _, err := exec.LookPath("dcmdjpeg"); err != nil {
		return d, fmt.Errorf("dcmtk not installed (missing dcmdjpeg)")
	}

	tmpIn, err := os.CreateTemp("", "dicom-compressed-*.dcm")
	if err != nil {
		return d, fmt.Errorf("could not create temp file: %w", err)
	}
	tmpInPath := tmpIn.Name()
	defer os.Remove(tmpInPath)

	if err := d.Write(tmpIn); err != nil {
		tmpIn.Close()
		return d, err
	}
	if err := tmpIn.Close(); err != nil {
		return d, fmt.Errorf("could not close temp DICOM: %w", err)
	}

	tmpOut, err := os.CreateTemp("", "dicom-uncompressed-*.dcm")
	if err != nil {
		return d, fmt.Errorf("could not create temp file: %w", err)
	}
	tmpOutPath := tmpOut.Name()
	tmpOut.Close()
	defer os.Remove(tmpOutPath)

	cmd := exec.Command("dcmdjpeg", tmpInPath, tmpOutPath)
	if output, err := cmd.CombinedOutput(); err != nil {
		return d, fmt.Errorf("dcmdjpeg failed: %s", string(output))
	}

	out, err := Read(tmpOutPath)
	if err != nil {
		return d, err
	}

	out.path = d.path
	out.dirty = true
	return out, nil
}
