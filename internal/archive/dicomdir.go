// Package archive builds DICOMDIR indexes over sorted patient trees by
// invoking dcmtk's dcmmkdir once per patient.
package archive

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
)

const dcmmkdirBinary = "dcmmkdir"

// CheckTools verifies that dcmmkdir is installed. Called before
// dispatch so a missing binary is a setup failure, not N per-patient
// failures.
func CheckTools() error {
	if _, err := exec.LookPath(dcmmkdirBinary); err != nil {
		return fmt.Errorf("dcmtk not installed (missing %s)", dcmmkdirBinary)
	}
	return nil
}

// BuildAll creates a DICOMDIR for every patient directory under root.
// A failure for one patient is logged and does not stop the others.
// Returns the number of DICOMDIRs built and the number of failures.
func BuildAll(root string, logger *slog.Logger) (built, failed int) {
	entries, err := os.ReadDir(root)
	if err != nil {
		logger.Error("could not list output directory", "root", root, "error", err)
		return 0, 0
	}

	var patients []string
	for _, entry := range entries {
		if entry.IsDir() {
			patients = append(patients, entry.Name())
		}
	}
	sort.Strings(patients)

	for _, patient := range patients {
		if err := buildOne(root, patient); err != nil {
			logger.Warn("could not create DICOMDIR", "patient", patient, "error", err)
			failed++
			continue
		}
		logger.Info("created DICOMDIR", "patient", patient)
		built++
	}
	return built, failed
}

func buildOne(root, patient string) error {
	dicomDir := filepath.Join(root, patient, "dicom")
	if _, err := os.Stat(dicomDir); err != nil {
		return fmt.Errorf("no dicom directory for patient: %w", err)
	}

	dicomdirPath := filepath.Join(root, patient, "DICOMDIR")
	cmd := exec.Command(dcmmkdirBinary,
		"+r", "+id", dicomDir,
		"+D", dicomdirPath,
		"-Pgp", "-A", "+I",
	)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s failed: %s", dcmmkdirBinary, string(output))
	}
	return nil
}
