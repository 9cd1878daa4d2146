package dicomfile

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// RasterExtensions are common raster image extensions that are never
// DICOM. Files matching them are skipped before any decode attempt.
var RasterExtensions = map[string]bool{
	".png":  true,
	".jpeg": true,
	".jpg":  true,
	".gif":  true,
	".bmp":  true,
}

// IsRasterImage reports whether path has a known non-DICOM raster
// image extension.
func IsRasterImage(path string) bool {
	return RasterExtensions[strings.ToLower(filepath.Ext(path))]
}

// FindFiles returns every regular file under root, sorted. The input
// tree may freely mix DICOM files with other content; callers decide
// per file whether it decodes.
func FindFiles(root string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip entries we cannot access
		}
		if d.Type().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}
