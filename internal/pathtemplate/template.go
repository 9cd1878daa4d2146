package pathtemplate

import (
	"errors"
	"strings"

	"github.com/BV-RADS/BIDS-creator-tool/internal/identity"
)

// Placeholder tokens substituted during resolution. Counter tokens
// (%DateID%, %SeriesID%) are supplied by the caller so that counters
// are only assigned when a template actually uses them.
const (
	TokenPatientID         = "%PatientID%"
	TokenStudyDate         = "%StudyDate%"
	TokenSeriesNumber      = "%SeriesNumber%"
	TokenSeriesDescription = "%SeriesDescription%"
	TokenInstanceUID       = "%InstanceUID%"
	TokenDateID            = "%DateID%"
	TokenSeriesID          = "%SeriesID%"
)

// ErrEmptyPath is returned when sanitization leaves nothing of the
// resolved path.
var ErrEmptyPath = errors.New("resolved path is empty after sanitization")

// UsesCounter reports whether the template contains the given counter
// token.
func UsesCounter(template, token string) bool {
	return strings.Contains(template, token)
}

// Resolve expands template with the identity key and any caller-
// supplied counter tokens, then sanitizes the result into a
// filesystem-safe slash-separated relative path.
func Resolve(template string, key identity.Key, counters map[string]string) (string, error) {
	replacements := []string{
		TokenPatientID, key.PatientID,
		TokenStudyDate, key.StudyDate,
		TokenSeriesNumber, key.SeriesNumber,
		TokenSeriesDescription, SanitizeDescription(key.SeriesDescription),
		TokenInstanceUID, key.InstanceUID,
	}
	for token, value := range counters {
		replacements = append(replacements, token, value)
	}

	resolved := strings.NewReplacer(replacements...).Replace(template)

	sanitized := SanitizePath(resolved)
	if sanitized == "" {
		return "", ErrEmptyPath
	}
	return sanitized, nil
}
