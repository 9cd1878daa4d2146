package pathtemplate

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Characters illegal on at least one commonly targeted filesystem.
const invalidPathChars = `<>:"|?*`

// foldTransformer folds away combining marks. Built per call: chained
// transformers carry internal buffers and are not safe to share across
// workers.
func foldTransformer() transform.Transformer {
	return transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// SanitizeDescription prepares a series description for use as a path
// segment: spaces become underscores, asterisks are removed, periods
// become underscores, and filesystem-invalid characters are stripped.
func SanitizeDescription(description string) string {
	description = strings.ReplaceAll(description, " ", "_")
	description = strings.ReplaceAll(description, "*", "")
	description = strings.ReplaceAll(description, ".", "_")
	return sanitizeSegment(description)
}

// SanitizePath sanitizes a slash-separated relative path: traversal
// segments are dropped, each segment loses characters invalid on the
// target filesystem classes, and combining marks are folded away.
// Idempotent: sanitizing an already-sanitized path is a no-op.
func SanitizePath(path string) string {
	var segments []string
	for _, seg := range strings.Split(path, "/") {
		if seg == "" || seg == "." || seg == ".." {
			continue
		}
		seg = sanitizeSegment(seg)
		if seg != "" {
			segments = append(segments, seg)
		}
	}
	return strings.Join(segments, "/")
}

func sanitizeSegment(segment string) string {
	if folded, _, err := transform.String(foldTransformer(), segment); err == nil {
		segment = folded
	}

	var b strings.Builder
	b.Grow(len(segment))
	for _, r := range segment {
		if r < 0x20 || r == 0x7f {
			continue
		}
		if strings.ContainsRune(invalidPathChars, r) || r == '/' || r == '\\' {
			continue
		}
		b.WriteRune(r)
	}

	// Windows rejects trailing dots and spaces in path components.
	return strings.TrimRight(b.String(), ". ")
}
