package correlation

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"regexp"
)

var fieldSeparator = regexp.MustCompile(`[,\s]+`)

// Table is an immutable-after-load mapping from old patient IDs to
// replacement IDs. Lookups are case-sensitive exact matches.
type Table struct {
	ids map[string]string
}

// Load reads a correlation file: one mapping per line, fields separated
// by comma, whitespace or tab, first two tokens being oldID and newID.
// Malformed lines are logged and skipped; an unreadable file is fatal.
func Load(path string, logger *slog.Logger) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open correlation file: %w", err)
	}
	defer file.Close()

	ids := make(map[string]string)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		parts := fieldSeparator.Split(line, -1)

		fields := parts[:0]
		for _, p := range parts {
			if p != "" {
				fields = append(fields, p)
			}
		}

		if len(fields) < 2 {
			if len(fields) > 0 {
				logger.Warn("invalid correlation line", "line", line)
			}
			continue
		}
		ids[fields[0]] = fields[1]
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("could not read correlation file: %w", err)
	}

	return &Table{ids: ids}, nil
}

// Lookup returns the replacement ID for oldID.
func (t *Table) Lookup(oldID string) (string, bool) {
	newID, ok := t.ids[oldID]
	return newID, ok
}

// Len returns the number of loaded mappings.
func (t *Table) Len() int { return len(t.ids) }
