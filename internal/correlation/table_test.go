package correlation

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeTable(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ids.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadSeparators(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"comma", "OLD1,NEW1\nOLD2,NEW2\n"},
		{"space", "OLD1 NEW1\nOLD2 NEW2\n"},
		{"tab", "OLD1\tNEW1\nOLD2\tNEW2\n"},
		{"mixed", "OLD1, NEW1\nOLD2 \t NEW2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := Load(writeTable(t, tt.content), discardLogger())
			require.NoError(t, err)
			assert.Equal(t, 2, table.Len())

			newID, ok := table.Lookup("OLD1")
			assert.True(t, ok)
			assert.Equal(t, "NEW1", newID)

			newID, ok = table.Lookup("OLD2")
			assert.True(t, ok)
			assert.Equal(t, "NEW2", newID)
		})
	}
}

func TestLoadSkipsMalformedLines(t *testing.T) {
	table, err := Load(writeTable(t, "OLD1,NEW1\njustoneid\n\nOLD2,NEW2\n"), discardLogger())
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())

	_, ok := table.Lookup("justoneid")
	assert.False(t, ok)
}

func TestLookupIsCaseSensitive(t *testing.T) {
	table, err := Load(writeTable(t, "Old1,New1\n"), discardLogger())
	require.NoError(t, err)

	_, ok := table.Lookup("old1")
	assert.False(t, ok)

	newID, ok := table.Lookup("Old1")
	assert.True(t, ok)
	assert.Equal(t, "New1", newID)
}

func TestLoadMissingFileIsFatal(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.txt"), discardLogger())
	assert.Error(t, err)
}

func TestUnresolvedSetWriteLog(t *testing.T) {
	set := NewUnresolvedSet()
	set.Add("ZULU")
	set.Add("ALPHA")
	set.Add("ALPHA") // duplicates collapse

	assert.Equal(t, 2, set.Len())

	path := filepath.Join(t.TempDir(), "missing.log")
	require.NoError(t, set.WriteLog(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ALPHA\nZULU\n", string(data))
}

func TestUnresolvedSetEmptyWritesNothing(t *testing.T) {
	set := NewUnresolvedSet()
	path := filepath.Join(t.TempDir(), "missing.log")
	require.NoError(t, set.WriteLog(path))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
