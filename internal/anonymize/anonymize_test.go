package anonymize

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"

	"github.com/BV-RADS/BIDS-creator-tool/internal/correlation"
	"github.com/BV-RADS/BIDS-creator-tool/internal/dicomfile"
)

func newDataset(t *testing.T, fields map[tag.Tag]string) *dicomfile.Dataset {
	t.Helper()
	var elems []*dicom.Element
	for tg, v := range fields {
		elem, err := dicom.NewElement(tg, []string{v})
		require.NoError(t, err)
		elems = append(elems, elem)
	}
	return dicomfile.FromDataset(dicom.Dataset{Elements: elems}, "test.dcm")
}

func loadTable(t *testing.T, content string) *correlation.Table {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ids.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	table, err := correlation.Load(path, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return table
}

func mustString(t *testing.T, ds *dicomfile.Dataset, tg tag.Tag) string {
	t.Helper()
	v, ok := ds.String(tg)
	require.True(t, ok)
	return v
}

func TestClearRewritesPresentFields(t *testing.T) {
	ds := newDataset(t, map[tag.Tag]string{
		tag.PatientName:      "DOE^JANE",
		tag.PatientBirthDate: "19700101",
		tag.PatientID:        "PAT01",
	})

	require.NoError(t, Apply(ds, Options{Clear: true}))

	assert.Equal(t, AnonymousName, mustString(t, ds, tag.PatientName))
	assert.Equal(t, "", mustString(t, ds, tag.PatientBirthDate))
	assert.Equal(t, "PAT01", mustString(t, ds, tag.PatientID))
	assert.True(t, ds.Dirty())
}

func TestClearLeavesAbsentFieldsAbsent(t *testing.T) {
	ds := newDataset(t, map[tag.Tag]string{tag.PatientID: "PAT01"})

	require.NoError(t, Apply(ds, Options{Clear: true}))

	_, ok := ds.String(tag.PatientName)
	assert.False(t, ok)
	_, ok = ds.String(tag.PatientBirthDate)
	assert.False(t, ok)
	assert.False(t, ds.Dirty())
}

func TestRemapReplacesKnownID(t *testing.T) {
	ds := newDataset(t, map[tag.Tag]string{tag.PatientID: "PAT01"})
	unresolved := correlation.NewUnresolvedSet()

	opts := Options{
		Table:      loadTable(t, "PAT01,SUBJ001\n"),
		Unresolved: unresolved,
	}
	require.NoError(t, Apply(ds, opts))

	assert.Equal(t, "SUBJ001", mustString(t, ds, tag.PatientID))
	assert.Zero(t, unresolved.Len())
}

func TestRemapKeepsUnknownIDAndRecordsIt(t *testing.T) {
	ds := newDataset(t, map[tag.Tag]string{tag.PatientID: "STRANGER"})
	unresolved := correlation.NewUnresolvedSet()

	opts := Options{
		Table:      loadTable(t, "PAT01,SUBJ001\n"),
		Unresolved: unresolved,
	}
	require.NoError(t, Apply(ds, opts))

	assert.Equal(t, "STRANGER", mustString(t, ds, tag.PatientID))
	assert.Equal(t, []string{"STRANGER"}, unresolved.IDs())
	assert.False(t, ds.Dirty())
}

func TestRemapWithoutClearLeavesNameAlone(t *testing.T) {
	ds := newDataset(t, map[tag.Tag]string{
		tag.PatientName: "DOE^JANE",
		tag.PatientID:   "PAT01",
	})

	opts := Options{
		Table:      loadTable(t, "PAT01,SUBJ001\n"),
		Unresolved: correlation.NewUnresolvedSet(),
	}
	require.NoError(t, Apply(ds, opts))

	assert.Equal(t, "DOE^JANE", mustString(t, ds, tag.PatientName))
	assert.Equal(t, "SUBJ001", mustString(t, ds, tag.PatientID))
}

func TestOptionsEnabled(t *testing.T) {
	assert.False(t, Options{}.Enabled())
	assert.True(t, Options{Clear: true}.Enabled())
	assert.True(t, Options{Table: &correlation.Table{}}.Enabled())
}
