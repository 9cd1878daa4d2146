package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"

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

func TestExtractAllFieldsPresent(t *testing.T) {
	ds := newDataset(t, map[tag.Tag]string{
		tag.PatientID:         "PAT01",
		tag.StudyDate:         "20240101",
		tag.SeriesNumber:      "3",
		tag.SeriesDescription: "AX T2 FLAIR",
		tag.SOPInstanceUID:    "1.2.840.1.1",
	})

	key := Extract(ds)
	assert.Equal(t, Key{
		PatientID:         "PAT01",
		StudyDate:         "20240101",
		SeriesNumber:      "3",
		SeriesDescription: "AX T2 FLAIR",
		InstanceUID:       "1.2.840.1.1",
	}, key)
}

func TestExtractSubstitutesUnknown(t *testing.T) {
	ds := newDataset(t, map[tag.Tag]string{tag.PatientID: "PAT01"})

	key := Extract(ds)
	assert.Equal(t, "PAT01", key.PatientID)
	assert.Equal(t, Unknown, key.StudyDate)
	assert.Equal(t, Unknown, key.SeriesNumber)
	assert.Equal(t, Unknown, key.SeriesDescription)
	assert.Equal(t, Unknown, key.InstanceUID)
}

func TestExtractEmptyDataset(t *testing.T) {
	ds := dicomfile.FromDataset(dicom.Dataset{}, "empty.dcm")

	key := Extract(ds)
	assert.Equal(t, Unknown, key.PatientID)
	assert.Equal(t, Unknown, key.StudyDate)
	assert.Equal(t, Unknown, key.SeriesNumber)
	assert.Equal(t, Unknown, key.SeriesDescription)
	assert.Equal(t, Unknown, key.InstanceUID)
}
