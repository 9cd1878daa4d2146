package identity

import (
	"github.com/suyashkumar/dicom/pkg/tag"

	"github.com/BV-RADS/BIDS-creator-tool/internal/dicomfile"
)

// Unknown is substituted for any identity field absent from a dataset.
const Unknown = "UNKNOWN"

// Key is the identity tuple that drives output placement. Every field
// is an opaque string; series numbers and dates are never parsed.
type Key struct {
	PatientID         string
	StudyDate         string
	SeriesNumber      string
	SeriesDescription string
	InstanceUID       string
}

// Extract reads the identity fields from a dataset. It is total:
// absent fields come back as Unknown, never as an error.
func Extract(ds *dicomfile.Dataset) Key {
	return Key{
		PatientID:         field(ds, tag.PatientID),
		StudyDate:         field(ds, tag.StudyDate),
		SeriesNumber:      field(ds, tag.SeriesNumber),
		SeriesDescription: field(ds, tag.SeriesDescription),
		InstanceUID:       field(ds, tag.SOPInstanceUID),
	}
}

func field(ds *dicomfile.Dataset, t tag.Tag) string {
	if v, ok := ds.String(t); ok {
		return v
	}
	return Unknown
}
