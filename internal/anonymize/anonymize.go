package anonymize

import (
	"github.com/suyashkumar/dicom/pkg/tag"

	"github.com/BV-RADS/BIDS-creator-tool/internal/correlation"
	"github.com/BV-RADS/BIDS-creator-tool/internal/dicomfile"
)

// AnonymousName replaces the patient name when clearing is requested.
const AnonymousName = "ANONYMIZED"

// Options selects which anonymization steps run. Clearing PII and
// remapping IDs are independent: either may be enabled on its own.
type Options struct {
	// Clear empties the birth date and overwrites the patient name.
	Clear bool
	// Table remaps patient IDs when non-nil.
	Table *correlation.Table
	// Unresolved records IDs missing from Table. Required when Table
	// is set.
	Unresolved *correlation.UnresolvedSet
}

// Enabled reports whether Apply would touch a dataset at all.
func (o Options) Enabled() bool {
	return o.Clear || o.Table != nil
}

// Apply mutates the dataset in place according to opts. Each field is
// rewritten only if present. A patient ID absent from the correlation
// table is left unchanged and recorded as unresolved; this is not an
// error and processing continues.
func Apply(ds *dicomfile.Dataset, opts Options) error {
	if opts.Clear {
		if _, ok := ds.String(tag.PatientBirthDate); ok {
			if err := ds.Clear(tag.PatientBirthDate); err != nil {
				return err
			}
		}
		if _, ok := ds.String(tag.PatientName); ok {
			if err := ds.SetString(tag.PatientName, AnonymousName); err != nil {
				return err
			}
		}
	}

	if opts.Table != nil {
		if oldID, ok := ds.String(tag.PatientID); ok {
			if newID, found := opts.Table.Lookup(oldID); found {
				if err := ds.SetString(tag.PatientID, newID); err != nil {
					return err
				}
			} else if opts.Unresolved != nil {
				opts.Unresolved.Add(oldID)
			}
		}
	}

	return nil
}
