package verify

import (
	"fmt"
	"io"

	"github.com/civicgeo/capitolverify/internal/capitals"
)

// Report summarizes a completed verification run.
type Report struct {
	Total        int
	Failures     []Failure
	UniqueCoords bool
}

// Check re-parses the written file to guard against serialization corruption,
// then evaluates coordinate uniqueness over the in-memory records. The
// re-load is a parseability check only; its contents are discarded.
func Check(outputPath string, records []capitals.Record, failures []Failure) (*Report, error) {
	if _, err := capitals.Load(outputPath); err != nil {
		return nil, err
	}

	return &Report{
		Total:        len(records),
		Failures:     failures,
		UniqueCoords: capitals.UniqueLatLon(records),
	}, nil
}

// Matched returns the number of records the geocoder corrected.
func (r *Report) Matched() int {
	return r.Total - len(r.Failures)
}

// Print writes the human-readable run summary. Unmatched addresses and
// duplicate coordinates are warnings, not failures.
func (r *Report) Print(w io.Writer) {
	if r.UniqueCoords {
		fmt.Fprintln(w, "✓ All latitude/longitude pairs are unique")
	} else {
		fmt.Fprintln(w, "⚠ Duplicate coordinates detected")
	}

	if len(r.Failures) > 0 {
		fmt.Fprintln(w, "\nAddresses NOT found by Census Geocoder:")
		for _, f := range r.Failures {
			fmt.Fprintf(w, "  • %s\n", f)
		}
	} else {
		fmt.Fprintln(w, "\n✓ Every address matched the Census Geocoder")
	}
}
