// Package verify drives the geocode-correct-rewrite pipeline and its
// post-write checks.
package verify

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/civicgeo/capitolverify/internal/capitals"
	"github.com/civicgeo/capitolverify/pkg/geocode"
)

// Failure records an address the geocoder could not match.
type Failure struct {
	State   string
	Address string
}

func (f Failure) String() string {
	return fmt.Sprintf("%s | %s", f.State, f.Address)
}

// Runner walks the record list in order, correcting each record from its
// geocoder match. A transport or service error aborts the whole run; a
// no-match leaves the record untouched and is reported afterwards.
type Runner struct {
	Geocoder geocode.Client
	Progress func() // called after each processed record; may be nil
}

// Run mutates records in place and returns the unmatched addresses. No record
// is skipped and order is preserved.
func (r *Runner) Run(ctx context.Context, records []capitals.Record) ([]Failure, error) {
	log := zap.L()

	var failures []Failure
	for i := range records {
		rec := &records[i]

		result, err := r.Geocoder.Geocode(ctx, rec.Address)
		if err != nil {
			return nil, eris.Wrapf(err, "verify: geocode %q", rec.State)
		}

		if !result.Matched {
			failures = append(failures, Failure{State: rec.State, Address: rec.Address})
			log.Debug("no geocoder match",
				zap.String("state", rec.State),
				zap.String("address", rec.Address),
			)
		} else {
			rec.Address = result.MatchedAddress
			rec.Latitude = capitals.Round6(result.Latitude)
			rec.Longitude = capitals.Round6(result.Longitude)
			log.Debug("record corrected",
				zap.String("state", rec.State),
				zap.String("address", rec.Address),
				zap.Float64("latitude", rec.Latitude),
				zap.Float64("longitude", rec.Longitude),
			)
		}

		if r.Progress != nil {
			r.Progress()
		}
	}

	return failures, nil
}
