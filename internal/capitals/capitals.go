// Package capitals models the state-capital dataset and its on-disk JSON form.
package capitals

import (
	"encoding/json"
	"math"
	"os"

	"github.com/rotisserie/eris"
)

// ErrBadRoot reports a file whose JSON root is not an array.
var ErrBadRoot = eris.New("capitals: root element must be a JSON array")

// Record is one state-capital entry. State identifies the record and is never
// modified; Address and the coordinate pair are overwritten when the geocoder
// finds a match.
type Record struct {
	State     string  `json:"state"`
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Load reads path and parses it as a JSON array of records. The same function
// serves the initial input and the post-write re-parse.
func Load(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "capitals: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	decoder := json.NewDecoder(f)

	tok, err := decoder.Token()
	if err != nil {
		return nil, eris.Wrapf(err, "capitals: parse %s", path)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return nil, eris.Wrapf(ErrBadRoot, "capitals: %s", path)
	}

	records := []Record{}
	for decoder.More() {
		var rec Record
		if err := decoder.Decode(&rec); err != nil {
			return nil, eris.Wrapf(err, "capitals: decode record %d in %s", len(records), path)
		}
		records = append(records, rec)
	}

	if _, err := decoder.Token(); err != nil {
		return nil, eris.Wrapf(err, "capitals: read closing token in %s", path)
	}

	return records, nil
}

// Write serializes records to path as a 2-space-indented JSON array,
// overwriting any existing file. No atomic rename or backup.
func Write(path string, records []Record) error {
	if records == nil {
		records = []Record{}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return eris.Wrap(err, "capitals: marshal records")
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "capitals: write %s", path)
	}
	return nil
}

// UniqueLatLon reports whether every (latitude, longitude) pair in records
// is distinct.
func UniqueLatLon(records []Record) bool {
	seen := make(map[[2]float64]struct{}, len(records))
	for _, r := range records {
		seen[[2]float64{r.Latitude, r.Longitude}] = struct{}{}
	}
	return len(seen) == len(records)
}

// Round6 rounds a coordinate to 6 decimal places, half away from zero.
func Round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
