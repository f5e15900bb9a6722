package capitals

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "capitals.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_ValidArray(t *testing.T) {
	path := writeTemp(t, `[
  {"state": "Ohio", "address": "Columbus, OH", "latitude": 39.96, "longitude": -82.99},
  {"state": "Texas", "address": "Austin, TX", "latitude": 30.27, "longitude": -97.74}
]`)

	records, err := Load(path)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Ohio", records[0].State)
	assert.Equal(t, "Columbus, OH", records[0].Address)
	assert.InDelta(t, 39.96, records[0].Latitude, 0.0001)
	assert.InDelta(t, -97.74, records[1].Longitude, 0.0001)
}

func TestLoad_EmptyArray(t *testing.T) {
	records, err := Load(writeTemp(t, "[]"))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestLoad_RootObject(t *testing.T) {
	_, err := Load(writeTemp(t, `{"state": "Ohio"}`))
	assert.ErrorIs(t, err, ErrBadRoot)
}

func TestLoad_RootScalar(t *testing.T) {
	_, err := Load(writeTemp(t, `42`))
	assert.ErrorIs(t, err, ErrBadRoot)
}

func TestLoad_Truncated(t *testing.T) {
	_, err := Load(writeTemp(t, `[{"state": "Ohio"`))
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestWriteLoad_RoundTrip(t *testing.T) {
	records := []Record{
		{State: "Ohio", Address: "COLUMBUS, OH", Latitude: 39.961332, Longitude: -82.998794},
		{State: "Texas", Address: "AUSTIN, TX", Latitude: 30.274915, Longitude: -97.740353},
	}

	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, Write(path, records))

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, records, reloaded)
}

func TestWrite_NilSlice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, Write(path, nil))

	records, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestWrite_Indented(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, Write(path, []Record{{State: "Ohio", Address: "Columbus, OH"}}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "[\n  {\n    \"state\""))
	assert.True(t, strings.HasSuffix(string(data), "]\n"))
}

func TestUniqueLatLon(t *testing.T) {
	dup := []Record{
		{Latitude: 1, Longitude: 1},
		{Latitude: 2, Longitude: 2},
		{Latitude: 1, Longitude: 1},
	}
	assert.False(t, UniqueLatLon(dup))

	distinct := []Record{
		{Latitude: 1, Longitude: 1},
		{Latitude: 2, Longitude: 2},
		{Latitude: 3, Longitude: 3},
	}
	assert.True(t, UniqueLatLon(distinct))

	assert.True(t, UniqueLatLon(nil))
	assert.True(t, UniqueLatLon([]Record{{Latitude: 1, Longitude: 1}}))
}

func TestRound6(t *testing.T) {
	assert.InDelta(t, 39.961332, Round6(39.9613319), 1e-9)
	assert.InDelta(t, -82.998794, Round6(-82.9987941), 1e-9)
	assert.InDelta(t, 12.345679, Round6(12.3456789), 1e-9)
	assert.InDelta(t, 0.0, Round6(0), 1e-9)
}
