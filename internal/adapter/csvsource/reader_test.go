package csvsource

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureCSV = `latitude,longitude,date,venue_name,repeat_day,teams,source_page
51.5,-0.1,01-Jan-24,The Crown,,6,https://example.com/e/1
,,,The Anchor,Every Monday,,
52.2,0.1,,"The Red Lion, High St",First Tuesday,,
`

func TestParse(t *testing.T) {
	records, err := Parse([]byte(fixtureCSV))
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "51.5", records[0].Latitude)
	assert.Equal(t, "The Crown", records[0].VenueName)
	assert.Equal(t, "6", records[0].Teams)
	assert.Equal(t, "https://example.com/e/1", records[0].SourcePage)

	assert.Equal(t, "Every Monday", records[1].RepeatDay)
	assert.Empty(t, records[1].Latitude)

	// Quoted fields with embedded commas survive.
	assert.Equal(t, "The Red Lion, High St", records[2].VenueName)
}

func TestParseSkipsBlankRows(t *testing.T) {
	data := "latitude,longitude\n1,2\n,\n3,4\n"
	records, err := Parse([]byte(data))
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestParseIgnoresUnknownColumns(t *testing.T) {
	data := "latitude,mystery_column,longitude\n1,zzz,2\n"
	records, err := Parse([]byte(data))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "1", records[0].Latitude)
	assert.Equal(t, "2", records[0].Longitude)
}

func TestParseEmptyInput(t *testing.T) {
	_, err := Parse(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty input")
}

func TestParseHeaderCaseInsensitive(t *testing.T) {
	data := "Latitude,LONGITUDE\n1,2\n"
	records, err := Parse([]byte(data))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "1", records[0].Latitude)
}

func TestFetchFromURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("latitude,longitude\n1,2\n")) //nolint:errcheck
	}))
	defer srv.Close()

	r := NewReader(srv.URL, "", slog.Default())
	records, err := r.Fetch(context.Background())

	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestFetchURLError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	r := NewReader(srv.URL, "", slog.Default())
	_, err := r.Fetch(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestFetchFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.csv")
	require.NoError(t, os.WriteFile(path, []byte("latitude,longitude\n1,2\n"), 0o600))

	r := NewReader("", path, slog.Default())
	records, err := r.Fetch(context.Background())

	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestFetchFilePrecedesURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.csv")
	require.NoError(t, os.WriteFile(path, []byte("latitude,longitude\n1,2\n"), 0o600))

	// The URL is never contacted when a file is configured.
	r := NewReader("http://127.0.0.1:1/unreachable", path, slog.Default())
	records, err := r.Fetch(context.Background())

	require.NoError(t, err)
	assert.Len(t, records, 1)
}
