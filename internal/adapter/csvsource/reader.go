// Package csvsource fetches and decodes the event CSV export.
package csvsource

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/punsnhoses-dot/my-event-map/internal/domain"
)

// Reader retrieves raw records from a local file or an HTTP(S) URL.
// A configured file takes precedence over the URL.
type Reader struct {
	client *resty.Client
	url    string
	file   string
	logger *slog.Logger
}

// NewReader creates a Reader for the given source. Exactly one of url/file
// is expected to be set (config validation enforces this).
func NewReader(url, file string, logger *slog.Logger) *Reader {
	client := resty.New().
		SetRetryCount(3).
		SetRetryWaitTime(2 * time.Second)
	return &Reader{client: client, url: url, file: file, logger: logger}
}

// Fetch retrieves and decodes the source CSV. A failure here aborts the
// ingestion cycle; it is the only transport-level error in the pipeline.
func (r *Reader) Fetch(ctx context.Context) ([]domain.RawRecord, error) {
	data, err := r.read(ctx)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func (r *Reader) read(ctx context.Context) ([]byte, error) {
	if r.file != "" {
		data, err := os.ReadFile(r.file)
		if err != nil {
			return nil, fmt.Errorf("read csv file: %w", err)
		}
		return data, nil
	}

	resp, err := r.client.R().SetContext(ctx).Get(r.url)
	if err != nil {
		return nil, fmt.Errorf("fetch csv: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch csv: status %d", resp.StatusCode())
	}
	r.logger.Debug("csv fetched", "url", r.url, "bytes", len(resp.Body()))
	return resp.Body(), nil
}

// Parse decodes header-mapped CSV rows into raw records. Unknown columns are
// ignored; missing columns leave fields blank. Rows that are entirely blank
// are skipped.
func Parse(data []byte) ([]domain.RawRecord, error) {
	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("parse csv: empty input")
		}
		return nil, fmt.Errorf("parse csv header: %w", err)
	}
	for i, col := range header {
		header[i] = strings.ToLower(strings.TrimSpace(col))
	}

	var records []domain.RawRecord
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse csv row: %w", err)
		}
		rec, blank := mapRow(header, row)
		if blank {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func mapRow(header, row []string) (domain.RawRecord, bool) {
	var rec domain.RawRecord
	blank := true

	for i, value := range row {
		if i >= len(header) {
			break
		}
		if strings.TrimSpace(value) != "" {
			blank = false
		}
		switch header[i] {
		case "latitude":
			rec.Latitude = value
		case "longitude":
			rec.Longitude = value
		case "date":
			rec.Date = value
		case "time":
			rec.Time = value
		case "repeat_day":
			rec.RepeatDay = value
		case "venue_name":
			rec.VenueName = value
		case "event_title":
			rec.EventTitle = value
		case "event_id":
			rec.EventID = value
		case "address":
			rec.Address = value
		case "host_name":
			rec.HostName = value
		case "price":
			rec.Price = value
		case "age_limit":
			rec.AgeLimit = value
		case "teams_max":
			rec.TeamsMax = value
		case "teams":
			rec.Teams = value
		case "event_url":
			rec.EventURL = value
		case "source_page":
			rec.SourcePage = value
		case "source_preview":
			rec.SourcePreview = value
		case "notes":
			rec.Notes = value
		}
	}
	return rec, blank
}
