package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"github.com/HtWu123/databootcamp-final-project/internal/domain/model"
	"io"
	"log/slog"
	"strconv"
	"strings"
)

// Column names of the cleaned dataset.
const (
	ColumnName      = "Name"
	ColumnGeoType   = "Geo Type Name"
	ColumnGeoPlace  = "Geo Place Name"
	ColumnYear      = "Year"
	ColumnSeason    = "Season"
	ColumnDataValue = "Data Value"
)

var requiredColumns = []string{ColumnName, ColumnGeoType, ColumnGeoPlace, ColumnYear, ColumnDataValue}

// Opener opens a named dataset location for reading.
type Opener interface {
	Open(ctx context.Context, location string) (io.ReadCloser, error)
}

// CSVRepository reads observations from a CSV file with a header row.
type CSVRepository struct {
	opener   Opener
	location string
	logger   *slog.Logger
}

func NewCSVRepository(opener Opener, location string, logger *slog.Logger) *CSVRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVRepository{
		opener:   opener,
		location: location,
		logger:   logger.With(slog.String("module", "csv")),
	}
}

func (r *CSVRepository) LoadObservations(ctx context.Context) ([]model.Observation, error) {
	rc, err := r.opener.Open(ctx, r.location)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", r.location, err)
	}
	defer rc.Close()

	observations, skipped, err := ReadObservations(rc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", r.location, err)
	}
	if skipped > 0 {
		r.logger.WarnContext(ctx, "skipped unparseable rows",
			slog.String("location", r.location),
			slog.Int("skipped", skipped))
	}
	r.logger.InfoContext(ctx, "loaded observations",
		slog.String("location", r.location),
		slog.Int("rows", len(observations)))
	return observations, nil
}

// ReadObservations parses CSV rows into observations. Rows whose year or
// value cannot be parsed are skipped and counted. A header missing any
// required column is an error.
func ReadObservations(r io.Reader) ([]model.Observation, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, 0, fmt.Errorf("empty file: %w", model.ErrMissingColumn)
		}
		return nil, 0, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, 0, fmt.Errorf("column %q: %w", col, model.ErrMissingColumn)
		}
	}
	seasonIdx, hasSeason := index[ColumnSeason]

	var (
		observations []model.Observation
		skipped      int
	)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("read row: %w", err)
		}

		field := func(col string) string {
			i := index[col]
			if i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		year, err := parseYear(field(ColumnYear))
		if err != nil {
			skipped++
			continue
		}
		value, err := strconv.ParseFloat(field(ColumnDataValue), 64)
		if err != nil {
			skipped++
			continue
		}

		o := model.Observation{
			MetricName:   field(ColumnName),
			GeoType:      model.ParseGeoType(field(ColumnGeoType)),
			GeoPlaceName: field(ColumnGeoPlace),
			Year:         year,
			Value:        value,
		}
		if hasSeason && seasonIdx < len(record) {
			if s, ok := model.ParseSeason(record[seasonIdx]); ok {
				o.Season = s
			}
		}
		observations = append(observations, o)
	}
	return observations, skipped, nil
}

// parseYear accepts "2015" as well as float renderings such as "2015.0".
func parseYear(raw string) (int, error) {
	if y, err := strconv.Atoi(raw); err == nil {
		return y, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if f != float64(int(f)) {
		return 0, fmt.Errorf("year %q is not whole", raw)
	}
	return int(f), nil
}
