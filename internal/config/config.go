// Package config collects the service settings from AIRQ_* environment
// variables, an optional .env file and command-line flags.
package config

import (
	"errors"
	"fmt"
	"github.com/joho/godotenv"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"
)

// Source kinds.
const (
	SourceCSV      = "csv"
	SourceGeoJSON  = "geojson"
	SourceSQL      = "sql"
	SourceOverpass = "overpass"
)

type Config struct {
	Addr      string
	LogLevel  string
	LogFormat string

	ObservationSource string
	DataLocation      string
	BoroughSource     string
	BoroughLocation   string
	UHF42Source       string
	UHF42Location     string

	SQLDriver           string
	SQLDSN              string
	SQLObservationTable string
	SQLBoundaryTable    string

	OverpassURL        string
	OverpassArea       string
	OverpassAdminLevel int

	S3Region    string
	S3Endpoint  string
	S3PathStyle bool

	HTTPTimeout  time.Duration
	LoadTimeout  time.Duration
	BoroughRange string
	ColorScale   string
}

func Default() Config {
	return Config{
		Addr:                ":8050",
		LogLevel:            "info",
		LogFormat:           "text",
		ObservationSource:   SourceCSV,
		DataLocation:        "data/clean_data.csv",
		BoroughSource:       SourceGeoJSON,
		BoroughLocation:     "data/nyc_boroughs.geojson",
		UHF42Source:         SourceGeoJSON,
		UHF42Location:       "data/UHF42.geo.json",
		SQLDriver:           "postgres",
		SQLObservationTable: "air_quality",
		SQLBoundaryTable:    "boundaries",
		OverpassURL:         "https://overpass-api.de/api/interpreter",
		OverpassArea:        "New York City",
		OverpassAdminLevel:  5,
		S3Region:            "us-east-1",
		HTTPTimeout:         30 * time.Second,
		LoadTimeout:         2 * time.Minute,
		BoroughRange:        "fixed",
		ColorScale:          "Viridis",
	}
}

// LoadDotEnv reads KEY=VALUE pairs from path into the environment without
// overriding variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// FromEnv starts from Default and applies every AIRQ_* variable that is set.
func FromEnv() (Config, error) {
	return fromLookup(os.LookupEnv)
}

func fromLookup(lookup func(string) (string, bool)) (Config, error) {
	c := Default()
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	str("AIRQ_ADDR", &c.Addr)
	str("AIRQ_LOG_LEVEL", &c.LogLevel)
	str("AIRQ_LOG_FORMAT", &c.LogFormat)
	str("AIRQ_OBSERVATION_SOURCE", &c.ObservationSource)
	str("AIRQ_DATA", &c.DataLocation)
	str("AIRQ_BOROUGH_SOURCE", &c.BoroughSource)
	str("AIRQ_BOROUGHS", &c.BoroughLocation)
	str("AIRQ_UHF42_SOURCE", &c.UHF42Source)
	str("AIRQ_UHF42", &c.UHF42Location)
	str("AIRQ_SQL_DRIVER", &c.SQLDriver)
	str("AIRQ_SQL_DSN", &c.SQLDSN)
	str("AIRQ_SQL_OBSERVATION_TABLE", &c.SQLObservationTable)
	str("AIRQ_SQL_BOUNDARY_TABLE", &c.SQLBoundaryTable)
	str("AIRQ_OVERPASS_URL", &c.OverpassURL)
	str("AIRQ_OVERPASS_AREA", &c.OverpassArea)
	str("AIRQ_S3_REGION", &c.S3Region)
	str("AIRQ_S3_ENDPOINT", &c.S3Endpoint)
	str("AIRQ_BOROUGH_RANGE", &c.BoroughRange)
	str("AIRQ_COLOR_SCALE", &c.ColorScale)

	if v, ok := lookup("AIRQ_OVERPASS_ADMIN_LEVEL"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("AIRQ_OVERPASS_ADMIN_LEVEL: %w", err)
		}
		c.OverpassAdminLevel = n
	}
	if v, ok := lookup("AIRQ_S3_PATH_STYLE"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("AIRQ_S3_PATH_STYLE: %w", err)
		}
		c.S3PathStyle = b
	}
	for key, dst := range map[string]*time.Duration{
		"AIRQ_HTTP_TIMEOUT": &c.HTTPTimeout,
		"AIRQ_LOAD_TIMEOUT": &c.LoadTimeout,
	} {
		if v, ok := lookup(key); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return Config{}, fmt.Errorf("%s: %w", key, err)
			}
			*dst = d
		}
	}
	return c, nil
}

func (c Config) Validate() error {
	var errs []error
	check := func(name, value string, allowed ...string) {
		for _, a := range allowed {
			if value == a {
				return
			}
		}
		errs = append(errs, fmt.Errorf("%s: %q not one of %s", name, value, strings.Join(allowed, ", ")))
	}
	check("observation source", c.ObservationSource, SourceCSV, SourceSQL)
	check("borough source", c.BoroughSource, SourceGeoJSON, SourceSQL, SourceOverpass)
	check("uhf42 source", c.UHF42Source, SourceGeoJSON, SourceSQL)
	check("log format", c.LogFormat, "text", "json")
	check("log level", strings.ToLower(c.LogLevel), "debug", "info", "warn", "error")
	check("borough range", c.BoroughRange, "fixed", "observed")

	if c.usesSQL() {
		check("sql driver", c.SQLDriver, "postgres", "pgx", "sqlite")
		if c.SQLDSN == "" {
			errs = append(errs, errors.New("sql dsn is required for sql sources"))
		}
	}
	if c.HTTPTimeout <= 0 || c.LoadTimeout <= 0 {
		errs = append(errs, errors.New("timeouts must be positive"))
	}
	return errors.Join(errs...)
}

func (c Config) usesSQL() bool {
	return c.ObservationSource == SourceSQL || c.BoroughSource == SourceSQL || c.UHF42Source == SourceSQL
}
