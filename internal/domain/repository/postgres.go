package repository

import (
	"context"
	"database/sql"
	"fmt"
	"github.com/HtWu123/databootcamp-final-project/internal/domain/model"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/paulmach/orb/geojson"
	_ "modernc.org/sqlite"
	"regexp"
)

// Supported database/sql driver names.
const (
	DriverPostgres = "postgres"
	DriverPgx      = "pgx"
	DriverSQLite   = "sqlite"
)

const (
	DefaultObservationTable = "air_quality"
	DefaultBoundaryTable    = "boundaries"
)

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// SQLRepository reads observations and boundaries from a relational store.
// Boundaries are kept as GeoJSON text so the same schema serves PostGIS
// (through a view over ST_AsGeoJSON) and SQLite.
type SQLRepository struct {
	db                *sqlx.DB
	observationsTable string
	boundariesTable   string
}

type observationRow struct {
	Name         string         `db:"name"`
	GeoTypeName  string         `db:"geo_type_name"`
	GeoPlaceName string         `db:"geo_place_name"`
	Year         int            `db:"year"`
	Season       sql.NullString `db:"season"`
	DataValue    float64        `db:"data_value"`
}

type boundaryRow struct {
	PlaceKey string `db:"place_key"`
	GeoJSON  string `db:"geojson"`
}

func NewSQLRepository(ctx context.Context, driver, dsn, observationsTable, boundariesTable string) (*SQLRepository, error) {
	switch driver {
	case DriverPostgres, DriverPgx, DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}
	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}
	repo, err := NewSQLRepositoryFromDB(db, observationsTable, boundariesTable)
	if err != nil {
		db.Close()
		return nil, err
	}
	return repo, nil
}

func NewSQLRepositoryFromDB(db *sqlx.DB, observationsTable, boundariesTable string) (*SQLRepository, error) {
	if observationsTable == "" {
		observationsTable = DefaultObservationTable
	}
	if boundariesTable == "" {
		boundariesTable = DefaultBoundaryTable
	}
	for _, t := range []string{observationsTable, boundariesTable} {
		if !identPattern.MatchString(t) {
			return nil, fmt.Errorf("invalid table name %q", t)
		}
	}
	return &SQLRepository{db: db, observationsTable: observationsTable, boundariesTable: boundariesTable}, nil
}

func (r *SQLRepository) Close() error {
	return r.db.Close()
}

// EnsureSchema creates both tables when they do not exist.
func (r *SQLRepository) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			name TEXT NOT NULL,
			geo_type_name TEXT NOT NULL,
			geo_place_name TEXT NOT NULL,
			year INTEGER NOT NULL,
			season TEXT,
			data_value DOUBLE PRECISION NOT NULL
		)`, r.observationsTable),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			layer TEXT NOT NULL,
			place_key TEXT NOT NULL,
			geojson TEXT NOT NULL
		)`, r.boundariesTable),
	}
	for _, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

func (r *SQLRepository) LoadObservations(ctx context.Context) ([]model.Observation, error) {
	query := fmt.Sprintf(`
		SELECT
			name,
			geo_type_name,
			geo_place_name,
			year,
			season,
			data_value
		FROM %s`, r.observationsTable)

	var rows []observationRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to query observations: %w", err)
	}

	observations := make([]model.Observation, 0, len(rows))
	for _, row := range rows {
		o := model.Observation{
			MetricName:   row.Name,
			GeoType:      model.ParseGeoType(row.GeoTypeName),
			GeoPlaceName: row.GeoPlaceName,
			Year:         row.Year,
			Value:        row.DataValue,
		}
		if row.Season.Valid {
			if s, ok := model.ParseSeason(row.Season.String); ok {
				o.Season = s
			}
		}
		observations = append(observations, o)
	}
	return observations, nil
}

// Boundaries returns a source for one layer of the boundary table, keyed by
// place_key under the given property name.
func (r *SQLRepository) Boundaries(layer, name, keyField string) model.BoundarySource {
	return &sqlBoundarySource{repo: r, layer: layer, name: name, keyField: keyField}
}

type sqlBoundarySource struct {
	repo     *SQLRepository
	layer    string
	name     string
	keyField string
}

func (s *sqlBoundarySource) LoadBoundaries(ctx context.Context) (model.GeometryCollection, error) {
	query := s.repo.db.Rebind(fmt.Sprintf(`
		SELECT place_key, geojson
		FROM %s
		WHERE layer = ?
		ORDER BY place_key`, s.repo.boundariesTable))

	var rows []boundaryRow
	if err := s.repo.db.SelectContext(ctx, &rows, query, s.layer); err != nil {
		return model.GeometryCollection{}, fmt.Errorf("failed to query %s boundaries: %w", s.layer, err)
	}

	coll := model.GeometryCollection{Name: s.name, KeyField: s.keyField, Fields: []string{s.keyField}}
	for _, row := range rows {
		g, err := geojson.UnmarshalGeometry([]byte(row.GeoJSON))
		if err != nil {
			return model.GeometryCollection{}, fmt.Errorf("boundary %q: %w", row.PlaceKey, err)
		}
		coll.Records = append(coll.Records, model.GeometryRecord{
			PlaceKey:   row.PlaceKey,
			Boundary:   g.Geometry(),
			Attributes: map[string]string{s.keyField: row.PlaceKey},
		})
	}
	return coll, nil
}
