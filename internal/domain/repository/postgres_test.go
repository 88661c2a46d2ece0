package repository

import (
	"context"
	"github.com/HtWu123/databootcamp-final-project/internal/domain/model"
	"github.com/jmoiron/sqlx"
	"github.com/paulmach/orb"
	"path/filepath"
	"testing"
)

func newSQLiteRepository(t *testing.T) (*SQLRepository, *sqlx.DB) {
	t.Helper()
	db, err := sqlx.Open(DriverSQLite, filepath.Join(t.TempDir(), "airq.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	repo, err := NewSQLRepositoryFromDB(db, "", "")
	if err != nil {
		t.Fatalf("NewSQLRepositoryFromDB: %v", err)
	}
	if err := repo.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	return repo, db
}

func TestSQLRepositoryLoadObservations(t *testing.T) {
	repo, db := newSQLiteRepository(t)
	db.MustExec(`INSERT INTO air_quality (name, geo_type_name, geo_place_name, year, season, data_value) VALUES
		('Nitrogen dioxide (NO2)', 'Borough', 'Bronx', 2015, 'Winter', 26.5),
		('Nitrogen dioxide (NO2)', 'Borough', 'Bronx', 2015, NULL, 21.0),
		('Ozone (O3)', 'UHF42', 'Southeast Queens', 2016, 'Summer 2016', 31.2)`)

	got, err := repo.LoadObservations(context.Background())
	if err != nil {
		t.Fatalf("LoadObservations: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("rows = %d, want 3", len(got))
	}
	seasons := map[model.Season]int{}
	for _, o := range got {
		seasons[o.Season]++
	}
	if seasons[model.SeasonWinter] != 1 || seasons[model.SeasonSummer] != 1 || seasons[""] != 1 {
		t.Errorf("seasons = %v", seasons)
	}
}

func TestSQLRepositoryBoundaries(t *testing.T) {
	repo, db := newSQLiteRepository(t)
	db.MustExec(`INSERT INTO boundaries (layer, place_key, geojson) VALUES
		('borough', 'Queens', '{"type":"Polygon","coordinates":[[[-73.9,40.6],[-73.7,40.6],[-73.7,40.8],[-73.9,40.8],[-73.9,40.6]]]}'),
		('borough', 'Bronx', '{"type":"Polygon","coordinates":[[[-73.93,40.8],[-73.78,40.8],[-73.78,40.91],[-73.93,40.91],[-73.93,40.8]]]}'),
		('uhf42', 'Southeast Queens', '{"type":"Point","coordinates":[-73.75,40.68]}')`)

	coll, err := repo.Boundaries("borough", "boroughs", model.BoroughKeyField).LoadBoundaries(context.Background())
	if err != nil {
		t.Fatalf("LoadBoundaries: %v", err)
	}
	if coll.Len() != 2 || !coll.HasField("name") {
		t.Fatalf("coll = %+v", coll)
	}
	if coll.Records[0].PlaceKey != "Bronx" || coll.Records[0].Attributes["name"] != "Bronx" {
		t.Errorf("first record = %+v", coll.Records[0])
	}
	if _, ok := coll.Records[0].Boundary.(orb.Polygon); !ok {
		t.Errorf("geometry = %T", coll.Records[0].Boundary)
	}
}

func TestSQLRepositoryRejectsBadTableNames(t *testing.T) {
	if _, err := NewSQLRepositoryFromDB(nil, "air_quality; DROP TABLE x", ""); err == nil {
		t.Fatal("expected invalid table name error")
	}
	if _, err := NewSQLRepository(context.Background(), "mysql", "", "", ""); err == nil {
		t.Fatal("expected unsupported driver error")
	}
}
