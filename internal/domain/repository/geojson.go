package repository

import (
	"context"
	"fmt"
	"github.com/HtWu123/databootcamp-final-project/internal/domain/model"
	"github.com/paulmach/orb/geojson"
	"io"
	"log/slog"
	"sort"
	"strconv"
)

// GeoJSONRepository loads a boundary FeatureCollection such as
// nyc_boroughs.geojson or UHF42.geo.json.
type GeoJSONRepository struct {
	opener   Opener
	location string
	name     string
	keyField string
	logger   *slog.Logger
}

func NewGeoJSONRepository(opener Opener, location, name, keyField string, logger *slog.Logger) *GeoJSONRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &GeoJSONRepository{
		opener:   opener,
		location: location,
		name:     name,
		keyField: keyField,
		logger:   logger.With(slog.String("module", "geojson")),
	}
}

func (r *GeoJSONRepository) LoadBoundaries(ctx context.Context) (model.GeometryCollection, error) {
	rc, err := r.opener.Open(ctx, r.location)
	if err != nil {
		return model.GeometryCollection{}, fmt.Errorf("open %s: %w", r.location, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return model.GeometryCollection{}, fmt.Errorf("read %s: %w", r.location, err)
	}
	coll, err := ParseBoundaries(data, r.name, r.keyField)
	if err != nil {
		return model.GeometryCollection{}, fmt.Errorf("%s: %w", r.location, err)
	}
	r.logger.InfoContext(ctx, "loaded boundaries",
		slog.String("collection", r.name),
		slog.String("location", r.location),
		slog.Int("shapes", coll.Len()))
	return coll, nil
}

// ParseBoundaries decodes a FeatureCollection. The schema is the union of all
// feature property names; keyField must be part of it. Features without a
// geometry are dropped.
func ParseBoundaries(data []byte, name, keyField string) (model.GeometryCollection, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return model.GeometryCollection{}, fmt.Errorf("decode feature collection: %w", err)
	}

	coll := model.GeometryCollection{Name: name, KeyField: keyField}
	fields := make(map[string]struct{})
	for _, f := range fc.Features {
		for k := range f.Properties {
			fields[k] = struct{}{}
		}
		if f.Geometry == nil {
			continue
		}
		attrs := make(map[string]string, len(f.Properties))
		for k, v := range f.Properties {
			attrs[k] = propertyString(v)
		}
		coll.Records = append(coll.Records, model.GeometryRecord{
			PlaceKey:   attrs[keyField],
			Boundary:   f.Geometry,
			Attributes: attrs,
		})
	}

	for k := range fields {
		coll.Fields = append(coll.Fields, k)
	}
	sort.Strings(coll.Fields)
	if !coll.HasField(keyField) {
		return model.GeometryCollection{}, fmt.Errorf("key field %q not in %v: %w", keyField, coll.Fields, model.ErrInvalidJoinKey)
	}
	return coll, nil
}

func propertyString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}
