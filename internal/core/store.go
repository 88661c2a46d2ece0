package core

import (
	"fmt"
	"github.com/HtWu123/databootcamp-final-project/internal/domain/model"
	"sort"
)

// DatasetStore holds the observation table and both boundary collections. It
// is built once at startup and never mutated, so readers need no locking.
type DatasetStore struct {
	observations []model.Observation
	geometries   map[model.GeometrySource]model.GeometryCollection
	metrics      []string
}

// NewDatasetStore copies its inputs and checks that every collection declares
// its key field.
func NewDatasetStore(observations []model.Observation, boroughs, uhf42 model.GeometryCollection) (*DatasetStore, error) {
	geometries := map[model.GeometrySource]model.GeometryCollection{
		model.GeometryBorough: boroughs,
		model.GeometryUHF42:   uhf42,
	}
	for src, coll := range geometries {
		if coll.KeyField == "" || !coll.HasField(coll.KeyField) {
			return nil, fmt.Errorf("%s boundaries: key field %q not in schema: %w", src, coll.KeyField, model.ErrInvalidJoinKey)
		}
		records := make([]model.GeometryRecord, len(coll.Records))
		copy(records, coll.Records)
		coll.Records = records
		geometries[src] = coll
	}

	obs := make([]model.Observation, len(observations))
	copy(obs, observations)

	seen := make(map[string]struct{})
	var metrics []string
	for _, o := range obs {
		if _, ok := seen[o.MetricName]; ok {
			continue
		}
		seen[o.MetricName] = struct{}{}
		metrics = append(metrics, o.MetricName)
	}
	sort.Strings(metrics)

	return &DatasetStore{observations: obs, geometries: geometries, metrics: metrics}, nil
}

// Observations returns the shared table. Callers must not modify it.
func (s *DatasetStore) Observations() []model.Observation {
	return s.observations
}

func (s *DatasetStore) Geometry(src model.GeometrySource) (model.GeometryCollection, bool) {
	coll, ok := s.geometries[src]
	return coll, ok
}

// Metrics lists the distinct metric names present in the table.
func (s *DatasetStore) Metrics() []string {
	out := make([]string, len(s.metrics))
	copy(out, s.metrics)
	return out
}

func (s *DatasetStore) Len() int {
	return len(s.observations)
}
