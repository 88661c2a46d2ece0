package model

import (
	"context"
)

// ObservationSource yields the full observation table once at startup.
type ObservationSource interface {
	LoadObservations(ctx context.Context) ([]Observation, error)
}

// BoundarySource yields one geometry collection.
type BoundarySource interface {
	LoadBoundaries(ctx context.Context) (GeometryCollection, error)
}
