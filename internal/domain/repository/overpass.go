package repository

import (
	"context"
	"fmt"
	"github.com/HtWu123/databootcamp-final-project/internal/domain/model"
	"github.com/paulmach/orb"
	"github.com/serjvanilla/go-overpass"
	"log/slog"
	"net/http"
	"sort"
	"time"
)

// OverpassRepository fetches administrative boundaries from OpenStreetMap.
type OverpassRepository struct {
	client     *overpass.Client
	timeout    time.Duration
	area       string
	adminLevel int
	logger     *slog.Logger
}

func NewOverpassRepository(endpoint string, timeout time.Duration, area string, adminLevel int, logger *slog.Logger) *OverpassRepository {
	if logger == nil {
		logger = slog.Default()
	}
	httpClient := &http.Client{
		Timeout: timeout,
	}
	client := overpass.NewWithSettings(endpoint, 2, httpClient)
	return &OverpassRepository{
		client:     &client,
		timeout:    timeout,
		area:       area,
		adminLevel: adminLevel,
		logger:     logger.With(slog.String("module", "overpass")),
	}
}

// LoadBoundaries returns the admin_level relations inside the configured area
// as a collection keyed by the OSM name tag.
func (r *OverpassRepository) LoadBoundaries(ctx context.Context) (model.GeometryCollection, error) {
	query := fmt.Sprintf(`
		[out:json][timeout:%d];
		area["name"="%s"]["boundary"="administrative"]->.searchArea;
		relation["boundary"="administrative"]["admin_level"="%d"](area.searchArea);
		out body;
		>;
		out skel qt;
	`, int(r.timeout.Seconds()), r.area, r.adminLevel)

	result, err := r.executeQuery(ctx, query)
	if err != nil {
		return model.GeometryCollection{}, fmt.Errorf("failed to execute boundary query: %w", err)
	}

	coll := convertToBoundaries(result)
	r.logger.InfoContext(ctx, "loaded boundaries",
		slog.String("area", r.area),
		slog.Int("admin_level", r.adminLevel),
		slog.Int("shapes", coll.Len()))
	return coll, nil
}

func (r *OverpassRepository) executeQuery(ctx context.Context, query string) (*overpass.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	type reply struct {
		result overpass.Result
		err    error
	}
	done := make(chan reply, 1)
	go func() {
		result, err := r.client.Query(query)
		done <- reply{result: result, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("overpass query: %w", ctx.Err())
	case rep := <-done:
		if rep.err != nil {
			return nil, fmt.Errorf("overpass query failed: %w", rep.err)
		}
		return &rep.result, nil
	}
}

func convertToBoundaries(result *overpass.Result) model.GeometryCollection {
	coll := model.GeometryCollection{Name: "osm", KeyField: model.BoroughKeyField}
	fields := map[string]struct{}{model.BoroughKeyField: {}}

	ids := make([]int64, 0, len(result.Relations))
	for id := range result.Relations {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		rel := result.Relations[id]
		name := rel.Tags["name"]
		if name == "" {
			continue
		}

		var segments [][]orb.Point
		for _, member := range rel.Members {
			if member.Type != overpass.ElementTypeWay || member.Way == nil {
				continue
			}
			if member.Role != "outer" && member.Role != "" {
				continue
			}
			var seg []orb.Point
			for _, node := range member.Way.Nodes {
				if node == nil {
					continue
				}
				seg = append(seg, orb.Point{node.Lon, node.Lat})
			}
			if len(seg) >= 2 {
				segments = append(segments, seg)
			}
		}

		rings := stitchRings(segments)
		if len(rings) == 0 {
			continue
		}
		var boundary orb.Geometry
		if len(rings) == 1 {
			boundary = orb.Polygon{rings[0]}
		} else {
			mp := make(orb.MultiPolygon, 0, len(rings))
			for _, ring := range rings {
				mp = append(mp, orb.Polygon{ring})
			}
			boundary = mp
		}

		attrs := make(map[string]string, len(rel.Tags))
		for k, v := range rel.Tags {
			attrs[k] = v
			fields[k] = struct{}{}
		}
		coll.Records = append(coll.Records, model.GeometryRecord{
			PlaceKey:   name,
			Boundary:   boundary,
			Attributes: attrs,
		})
	}

	for k := range fields {
		coll.Fields = append(coll.Fields, k)
	}
	sort.Strings(coll.Fields)
	return coll
}

// stitchRings joins way segments that share end points into closed rings.
// Segments that never close are dropped.
func stitchRings(segments [][]orb.Point) []orb.Ring {
	remaining := make([][]orb.Point, 0, len(segments))
	for _, s := range segments {
		remaining = append(remaining, append([]orb.Point(nil), s...))
	}

	var rings []orb.Ring
	for len(remaining) > 0 {
		current := remaining[0]
		remaining = remaining[1:]

		for !closed(current) {
			extended := false
			for i, seg := range remaining {
				head, tail := current[0], current[len(current)-1]
				switch {
				case tail == seg[0]:
					current = append(current, seg[1:]...)
				case tail == seg[len(seg)-1]:
					current = append(current, reversed(seg)[1:]...)
				case head == seg[len(seg)-1]:
					current = append(append([]orb.Point(nil), seg[:len(seg)-1]...), current...)
				case head == seg[0]:
					rev := reversed(seg)
					current = append(rev[:len(rev)-1], current...)
				default:
					continue
				}
				remaining = append(remaining[:i], remaining[i+1:]...)
				extended = true
				break
			}
			if !extended {
				break
			}
		}

		if closed(current) && len(current) >= 4 {
			rings = append(rings, orb.Ring(current))
		}
	}
	return rings
}

func closed(points []orb.Point) bool {
	return len(points) > 2 && points[0] == points[len(points)-1]
}

func reversed(points []orb.Point) []orb.Point {
	out := make([]orb.Point, len(points))
	for i, p := range points {
		out[len(points)-1-i] = p
	}
	return out
}
