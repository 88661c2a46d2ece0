package core

import (
	"github.com/HtWu123/databootcamp-final-project/internal/domain/model"
	"github.com/paulmach/orb"
	"math"
)

// Map defaults for New York City.
const (
	defaultCenterLat = 40.7
	defaultCenterLon = -73.9
	defaultZoom      = 9
	mapOpacity       = 0.5
	mapStyle         = "carto-positron"
)

// Viewport centres the map on the union of the joined shapes and picks a zoom
// level that fits their extent.
func Viewport(rows []model.JoinedRow) model.MapViewport {
	vp := model.MapViewport{
		CenterLat: defaultCenterLat,
		CenterLon: defaultCenterLon,
		Zoom:      defaultZoom,
		Opacity:   mapOpacity,
		Style:     mapStyle,
	}

	bound, ok := unionBound(rows)
	if !ok {
		return vp
	}
	center := bound.Center()
	vp.CenterLon = center.Lon()
	vp.CenterLat = center.Lat()

	extent := haversine(bound.Min.Lat(), bound.Min.Lon(), bound.Max.Lat(), bound.Max.Lon())
	vp.Zoom = zoomForExtent(extent)
	return vp
}

func unionBound(rows []model.JoinedRow) (orb.Bound, bool) {
	var bound orb.Bound
	found := false
	for _, row := range rows {
		if row.Boundary == nil {
			continue
		}
		b := row.Boundary.Bound()
		if !found {
			bound = b
			found = true
			continue
		}
		bound = bound.Union(b)
	}
	return bound, found
}

// zoomForExtent returns the web-map zoom at which a diagonal of extentKm spans
// roughly one tile width.
func zoomForExtent(extentKm float64) float64 {
	const equatorKm = 40075.0
	if extentKm <= 0 {
		return defaultZoom
	}
	z := math.Floor(math.Log2(equatorKm / extentKm))
	return math.Max(3, math.Min(14, z))
}

func haversine(lat1, lon1, lat2, lon2 float64) float64 {
	const R = 6371 // km
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return R * c
}
