// Package render turns engine results into GeoJSON for map clients.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"math"

	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/spotter-dz/spotter/internal/engine"
	"github.com/spotter-dz/spotter/internal/geo"
	"github.com/spotter-dz/spotter/pkg/core"
)

// Feature kinds, stored in the "kind" property.
const (
	KindExit        = "exit"
	KindOpening     = "opening"
	KindLandingZone = "landingZone"
	KindFreefall    = "freefall"
	KindCanopy      = "canopy"
	KindTrack       = "track"
)

// FeatureCollection builds one feature per exit point, the opening point,
// the landing zone, both descent paths and, with more than one group, the
// ground track. Coordinates are in proj.
func FeatureCollection(res *engine.Result, landingZone core.LatLon, proj geo.Projection) (geom.GeoJSONFeatureCollection, error) {
	var fc geom.GeoJSONFeatureCollection

	for _, p := range res.ExitPoints {
		pt, err := proj.Point(p.Location)
		if err != nil {
			return nil, fmt.Errorf("exit point %d: %w", p.GroupNumber, err)
		}
		fc = append(fc, geom.GeoJSONFeature{
			Geometry: pt.AsGeometry(),
			ID:       fmt.Sprintf("exit-%d", p.GroupNumber),
			Properties: map[string]interface{}{
				"kind":    KindExit,
				"group":   p.GroupNumber,
				"heading": res.Heading,
			},
		})
	}

	for _, pf := range []struct {
		kind string
		at   core.LatLon
	}{
		{KindOpening, res.OpeningPoint},
		{KindLandingZone, landingZone},
	} {
		f, err := pointFeature(proj, pf.at, pf.kind)
		if err != nil {
			return nil, err
		}
		fc = append(fc, f)
	}

	for _, leg := range []struct {
		kind string
		leg  engine.Leg
	}{
		{KindFreefall, res.Freefall},
		{KindCanopy, res.Canopy},
	} {
		path, err := proj.Path(leg.leg.Path)
		if err != nil {
			return nil, fmt.Errorf("%s path: %w", leg.kind, err)
		}
		total := leg.leg.Drift.Total()
		fc = append(fc, geom.GeoJSONFeature{
			Geometry: path,
			ID:       leg.kind,
			Properties: map[string]interface{}{
				"kind":    leg.kind,
				"elapsed": leg.leg.Elapsed,
				"drift":   math.Hypot(total.East, total.North),
			},
		})
	}

	if len(res.ExitPoints) > 1 {
		track, err := proj.Path(res.Track)
		if err != nil {
			return nil, fmt.Errorf("track: %w", err)
		}
		fc = append(fc, geom.GeoJSONFeature{
			Geometry: track,
			ID:       KindTrack,
			Properties: map[string]interface{}{
				"kind":    KindTrack,
				"spacing": res.GroupSpacing,
			},
		})
	}

	return fc, nil
}

func pointFeature(proj geo.Projection, p core.LatLon, kind string) (geom.GeoJSONFeature, error) {
	pt, err := proj.Point(p)
	if err != nil {
		return geom.GeoJSONFeature{}, fmt.Errorf("%s: %w", kind, err)
	}
	return geom.GeoJSONFeature{
		Geometry:   pt.AsGeometry(),
		ID:         kind,
		Properties: map[string]interface{}{"kind": kind},
	}, nil
}

// WriteGeoJSON renders res and writes it to w as indented JSON.
func WriteGeoJSON(w io.Writer, res *engine.Result, landingZone core.LatLon, proj geo.Projection) error {
	fc, err := FeatureCollection(res, landingZone, proj)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(fc)
}
