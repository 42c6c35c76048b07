// Package convert maps calculations between core and GORM models.
package convert

import (
	"encoding/json"
	"fmt"

	"github.com/spotter-dz/spotter/internal/geo"
	"github.com/spotter-dz/spotter/internal/model"
	"github.com/spotter-dz/spotter/pkg/core"
	"gorm.io/datatypes"
)

// CalculationToGorm converts a core.Calculation to a GORM Calculation.
func CalculationToGorm(c core.Calculation) (model.Calculation, error) {
	points, err := json.Marshal(c.ExitPoints)
	if err != nil {
		return model.Calculation{}, fmt.Errorf("encode exit points: %w", err)
	}

	return model.Calculation{
		ID:          c.ID,
		CreatedAt:   c.CreatedAt,
		InputHash:   c.InputHash,
		LandingLat:  c.LandingZone.Lat,
		LandingLon:  c.LandingZone.Lon,
		JumpTime:    c.JumpTime,
		ProfileTime: c.ProfileTime,
		Heading:     c.Heading,
		Groups:      len(c.ExitPoints),
		ExitPoints:  datatypes.JSON(points),
		Track:       trackWKT(c.ExitPoints),
		Result:      datatypes.JSON(c.Result),
	}, nil
}

// CalculationToCore converts a GORM Calculation to a core.Calculation.
func CalculationToCore(m model.Calculation) (core.Calculation, error) {
	var points []core.ExitPoint
	if len(m.ExitPoints) > 0 {
		if err := json.Unmarshal(m.ExitPoints, &points); err != nil {
			return core.Calculation{}, fmt.Errorf("decode exit points of calculation %d: %w", m.ID, err)
		}
	}

	var result json.RawMessage
	if len(m.Result) > 0 {
		result = json.RawMessage(m.Result)
	}

	return core.Calculation{
		ID:          m.ID,
		CreatedAt:   m.CreatedAt,
		InputHash:   m.InputHash,
		LandingZone: core.LatLon{Lat: m.LandingLat, Lon: m.LandingLon},
		JumpTime:    m.JumpTime,
		ProfileTime: m.ProfileTime,
		Heading:     m.Heading,
		ExitPoints:  points,
		Result:      result,
	}, nil
}

// trackWKT renders the exit points as a WKT point or line string.
func trackWKT(points []core.ExitPoint) string {
	switch len(points) {
	case 0:
		return ""
	case 1:
		pt, err := geo.EPSG4326.Point(points[0].Location)
		if err != nil {
			return ""
		}
		return pt.AsText()
	}

	locs := make([]core.LatLon, len(points))
	for i, p := range points {
		locs[i] = p.Location
	}
	g, err := geo.EPSG4326.Path(locs)
	if err != nil {
		return ""
	}
	return g.AsText()
}
