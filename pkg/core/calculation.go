// pkg/core/calculation.go
package core

import (
	"encoding/json"
	"time"
)

// Calculation is one stored planner run.
type Calculation struct {
	ID          uint            `json:"id"`
	CreatedAt   time.Time       `json:"createdAt"`
	InputHash   string          `json:"inputHash"`
	LandingZone LatLon          `json:"landingZone"`
	JumpTime    time.Time       `json:"jumpTime"`
	ProfileTime time.Time       `json:"profileTime"`
	Heading     float64         `json:"heading"`
	ExitPoints  []ExitPoint     `json:"exitPoints"`
	Result      json.RawMessage `json:"result"`
}
