package model

import (
	"time"

	"gorm.io/datatypes"
)

////////////////////////
// DATABASE STRUCTURES //
////////////////////////

// DatabaseModels is a list of all the structs exported here which represent tables in the database schema
var DatabaseModels = []interface{}{
	&Calculation{},
}

// Calculation is one stored planner run
type Calculation struct {
	ID          uint           `json:"id" gorm:"primarykey"`
	CreatedAt   time.Time      `json:"createdAt" gorm:"index:idx_calculation_created_at"`
	InputHash   string         `json:"inputHash" gorm:"size:16;index:idx_calculation_input_hash"`
	LandingLat  float64        `json:"landingLat"`
	LandingLon  float64        `json:"landingLon"`
	JumpTime    time.Time      `json:"jumpTime"`
	ProfileTime time.Time      `json:"profileTime"`
	Heading     float64        `json:"heading"`
	Groups      int            `json:"groups"`
	ExitPoints  datatypes.JSON `json:"exitPoints"`
	// Track is the exit points as WKT in EPSG:4326.
	Track  string         `json:"track" gorm:"size:4096"`
	Result datatypes.JSON `json:"result"`
}

func (*Calculation) TableName() string {
	return "calculations"
}
