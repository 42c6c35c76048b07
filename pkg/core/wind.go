// pkg/core/wind.go
package core

import "time"

// WindSample is the wind at one altitude of a forecast.
// Direction follows the meteorological convention: the direction the wind
// is coming from, degrees clockwise from true north.
type WindSample struct {
	Altitude    float64  `json:"altitude"` // meters AMSL
	Direction   float64  `json:"direction"`
	Speed       float64  `json:"speed"` // m/s
	GustSpeed   *float64 `json:"gustSpeed,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
}

// TimedSamples is one forecast step: the samples valid at ValidTime.
type TimedSamples struct {
	ValidTime time.Time    `json:"validTime"`
	Samples   []WindSample `json:"samples"`
}
