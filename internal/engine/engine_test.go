package engine

import (
	"sync"
	"testing"

	"github.com/spotter-dz/spotter/internal/geo"
	"github.com/spotter-dz/spotter/internal/wind"
	"github.com/spotter-dz/spotter/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var landingZone = core.LatLon{Lat: 61.7807, Lon: 22.7221}

func uniformProfile(t *testing.T, direction, speed float64) wind.Profile {
	t.Helper()
	p, err := wind.NewProfile([]core.WindSample{
		{Altitude: 0, Direction: direction, Speed: speed},
		{Altitude: 4000, Direction: direction, Speed: speed},
	})
	require.NoError(t, err)
	return p
}

func baseInput(profile wind.Profile) Input {
	return NewInput(
		core.JumpParameters{
			JumpAltitude:      4000,
			AircraftSpeed:     36,
			FreefallSpeed:     55.56,
			OpeningAltitude:   800,
			CanopyDescentRate: 6,
			GlideRatio:        2.5,
			SetupAltitude:     300,
			NumberOfGroups:    1,
		},
		core.CommonParameters{LandingZone: landingZone, FlightOverLandingZone: true},
		core.TerrainData{Location: landingZone},
		profile,
	)
}

func ptr(v float64) *float64 { return &v }

func TestCalculate_ZeroWindLandsOnZone(t *testing.T) {
	for _, setup := range []float64{0, 300} {
		in := baseInput(uniformProfile(t, 0, 0))
		in.Jump.SetupAltitude = setup

		res, err := Calculate(in, DefaultOptions())
		require.NoError(t, err)

		require.Len(t, res.ExitPoints, 1)
		exit := res.ExitPoints[0]
		assert.Equal(t, 1, exit.GroupNumber)
		assert.InDelta(t, landingZone.Lat, exit.Location.Lat, 1e-6, "setup %v", setup)
		assert.InDelta(t, landingZone.Lon, exit.Location.Lon, 1e-6, "setup %v", setup)

		assert.False(t, res.Glide)
		assert.Equal(t, 0.0, res.Heading)
		assert.Equal(t, core.DriftVector{}, res.Freefall.Drift.Total())
		assert.Equal(t, core.DriftVector{}, res.Canopy.Drift.Total())
	}
}

func TestCalculate_NorthWindExitIsUpwind(t *testing.T) {
	for _, setup := range []float64{0, 100, 300} {
		in := baseInput(uniformProfile(t, 0, 10))
		in.Jump.SetupAltitude = setup

		res, err := Calculate(in, DefaultOptions())
		require.NoError(t, err)

		exit := res.ExitPoints[0].Location
		assert.Greater(t, exit.Lat, landingZone.Lat, "setup %v: exit must be north of the zone when wind pushes south", setup)
		assert.InDelta(t, landingZone.Lon, exit.Lon, 1e-9)
		assert.False(t, res.Glide)
		assert.InDelta(t, 0, res.Heading, 1e-9)

		freefallSouth := 10 * 3200 / 55.56
		canopySouth := 10 * (800 - setup) / 6
		assert.InDelta(t, -freefallSouth, res.Freefall.Drift.Total().North, 1e-6)
		assert.InDelta(t, -canopySouth, res.Canopy.Drift.Total().North, 1e-6)
		assert.Equal(t, core.DriftVector{}, res.Canopy.Drift.Glide)

		ff := wind.Magnitude(res.Freefall.Drift.Total())
		canopy := wind.Magnitude(res.Canopy.Drift.Total())
		offset, err := geo.Displacement(landingZone, exit)
		require.NoError(t, err)
		assert.InDelta(t, ff+canopy, offset.North, 1e-6, "setup %v", setup)
	}
}

func TestCalculate_ExplicitDirectionGlides(t *testing.T) {
	in := baseInput(uniformProfile(t, 0, 10))
	in.Common.FlightDirection = ptr(0)

	res, err := Calculate(in, DefaultOptions())
	require.NoError(t, err)
	assert.True(t, res.Glide)

	canopyNorth := (15.0 - 10.0) * 500 / 6
	assert.InDelta(t, canopyNorth, res.Canopy.Drift.Total().North, 1e-6)
}

func TestCalculate_DownwindRunSumsDriftMagnitudes(t *testing.T) {
	in := baseInput(uniformProfile(t, 0, 10))
	in.Common.FlightDirection = ptr(180)

	res, err := Calculate(in, DefaultOptions())
	require.NoError(t, err)

	ff := wind.Magnitude(res.Freefall.Drift.Total())
	canopy := wind.Magnitude(res.Canopy.Drift.Total())
	offset, err := geo.Displacement(landingZone, res.ExitPoints[0].Location)
	require.NoError(t, err)

	assert.InDelta(t, ff+canopy, offset.North, 1e-6)
	assert.InDelta(t, 0, offset.East, 1e-6)
}

func TestCalculate_PathsEndOnLandingZone(t *testing.T) {
	p, err := wind.NewProfile([]core.WindSample{
		{Altitude: 10, Direction: 190, Speed: 4},
		{Altitude: 1500, Direction: 240, Speed: 11},
		{Altitude: 3000, Direction: 260, Speed: 18},
		{Altitude: 4500, Direction: 275, Speed: 24},
	})
	require.NoError(t, err)

	res, err := Calculate(baseInput(p), DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, res.ExitPoints[0].Location, res.Freefall.Path[0])
	assert.Equal(t, res.OpeningPoint, res.Canopy.Path[0])

	landed := res.Canopy.Path[len(res.Canopy.Path)-1]
	assert.InDelta(t, landingZone.Lat, landed.Lat, 1e-6)
	assert.InDelta(t, landingZone.Lon, landed.Lon, 1e-6)

	assert.Len(t, res.Freefall.Path, 3200/50+1)
	assert.Len(t, res.Canopy.Path, 500/50+1)
}

func TestCalculate_Groups(t *testing.T) {
	in := baseInput(uniformProfile(t, 270, 8))
	in.Jump.NumberOfGroups = 5
	in.Jump.TimeBetweenGroups = 10

	res, err := Calculate(in, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, res.ExitPoints, 5)
	assert.Equal(t, 360.0, res.GroupSpacing)
	require.Len(t, res.Track, 2)
	assert.Equal(t, res.ExitPoints[0].Location, res.Track[0])
	assert.Equal(t, res.ExitPoints[4].Location, res.Track[1])

	// heading 270: later groups step east
	for i := 1; i < 5; i++ {
		d, err := geo.Displacement(res.ExitPoints[i-1].Location, res.ExitPoints[i].Location)
		require.NoError(t, err)
		assert.InDelta(t, 360, d.East, 0.5)
		assert.InDelta(t, 0, d.North, 0.5)
	}
}

func TestCalculate_CommonGroupsOverrideJump(t *testing.T) {
	in := NewInput(
		core.JumpParameters{
			JumpAltitude: 4000, AircraftSpeed: 36, FreefallSpeed: 55.56, OpeningAltitude: 800,
			CanopyDescentRate: 6, GlideRatio: 2.5, SetupAltitude: 300, NumberOfGroups: 1,
		},
		core.CommonParameters{LandingZone: landingZone, NumberOfGroups: 3, TimeBetweenGroups: 8},
		core.TerrainData{},
		uniformProfile(t, 0, 0),
	)
	assert.Equal(t, 3, in.Jump.NumberOfGroups)
	assert.Equal(t, 8.0, in.Jump.TimeBetweenGroups)

	res, err := Calculate(in, DefaultOptions())
	require.NoError(t, err)
	assert.Len(t, res.ExitPoints, 3)
}

func TestCalculate_TerrainElevationShiftsLookup(t *testing.T) {
	low, err := wind.NewProfile([]core.WindSample{
		{Altitude: 0, Direction: 200, Speed: 2},
		{Altitude: 4000, Direction: 280, Speed: 22},
	})
	require.NoError(t, err)
	high, err := wind.NewProfile([]core.WindSample{
		{Altitude: 300, Direction: 200, Speed: 2},
		{Altitude: 4300, Direction: 280, Speed: 22},
	})
	require.NoError(t, err)

	atSea, err := Calculate(baseInput(low), DefaultOptions())
	require.NoError(t, err)

	in := baseInput(high)
	in.Terrain.Elevation = 300
	elevated, err := Calculate(in, DefaultOptions())
	require.NoError(t, err)

	assert.InDelta(t, atSea.ExitPoints[0].Location.Lat, elevated.ExitPoints[0].Location.Lat, 1e-9)
	assert.InDelta(t, atSea.ExitPoints[0].Location.Lon, elevated.ExitPoints[0].Location.Lon, 1e-9)
}

func TestCalculate_PatternOffsetRotatesRun(t *testing.T) {
	in := baseInput(uniformProfile(t, 270, 8))
	opts := DefaultOptions()
	opts.Pattern.OffsetAngle = 30

	res, err := Calculate(in, opts)
	require.NoError(t, err)
	assert.InDelta(t, 270, res.Heading, 1e-9, "overflight ignores the pattern")

	in.Common.FlightOverLandingZone = false
	res, err = Calculate(in, opts)
	require.NoError(t, err)
	assert.InDelta(t, 300, res.Heading, 1e-9)
}

func TestCalculate_NoWindData(t *testing.T) {
	p, err := wind.NewProfile([]core.WindSample{
		{Altitude: 0, Direction: 270, Speed: 5},
		{Altitude: 2000, Direction: 270, Speed: 10},
	})
	require.NoError(t, err)

	_, err = Calculate(baseInput(p), DefaultOptions())
	assert.ErrorIs(t, err, core.ErrNoWindData)

	_, err = Calculate(baseInput(wind.Profile{}), DefaultOptions())
	assert.ErrorIs(t, err, core.ErrNoWindData)
	assert.ErrorIs(t, err, core.ErrEmptyProfile)
}

func TestCalculate_CoverageTolerance(t *testing.T) {
	// setup 300m and jump 4000m with the default 500m tolerance
	cases := []struct {
		name    string
		lo, hi  float64
		covered bool
	}{
		{"bottom edge inside", 800, 4000, true},
		{"bottom edge outside", 801, 4000, false},
		{"top edge inside", 0, 3500, true},
		{"top edge outside", 0, 3499, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := wind.NewProfile([]core.WindSample{
				{Altitude: tc.lo, Direction: 270, Speed: 5},
				{Altitude: tc.hi, Direction: 270, Speed: 10},
			})
			require.NoError(t, err)

			res, err := Calculate(baseInput(p), DefaultOptions())
			if tc.covered {
				require.NoError(t, err)
				assert.NotNil(t, res)
				return
			}
			assert.ErrorIs(t, err, core.ErrNoWindData)
			assert.Nil(t, res)
		})
	}
}

func TestCalculate_InvalidInput(t *testing.T) {
	profile := uniformProfile(t, 0, 5)
	cases := []struct {
		name   string
		mutate func(*Input)
		want   error
	}{
		{"zero glide ratio", func(in *Input) { in.Jump.GlideRatio = 0 }, core.ErrInvalidParameter},
		{"negative freefall speed", func(in *Input) { in.Jump.FreefallSpeed = -50 }, core.ErrInvalidParameter},
		{"zero canopy rate", func(in *Input) { in.Jump.CanopyDescentRate = 0 }, core.ErrInvalidParameter},
		{"zero groups", func(in *Input) { in.Jump.NumberOfGroups = 0 }, core.ErrInvalidParameter},
		{"negative spacing", func(in *Input) { in.Jump.TimeBetweenGroups = -1 }, core.ErrInvalidParameter},
		{"opening above exit", func(in *Input) { in.Jump.OpeningAltitude = 4500 }, core.ErrInvalidAltitudeRange},
		{"setup above opening", func(in *Input) { in.Jump.SetupAltitude = 900 }, core.ErrInvalidAltitudeRange},
		{"bad landing zone", func(in *Input) { in.Common.LandingZone.Lon = 200 }, core.ErrInvalidCoordinate},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := baseInput(profile)
			tc.mutate(&in)
			res, err := Calculate(in, DefaultOptions())
			assert.ErrorIs(t, err, tc.want)
			assert.Nil(t, res)
		})
	}
}

func TestCalculate_DeterministicAndConcurrent(t *testing.T) {
	in := baseInput(uniformProfile(t, 250, 12))
	in.Jump.NumberOfGroups = 4
	in.Jump.TimeBetweenGroups = 6

	want, err := Calculate(in, DefaultOptions())
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]*Result, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = Calculate(in, DefaultOptions())
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, want, r)
	}
}

func TestResult_Clone(t *testing.T) {
	in := baseInput(uniformProfile(t, 250, 12))
	in.Jump.NumberOfGroups = 3
	in.Jump.TimeBetweenGroups = 6

	res, err := Calculate(in, DefaultOptions())
	require.NoError(t, err)

	c := res.Clone()
	require.Equal(t, res, c)

	c.ExitPoints[0].Location.Lat = 0
	c.Track[0].Lon = 0
	c.Freefall.Path[0].Lat = 0
	c.Canopy.Path[0].Lat = 0

	assert.NotEqual(t, 0.0, res.ExitPoints[0].Location.Lat)
	assert.NotEqual(t, 0.0, res.Track[0].Lon)
	assert.NotEqual(t, 0.0, res.Freefall.Path[0].Lat)
	assert.NotEqual(t, 0.0, res.Canopy.Path[0].Lat)

	var nilResult *Result
	assert.Nil(t, nilResult.Clone())
}
