package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spotter-dz/spotter/internal/engine"
	"github.com/spotter-dz/spotter/internal/wind"
	"github.com/spotter-dz/spotter/pkg/core"
)

func testInput(t *testing.T, windSpeed float64) engine.Input {
	t.Helper()
	profile, err := wind.NewProfile([]core.WindSample{
		{Altitude: 0, Direction: 270, Speed: windSpeed},
		{Altitude: 4000, Direction: 280, Speed: windSpeed * 2},
	})
	require.NoError(t, err)
	return engine.NewInput(
		core.JumpParameters{
			JumpAltitude: 4000, AircraftSpeed: 36, FreefallSpeed: 55.56,
			OpeningAltitude: 1000, CanopyDescentRate: 5, GlideRatio: 2.5,
			NumberOfGroups: 1,
		},
		core.CommonParameters{LandingZone: core.LatLon{Lat: 61.7807, Lon: 22.7221}},
		core.TerrainData{},
		profile,
	)
}

func TestKey_Deterministic(t *testing.T) {
	k1, err := Key(testInput(t, 5), engine.DefaultOptions())
	require.NoError(t, err)
	k2, err := Key(testInput(t, 5), engine.DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, k1, k2)
	assert.Len(t, k1, 16)
}

func TestKey_SensitiveToInputs(t *testing.T) {
	base, err := Key(testInput(t, 5), engine.DefaultOptions())
	require.NoError(t, err)

	otherWind, err := Key(testInput(t, 6), engine.DefaultOptions())
	require.NoError(t, err)
	assert.NotEqual(t, base, otherWind)

	opts := engine.DefaultOptions()
	opts.Resolution = 10
	otherOpts, err := Key(testInput(t, 5), opts)
	require.NoError(t, err)
	assert.NotEqual(t, base, otherOpts)

	in := testInput(t, 5)
	in.Terrain.Elevation = 100
	otherTerrain, err := Key(in, engine.DefaultOptions())
	require.NoError(t, err)
	assert.NotEqual(t, base, otherTerrain)
}

func TestResultCache_AddAndGet(t *testing.T) {
	c, err := New(2)
	require.NoError(t, err)
	require.NotNil(t, c)

	res := &engine.Result{Heading: 90}
	c.Add("a", res)

	got, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, res, got)
	assert.NotSame(t, res, got)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestResultCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c, err := New(2)
	require.NoError(t, err)

	c.Add("a", &engine.Result{})
	c.Add("b", &engine.Result{})
	_, _ = c.Get("a")
	c.Add("c", &engine.Result{})

	assert.Equal(t, 2, c.Len())
	_, ok := c.Get("b")
	assert.False(t, ok, "b was least recently used")
	_, ok = c.Get("a")
	assert.True(t, ok)
}

func TestResultCache_Disabled(t *testing.T) {
	c, err := New(0)
	require.NoError(t, err)
	assert.Nil(t, c)

	c.Add("a", &engine.Result{})
	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
	c.Purge()
}

func TestResultCache_Purge(t *testing.T) {
	c, err := New(4)
	require.NoError(t, err)
	c.Add("a", &engine.Result{})
	c.Purge()
	assert.Equal(t, 0, c.Len())
}

func TestResultCache_ConcurrentAccess(t *testing.T) {
	c, err := New(64)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", n%10)
			c.Add(key, &engine.Result{Heading: float64(n)})
			c.Get(key)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 10, c.Len())
}

func TestResultCache_CallersCannotMutateEntries(t *testing.T) {
	c, err := New(4)
	require.NoError(t, err)

	res, err := engine.Calculate(testInput(t, 5), engine.DefaultOptions())
	require.NoError(t, err)
	want := res.Clone()

	c.Add("k", res)
	res.ExitPoints[0].Location.Lat = 0

	first, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, want, first)

	first.ExitPoints[0].Location.Lat = 0
	first.Freefall.Path[0].Lon = 0
	first.Track[1].Lat = 0

	second, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, want, second)
}
