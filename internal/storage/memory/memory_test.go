// internal/storage/memory/memory_test.go
package memory

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/spotter-dz/spotter/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitAndClose(t *testing.T) {
	b := New()
	assert.NoError(t, b.Init())
	assert.NoError(t, b.Close())
}

func TestSaveCalculation_AssignsIDAndTime(t *testing.T) {
	b := New()
	fixed := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return fixed }

	c1 := &core.Calculation{InputHash: "a"}
	c2 := &core.Calculation{InputHash: "b"}
	require.NoError(t, b.SaveCalculation(c1))
	require.NoError(t, b.SaveCalculation(c2))

	assert.Equal(t, uint(1), c1.ID)
	assert.Equal(t, uint(2), c2.ID)
	assert.Equal(t, fixed, c1.CreatedAt)
}

func TestSaveCalculation_StoresCopy(t *testing.T) {
	b := New()
	c := &core.Calculation{
		ExitPoints: []core.ExitPoint{{GroupNumber: 1}},
		Result:     json.RawMessage(`{"heading":1}`),
	}
	require.NoError(t, b.SaveCalculation(c))

	c.ExitPoints[0].GroupNumber = 99
	c.Result[2] = 'X'

	list, err := b.ListCalculations(0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 1, list[0].ExitPoints[0].GroupNumber)
	assert.JSONEq(t, `{"heading":1}`, string(list[0].Result))
}

func TestReadsReturnCopies(t *testing.T) {
	b := New()
	require.NoError(t, b.SaveCalculation(&core.Calculation{
		InputHash:  "h",
		ExitPoints: []core.ExitPoint{{GroupNumber: 1}},
		Result:     json.RawMessage(`{"heading":1}`),
	}))

	list, err := b.ListCalculations(0)
	require.NoError(t, err)
	list[0].ExitPoints[0].GroupNumber = 99
	list[0].Result[2] = 'X'

	found, ok, err := b.FindCalculation("h")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, found.ExitPoints[0].GroupNumber)
	assert.JSONEq(t, `{"heading":1}`, string(found.Result))

	found.ExitPoints[0].GroupNumber = 42
	again, err := b.ListCalculations(0)
	require.NoError(t, err)
	assert.Equal(t, 1, again[0].ExitPoints[0].GroupNumber)
}

func TestListCalculations_NewestFirstWithLimit(t *testing.T) {
	b := New()
	for i := 0; i < 5; i++ {
		require.NoError(t, b.SaveCalculation(&core.Calculation{InputHash: fmt.Sprint(i)}))
	}

	all, err := b.ListCalculations(0)
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, "4", all[0].InputHash)
	assert.Equal(t, "0", all[4].InputHash)

	two, err := b.ListCalculations(2)
	require.NoError(t, err)
	require.Len(t, two, 2)
	assert.Equal(t, "4", two[0].InputHash)
	assert.Equal(t, "3", two[1].InputHash)

	many, err := b.ListCalculations(50)
	require.NoError(t, err)
	assert.Len(t, many, 5)
}

func TestListCalculations_Empty(t *testing.T) {
	list, err := New().ListCalculations(10)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestFindCalculation(t *testing.T) {
	b := New()
	require.NoError(t, b.SaveCalculation(&core.Calculation{InputHash: "h", Heading: 10}))
	require.NoError(t, b.SaveCalculation(&core.Calculation{InputHash: "h", Heading: 20}))

	got, ok, err := b.FindCalculation("h")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 20.0, got.Heading)

	_, ok, err = b.FindCalculation("missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestConcurrentSaves(t *testing.T) {
	b := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = b.SaveCalculation(&core.Calculation{})
		}()
	}
	wg.Wait()

	list, err := b.ListCalculations(0)
	require.NoError(t, err)
	assert.Len(t, list, 50)
	assert.Equal(t, uint(50), list[0].ID)
}
