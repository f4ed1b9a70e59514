package shutdown

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShutdownOrder(t *testing.T) {
	var order []string
	record := func(label string) func() error {
		return func() error {
			order = append(order, label)
			return nil
		}
	}

	AddHookWithPriority("store", PriorityDatabase, record("store"))
	AddHookWithPriority("browser", PriorityBrowser, record("browser"))
	AddHook("first default", record("first default"))
	AddHook("second default", record("second default"))
	AddHookWithPriority("renders", PriorityRenders, record("renders"))

	assert.NoError(t, Shutdown())
	assert.Equal(t, []string{"renders", "first default", "second default", "browser", "store"}, order)

	// hooks run once
	order = nil
	assert.NoError(t, Shutdown())
	assert.Empty(t, order)
}

func TestShutdownCollectsFailures(t *testing.T) {
	ran := false
	boom := errors.New("boom")
	AddHook("fails", func() error { return boom })
	AddHook("panics", func() error { panic("bad") })
	AddHookWithPriority("after", PriorityDatabase, func() error { ran = true; return nil })

	err := Shutdown()
	assert.True(t, ran)
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "panics: panic: bad")
}
