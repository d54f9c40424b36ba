package manager

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"formpost/config"
)

func TestAcquireUnlimited(t *testing.T) {
	m := NewInFlightManager([]config.FormConfig{{Name: "pay"}})
	defer m.Shutdown()

	release1, err := m.Acquire("pay")
	require.NoError(t, err)
	release2, err := m.Acquire("pay")
	require.NoError(t, err)
	assert.Equal(t, 2, m.InFlight("pay"))

	release1()
	release2()
	assert.Equal(t, 0, m.InFlight("pay"))
}

func TestAcquireRejectsOverLimit(t *testing.T) {
	m := NewInFlightManager([]config.FormConfig{{Name: "pay", MaxInFlight: 1}})
	defer m.Shutdown()

	release, err := m.Acquire("pay")
	require.NoError(t, err)

	_, err = m.Acquire("pay")
	assert.ErrorIs(t, err, ErrInFlight)

	release()
	release()
	assert.Equal(t, 0, m.InFlight("pay"))

	release, err = m.Acquire("pay")
	require.NoError(t, err)
	release()
}

func TestAcquireUnknownForm(t *testing.T) {
	m := NewInFlightManager(nil)
	defer m.Shutdown()

	release, err := m.Acquire("adhoc")
	require.NoError(t, err)
	assert.Equal(t, 1, m.InFlight("adhoc"))
	release()
	assert.Equal(t, 0, m.InFlight("missing"))
}

func TestConfigureAppliesNewLimits(t *testing.T) {
	m := NewInFlightManager([]config.FormConfig{{Name: "pay", MaxInFlight: 1}, {Name: "open"}})
	defer m.Shutdown()

	held, err := m.Acquire("pay")
	require.NoError(t, err)
	_, err = m.Acquire("pay")
	require.ErrorIs(t, err, ErrInFlight)

	m.Configure([]config.FormConfig{
		{Name: "pay", MaxInFlight: 2},
		{Name: "open", MaxInFlight: 1},
		{Name: "added", MaxInFlight: 1},
	})

	// The slot taken before the reload does not count against the new limit.
	r1, err := m.Acquire("pay")
	require.NoError(t, err)
	r2, err := m.Acquire("pay")
	require.NoError(t, err)
	_, err = m.Acquire("pay")
	assert.ErrorIs(t, err, ErrInFlight)
	assert.Equal(t, 3, m.InFlight("pay"))

	held()
	r1()
	r2()
	assert.Equal(t, 0, m.InFlight("pay"))

	openRelease, err := m.Acquire("open")
	require.NoError(t, err)
	_, err = m.Acquire("open")
	assert.ErrorIs(t, err, ErrInFlight)
	openRelease()

	addedRelease, err := m.Acquire("added")
	require.NoError(t, err)
	_, err = m.Acquire("added")
	assert.ErrorIs(t, err, ErrInFlight)
	addedRelease()
}

func TestConfigureRemovesLimits(t *testing.T) {
	m := NewInFlightManager([]config.FormConfig{{Name: "pay", MaxInFlight: 1}})
	defer m.Shutdown()

	m.Configure([]config.FormConfig{{Name: "pay"}})

	r1, err := m.Acquire("pay")
	require.NoError(t, err)
	r2, err := m.Acquire("pay")
	require.NoError(t, err)
	r1()
	r2()

	m.Configure([]config.FormConfig{{Name: "pay", MaxInFlight: 1}})
	release, err := m.Acquire("pay")
	require.NoError(t, err)
	defer release()

	m.Configure(nil)
	extra, err := m.Acquire("pay")
	require.NoError(t, err)
	extra()
}
