package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	assert.Equal(t, Language("en"), s.Language)
	assert.Equal(t, UnitsImperial, s.Units)
	assert.True(t, s.Notifications)
	assert.True(t, s.HapticFeedback)
	assert.Nil(t, s.DefaultVehicle)
}

func TestSettingsState_GetPut(t *testing.T) {
	state := NewSettingsState()
	assert.Equal(t, DefaultSettings(), state.Get())

	updated := DefaultSettings()
	updated.Units = UnitsMetric
	updated.DefaultVehicle = &DefaultVehicle{Year: "2018", Make: "Honda", Model: "Civic"}
	state.Put(updated)

	got := state.Get()
	assert.Equal(t, UnitsMetric, got.Units)
	assert.Equal(t, "Honda", got.DefaultVehicle.Make)
}
