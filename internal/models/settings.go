package models

import "sync"

type Language string

type Units string

const (
	UnitsImperial Units = "imperial"
	UnitsMetric   Units = "metric"
)

type DefaultVehicle struct {
	Year   string `json:"year"`
	Make   string `json:"make"`
	Model  string `json:"model"`
	Engine string `json:"engine"`
}

type Settings struct {
	DefaultVehicle *DefaultVehicle `json:"defaultVehicle"`
	Language       Language        `json:"language" validate:"in:en,es,fr,de"`
	Units          Units           `json:"units" validate:"in:imperial,metric"`
	Notifications  bool            `json:"notifications"`
	HapticFeedback bool            `json:"hapticFeedback"`
}

func DefaultSettings() Settings {
	return Settings{
		Language:       "en",
		Units:          UnitsImperial,
		Notifications:  true,
		HapticFeedback: true,
	}
}

// SettingsState is the mutex-guarded holder for user settings.
type SettingsState struct {
	mu       sync.RWMutex
	settings Settings
}

func NewSettingsState() *SettingsState {
	return &SettingsState{settings: DefaultSettings()}
}

func (s *SettingsState) Get() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

func (s *SettingsState) Put(settings Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
}
