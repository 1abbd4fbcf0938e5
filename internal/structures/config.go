package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type Persistence struct {
	FilePath     string        `yaml:"filePath" validate:"required|unixPath"`
	SaveInterval time.Duration `yaml:"saveInterval" validate:"required|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

// QuotaConfig holds the per-tier scan ceilings. Free and premium are
// weekly ceilings; the trial ceiling is absolute for the trial window.
type QuotaConfig struct {
	FreeWeekly    int `yaml:"freeWeekly"`
	PremiumWeekly int `yaml:"premiumWeekly"`
	TrialTotal    int `yaml:"trialTotal"`
}

type TrialConfig struct {
	DurationDays int `yaml:"durationDays"`
}

type FollowUpConfig struct {
	DefaultDays int `yaml:"defaultDays"`
	// When true, surfacing a due follow-up marks it as reminded so it is
	// not returned again. The original app never set the flag, so due
	// entries re-surfaced until completed; keep false for that behavior.
	MarkReminderOnSurface bool          `yaml:"markReminderOnSurface"`
	SweepInterval         time.Duration `yaml:"sweepInterval"`
}

type HistoryConfig struct {
	MaxSessions int           `yaml:"maxSessions"`
	ArchiveDir  string        `yaml:"archiveDir"`
	ArchiveTTL  time.Duration `yaml:"archiveTTL"`
}

type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
	TTL     int  `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName     string
	Debug       bool
	Path        string
	Quota       QuotaConfig    `yaml:"quota"`
	Trial       TrialConfig    `yaml:"trial"`
	FollowUp    FollowUpConfig `yaml:"followUp"`
	History     HistoryConfig  `yaml:"history"`
	WebServer   Server         `yaml:"webServer"`
	Persistence Persistence    `yaml:"persistence"`
	Logger      LoggerConfig   `yaml:"logger"`
	Cache       CacheConfig    `yaml:"cache"`
	Metrics     MetricsConfig  `yaml:"metrics"`
}
