package providers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"fixd/internal/structures"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.BindEnv("logger.level", "FIXD_LOG_LEVEL")
	viper.BindEnv("persistence.saveInterval", "FIXD_SAVE_INTERVAL")
	viper.BindEnv("cache.enabled", "FIXD_CACHE_ENABLED")
	viper.BindEnv("cache.size", "FIXD_CACHE_SIZE")
	viper.BindEnv("quota.freeWeekly", "FIXD_QUOTA_FREE")
	viper.BindEnv("quota.premiumWeekly", "FIXD_QUOTA_PREMIUM")
	viper.BindEnv("quota.trialTotal", "FIXD_QUOTA_TRIAL")
	viper.BindEnv("trial.durationDays", "FIXD_TRIAL_DAYS")

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	applyDefaults(&conf)

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "FixdDaemon"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}

// applyDefaults fills the domain knobs that most deployments never set.
// The numbers match the mobile app the daemon backs.
func applyDefaults(conf *structures.Config) {
	if conf.Quota.FreeWeekly == 0 {
		conf.Quota.FreeWeekly = 2
	}
	if conf.Quota.PremiumWeekly == 0 {
		conf.Quota.PremiumWeekly = 20
	}
	if conf.Quota.TrialTotal == 0 {
		conf.Quota.TrialTotal = 10
	}
	if conf.Trial.DurationDays == 0 {
		conf.Trial.DurationDays = 2
	}
	if conf.FollowUp.DefaultDays == 0 {
		conf.FollowUp.DefaultDays = 3
	}
	if conf.History.MaxSessions == 0 {
		conf.History.MaxSessions = 50
	}
}
