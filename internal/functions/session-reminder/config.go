// internal/functions/session-reminder/config.go
package sessionreminder

import (
	"time"

	"eventdesk-functions/internal/common/config"
)

type Config struct {
	// RunInterval is the scheduler tick spacing; the query window is sized
	// to exactly one tick so consecutive runs neither overlap nor leave gaps.
	RunInterval        time.Duration
	DefaultLeadMinutes int
	FromEmail          string
	PortalURL          string
	Timeout            time.Duration
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		RunInterval:        time.Duration(cfg.Notifications.RunIntervalMinutes) * time.Minute,
		DefaultLeadMinutes: cfg.Notifications.DefaultLeadMinutes,
		FromEmail:          cfg.Mail.FromEmail,
		PortalURL:          cfg.Notifications.PortalURL,
		Timeout:            time.Duration(cfg.Server.RequestTimeout) * time.Second,
	}
}
