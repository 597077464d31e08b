// internal/functions/daily-agenda/config.go
package dailyagenda

import (
	"time"

	"eventdesk-functions/internal/common/config"
)

type Config struct {
	// DigestHour is the local hour at which the scheduler fires the digest.
	DigestHour int
	FromEmail  string
	PortalURL  string
	Timeout    time.Duration
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		DigestHour: cfg.Notifications.DigestHour,
		FromEmail:  cfg.Mail.FromEmail,
		PortalURL:  cfg.Notifications.PortalURL,
		Timeout:    time.Duration(cfg.Server.RequestTimeout) * time.Second,
	}
}
