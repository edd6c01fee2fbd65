package config

const (
	DefaultRecentNotifications = 50
	MaxRecentNotifications     = 100
)

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Env == "" {
		cfg.Server.Env = "development"
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "postgres"
	}
	if cfg.JWT.TTL == 0 {
		cfg.JWT.TTL = 60
	}
	if cfg.Email.SMTPPort == 0 {
		cfg.Email.SMTPPort = 587
	}
	if cfg.Notifications.RecentLimit <= 0 || cfg.Notifications.RecentLimit > MaxRecentNotifications {
		cfg.Notifications.RecentLimit = DefaultRecentNotifications
	}
	if cfg.Notifications.RetentionDays <= 0 {
		cfg.Notifications.RetentionDays = 90
	}
	if cfg.Notifications.CleanupSchedule == "" {
		cfg.Notifications.CleanupSchedule = "@daily"
	}
	if cfg.FirstAdminName == "" {
		cfg.FirstAdminName = "Administrator"
	}
}
