package config

import (
	"fmt"
	"time"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if c.Auth.AccessTokenTTL <= 0 {
		return fmt.Errorf("auth.access_token_ttl must be > 0 (got %v)", c.Auth.AccessTokenTTL)
	}

	if err := c.Schedule.validate(); err != nil {
		return fmt.Errorf("schedule: %w", err)
	}

	// Zero disables the per-user plant cap.
	if c.Plants.MaxPlantsPerUser < 0 {
		return fmt.Errorf("plants.max_plants_per_user must be >= 0 (got %d)", c.Plants.MaxPlantsPerUser)
	}
	if c.Plants.HardDeleteRetentionDays < 0 {
		return fmt.Errorf("plants.hard_delete_retention_days must be >= 0 (got %d)", c.Plants.HardDeleteRetentionDays)
	}

	return nil
}

func (s *ScheduleConfig) validate() error {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", s.Timezone, err)
	}
	s.Location = loc
	return nil
}
