package cli

import (
	"fmt"
	"strings"

	"github.com/julianstephens/weekgrid/internal/backup"
	"github.com/julianstephens/weekgrid/internal/config"
	"github.com/julianstephens/weekgrid/internal/constants"
	"github.com/julianstephens/weekgrid/internal/logger"
	"github.com/julianstephens/weekgrid/internal/metrics"
	"github.com/julianstephens/weekgrid/internal/scheduler"
	"github.com/julianstephens/weekgrid/internal/storage"
	"github.com/julianstephens/weekgrid/internal/storage/postgres"
)

type Context struct {
	Store     storage.Provider
	Scheduler *scheduler.Scheduler
	Config    *config.Config
	Metrics   *metrics.PromSink
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors.
// Postgres has no local file to copy and is skipped.
func (c *Context) PerformAutomaticBackup() {
	if _, ok := c.Store.(*postgres.Store); ok {
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.CreateBackup(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// WriteMetrics exports solver metrics when a textfile path is configured.
func (c *Context) WriteMetrics() {
	if c.Metrics == nil || c.Config == nil || c.Config.Metrics.Textfile == "" {
		return
	}
	if err := c.Metrics.WriteTextfile(config.ExpandHome(c.Config.Metrics.Textfile)); err != nil {
		logger.Warn("Metrics export failed", "error", err)
	}
}

// ParseSlot resolves a day name and an HH:MM time into a day and grid slot.
func ParseSlot(day, clock string) (constants.Day, int, error) {
	d, err := constants.ParseDay(day)
	if err != nil {
		return "", 0, err
	}
	slot := scheduler.SlotIndex(clock)
	if slot < 0 || slot >= constants.SlotsPerDay {
		return "", 0, fmt.Errorf("invalid time %q (expected HH:MM between %02d:00 and %02d:00)",
			clock, constants.GridStartHour, constants.GridEndHour)
	}
	return d, slot, nil
}

// MaskPassword masks passwords in connection strings for display.
func MaskPassword(connStr string) string {
	if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
		if idx := strings.Index(connStr, "://"); idx != -1 {
			remaining := connStr[idx+3:]
			if atIdx := strings.LastIndex(remaining, "@"); atIdx != -1 {
				userInfo := remaining[:atIdx]
				if colonIdx := strings.Index(userInfo, ":"); colonIdx != -1 {
					return connStr[:idx+3] + userInfo[:colonIdx] + ":****" + connStr[idx+3+atIdx:]
				}
			}
		}
	}

	if strings.Contains(connStr, "password=") {
		parts := strings.Fields(connStr)
		for i, part := range parts {
			if strings.HasPrefix(part, "password=") {
				parts[i] = "password=****"
			}
		}
		return strings.Join(parts, " ")
	}

	return connStr
}
