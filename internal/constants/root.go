package constants

import "time"

const (
	AppName            = "weekgrid"
	DefaultKeyringUser = "database-connection"
	DefaultConfigDir   = "~/.config/weekgrid"
	DefaultConfigPath  = "~/.config/weekgrid/weekgrid.db"
	Version            = "v0.3.0"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "weekgrid-"

	// Search defaults
	DefaultMaxNodes     = 2_000_000
	DefaultSolveTimeout = 30 * time.Second

	// Environment
	EnvPrefix         = "WEEKGRID_"
	EnvDBConnection   = "WEEKGRID_DB_CONNECTION"
	EnvMigrationsPath = "WEEKGRID_MIGRATIONS_PATH"
)
