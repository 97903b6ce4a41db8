package storage

import "github.com/julianstephens/weekgrid/internal/models"

// Provider is implemented by every storage backend.
type Provider interface {
	Init() error
	Load() error
	Close() error

	GetDocument() (models.Document, error)
	SaveDocument(doc models.Document) error

	AddActivity(a models.Activity) error
	GetActivities() ([]models.Activity, error)
	// DeleteActivity and DeleteFixedBlock match ref against id or name.
	DeleteActivity(ref string) error

	AddFixedBlock(b models.FixedBlock) error
	GetFixedBlocks() ([]models.FixedBlock, error)
	DeleteFixedBlock(ref string) error

	GetGeneratedSchedule() (models.WeekSchedule, error)
	SaveGeneratedSchedule(ws models.WeekSchedule) error

	// GetConstraints returns nil when nothing has been saved.
	GetConstraints() (*models.Constraints, error)
	SaveConstraints(c models.Constraints) error

	Reset() error

	GetConfigPath() string
}

// Versioned is implemented by backends with a migrated schema.
type Versioned interface {
	SchemaVersion() (current, latest int, err error)
}
