package scheduler

import (
	"encoding/json"
	"fmt"

	"github.com/zeebo/blake3"

	"github.com/julianstephens/weekgrid/internal/models"
)

// Fingerprint returns the blake3 digest of a schedule's JSON form. Map keys
// are marshalled in sorted order, so equal schedules give equal digests.
func Fingerprint(ws models.WeekSchedule) (string, error) {
	canonical, err := json.Marshal(ws.Normalized())
	if err != nil {
		return "", fmt.Errorf("canonicalize schedule: %w", err)
	}

	hasher := blake3.New()
	if _, err := hasher.Write(canonical); err != nil {
		return "", fmt.Errorf("hash schedule: %w", err)
	}

	return fmt.Sprintf("%x", hasher.Sum(nil)), nil
}
