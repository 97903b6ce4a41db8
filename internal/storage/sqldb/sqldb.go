// Package sqldb holds the document queries shared by the sqlite and postgres
// stores. Queries are written with '?' placeholders and rebound for the
// driver in use.
package sqldb

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/julianstephens/weekgrid/internal/constants"
	"github.com/julianstephens/weekgrid/internal/errors"
	"github.com/julianstephens/weekgrid/internal/logger"
	"github.com/julianstephens/weekgrid/internal/models"
)

const constraintsRowID = 1

type Docs struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Docs {
	return &Docs{db: db}
}

type activityRow struct {
	ID            string  `db:"id"`
	Name          string  `db:"name"`
	Duration      float64 `db:"duration"`
	Priority      int     `db:"priority"`
	Category      string  `db:"category"`
	EarliestStart string  `db:"earliest_start"`
	LatestEnd     string  `db:"latest_end"`
	After         string  `db:"after_names"`
	IsFixed       bool    `db:"is_fixed"`
	IsLocked      bool    `db:"is_locked"`
	Position      int     `db:"position"`
}

type fixedRow struct {
	ID        string `db:"id"`
	Name      string `db:"name"`
	Day       string `db:"day"`
	StartTime string `db:"start_time"`
	EndTime   string `db:"end_time"`
	Category  string `db:"category"`
	Position  int    `db:"position"`
}

type slotRow struct {
	Day           string `db:"day"`
	Slot          int    `db:"slot"`
	Name          string `db:"name"`
	Category      string `db:"category"`
	Priority      int    `db:"priority"`
	DurationSlots int    `db:"duration_slots"`
	IsFirstSlot   bool   `db:"is_first_slot"`
	IsFixed       bool   `db:"is_fixed"`
	IsLocked      bool   `db:"is_locked"`
}

const (
	selectActivities = `SELECT id, name, duration, priority, category, earliest_start, latest_end,
		after_names, is_fixed, is_locked, position FROM activities ORDER BY position, id`
	insertActivity = `INSERT INTO activities (id, name, duration, priority, category, earliest_start,
		latest_end, after_names, is_fixed, is_locked, position)
		VALUES (:id, :name, :duration, :priority, :category, :earliest_start, :latest_end,
		:after_names, :is_fixed, :is_locked, :position)`

	selectFixed = `SELECT id, name, day, start_time, end_time, category, position
		FROM fixed_blocks ORDER BY position, id`
	insertFixed = `INSERT INTO fixed_blocks (id, name, day, start_time, end_time, category, position)
		VALUES (:id, :name, :day, :start_time, :end_time, :category, :position)`

	selectSlots = `SELECT day, slot, name, category, priority, duration_slots, is_first_slot,
		is_fixed, is_locked FROM generated_slots ORDER BY day, slot`
	insertSlot = `INSERT INTO generated_slots (day, slot, name, category, priority, duration_slots,
		is_first_slot, is_fixed, is_locked)
		VALUES (:day, :slot, :name, :category, :priority, :duration_slots, :is_first_slot,
		:is_fixed, :is_locked)`

	upsertConstraints = `INSERT INTO solver_constraints (id, body) VALUES (?, ?)
		ON CONFLICT (id) DO UPDATE SET body = excluded.body`
)

func (d *Docs) ready() error {
	if d == nil || d.db == nil {
		return errors.ErrNotInitialized
	}
	return nil
}

func (d *Docs) inTx(fn func(tx *sqlx.Tx) error) error {
	tx, err := d.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (d *Docs) GetDocument() (models.Document, error) {
	if err := d.ready(); err != nil {
		return models.Document{}, err
	}

	doc := models.NewDocument()
	var err error
	if doc.FixedSchedule, err = d.GetFixedBlocks(); err != nil {
		return models.Document{}, err
	}
	if doc.Activities, err = d.GetActivities(); err != nil {
		return models.Document{}, err
	}
	if doc.GeneratedSchedule, err = d.GetGeneratedSchedule(); err != nil {
		return models.Document{}, err
	}
	if doc.Constraints, err = d.GetConstraints(); err != nil {
		return models.Document{}, err
	}
	return doc, nil
}

// SaveDocument replaces every stored record with the contents of doc.
func (d *Docs) SaveDocument(doc models.Document) error {
	if err := d.ready(); err != nil {
		return err
	}
	return d.inTx(func(tx *sqlx.Tx) error {
		if err := clearAll(tx); err != nil {
			return err
		}
		for i, b := range doc.FixedSchedule {
			if err := insertFixedBlock(tx, b, i+1); err != nil {
				return err
			}
		}
		for i, a := range doc.Activities {
			if err := insertActivityRow(tx, a, i+1); err != nil {
				return err
			}
		}
		if err := insertSchedule(tx, doc.GeneratedSchedule); err != nil {
			return err
		}
		if doc.Constraints != nil {
			return writeConstraints(tx, doc.Constraints)
		}
		return nil
	})
}

func (d *Docs) GetActivities() ([]models.Activity, error) {
	if err := d.ready(); err != nil {
		return nil, err
	}

	var rows []activityRow
	if err := d.db.Select(&rows, selectActivities); err != nil {
		return nil, fmt.Errorf("failed to query activities: %w", err)
	}

	out := make([]models.Activity, 0, len(rows))
	for _, r := range rows {
		a := models.Activity{
			ID:            r.ID,
			Name:          r.Name,
			Duration:      r.Duration,
			Priority:      r.Priority,
			Category:      r.Category,
			EarliestStart: r.EarliestStart,
			LatestEnd:     r.LatestEnd,
			IsFixed:       r.IsFixed,
			IsLocked:      r.IsLocked,
		}
		if r.After != "" {
			if err := json.Unmarshal([]byte(r.After), &a.After); err != nil {
				logger.Warn("Ignoring malformed after list", "activity", r.Name, "error", err)
			}
		}
		out = append(out, a)
	}
	return out, nil
}

// AddActivity appends a to the activity list. Names are unique.
func (d *Docs) AddActivity(a models.Activity) error {
	if err := d.ready(); err != nil {
		return err
	}
	return d.inTx(func(tx *sqlx.Tx) error {
		var count int
		if err := tx.Get(&count, tx.Rebind("SELECT COUNT(*) FROM activities WHERE name = ?"), a.Name); err != nil {
			return fmt.Errorf("failed to check activity name: %w", err)
		}
		if count > 0 {
			return fmt.Errorf("activity %q: %w", a.Name, errors.ErrAlreadyExists)
		}
		position, err := nextPosition(tx, "activities")
		if err != nil {
			return err
		}
		return insertActivityRow(tx, a, position)
	})
}

// DeleteActivity removes the activity whose id or name equals ref.
func (d *Docs) DeleteActivity(ref string) error {
	if err := d.ready(); err != nil {
		return err
	}
	res, err := d.db.Exec(d.db.Rebind("DELETE FROM activities WHERE id = ? OR name = ?"), ref, ref)
	if err != nil {
		return fmt.Errorf("failed to delete activity: %w", err)
	}
	return requireAffected(res, "activity", ref)
}

func (d *Docs) GetFixedBlocks() ([]models.FixedBlock, error) {
	if err := d.ready(); err != nil {
		return nil, err
	}

	var rows []fixedRow
	if err := d.db.Select(&rows, selectFixed); err != nil {
		return nil, fmt.Errorf("failed to query fixed blocks: %w", err)
	}

	out := make([]models.FixedBlock, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.FixedBlock{
			ID:        r.ID,
			Name:      r.Name,
			Day:       constants.Day(r.Day),
			StartTime: r.StartTime,
			EndTime:   r.EndTime,
			Category:  r.Category,
		})
	}
	return out, nil
}

func (d *Docs) AddFixedBlock(b models.FixedBlock) error {
	if err := d.ready(); err != nil {
		return err
	}
	return d.inTx(func(tx *sqlx.Tx) error {
		position, err := nextPosition(tx, "fixed_blocks")
		if err != nil {
			return err
		}
		return insertFixedBlock(tx, b, position)
	})
}

// DeleteFixedBlock removes every fixed block whose id or name equals ref.
func (d *Docs) DeleteFixedBlock(ref string) error {
	if err := d.ready(); err != nil {
		return err
	}
	res, err := d.db.Exec(d.db.Rebind("DELETE FROM fixed_blocks WHERE id = ? OR name = ?"), ref, ref)
	if err != nil {
		return fmt.Errorf("failed to delete fixed block: %w", err)
	}
	return requireAffected(res, "fixed block", ref)
}

func (d *Docs) GetGeneratedSchedule() (models.WeekSchedule, error) {
	if err := d.ready(); err != nil {
		return nil, err
	}

	var rows []slotRow
	if err := d.db.Select(&rows, selectSlots); err != nil {
		return nil, fmt.Errorf("failed to query generated schedule: %w", err)
	}

	ws := models.NewWeekSchedule()
	for _, r := range rows {
		day := constants.Day(r.Day)
		if !day.Valid() {
			logger.Warn("Skipping stored slot with unknown day", "day", r.Day, "slot", r.Slot)
			continue
		}
		ws.Set(day, r.Slot, &models.Occupant{
			Name:          r.Name,
			Category:      r.Category,
			Priority:      r.Priority,
			DurationSlots: r.DurationSlots,
			IsFirstSlot:   r.IsFirstSlot,
			IsFixed:       r.IsFixed,
			IsLocked:      r.IsLocked,
		})
	}
	return ws, nil
}

// SaveGeneratedSchedule replaces the stored schedule with ws.
func (d *Docs) SaveGeneratedSchedule(ws models.WeekSchedule) error {
	if err := d.ready(); err != nil {
		return err
	}
	return d.inTx(func(tx *sqlx.Tx) error {
		if _, err := tx.Exec("DELETE FROM generated_slots"); err != nil {
			return fmt.Errorf("failed to clear generated schedule: %w", err)
		}
		return insertSchedule(tx, ws)
	})
}

// GetConstraints returns nil when no constraints have been saved.
func (d *Docs) GetConstraints() (*models.Constraints, error) {
	if err := d.ready(); err != nil {
		return nil, err
	}

	var body string
	err := d.db.Get(&body, d.db.Rebind("SELECT body FROM solver_constraints WHERE id = ?"), constraintsRowID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query constraints: %w", err)
	}

	var c models.Constraints
	if err := json.Unmarshal([]byte(body), &c); err != nil {
		return nil, fmt.Errorf("failed to decode stored constraints: %w", err)
	}
	return &c, nil
}

func (d *Docs) SaveConstraints(c models.Constraints) error {
	if err := d.ready(); err != nil {
		return err
	}
	return d.inTx(func(tx *sqlx.Tx) error {
		return writeConstraints(tx, &c)
	})
}

// Reset deletes every stored record but keeps the schema.
func (d *Docs) Reset() error {
	if err := d.ready(); err != nil {
		return err
	}
	return d.inTx(clearAll)
}

func clearAll(tx *sqlx.Tx) error {
	for _, table := range []string{"generated_slots", "activities", "fixed_blocks", "solver_constraints"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}

func nextPosition(tx *sqlx.Tx, table string) (int, error) {
	var position int
	if err := tx.Get(&position, "SELECT COALESCE(MAX(position), 0) + 1 FROM "+table); err != nil {
		return 0, fmt.Errorf("failed to read %s position: %w", table, err)
	}
	return position, nil
}

func insertActivityRow(tx *sqlx.Tx, a models.Activity, position int) error {
	after := a.After
	if after == nil {
		after = []string{}
	}
	afterJSON, err := json.Marshal(after)
	if err != nil {
		return fmt.Errorf("failed to encode after list: %w", err)
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}

	row := activityRow{
		ID:            a.ID,
		Name:          a.Name,
		Duration:      a.Duration,
		Priority:      a.Priority,
		Category:      a.Category,
		EarliestStart: a.EarliestStart,
		LatestEnd:     a.LatestEnd,
		After:         string(afterJSON),
		IsFixed:       a.IsFixed,
		IsLocked:      a.IsLocked,
		Position:      position,
	}
	if _, err := tx.NamedExec(insertActivity, row); err != nil {
		return fmt.Errorf("failed to insert activity %q: %w", a.Name, err)
	}
	return nil
}

func insertFixedBlock(tx *sqlx.Tx, b models.FixedBlock, position int) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	row := fixedRow{
		ID:        b.ID,
		Name:      b.Name,
		Day:       string(b.Day),
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
		Category:  b.Category,
		Position:  position,
	}
	if _, err := tx.NamedExec(insertFixed, row); err != nil {
		return fmt.Errorf("failed to insert fixed block %q: %w", b.Name, err)
	}
	return nil
}

func insertSchedule(tx *sqlx.Tx, ws models.WeekSchedule) error {
	for day, slots := range ws {
		for key, occ := range slots {
			if occ == nil {
				continue
			}
			slot, err := strconv.Atoi(key)
			if err != nil {
				logger.Warn("Skipping slot with non-numeric key", "day", day, "slot", key)
				continue
			}
			row := slotRow{
				Day:           string(day),
				Slot:          slot,
				Name:          occ.Name,
				Category:      occ.Category,
				Priority:      occ.Priority,
				DurationSlots: occ.DurationSlots,
				IsFirstSlot:   occ.IsFirstSlot,
				IsFixed:       occ.IsFixed,
				IsLocked:      occ.IsLocked,
			}
			if _, err := tx.NamedExec(insertSlot, row); err != nil {
				return fmt.Errorf("failed to insert slot %s/%d: %w", day, slot, err)
			}
		}
	}
	return nil
}

func writeConstraints(tx *sqlx.Tx, c *models.Constraints) error {
	body, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode constraints: %w", err)
	}
	if _, err := tx.Exec(tx.Rebind(upsertConstraints), constraintsRowID, string(body)); err != nil {
		return fmt.Errorf("failed to save constraints: %w", err)
	}
	return nil
}

func requireAffected(res sql.Result, kind, ref string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %q: %w", kind, ref, errors.ErrNotFound)
	}
	return nil
}
