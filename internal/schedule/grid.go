// Package schedule implements the weekly shift-assignment model used by the
// patrol scheduling views: a transient per-person grid of one assignment per
// day, reconciled against the authoritative shift store on save.
package schedule

import (
	"context"
	"log/slog"
	"time"

	"github.com/vigilia/patrol-ops/internal/domain"
)

// ShiftStore is the authoritative record store the planner reconciles
// against. *shiftstore.Client satisfies it.
type ShiftStore interface {
	Create(ctx context.Context, payload *domain.ShiftRecord) (*domain.ShiftRecord, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter domain.ShiftFilter) ([]*domain.ShiftRecord, error)
}

// daysPerWeek is the grid width; day index 0 is Monday.
const daysPerWeek = 7

// Planner holds the weekly grid for the currently selected person. The grid
// is transient: selecting another person or navigating to another week
// replaces it wholesale, and nothing is persisted until Save runs.
//
// A Planner is owned by a single scheduling view and is not safe for
// concurrent use.
type Planner struct {
	store  ShiftStore
	logger *slog.Logger

	userID    int64
	weekStart time.Time
	days      [daysPerWeek]domain.Assignment
	existing  [daysPerWeek]*domain.ShiftRecord
}

func NewPlanner(store ShiftStore, logger *slog.Logger, weekStart time.Time) *Planner {
	if logger == nil {
		logger = slog.Default()
	}

	return &Planner{
		store:     store,
		logger:    logger,
		weekStart: StartOfWeek(weekStart),
	}
}

// StartOfWeek normalizes t to Monday 00:00 of its week, in t's location.
func StartOfWeek(t time.Time) time.Time {
	year, month, day := t.Date()
	midnight := time.Date(year, month, day, 0, 0, 0, 0, t.Location())
	offset := (int(midnight.Weekday()) + 6) % 7
	return midnight.AddDate(0, 0, -offset)
}

func (p *Planner) UserID() int64 {
	return p.userID
}

func (p *Planner) WeekStart() time.Time {
	return p.weekStart
}

// Day returns the calendar day at the given grid index.
func (p *Planner) Day(index int) time.Time {
	return p.weekStart.AddDate(0, 0, index)
}

// Assignment returns the grid cell for the given day index, or nil when the
// day has no assignment.
func (p *Planner) Assignment(index int) domain.Assignment {
	if index < 0 || index >= daysPerWeek {
		return nil
	}
	return p.days[index]
}

// SetDay assigns a shift or absence to one day of the grid, overwriting any
// prior value. A nil assignment clears the day. Purely in-memory.
func (p *Planner) SetDay(index int, a domain.Assignment) {
	if index < 0 || index >= daysPerWeek {
		return
	}
	p.days[index] = a
}

// ClearWeek clears every day of the grid in memory. Persisted records are
// untouched until Save runs.
func (p *Planner) ClearWeek() {
	p.days = [daysPerWeek]domain.Assignment{}
}

// SelectPerson replaces the grid with the persisted assignments of the given
// person for the displayed week. It returns the number of unsaved assignments
// that were discarded by the switch, so callers can warn beforehand.
func (p *Planner) SelectPerson(ctx context.Context, personID int64) (discarded int, err error) {
	discarded = p.unsavedCount()
	p.userID = personID
	if err := p.populate(ctx); err != nil {
		return discarded, err
	}
	return discarded, nil
}

// NavigateWeek moves the displayed week by delta weeks and replaces the grid
// with the selected person's persisted assignments for the new week. Like
// SelectPerson it reports how many unsaved assignments were discarded.
func (p *Planner) NavigateWeek(ctx context.Context, delta int) (discarded int, err error) {
	discarded = p.unsavedCount()
	p.weekStart = p.weekStart.AddDate(0, 0, delta*daysPerWeek)
	if err := p.populate(ctx); err != nil {
		return discarded, err
	}
	return discarded, nil
}

// unsavedCount counts grid cells that differ from the projection of the
// persisted records they were populated from.
func (p *Planner) unsavedCount() int {
	count := 0
	for i := 0; i < daysPerWeek; i++ {
		var persisted domain.Assignment
		if p.existing[i] != nil {
			persisted = p.existing[i].Assignment()
		}
		if p.days[i] != persisted {
			count++
		}
	}
	return count
}

// populate rebuilds the grid and the stale-record index from the store. When
// more than one record exists for a day, the first wins and the rest are
// ignored; the backlog of historical data contains such rows and they are not
// worth failing a page load over.
func (p *Planner) populate(ctx context.Context) error {
	p.days = [daysPerWeek]domain.Assignment{}
	p.existing = [daysPerWeek]*domain.ShiftRecord{}

	if p.userID == 0 {
		return nil
	}

	records, err := p.store.List(ctx, domain.ShiftFilter{
		StartDate: p.weekStart,
		EndDate:   p.weekStart.AddDate(0, 0, daysPerWeek),
		UserID:    p.userID,
	})
	if err != nil {
		return err
	}

	for _, record := range records {
		index, ok := p.dayIndex(record.StartTime)
		if !ok {
			continue
		}
		if p.existing[index] != nil {
			p.logger.Warn("multiple shift records for one day, ignoring extras",
				"userID", p.userID, "day", p.Day(index).Format(time.DateOnly), "id", record.ID)
			continue
		}
		p.existing[index] = record
		p.days[index] = record.Assignment()
	}

	return nil
}

// dayIndex maps a timestamp to its grid index, or ok=false when its calendar
// day falls outside the displayed week.
func (p *Planner) dayIndex(t time.Time) (int, bool) {
	t = t.In(p.weekStart.Location())
	for i := 0; i < daysPerWeek; i++ {
		day := p.Day(i)
		if t.Year() == day.Year() && t.YearDay() == day.YearDay() {
			return i, true
		}
	}
	return 0, false
}
