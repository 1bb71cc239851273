package schedule

import (
	"context"
	"time"

	"github.com/vigilia/patrol-ops/internal/domain"
)

// ValidationError is a save precondition failure raised before any call to
// the store.
type ValidationError string

func (e ValidationError) Error() string {
	return string(e)
}

const (
	ErrNoPersonSelected = ValidationError("no person selected")
	ErrNothingToSave    = ValidationError("nothing to save")
)

// DayOutcome is the result of saving one assigned day.
type DayOutcome struct {
	Day    time.Time
	Record *domain.ShiftRecord // set on success
	Err    error               // set when the create failed
	// StaleDeleteErr records a failed delete of the day's previous record.
	// The replacement create still ran, so the stale record may linger next
	// to the new one until the next save.
	StaleDeleteErr error
}

// SaveResult aggregates the per-day outcomes of one save invocation.
type SaveResult struct {
	Created int
	Failed  int
	Days    []DayOutcome
}

type SaveOutcome int

const (
	SaveAllFailed SaveOutcome = iota
	SavePartial
	SaveSucceeded
)

func (r *SaveResult) Outcome() SaveOutcome {
	switch {
	case r.Failed == 0:
		return SaveSucceeded
	case r.Created == 0:
		return SaveAllFailed
	default:
		return SavePartial
	}
}

// Save reconciles the in-memory grid with the store: for every assigned day
// it deletes the day's stale record if one exists, then creates the
// replacement. Creates run strictly sequentially, one in flight at a time,
// and a failed day does not abort the remaining days. The stale delete is
// awaited before its create is issued so a replacement cannot race its own
// delete; a failed delete is logged and recorded but does not block the
// create.
//
// Save operates on a snapshot of the grid taken at call time, so concurrent
// navigation cannot change a running save's inputs. After the batch the store
// is re-listed and the grid rebuilt from the authoritative records, whatever
// the outcome.
func (p *Planner) Save(ctx context.Context) (*SaveResult, error) {
	if p.userID == 0 {
		return nil, ErrNoPersonSelected
	}

	// arrays copy by value
	days := p.days
	existing := p.existing
	userID := p.userID
	weekStart := p.weekStart

	assigned := 0
	for _, a := range days {
		if a != nil {
			assigned++
		}
	}
	if assigned == 0 {
		return nil, ErrNothingToSave
	}

	result := &SaveResult{}
	for i := 0; i < daysPerWeek; i++ {
		a := days[i]
		if a == nil {
			continue
		}

		day := weekStart.AddDate(0, 0, i)
		outcome := DayOutcome{Day: day}

		if stale := existing[i]; stale != nil {
			if err := p.store.Delete(ctx, stale.ID); err != nil {
				outcome.StaleDeleteErr = err
				p.logger.Warn("failed to delete stale shift record",
					"id", stale.ID, "userID", userID, "day", day.Format(time.DateOnly), "error", err)
			}
		}

		payload, err := domain.NewShiftPayload(userID, day, a)
		if err != nil {
			outcome.Err = err
		} else if record, err := p.store.Create(ctx, payload); err != nil {
			outcome.Err = err
		} else {
			outcome.Record = record
		}

		if outcome.Err != nil {
			result.Failed++
			p.logger.Warn("failed to save shift assignment",
				"userID", userID, "day", day.Format(time.DateOnly), "error", outcome.Err)
		} else {
			result.Created++
		}
		result.Days = append(result.Days, outcome)
	}

	// refetch the authoritative state; local edits are not trusted as final
	if err := p.populate(ctx); err != nil {
		p.logger.Warn("failed to refresh shift records after save",
			"userID", userID, "error", err)
	}

	return result, nil
}
