package domain

import (
	"errors"
	"fmt"
	"time"
)

type ShiftStatus string

const (
	StatusScheduled ShiftStatus = "scheduled"
	StatusAbsence   ShiftStatus = "absence"
)

// ShiftType identifies a working shift with a fixed daily time range.
type ShiftType string

const (
	ShiftMorning8h   ShiftType = "morning_8h"
	ShiftAfternoon8h ShiftType = "afternoon_8h"
	ShiftNight12h    ShiftType = "night_12h"
	ShiftMorning12h  ShiftType = "morning_12h"
)

// AbsenceType identifies a full-day absence. Absences carry no time range of
// their own and always span 00:00:00 to 23:59:59 of their day.
type AbsenceType string

const (
	AbsenceVacation   AbsenceType = "vacation"
	AbsenceSickLeave  AbsenceType = "sick_leave"
	AbsenceRest       AbsenceType = "rest"
	AbsencePermission AbsenceType = "permission"
	AbsenceSuspension AbsenceType = "suspension"
)

type shiftHours struct {
	startHour int
	endHour   int
	overnight bool // end hour falls on the following day
}

var shiftHoursByType = map[ShiftType]shiftHours{
	ShiftMorning8h:   {startHour: 6, endHour: 14},
	ShiftAfternoon8h: {startHour: 14, endHour: 22},
	ShiftNight12h:    {startHour: 18, endHour: 6, overnight: true},
	ShiftMorning12h:  {startHour: 6, endHour: 18},
}

var shiftLabels = map[ShiftType]string{
	ShiftMorning8h:   "Morning (06:00-14:00)",
	ShiftAfternoon8h: "Afternoon (14:00-22:00)",
	ShiftNight12h:    "Night (18:00-06:00)",
	ShiftMorning12h:  "Day (06:00-18:00)",
}

var absenceLabels = map[AbsenceType]string{
	AbsenceVacation:   "Vacation",
	AbsenceSickLeave:  "Sick leave",
	AbsenceRest:       "Rest day",
	AbsencePermission: "Permission",
	AbsenceSuspension: "Suspension",
}

func (s ShiftType) Valid() bool {
	_, ok := shiftHoursByType[s]
	return ok
}

func (s ShiftType) Label() string {
	return shiftLabels[s]
}

func (a AbsenceType) Valid() bool {
	_, ok := absenceLabels[a]
	return ok
}

func (a AbsenceType) Label() string {
	return absenceLabels[a]
}

// TimeRangeFor derives the absolute start and end timestamps of a working
// shift on the given calendar day. For overnight shifts the end falls on the
// following day. ok is false for an unknown shift type.
func TimeRangeFor(s ShiftType, day time.Time) (start, end time.Time, ok bool) {
	hours, ok := shiftHoursByType[s]
	if !ok {
		return time.Time{}, time.Time{}, false
	}

	year, month, d := day.Date()
	start = time.Date(year, month, d, hours.startHour, 0, 0, 0, day.Location())
	end = time.Date(year, month, d, hours.endHour, 0, 0, 0, day.Location())
	if hours.overnight {
		end = end.AddDate(0, 0, 1)
	}

	return start, end, true
}

// AbsenceRangeFor returns the full-day range an absence occupies on the given
// calendar day.
func AbsenceRangeFor(day time.Time) (start, end time.Time) {
	year, month, d := day.Date()
	start = time.Date(year, month, d, 0, 0, 0, 0, day.Location())
	end = time.Date(year, month, d, 23, 59, 59, 0, day.Location())
	return start, end
}

// Assignment is one cell of a weekly scheduling grid: either a working shift
// or a full-day absence. Only ShiftType and AbsenceType implement it, so a
// cell can never carry both at once.
type Assignment interface {
	assignment()
}

func (ShiftType) assignment()   {}
func (AbsenceType) assignment() {}

// ShiftRecord is one persisted assignment: a working shift or an absence for
// one person on one calendar day. Records are never updated in place; a
// replacement is a delete followed by a create.
type ShiftRecord struct {
	ID          int64        `json:"id"`
	UserID      int64        `json:"userId"`
	StartTime   time.Time    `json:"startTime"`
	EndTime     time.Time    `json:"endTime"`
	Status      ShiftStatus  `json:"status"`
	ShiftType   *ShiftType   `json:"shiftType"`
	AbsenceType *AbsenceType `json:"absenceType"`
	Notes       *string      `json:"notes"`
	CreatedAt   time.Time    `json:"createdAt"`
	Version     int32        `json:"-"`
}

// ShiftFilter narrows a shift listing. Zero values leave the corresponding
// dimension unconstrained. The date range matches records that intersect it,
// so an overnight shift reaching into the range is included.
type ShiftFilter struct {
	StartDate time.Time
	EndDate   time.Time
	UserID    int64
}

var ErrNoAssignment = errors.New("no assignment")

// NewShiftPayload builds the record to persist for one assigned day. The
// status and the type fields are mutually exclusive by construction.
func NewShiftPayload(userID int64, day time.Time, a Assignment) (*ShiftRecord, error) {
	switch v := a.(type) {
	case ShiftType:
		start, end, ok := TimeRangeFor(v, day)
		if !ok {
			return nil, fmt.Errorf("unknown shift type %q", v)
		}
		return &ShiftRecord{
			UserID:    userID,
			StartTime: start,
			EndTime:   end,
			Status:    StatusScheduled,
			ShiftType: &v,
		}, nil
	case AbsenceType:
		if !v.Valid() {
			return nil, fmt.Errorf("unknown absence type %q", v)
		}
		start, end := AbsenceRangeFor(day)
		return &ShiftRecord{
			UserID:      userID,
			StartTime:   start,
			EndTime:     end,
			Status:      StatusAbsence,
			AbsenceType: &v,
		}, nil
	case nil:
		return nil, ErrNoAssignment
	default:
		return nil, fmt.Errorf("unsupported assignment type %T", a)
	}
}

// Assignment projects a persisted record back onto a grid cell. Records with
// an inconsistent status/type combination project to nil.
func (r *ShiftRecord) Assignment() Assignment {
	switch r.Status {
	case StatusScheduled:
		if r.ShiftType != nil {
			return *r.ShiftType
		}
	case StatusAbsence:
		if r.AbsenceType != nil {
			return *r.AbsenceType
		}
	}
	return nil
}

// Validate checks the cross-field consistency rules of a record before it is
// persisted.
func (r *ShiftRecord) Validate() error {
	if r.UserID <= 0 {
		return errors.New("userId must be positive")
	}
	if !r.StartTime.Before(r.EndTime) {
		return errors.New("startTime must be before endTime")
	}

	switch r.Status {
	case StatusScheduled:
		if r.ShiftType == nil {
			return errors.New("a scheduled record requires a shift type")
		}
		if !r.ShiftType.Valid() {
			return fmt.Errorf("unknown shift type %q", *r.ShiftType)
		}
		if r.AbsenceType != nil {
			return errors.New("a scheduled record cannot carry an absence type")
		}
	case StatusAbsence:
		if r.AbsenceType == nil {
			return errors.New("an absence record requires an absence type")
		}
		if !r.AbsenceType.Valid() {
			return fmt.Errorf("unknown absence type %q", *r.AbsenceType)
		}
		if r.ShiftType != nil {
			return errors.New("an absence record cannot carry a shift type")
		}
	default:
		return fmt.Errorf("unknown status %q", r.Status)
	}

	return nil
}
