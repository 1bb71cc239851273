package domain

import (
	"testing"
	"time"
)

var allShiftTypes = []ShiftType{ShiftMorning8h, ShiftAfternoon8h, ShiftNight12h, ShiftMorning12h}

var allAbsenceTypes = []AbsenceType{AbsenceVacation, AbsenceSickLeave, AbsenceRest, AbsencePermission, AbsenceSuspension}

func TestTimeRangeForStartsBeforeEnd(t *testing.T) {
	day := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)

	for _, st := range allShiftTypes {
		start, end, ok := TimeRangeFor(st, day)
		if !ok {
			t.Fatalf("%s should be a known shift type", st)
		}
		if !start.Before(end) {
			t.Fatalf("%s: start %v is not before end %v", st, start, end)
		}
	}
}

func TestTimeRangeForFixedHours(t *testing.T) {
	day := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)

	cases := map[ShiftType][2]int{
		ShiftMorning8h:   {6, 14},
		ShiftAfternoon8h: {14, 22},
		ShiftMorning12h:  {6, 18},
	}
	for st, hours := range cases {
		start, end, _ := TimeRangeFor(st, day)
		if start.Hour() != hours[0] || end.Hour() != hours[1] {
			t.Fatalf("%s: expected hours %d-%d, got %d-%d", st, hours[0], hours[1], start.Hour(), end.Hour())
		}
		if start.Day() != day.Day() || end.Day() != day.Day() {
			t.Fatalf("%s should start and end on the same day", st)
		}
	}
}

func TestTimeRangeForNightShiftWrapsToNextDay(t *testing.T) {
	day := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)

	start, end, ok := TimeRangeFor(ShiftNight12h, day)
	if !ok {
		t.Fatal("night_12h should be a known shift type")
	}
	if start.Hour() != 18 {
		t.Fatalf("expected start hour 18, got %d", start.Hour())
	}
	if end.Hour() != 6 {
		t.Fatalf("expected end hour 6, got %d", end.Hour())
	}
	if !end.Equal(time.Date(2025, time.March, 11, 6, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected end on the following day, got %v", end)
	}
}

func TestTimeRangeForUnknownType(t *testing.T) {
	day := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)

	if _, _, ok := TimeRangeFor(ShiftType("lunch_2h"), day); ok {
		t.Fatal("unknown shift type should not resolve to a range")
	}
}

func TestAbsenceRangeForSpansFullDay(t *testing.T) {
	day := time.Date(2025, time.March, 12, 15, 30, 0, 0, time.UTC)

	start, end := AbsenceRangeFor(day)
	if !start.Equal(time.Date(2025, time.March, 12, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected midnight start, got %v", start)
	}
	if !end.Equal(time.Date(2025, time.March, 12, 23, 59, 59, 0, time.UTC)) {
		t.Fatalf("expected 23:59:59 end, got %v", end)
	}
}

func TestLabelsAreDefined(t *testing.T) {
	for _, st := range allShiftTypes {
		if st.Label() == "" {
			t.Fatalf("%s has no label", st)
		}
	}
	for _, at := range allAbsenceTypes {
		if at.Label() == "" {
			t.Fatalf("%s has no label", at)
		}
	}
}

func TestNewShiftPayloadMutualExclusion(t *testing.T) {
	day := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)

	assignments := []Assignment{}
	for _, st := range allShiftTypes {
		assignments = append(assignments, st)
	}
	for _, at := range allAbsenceTypes {
		assignments = append(assignments, at)
	}

	for _, a := range assignments {
		record, err := NewShiftPayload(7, day, a)
		if err != nil {
			t.Fatalf("%v: unexpected error: %v", a, err)
		}
		if (record.ShiftType != nil) == (record.AbsenceType != nil) {
			t.Fatalf("%v: exactly one of shiftType/absenceType must be set, got %v/%v", a, record.ShiftType, record.AbsenceType)
		}
		if err := record.Validate(); err != nil {
			t.Fatalf("%v: payload should validate: %v", a, err)
		}
	}
}

func TestNewShiftPayloadScheduled(t *testing.T) {
	day := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)

	record, err := NewShiftPayload(7, day, ShiftMorning8h)
	if err != nil {
		t.Fatal(err)
	}
	if record.Status != StatusScheduled {
		t.Fatalf("expected status scheduled, got %s", record.Status)
	}
	if record.ShiftType == nil || *record.ShiftType != ShiftMorning8h {
		t.Fatalf("expected shiftType morning_8h, got %v", record.ShiftType)
	}
	if record.AbsenceType != nil {
		t.Fatal("absenceType must be nil for a scheduled record")
	}
	if record.UserID != 7 {
		t.Fatalf("expected userId 7, got %d", record.UserID)
	}
}

func TestNewShiftPayloadAbsence(t *testing.T) {
	day := time.Date(2025, time.March, 12, 0, 0, 0, 0, time.UTC)

	record, err := NewShiftPayload(7, day, AbsenceVacation)
	if err != nil {
		t.Fatal(err)
	}
	if record.Status != StatusAbsence {
		t.Fatalf("expected status absence, got %s", record.Status)
	}
	if record.AbsenceType == nil || *record.AbsenceType != AbsenceVacation {
		t.Fatalf("expected absenceType vacation, got %v", record.AbsenceType)
	}
	if record.ShiftType != nil {
		t.Fatal("shiftType must be nil for an absence record")
	}
	if record.StartTime.Hour() != 0 || record.EndTime.Hour() != 23 {
		t.Fatalf("expected a full-day range, got %v-%v", record.StartTime, record.EndTime)
	}
}

func TestNewShiftPayloadRejectsInvalid(t *testing.T) {
	day := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)

	if _, err := NewShiftPayload(7, day, nil); err == nil {
		t.Fatal("expected an error for a nil assignment")
	}
	if _, err := NewShiftPayload(7, day, ShiftType("lunch_2h")); err == nil {
		t.Fatal("expected an error for an unknown shift type")
	}
	if _, err := NewShiftPayload(7, day, AbsenceType("jury_duty")); err == nil {
		t.Fatal("expected an error for an unknown absence type")
	}
}

func TestValidateRejectsInconsistentRecords(t *testing.T) {
	st := ShiftMorning8h
	at := AbsenceVacation
	day := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	start, end, _ := TimeRangeFor(st, day)

	cases := map[string]*ShiftRecord{
		"both types set": {
			UserID: 7, StartTime: start, EndTime: end,
			Status: StatusScheduled, ShiftType: &st, AbsenceType: &at,
		},
		"scheduled without shift type": {
			UserID: 7, StartTime: start, EndTime: end,
			Status: StatusScheduled,
		},
		"absence without absence type": {
			UserID: 7, StartTime: start, EndTime: end,
			Status: StatusAbsence,
		},
		"end before start": {
			UserID: 7, StartTime: end, EndTime: start,
			Status: StatusScheduled, ShiftType: &st,
		},
		"missing user": {
			StartTime: start, EndTime: end,
			Status: StatusScheduled, ShiftType: &st,
		},
		"unknown status": {
			UserID: 7, StartTime: start, EndTime: end,
			Status: ShiftStatus("pending"), ShiftType: &st,
		},
	}

	for name, record := range cases {
		if err := record.Validate(); err == nil {
			t.Fatalf("%s: expected a validation error", name)
		}
	}
}

func TestRecordAssignmentProjection(t *testing.T) {
	st := ShiftNight12h
	at := AbsenceRest

	scheduled := &ShiftRecord{Status: StatusScheduled, ShiftType: &st}
	if scheduled.Assignment() != st {
		t.Fatalf("expected %v, got %v", st, scheduled.Assignment())
	}

	absence := &ShiftRecord{Status: StatusAbsence, AbsenceType: &at}
	if absence.Assignment() != at {
		t.Fatalf("expected %v, got %v", at, absence.Assignment())
	}

	broken := &ShiftRecord{Status: StatusScheduled}
	if broken.Assignment() != nil {
		t.Fatal("an inconsistent record should project to nil")
	}
}
