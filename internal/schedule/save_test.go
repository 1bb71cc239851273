package schedule

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/vigilia/patrol-ops/internal/domain"
)

// fakeStore is an in-memory shift store. Failures are injected per create
// sequence number; every call is appended to calls for ordering assertions.
type fakeStore struct {
	nextID  int64
	records map[int64]*domain.ShiftRecord
	calls   []string

	createSeq  int
	failCreate map[int]error // 1-based create sequence number -> error
	deleteErr  error
	listErr    error
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: map[int64]*domain.ShiftRecord{}}
}

func (s *fakeStore) insert(record *domain.ShiftRecord) *domain.ShiftRecord {
	s.nextID++
	stored := *record
	stored.ID = s.nextID
	s.records[stored.ID] = &stored
	return &stored
}

func (s *fakeStore) Create(ctx context.Context, payload *domain.ShiftRecord) (*domain.ShiftRecord, error) {
	s.createSeq++
	s.calls = append(s.calls, fmt.Sprintf("create %s", payload.StartTime.Format(time.DateOnly)))
	if err := s.failCreate[s.createSeq]; err != nil {
		return nil, err
	}
	return s.insert(payload), nil
}

func (s *fakeStore) Delete(ctx context.Context, id int64) error {
	s.calls = append(s.calls, fmt.Sprintf("delete %d", id))
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.records, id)
	return nil
}

func (s *fakeStore) List(ctx context.Context, filter domain.ShiftFilter) ([]*domain.ShiftRecord, error) {
	s.calls = append(s.calls, "list")
	if s.listErr != nil {
		return nil, s.listErr
	}

	matches := []*domain.ShiftRecord{}
	for _, record := range s.records {
		if filter.UserID != 0 && record.UserID != filter.UserID {
			continue
		}
		if !filter.StartDate.IsZero() && record.EndTime.Before(filter.StartDate) {
			continue
		}
		if !filter.EndDate.IsZero() && record.StartTime.After(filter.EndDate) {
			continue
		}
		matches = append(matches, record)
	}
	sort.Slice(matches, func(i, j int) bool {
		if !matches[i].StartTime.Equal(matches[j].StartTime) {
			return matches[i].StartTime.Before(matches[j].StartTime)
		}
		return matches[i].ID < matches[j].ID
	})

	return matches, nil
}

// monday is 2025-03-10, a Monday.
var monday = time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)

func newTestPlanner(t *testing.T, store ShiftStore, personID int64) *Planner {
	t.Helper()
	p := NewPlanner(store, nil, monday)
	if _, err := p.SelectPerson(context.Background(), personID); err != nil {
		t.Fatalf("SelectPerson: %v", err)
	}
	return p
}

func TestStartOfWeek(t *testing.T) {
	cases := map[time.Time]time.Time{
		monday: monday,
		time.Date(2025, time.March, 12, 15, 30, 0, 0, time.UTC): monday, // Wednesday
		time.Date(2025, time.March, 16, 23, 59, 0, 0, time.UTC): monday, // Sunday
		time.Date(2025, time.March, 17, 0, 0, 0, 0, time.UTC):   monday.AddDate(0, 0, 7),
	}
	for in, want := range cases {
		if got := StartOfWeek(in); !got.Equal(want) {
			t.Fatalf("StartOfWeek(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestSaveWithoutPersonMakesNoCalls(t *testing.T) {
	store := newFakeStore()
	p := NewPlanner(store, nil, monday)
	p.SetDay(0, domain.ShiftMorning8h)

	_, err := p.Save(context.Background())
	if !errors.Is(err, ErrNoPersonSelected) {
		t.Fatalf("expected ErrNoPersonSelected, got %v", err)
	}
	if len(store.calls) != 0 {
		t.Fatalf("expected no store calls, got %v", store.calls)
	}
}

func TestSaveEmptyGridMakesNoCalls(t *testing.T) {
	store := newFakeStore()
	p := newTestPlanner(t, store, 7)
	store.calls = nil // drop the populate list call

	_, err := p.Save(context.Background())
	if !errors.Is(err, ErrNothingToSave) {
		t.Fatalf("expected ErrNothingToSave, got %v", err)
	}
	if len(store.calls) != 0 {
		t.Fatalf("expected no store calls, got %v", store.calls)
	}

	var validationErr ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected a ValidationError, got %T", err)
	}
}

func TestSaveMorningShift(t *testing.T) {
	store := newFakeStore()
	p := newTestPlanner(t, store, 7)
	p.SetDay(0, domain.ShiftMorning8h) // Monday

	result, err := p.Save(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if result.Created != 1 || result.Failed != 0 {
		t.Fatalf("expected 1 created / 0 failed, got %d/%d", result.Created, result.Failed)
	}
	if result.Outcome() != SaveSucceeded {
		t.Fatalf("expected SaveSucceeded, got %v", result.Outcome())
	}

	if len(store.records) != 1 {
		t.Fatalf("expected one stored record, got %d", len(store.records))
	}
	for _, record := range store.records {
		if record.UserID != 7 {
			t.Fatalf("expected userId 7, got %d", record.UserID)
		}
		if record.Status != domain.StatusScheduled {
			t.Fatalf("expected status scheduled, got %s", record.Status)
		}
		if record.ShiftType == nil || *record.ShiftType != domain.ShiftMorning8h {
			t.Fatalf("expected shiftType morning_8h, got %v", record.ShiftType)
		}
		if record.AbsenceType != nil {
			t.Fatal("absenceType must be nil")
		}
		wantStart := time.Date(2025, time.March, 10, 6, 0, 0, 0, time.UTC)
		wantEnd := time.Date(2025, time.March, 10, 14, 0, 0, 0, time.UTC)
		if !record.StartTime.Equal(wantStart) || !record.EndTime.Equal(wantEnd) {
			t.Fatalf("expected %v-%v, got %v-%v", wantStart, wantEnd, record.StartTime, record.EndTime)
		}
	}
}

func TestSaveNightShiftEndsNextDay(t *testing.T) {
	store := newFakeStore()
	p := newTestPlanner(t, store, 7)
	p.SetDay(1, domain.ShiftNight12h) // Tuesday

	if _, err := p.Save(context.Background()); err != nil {
		t.Fatal(err)
	}

	for _, record := range store.records {
		wantStart := time.Date(2025, time.March, 11, 18, 0, 0, 0, time.UTC)
		wantEnd := time.Date(2025, time.March, 12, 6, 0, 0, 0, time.UTC)
		if !record.StartTime.Equal(wantStart) || !record.EndTime.Equal(wantEnd) {
			t.Fatalf("expected %v-%v, got %v-%v", wantStart, wantEnd, record.StartTime, record.EndTime)
		}
	}
}

func TestSaveAbsenceSpansFullDay(t *testing.T) {
	store := newFakeStore()
	p := newTestPlanner(t, store, 7)
	p.SetDay(2, domain.AbsenceVacation) // Wednesday

	if _, err := p.Save(context.Background()); err != nil {
		t.Fatal(err)
	}

	for _, record := range store.records {
		if record.Status != domain.StatusAbsence {
			t.Fatalf("expected status absence, got %s", record.Status)
		}
		if record.AbsenceType == nil || *record.AbsenceType != domain.AbsenceVacation {
			t.Fatalf("expected absenceType vacation, got %v", record.AbsenceType)
		}
		if record.ShiftType != nil {
			t.Fatal("shiftType must be nil")
		}
		wantStart := time.Date(2025, time.March, 12, 0, 0, 0, 0, time.UTC)
		wantEnd := time.Date(2025, time.March, 12, 23, 59, 59, 0, time.UTC)
		if !record.StartTime.Equal(wantStart) || !record.EndTime.Equal(wantEnd) {
			t.Fatalf("expected %v-%v, got %v-%v", wantStart, wantEnd, record.StartTime, record.EndTime)
		}
	}
}

func TestSaveReplacesStaleRecordDeleteFirst(t *testing.T) {
	store := newFakeStore()
	stale, _ := domain.NewShiftPayload(7, monday, domain.ShiftMorning8h)
	stale.ID = 42
	store.records[42] = stale
	store.nextID = 42

	p := newTestPlanner(t, store, 7)
	p.SetDay(0, domain.ShiftAfternoon8h)
	store.calls = nil

	result, err := p.Save(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if result.Created != 1 {
		t.Fatalf("expected 1 created, got %d", result.Created)
	}

	if len(store.calls) < 2 || store.calls[0] != "delete 42" || store.calls[1] != "create 2025-03-10" {
		t.Fatalf("expected delete 42 then create, got %v", store.calls)
	}

	records, _ := store.List(context.Background(), domain.ShiftFilter{UserID: 7})
	if len(records) != 1 {
		t.Fatalf("expected exactly one record after the replacement, got %d", len(records))
	}
	if *records[0].ShiftType != domain.ShiftAfternoon8h {
		t.Fatalf("expected the afternoon shift to survive, got %v", *records[0].ShiftType)
	}
}

func TestSaveFailedDeleteStillCreates(t *testing.T) {
	store := newFakeStore()
	stale, _ := domain.NewShiftPayload(7, monday, domain.ShiftMorning8h)
	stale.ID = 42
	store.records[42] = stale
	store.nextID = 42

	p := newTestPlanner(t, store, 7)
	p.SetDay(0, domain.ShiftAfternoon8h)
	store.deleteErr = errors.New("boom")

	result, err := p.Save(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if result.Created != 1 || result.Failed != 0 {
		t.Fatalf("expected the create to proceed, got %d/%d", result.Created, result.Failed)
	}
	if result.Days[0].StaleDeleteErr == nil {
		t.Fatal("expected the delete failure on the day outcome")
	}
}

func TestSaveIsSequentialAndBestEffort(t *testing.T) {
	store := newFakeStore()
	store.failCreate = map[int]error{2: errors.New("boom")}

	p := newTestPlanner(t, store, 7)
	p.SetDay(0, domain.ShiftMorning8h)
	p.SetDay(1, domain.ShiftNight12h)
	p.SetDay(2, domain.AbsenceRest)
	store.calls = nil

	result, err := p.Save(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if result.Created != 2 || result.Failed != 1 {
		t.Fatalf("expected 2 created / 1 failed, got %d/%d", result.Created, result.Failed)
	}
	if result.Outcome() != SavePartial {
		t.Fatalf("expected SavePartial, got %v", result.Outcome())
	}

	// day 3 must still have been attempted after day 2 failed
	wantCalls := []string{"create 2025-03-10", "create 2025-03-11", "create 2025-03-12"}
	for i, want := range wantCalls {
		if store.calls[i] != want {
			t.Fatalf("call %d: expected %q, got %v", i, want, store.calls)
		}
	}

	if result.Days[1].Err == nil {
		t.Fatal("expected the failure on the second day's outcome")
	}
	if result.Days[0].Err != nil || result.Days[2].Err != nil {
		t.Fatal("the first and third day must have succeeded")
	}
}

func TestSaveAllFailedOutcome(t *testing.T) {
	store := newFakeStore()
	store.failCreate = map[int]error{1: errors.New("boom"), 2: errors.New("boom")}

	p := newTestPlanner(t, store, 7)
	p.SetDay(0, domain.ShiftMorning8h)
	p.SetDay(4, domain.AbsenceSickLeave)

	result, err := p.Save(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if result.Outcome() != SaveAllFailed {
		t.Fatalf("expected SaveAllFailed, got %v", result.Outcome())
	}
}

func TestSaveLeavesAtMostOneRecordPerDay(t *testing.T) {
	store := newFakeStore()
	p := newTestPlanner(t, store, 7)

	p.SetDay(0, domain.ShiftMorning8h)
	p.SetDay(1, domain.ShiftAfternoon8h)
	p.SetDay(2, domain.AbsenceVacation)
	if _, err := p.Save(context.Background()); err != nil {
		t.Fatal(err)
	}

	// resave the same week with different assignments
	p.SetDay(0, domain.ShiftNight12h)
	p.SetDay(1, domain.AbsenceRest)
	if _, err := p.Save(context.Background()); err != nil {
		t.Fatal(err)
	}

	records, err := store.List(context.Background(), domain.ShiftFilter{
		StartDate: monday,
		EndDate:   monday.AddDate(0, 0, 7),
		UserID:    7,
	})
	if err != nil {
		t.Fatal(err)
	}

	perDay := map[string]int{}
	for _, record := range records {
		perDay[record.StartTime.Format(time.DateOnly)]++
	}
	for day, count := range perDay {
		if count > 1 {
			t.Fatalf("day %s has %d records", day, count)
		}
	}
}

func TestSaveRefreshesGridFromStore(t *testing.T) {
	store := newFakeStore()
	p := newTestPlanner(t, store, 7)
	p.SetDay(3, domain.ShiftMorning12h)

	if _, err := p.Save(context.Background()); err != nil {
		t.Fatal(err)
	}

	if p.Assignment(3) != domain.ShiftMorning12h {
		t.Fatalf("expected the grid to reflect the stored record, got %v", p.Assignment(3))
	}
	if discarded, err := p.NavigateWeek(context.Background(), 1); err != nil || discarded != 0 {
		t.Fatalf("expected nothing unsaved after a save, got discarded=%d err=%v", discarded, err)
	}
}
