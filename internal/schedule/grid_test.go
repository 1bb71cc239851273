package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/vigilia/patrol-ops/internal/domain"
)

func TestSelectPersonPopulatesFromStore(t *testing.T) {
	store := newFakeStore()
	mondayShift, _ := domain.NewShiftPayload(7, monday, domain.ShiftMorning8h)
	store.insert(mondayShift)
	wednesdayAbsence, _ := domain.NewShiftPayload(7, monday.AddDate(0, 0, 2), domain.AbsenceVacation)
	store.insert(wednesdayAbsence)
	otherUser, _ := domain.NewShiftPayload(9, monday, domain.ShiftNight12h)
	store.insert(otherUser)

	p := NewPlanner(store, nil, monday)
	if _, err := p.SelectPerson(context.Background(), 7); err != nil {
		t.Fatal(err)
	}

	if p.Assignment(0) != domain.ShiftMorning8h {
		t.Fatalf("expected morning_8h on Monday, got %v", p.Assignment(0))
	}
	if p.Assignment(2) != domain.AbsenceVacation {
		t.Fatalf("expected vacation on Wednesday, got %v", p.Assignment(2))
	}
	for _, day := range []int{1, 3, 4, 5, 6} {
		if p.Assignment(day) != nil {
			t.Fatalf("expected day %d to be empty, got %v", day, p.Assignment(day))
		}
	}
}

func TestSelectPersonFirstRecordWinsOnDuplicates(t *testing.T) {
	store := newFakeStore()
	first, _ := domain.NewShiftPayload(7, monday, domain.ShiftMorning8h)
	store.insert(first)
	second, _ := domain.NewShiftPayload(7, monday, domain.ShiftAfternoon8h)
	second.StartTime = second.StartTime.Add(time.Hour) // later on the same day
	store.insert(second)

	p := NewPlanner(store, nil, monday)
	if _, err := p.SelectPerson(context.Background(), 7); err != nil {
		t.Fatal(err)
	}

	if p.Assignment(0) != domain.ShiftMorning8h {
		t.Fatalf("expected the first record to win, got %v", p.Assignment(0))
	}
}

func TestSetDayOverwritesAndClears(t *testing.T) {
	p := NewPlanner(newFakeStore(), nil, monday)

	p.SetDay(4, domain.ShiftMorning8h)
	p.SetDay(4, domain.AbsencePermission)
	if p.Assignment(4) != domain.AbsencePermission {
		t.Fatalf("expected the later assignment to win, got %v", p.Assignment(4))
	}

	p.SetDay(4, nil)
	if p.Assignment(4) != nil {
		t.Fatalf("expected the day to be cleared, got %v", p.Assignment(4))
	}

	// out-of-range indexes are ignored
	p.SetDay(-1, domain.ShiftMorning8h)
	p.SetDay(7, domain.ShiftMorning8h)
	if p.Assignment(-1) != nil || p.Assignment(7) != nil {
		t.Fatal("out-of-range days must stay empty")
	}
}

func TestClearWeek(t *testing.T) {
	p := NewPlanner(newFakeStore(), nil, monday)
	p.SetDay(0, domain.ShiftMorning8h)
	p.SetDay(6, domain.AbsenceRest)

	p.ClearWeek()

	for day := 0; day < 7; day++ {
		if p.Assignment(day) != nil {
			t.Fatalf("expected day %d to be empty after ClearWeek", day)
		}
	}
}

func TestNavigateWeekMovesAndClears(t *testing.T) {
	store := newFakeStore()
	p := NewPlanner(store, nil, monday)
	if _, err := p.SelectPerson(context.Background(), 7); err != nil {
		t.Fatal(err)
	}
	p.SetDay(0, domain.ShiftMorning8h)
	p.SetDay(3, domain.AbsenceVacation)

	discarded, err := p.NavigateWeek(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if discarded != 2 {
		t.Fatalf("expected 2 discarded unsaved assignments, got %d", discarded)
	}
	if !p.WeekStart().Equal(monday.AddDate(0, 0, 7)) {
		t.Fatalf("expected week start %v, got %v", monday.AddDate(0, 0, 7), p.WeekStart())
	}
	for day := 0; day < 7; day++ {
		if p.Assignment(day) != nil {
			t.Fatalf("expected an empty grid after navigation, got %v on day %d", p.Assignment(day), day)
		}
	}

	discarded, err = p.NavigateWeek(context.Background(), -1)
	if err != nil {
		t.Fatal(err)
	}
	if discarded != 0 {
		t.Fatalf("expected nothing discarded on a clean grid, got %d", discarded)
	}
	if !p.WeekStart().Equal(monday) {
		t.Fatalf("expected week start back at %v, got %v", monday, p.WeekStart())
	}
}

func TestSwitchingPersonReportsDiscardedEdits(t *testing.T) {
	store := newFakeStore()
	p := NewPlanner(store, nil, monday)
	if _, err := p.SelectPerson(context.Background(), 7); err != nil {
		t.Fatal(err)
	}
	p.SetDay(2, domain.ShiftNight12h)

	discarded, err := p.SelectPerson(context.Background(), 9)
	if err != nil {
		t.Fatal(err)
	}
	if discarded != 1 {
		t.Fatalf("expected 1 discarded unsaved assignment, got %d", discarded)
	}
	if p.UserID() != 9 {
		t.Fatalf("expected the selection to move to user 9, got %d", p.UserID())
	}
}

func TestOvernightShiftKeepsItsStartDay(t *testing.T) {
	store := newFakeStore()
	// Sunday night shift of the displayed week, ending Monday of the next
	sundayNight, _ := domain.NewShiftPayload(7, monday.AddDate(0, 0, 6), domain.ShiftNight12h)
	store.insert(sundayNight)

	p := NewPlanner(store, nil, monday)
	if _, err := p.SelectPerson(context.Background(), 7); err != nil {
		t.Fatal(err)
	}

	if p.Assignment(6) != domain.ShiftNight12h {
		t.Fatalf("expected the night shift on Sunday, got %v", p.Assignment(6))
	}
}
