// Package report turns shift query results into structured report sheets.
// It is a pure transformation: the rows are plain values and writing them to
// a spreadsheet file is the caller's concern.
package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/vigilia/patrol-ops/internal/domain"
)

// Sheet is one tab of a generated report: a header row plus data rows, all
// string cells.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]string
}

var orderedShiftTypes = []domain.ShiftType{
	domain.ShiftMorning8h,
	domain.ShiftAfternoon8h,
	domain.ShiftMorning12h,
	domain.ShiftNight12h,
}

var orderedAbsenceTypes = []domain.AbsenceType{
	domain.AbsenceVacation,
	domain.AbsenceSickLeave,
	domain.AbsenceRest,
	domain.AbsencePermission,
	domain.AbsenceSuspension,
}

// Build produces the personnel activity report for a date range: worked hours
// per person and shift type, absence days per person and absence type, and
// per-day coverage. Records of users missing from the roster are counted
// under their numeric id.
func Build(users []*domain.User, records []*domain.ShiftRecord, from, to time.Time) []Sheet {
	return []Sheet{
		hoursSheet(users, records),
		absencesSheet(users, records),
		coverageSheet(records, from, to),
	}
}

func nameByUserID(users []*domain.User) map[int64]string {
	names := make(map[int64]string, len(users))
	for _, u := range users {
		names[u.ID] = u.FullName
	}
	return names
}

func displayName(names map[int64]string, id int64) string {
	if name, ok := names[id]; ok {
		return name
	}
	return fmt.Sprintf("user %d", id)
}

// sortedUserIDs returns the ids appearing in the tally, roster order first
// (as given), then unknown ids ascending.
func sortedUserIDs[T any](users []*domain.User, tally map[int64]T) []int64 {
	ids := make([]int64, 0, len(tally))
	seen := make(map[int64]bool, len(tally))
	for _, u := range users {
		if _, ok := tally[u.ID]; ok {
			ids = append(ids, u.ID)
			seen[u.ID] = true
		}
	}

	var unknown []int64
	for id := range tally {
		if !seen[id] {
			unknown = append(unknown, id)
		}
	}
	sort.Slice(unknown, func(i, j int) bool { return unknown[i] < unknown[j] })

	return append(ids, unknown...)
}

func hoursSheet(users []*domain.User, records []*domain.ShiftRecord) Sheet {
	type tally map[domain.ShiftType]float64
	hours := make(map[int64]tally)

	for _, r := range records {
		if r.Status != domain.StatusScheduled || r.ShiftType == nil {
			continue
		}
		if hours[r.UserID] == nil {
			hours[r.UserID] = tally{}
		}
		hours[r.UserID][*r.ShiftType] += r.EndTime.Sub(r.StartTime).Hours()
	}

	header := []string{"Person"}
	for _, st := range orderedShiftTypes {
		header = append(header, st.Label())
	}
	header = append(header, "Total hours")

	names := nameByUserID(users)
	sheet := Sheet{Name: "Worked hours", Header: header}
	for _, id := range sortedUserIDs(users, hours) {
		row := []string{displayName(names, id)}
		total := 0.0
		for _, st := range orderedShiftTypes {
			row = append(row, formatHours(hours[id][st]))
			total += hours[id][st]
		}
		row = append(row, formatHours(total))
		sheet.Rows = append(sheet.Rows, row)
	}

	return sheet
}

func absencesSheet(users []*domain.User, records []*domain.ShiftRecord) Sheet {
	type tally map[domain.AbsenceType]int
	days := make(map[int64]tally)

	for _, r := range records {
		if r.Status != domain.StatusAbsence || r.AbsenceType == nil {
			continue
		}
		if days[r.UserID] == nil {
			days[r.UserID] = tally{}
		}
		days[r.UserID][*r.AbsenceType]++
	}

	header := []string{"Person"}
	for _, at := range orderedAbsenceTypes {
		header = append(header, at.Label())
	}
	header = append(header, "Total days")

	names := nameByUserID(users)
	sheet := Sheet{Name: "Absences", Header: header}
	for _, id := range sortedUserIDs(users, days) {
		row := []string{displayName(names, id)}
		total := 0
		for _, at := range orderedAbsenceTypes {
			row = append(row, fmt.Sprintf("%d", days[id][at]))
			total += days[id][at]
		}
		row = append(row, fmt.Sprintf("%d", total))
		sheet.Rows = append(sheet.Rows, row)
	}

	return sheet
}

func coverageSheet(records []*domain.ShiftRecord, from, to time.Time) Sheet {
	sheet := Sheet{
		Name:   "Daily coverage",
		Header: []string{"Day", "On shift", "Absent"},
	}

	for day := truncateToDay(from); !day.After(to); day = day.AddDate(0, 0, 1) {
		onShift, absent := 0, 0
		for _, r := range records {
			if !sameDay(r.StartTime.In(day.Location()), day) {
				continue
			}
			switch r.Status {
			case domain.StatusScheduled:
				onShift++
			case domain.StatusAbsence:
				absent++
			}
		}
		sheet.Rows = append(sheet.Rows, []string{
			day.Format(time.DateOnly),
			fmt.Sprintf("%d", onShift),
			fmt.Sprintf("%d", absent),
		})
	}

	return sheet
}

func truncateToDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

func formatHours(h float64) string {
	return fmt.Sprintf("%g", h)
}
