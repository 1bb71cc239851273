package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/vigilia/patrol-ops/internal/domain"
)

func (r *Repository) CreateShift(record *domain.ShiftRecord) error {
	query := `
		INSERT INTO shifts (user_id, start_time, end_time, status, shift_type, absence_type, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{record.UserID, record.StartTime, record.EndTime, record.Status, record.ShiftType, record.AbsenceType, record.Notes}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&record.ID, &record.CreatedAt, &record.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetShiftByID(id int64) (*domain.ShiftRecord, error) {
	query := `
		SELECT user_id, start_time, end_time, status, shift_type, absence_type, notes, created_at, version
		FROM shifts WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	record := &domain.ShiftRecord{
		ID: id,
	}

	dst := []any{&record.UserID, &record.StartTime, &record.EndTime, &record.Status, &record.ShiftType, &record.AbsenceType, &record.Notes, &record.CreatedAt, &record.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return record, nil
}

// ListShifts returns the records matching the filter ordered by start time.
// The date range matches by intersection, so an overnight shift that starts
// before the range but reaches into it is included.
func (r *Repository) ListShifts(filter domain.ShiftFilter) ([]*domain.ShiftRecord, error) {
	query := `
		SELECT id, user_id, start_time, end_time, status, shift_type, absence_type, notes, created_at, version
		FROM shifts
		WHERE ($1::bigint = 0 OR user_id = $1)
		  AND ($2::timestamptz IS NULL OR end_time >= $2)
		  AND ($3::timestamptz IS NULL OR start_time <= $3)
		ORDER BY start_time, id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	var startDate, endDate *time.Time
	if !filter.StartDate.IsZero() {
		startDate = &filter.StartDate
	}
	if !filter.EndDate.IsZero() {
		endDate = &filter.EndDate
	}

	rows, err := r.dbpool.QueryContext(ctx, query, filter.UserID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]*domain.ShiftRecord, 0)
	for rows.Next() {
		record := &domain.ShiftRecord{}
		dst := []any{&record.ID, &record.UserID, &record.StartTime, &record.EndTime, &record.Status, &record.ShiftType, &record.AbsenceType, &record.Notes, &record.CreatedAt, &record.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

func (r *Repository) DeleteShift(id int64) error {
	query := `
		DELETE FROM shifts WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	result, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}
