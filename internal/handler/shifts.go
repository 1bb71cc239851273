package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/vigilia/patrol-ops/internal/domain"
)

// ListShifts serves GET /api/shifts?startDate=<RFC3339>&endDate=<RFC3339>&userId=<id>.
// All filter parameters are optional; the date range matches by intersection.
func (h *Handler) ListShifts(w http.ResponseWriter, r *http.Request) {
	filter := domain.ShiftFilter{}
	query := r.URL.Query()

	if v := query.Get("startDate"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			h.plainError(w, http.StatusBadRequest, "invalid startDate")
			return
		}
		filter.StartDate = t
	}
	if v := query.Get("endDate"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			h.plainError(w, http.StatusBadRequest, "invalid endDate")
			return
		}
		filter.EndDate = t
	}
	if v := query.Get("userId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			h.plainError(w, http.StatusBadRequest, "invalid userId")
			return
		}
		filter.UserID = id
	}

	records, err := h.repository.ListShifts(filter)
	if err != nil {
		h.plainInternalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, records)
}

// CreateShift serves POST /api/shifts. The payload carries either a shift
// type or an absence type, never both; replacement of an existing day is the
// caller's delete-then-create sequence, there is no update.
func (h *Handler) CreateShift(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID      int64               `json:"userId" validate:"required"`
		StartTime   time.Time           `json:"startTime" validate:"required"`
		EndTime     time.Time           `json:"endTime" validate:"required"`
		Status      domain.ShiftStatus  `json:"status" validate:"required,oneof=scheduled absence"`
		ShiftType   *domain.ShiftType   `json:"shiftType" validate:"omitempty,oneof=morning_8h afternoon_8h night_12h morning_12h"`
		AbsenceType *domain.AbsenceType `json:"absenceType" validate:"omitempty,oneof=vacation sick_leave rest permission suspension"`
		Notes       *string             `json:"notes"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.plainError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.plainValidationError(w, err)
		return
	}

	record := &domain.ShiftRecord{
		UserID:      req.UserID,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Status:      req.Status,
		ShiftType:   req.ShiftType,
		AbsenceType: req.AbsenceType,
		Notes:       req.Notes,
	}

	if err := record.Validate(); err != nil {
		h.plainError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.repository.GetUserByID(record.UserID); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.plainError(w, http.StatusBadRequest, "unknown user")
		default:
			h.plainInternalServerError(w, r, err)
		}
		return
	}

	if err := h.repository.CreateShift(record); err != nil {
		h.plainInternalServerError(w, r, err)
		return
	}

	h.notifyShiftChange(domain.EventShiftCreated, record)

	h.writeJSON(w, r, http.StatusCreated, record)
}

// DeleteShift serves DELETE /api/shifts/{id}.
func (h *Handler) DeleteShift(w http.ResponseWriter, r *http.Request) {
	idParam := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil {
		h.plainError(w, http.StatusBadRequest, "invalid shift id")
		return
	}

	record, err := h.repository.GetShiftByID(id)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.plainError(w, http.StatusNotFound, "shift not found")
		default:
			h.plainInternalServerError(w, r, err)
		}
		return
	}

	if err := h.repository.DeleteShift(id); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.plainError(w, http.StatusNotFound, "shift not found")
		default:
			h.plainInternalServerError(w, r, err)
		}
		return
	}

	h.notifyShiftChange(domain.EventShiftDeleted, record)

	w.WriteHeader(http.StatusNoContent)
}

// GetUsersByRole serves GET /api/users/by-role/{role}, the roster behind the
// person selector of the scheduling views.
func (h *Handler) GetUsersByRole(w http.ResponseWriter, r *http.Request) {
	role := domain.Role(chi.URLParam(r, "role"))
	switch role {
	case domain.RoleOperator, domain.RoleSupervisor, domain.RoleAdministrator:
	default:
		h.plainError(w, http.StatusBadRequest, "unknown role")
		return
	}

	users, err := h.repository.GetUsersByRole(role)
	if err != nil {
		h.plainInternalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, users)
}
