package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/vigilia/patrol-ops/internal/domain"
)

// publishNotice sends a NOTIFICATION message to the queue consumed by the
// notifier worker.
func (h *Handler) publishNotice(payload domain.NoticePayload) error {
	message, err := domain.NewMessage(domain.TypeNotification, payload)
	if err != nil {
		return err
	}

	body, err := json.Marshal(message)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	return h.notifyChannel.PublishWithContext(
		ctx,
		"",
		h.config.RabbitMQ.Queue,
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

// notifyShiftChange informs the assigned person about a created or deleted
// shift record. Best effort: a queue failure must not fail the shift call
// itself, so it is only logged.
func (h *Handler) notifyShiftChange(event domain.NoticeEvent, record *domain.ShiftRecord) {
	user, err := h.repository.GetUserByID(record.UserID)
	if err != nil {
		slog.Warn("cannot resolve user for shift notice", "userID", record.UserID, "error", err)
		return
	}

	label := ""
	switch a := record.Assignment().(type) {
	case domain.ShiftType:
		label = a.Label()
	case domain.AbsenceType:
		label = a.Label()
	}

	if err := h.publishNotice(domain.NoticePayload{
		Event:     event,
		To:        user.Email,
		FullName:  user.FullName,
		Label:     label,
		StartTime: record.StartTime,
		EndTime:   record.EndTime,
	}); err != nil {
		slog.Warn("cannot publish shift notice", "event", event, "userID", record.UserID, "error", err)
	}
}
