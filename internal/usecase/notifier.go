package usecase

import (
	"context"
	"time"

	"gym-booking/internal/data/entity"
	"gym-booking/internal/data/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Notifier is the fire-and-forget side channel for payment and registration
// outcomes. Failures are logged and never propagate: a notification must not
// roll back or fail a committed transition.
type Notifier interface {
	Notify(recipientID uuid.UUID, title, body string, category entity.NotificationCategory)
	NotifyStaff(title, body string, category entity.NotificationCategory)
}

type notifier struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewNotifier(repo *repository.Repository, log *zap.Logger) Notifier {
	return &notifier{
		repo: repo,
		log:  log.With(zap.String("service", "notifier")),
	}
}

func (n *notifier) Notify(recipientID uuid.UUID, title, body string, category entity.NotificationCategory) {
	// Detached context: callers invoke this after commit and must not block
	// on the request lifecycle.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	notification := &entity.Notification{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		RecipientID: recipientID,
		Title:       title,
		Body:        body,
		Category:    category,
	}

	if err := n.repo.Notification.Create(ctx, notification); err != nil {
		n.log.Warn("Failed to deliver notification",
			zap.Error(err),
			zap.String("recipient_id", recipientID.String()),
			zap.String("title", title),
		)
	}
}

func (n *notifier) NotifyStaff(title, body string, category entity.NotificationCategory) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	staff, err := n.repo.Member.FindStaff(ctx)
	if err != nil {
		n.log.Warn("Failed to load staff for notification", zap.Error(err))
		return
	}

	for _, member := range staff {
		n.Notify(member.ID, title, body, category)
	}
}
