package repository

import (
	"context"
	"fmt"

	"gym-booking/internal/data/entity"
	"gym-booking/pkg/database"

	"go.uber.org/zap"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *entity.Notification) error
}

type notificationRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewNotificationRepository(db database.PgxIface, log *zap.Logger) NotificationRepository {
	return &notificationRepository{
		db:  db,
		log: log.With(zap.String("repository", "notification")),
	}
}

func (r *notificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	query := `
		INSERT INTO notifications (id, recipient_id, title, body, category, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		notification.ID,
		notification.RecipientID,
		notification.Title,
		notification.Body,
		notification.Category,
		notification.IsRead,
		notification.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create notification",
			zap.Error(err),
			zap.String("recipient_id", notification.RecipientID.String()),
			zap.String("category", string(notification.Category)),
		)
		return fmt.Errorf("create notification for %s: %w", notification.RecipientID.String(), err)
	}

	return nil
}
