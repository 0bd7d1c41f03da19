package repository

import (
	"context"
	"fmt"

	"gym-booking/internal/data/entity"
	"gym-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ClassRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Class, error)
}

type classRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewClassRepository(db database.PgxIface, log *zap.Logger) ClassRepository {
	return &classRepository{
		db:  db,
		log: log.With(zap.String("repository", "class")),
	}
}

func (r *classRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Class, error) {
	query := `
		SELECT id, name, trainer_id, capacity, price, status, start_date, end_date, created_at, updated_at
		FROM classes
		WHERE id = $1
	`

	var class entity.Class
	err := r.db.QueryRow(ctx, query, id).Scan(
		&class.ID,
		&class.Name,
		&class.TrainerID,
		&class.Capacity,
		&class.Price,
		&class.Status,
		&class.StartDate,
		&class.EndDate,
		&class.CreatedAt,
		&class.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find class by ID",
			zap.Error(err),
			zap.String("class_id", id.String()),
		)
		return nil, fmt.Errorf("find class by ID %s: %w", id.String(), err)
	}

	return &class, nil
}
