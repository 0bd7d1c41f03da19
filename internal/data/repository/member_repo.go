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

type MemberRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Member, error)
	FindStaff(ctx context.Context) ([]*entity.Member, error)
}

type memberRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewMemberRepository(db database.PgxIface, log *zap.Logger) MemberRepository {
	return &memberRepository{
		db:  db,
		log: log.With(zap.String("repository", "member")),
	}
}

func (r *memberRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Member, error) {
	query := `
		SELECT id, full_name, email, phone, role, is_active, created_at, updated_at
		FROM members
		WHERE id = $1
	`

	var member entity.Member
	err := r.db.QueryRow(ctx, query, id).Scan(
		&member.ID,
		&member.FullName,
		&member.Email,
		&member.Phone,
		&member.Role,
		&member.IsActive,
		&member.CreatedAt,
		&member.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find member by ID",
			zap.Error(err),
			zap.String("member_id", id.String()),
		)
		return nil, fmt.Errorf("find member by ID %s: %w", id.String(), err)
	}

	return &member, nil
}

// FindStaff returns the active admin accounts that receive payment notifications.
func (r *memberRepository) FindStaff(ctx context.Context) ([]*entity.Member, error) {
	query := `
		SELECT id, full_name, email, phone, role, is_active, created_at, updated_at
		FROM members
		WHERE role = 'admin' AND is_active = TRUE
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to find staff members", zap.Error(err))
		return nil, fmt.Errorf("find staff members: %w", err)
	}
	defer rows.Close()

	var members []*entity.Member
	for rows.Next() {
		var member entity.Member
		err := rows.Scan(
			&member.ID,
			&member.FullName,
			&member.Email,
			&member.Phone,
			&member.Role,
			&member.IsActive,
			&member.CreatedAt,
			&member.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan member row", zap.Error(err))
			return nil, fmt.Errorf("scan member row: %w", err)
		}
		members = append(members, &member)
	}

	return members, nil
}
