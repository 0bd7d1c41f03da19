package entity

import (
	"time"

	"github.com/google/uuid"
)

type ClassStatus string

const (
	ClassStatusOpen   ClassStatus = "open"
	ClassStatusClosed ClassStatus = "closed"
)

type Class struct {
	Base
	Name      string      `db:"name"`
	TrainerID *uuid.UUID  `db:"trainer_id"`
	Capacity  int         `db:"capacity"`
	Price     float64     `db:"price"`
	Status    ClassStatus `db:"status"`
	StartDate time.Time   `db:"start_date"`
	EndDate   time.Time   `db:"end_date"`
}
