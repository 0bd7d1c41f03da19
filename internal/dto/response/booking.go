package response

import (
	"time"

	"gym-booking/internal/data/entity"
)

type BookingResponse struct {
	ID        string               `json:"id"`
	MemberID  string               `json:"member_id"`
	ClassID   string               `json:"class_id"`
	ClassName string               `json:"class_name,omitempty"`
	Date      string               `json:"date"`
	Status    entity.BookingStatus `json:"status"`
	CreatedAt time.Time            `json:"created_at"`
}

func BookingToResponse(booking *entity.Booking, className string) BookingResponse {
	return BookingResponse{
		ID:        booking.ID.String(),
		MemberID:  booking.MemberID.String(),
		ClassID:   booking.ClassID.String(),
		ClassName: className,
		Date:      booking.Date.Format("2006-01-02"),
		Status:    booking.Status,
		CreatedAt: booking.CreatedAt,
	}
}
