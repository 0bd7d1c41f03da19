package response

import (
	"time"

	"gym-booking/internal/data/entity"
)

type RegistrationResponse struct {
	ID           string                    `json:"id"`
	MemberID     string                    `json:"member_id"`
	PackageID    *string                   `json:"package_id,omitempty"`
	ClassID      *string                   `json:"class_id,omitempty"`
	Kind         entity.RegistrationKind   `json:"kind"`
	StartDate    string                    `json:"start_date"`
	EndDate      *string                   `json:"end_date,omitempty"`
	Status       entity.RegistrationStatus `json:"status"`
	StatusNote   string                    `json:"status_note,omitempty"`
	CancelReason *string                   `json:"cancel_reason,omitempty"`
	CreatedAt    time.Time                 `json:"created_at"`
}

func RegistrationToResponse(reg *entity.Registration) RegistrationResponse {
	resp := RegistrationResponse{
		ID:           reg.ID.String(),
		MemberID:     reg.MemberID.String(),
		Kind:         reg.Kind,
		StartDate:    reg.StartDate.Format("2006-01-02"),
		Status:       reg.Status,
		StatusNote:   reg.StatusNote,
		CancelReason: reg.CancelReason,
		CreatedAt:    reg.CreatedAt,
	}

	if reg.PackageID != nil {
		id := reg.PackageID.String()
		resp.PackageID = &id
	}
	if reg.ClassID != nil {
		id := reg.ClassID.String()
		resp.ClassID = &id
	}
	if reg.EndDate != nil {
		end := reg.EndDate.Format("2006-01-02")
		resp.EndDate = &end
	}

	return resp
}
