package request

type CreateRegistrationRequest struct {
	Kind      string  `json:"kind" validate:"required,oneof=package class"`
	PackageID *string `json:"package_id,omitempty" validate:"omitempty,uuid4"`
	ClassID   *string `json:"class_id,omitempty" validate:"omitempty,uuid4"`
	StartDate string  `json:"start_date" validate:"required,datetime=2006-01-02"`
}

type CancelRegistrationRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=255"`
}
