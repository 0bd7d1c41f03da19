package request

type CreateBookingRequest struct {
	ClassID string `json:"class_id" validate:"required,uuid4"`
	Date    string `json:"date" validate:"required,datetime=2006-01-02"`
}
