package request

type PaginatedRequest struct {
	Page    int `json:"page" validate:"min=1"`
	PerPage int `json:"per_page" validate:"min=1,max=100"`
}

func (r *PaginatedRequest) Limit() int {
	return r.PerPage
}

func (r *PaginatedRequest) Offset() int {
	return (r.Page - 1) * r.PerPage
}
