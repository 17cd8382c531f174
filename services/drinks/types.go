package drinks

import "github.com/upb/coffee-shop/models"

// CreateDrinkRequest is the body accepted by POST /drinks
type CreateDrinkRequest struct {
	Title  string        `json:"title" validate:"required,max=80"`
	Recipe models.Recipe `json:"recipe" validate:"required,min=1,dive"`
}

// UpdateDrinkRequest is the body accepted by PATCH /drinks/{id}. Absent
// fields are left unchanged.
type UpdateDrinkRequest struct {
	Title  *string        `json:"title" validate:"omitempty,min=1,max=80"`
	Recipe *models.Recipe `json:"recipe" validate:"omitempty,min=1,dive"`
}

// Empty reports whether the request changes nothing
func (r UpdateDrinkRequest) Empty() bool {
	return r.Title == nil && r.Recipe == nil
}
