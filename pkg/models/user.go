package models

// User is the schema for the "user" collection. No endpoint exposes it
// yet; it is part of the schema set for the store.
type User struct {
	Name     string  `json:"name" validate:"required"`
	Email    string  `json:"email" validate:"required"`
	Address  *string `json:"address"`
	Phone    *string `json:"phone"`
	IsActive *bool   `json:"is_active"`
}

// Normalize resolves the is_active default of true.
func (u *User) Normalize() {
	if u.IsActive == nil {
		active := true
		u.IsActive = &active
	}
}
