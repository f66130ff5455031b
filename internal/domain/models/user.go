package models

// User is a synthetic person from the random-user provider.
type User struct {
	ID      string `json:"id" validate:"required,uuid"`
	Name    string `json:"name" validate:"required,min=2"`
	Email   string `json:"email" validate:"required,email"`
	Picture string `json:"picture" validate:"omitempty,url"`
}

func (u User) Validate() error {
	return validateStruct(u)
}
