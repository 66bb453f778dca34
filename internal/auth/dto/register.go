package dto

type RegisterInput struct {
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email,max=255"`
	Phone     string `json:"phone" validate:"required,max=32"`
	School    string `json:"school" validate:"required,max=255"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
}
