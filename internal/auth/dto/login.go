package dto

type LoginInput struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}
