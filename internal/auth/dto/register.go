package dto

type RegisterInput struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	School   string `json:"school"`
	Class    string `json:"class"`
	Address  string `json:"address"`
	Password string `json:"password"`
}
