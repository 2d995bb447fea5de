package dto

type ChirpRequest struct {
	Message string `json:"message"`
}

type Author struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type ChirpResponse struct {
	ID        uint   `json:"id"`
	Message   string `json:"message"`
	Author    Author `json:"author"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

type DeleteChirpResponse struct {
	ID uint `json:"id"`
}
