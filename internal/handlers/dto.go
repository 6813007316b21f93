package handlers

import (
	"time"

	"habitq/internal/models"
)

// UserDTO is the public view of a user; secrets never leave the server.
type UserDTO struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt"`
}

func ToUserDTO(u models.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Email:     u.Email,
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
	}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Token string `json:"token"`
}

type habitRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Frequency   string `json:"frequency"`
}

type toggleRequest struct {
	HabitID   string `json:"habitId"`
	Date      string `json:"date"`
	Completed *bool  `json:"completed"`
}

type toggleDeleted struct {
	Success bool  `json:"success"`
	Deleted bool  `json:"deleted"`
	Removed int64 `json:"removed"`
}

type success struct {
	Success bool `json:"success"`
}
