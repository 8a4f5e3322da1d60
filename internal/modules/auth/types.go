package auth

import (
	"errors"
	"time"

	"github.com/aicody-snippets/core/internal/models"
)

var (
	errUserNotFound  = errors.New("user not found")
	errWrongPassword = errors.New("wrong password")
	errUsernameTaken = errors.New("username already registered")
	errEmailTaken    = errors.New("email already registered")
)

type RegisterDTO struct {
	Username string `json:"username" binding:"required,min=3,max=30"`
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginDTO struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// authResponse is the login/register payload the SPA persists: the user's
// public profile plus a bearer token.
type authResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"createdAt"`
}

func toAuthResponse(u *models.UserModel, token string) authResponse {
	return authResponse{
		ID:        u.ID.Hex(),
		Username:  u.Username,
		Email:     u.Email,
		Token:     token,
		CreatedAt: u.CreatedAt,
	}
}
