package dto

import model "task-manager.com/task-manager/internal/models"

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Data        *UserResponse `json:"data"`
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
}

func NewAuthResponse(user *model.User, token string) AuthResponse {
	return AuthResponse{
		Data:        NewUserResponse(user),
		AccessToken: token,
		TokenType:   "Bearer",
	}
}
