package http

import "github.com/neonnumbers/ms-go-auth/app/entity"

type RegisterResponse struct {
	User    *entity.AuthenticatedUser `json:"user"`
	Message string                    `json:"message"`
}

type LoginResponse struct {
	AccessToken  string                    `json:"access_token"`
	RefreshToken string                    `json:"refresh_token"`
	ExpiresIn    int64                     `json:"expires_in"`
	User         *entity.AuthenticatedUser `json:"user"`
}

type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type MeResponse struct {
	User *entity.AuthenticatedUser `json:"user"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
