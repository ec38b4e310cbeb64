package dto

import "github.com/neonnumbers/ms-go-auth/app/entity"

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
	User         *entity.AuthenticatedUser
}
