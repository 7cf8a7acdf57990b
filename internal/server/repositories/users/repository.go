package users

import (
	"context"

	"github.com/dmitrijs2005/filereview/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	// Exists matches on username, or on username OR email when email != "".
	Exists(ctx context.Context, username, email string) (bool, error)
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}
