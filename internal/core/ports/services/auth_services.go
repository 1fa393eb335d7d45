package services

import (
	"context"
	"time"

	"github.com/diyaa-Iskandar/petotec-app/internal/core/domain"
)

// TokenSvcFacade issues the access tokens the HTTP adapter uses to carry the
// authenticated actor identity and role into the core.
type TokenSvcFacade interface {
	// GenerateAccessToken creates a signed JWT for the user and returns it
	// with its expiry time.
	GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error)
}
