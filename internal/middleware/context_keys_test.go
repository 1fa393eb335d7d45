package middleware

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetUserIDFromCtx(t *testing.T) {
	ctx := context.WithValue(context.Background(), userIDKey, "user-1")

	userID, ok := GetUserIDFromCtx(ctx)
	assert.True(t, ok)
	assert.Equal(t, "user-1", userID)

	_, ok = GetUserIDFromCtx(context.Background())
	assert.False(t, ok)
}

func TestGetUserRoleFromCtx(t *testing.T) {
	ctx := context.WithValue(context.Background(), userRoleKey, "ADMIN")

	role, ok := GetUserRoleFromCtx(ctx)
	assert.True(t, ok)
	assert.Equal(t, "ADMIN", role)

	_, ok = GetUserRoleFromCtx(context.Background())
	assert.False(t, ok)
}
