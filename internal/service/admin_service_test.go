package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"chowbot-be/internal/config"
	"chowbot-be/internal/dto"
)

func newAdminHarness(t *testing.T) (IAdminService, *fakeFactory) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("letmein"), bcrypt.MinCost)
	require.NoError(t, err)

	factory := newFakeFactory()
	svc := NewAdminService(factory, config.AdminConfig{
		Email:        "ops@example.com",
		PasswordHash: string(hash),
		JwtSecret:    "test-secret",
	}, nopLogger{})
	return svc, factory
}

func TestAdminLoginIssuesToken(t *testing.T) {
	svc, _ := newAdminHarness(t)

	res, err := svc.Login(context.Background(), &dto.AdminLoginRequest{
		Email:    "ops@example.com",
		Password: "letmein",
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.AccessToken)

	token, err := jwt.Parse(res.AccessToken, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	assert.True(t, token.Valid)

	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, "ops@example.com", claims["email"])
}

func TestAdminLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newAdminHarness(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, &dto.AdminLoginRequest{Email: "ops@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, &dto.AdminLoginRequest{Email: "intruder@example.com", Password: "letmein"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAdminListOrdersNewestFirst(t *testing.T) {
	svc, factory := newAdminHarness(t)
	ctx := context.Background()

	orderService := NewOrderService(factory, nil)
	first, err := orderService.AddItemToOrder(ctx, "s1", "d1", jollof(1))
	require.NoError(t, err)
	time.Sleep(time.Millisecond)
	second, err := orderService.AddItemToOrder(ctx, "s2", "d2", jollof(2))
	require.NoError(t, err)

	orders, total, err := svc.ListOrders(ctx, 10, 0)
	require.NoError(t, err)

	assert.Equal(t, int64(2), total)
	require.Len(t, orders, 2)
	assert.Equal(t, second.Id, orders[0].Id)
	assert.Equal(t, first.Id, orders[1].Id)
}
