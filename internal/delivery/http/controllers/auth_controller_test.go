package controllers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"refereehub/internal/delivery/http/helpers"
	"refereehub/internal/domain"
)

func TestAuthController_Login(t *testing.T) {
	svc := &fakeAuthService{
		login: func(email, password string) (string, *domain.User, error) {
			if email == "arbitro@example.com" && password == "secret-password" {
				return "jwt-token", &domain.User{ID: refereeID, Email: email, Role: domain.RoleReferee}, nil
			}
			return "", nil, domain.ErrInvalidCredentials
		},
	}
	c := NewAuthController(testLogger(), svc)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{name: "valid credentials", body: `{"email":"arbitro@example.com","password":"secret-password"}`, wantStatus: http.StatusOK},
		{name: "wrong password", body: `{"email":"arbitro@example.com","password":"nope"}`, wantStatus: http.StatusUnauthorized, wantCode: helpers.ErrCodeUnauthorized},
		{name: "invalid email", body: `{"email":"not-an-email","password":"x"}`, wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest},
		{name: "missing password", body: `{"email":"arbitro@example.com"}`, wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest},
		{name: "unknown field", body: `{"email":"arbitro@example.com","password":"x","role":"admin"}`, wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serve(t, "POST /auth/login", c.Login, nil, http.MethodPost, "/auth/login", tt.body)
			require.Equal(t, tt.wantStatus, rr.Code)
			var resp LoginResponse
			apiErr := decodeEnvelope(t, rr, &resp)
			if tt.wantCode != "" {
				require.NotNil(t, apiErr)
				assert.Equal(t, tt.wantCode, apiErr.Code)
				return
			}
			require.Nil(t, apiErr)
			assert.Equal(t, "jwt-token", resp.Token)
			assert.Equal(t, "Bearer", resp.TokenType)
			assert.Equal(t, refereeID, resp.User.ID)
		})
	}
}

func TestAuthController_Me(t *testing.T) {
	svc := &fakeAuthService{
		me: func(actor *domain.Actor) (*domain.User, error) {
			return &domain.User{ID: actor.UserID, Email: actor.Email}, nil
		},
	}
	c := NewAuthController(testLogger(), svc)

	rr := serve(t, "GET /me", c.Me, refereeActor, http.MethodGet, "/me", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var user domain.User
	require.Nil(t, decodeEnvelope(t, rr, &user))
	assert.Equal(t, refereeID, user.ID)

	rr = serve(t, "GET /me", c.Me, nil, http.MethodGet, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
