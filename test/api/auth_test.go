package api_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	resp := makeRequest("POST", "/auth/register", map[string]string{
		"email":    doctorEmail,
		"name":     "Another Doctor",
		"password": testPassword,
		"role":     "doctor",
	}, "")

	assert.False(t, resp.IsSuccess())
}

func TestRegisterRejectsAdminRole(t *testing.T) {
	resp := makeRequest("POST", "/auth/register", map[string]string{
		"email":    fmt.Sprintf("admin_%d@example.com", time.Now().UnixNano()),
		"name":     "Self-Made Admin",
		"password": testPassword,
		"role":     "admin",
	}, "")

	assert.False(t, resp.IsSuccess())
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	resp := makeRequest("POST", "/auth/login", map[string]string{
		"email":    doctorEmail,
		"password": "not-the-password",
	}, "")

	assert.False(t, resp.IsSuccess())
}

func TestRefreshTokenFlow(t *testing.T) {
	loginResp := makeRequest("POST", "/auth/login", map[string]string{
		"email":    patientEmail,
		"password": testPassword,
	}, "")
	assert.True(t, loginResp.IsSuccess())

	refreshToken := loginResp.GetString("refresh_token")
	assert.NotEmpty(t, refreshToken)

	refreshResp := makeRequest("POST", "/auth/refresh", map[string]string{
		"refresh_token": refreshToken,
	}, "")
	assert.True(t, refreshResp.IsSuccess())
	assert.NotEmpty(t, refreshResp.GetString("access_token"))
}

func TestProtectedRouteRequiresToken(t *testing.T) {
	resp := makeRequest("GET", "/patients/me", nil, "")
	assert.False(t, resp.IsSuccess())
}
