package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeData(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	data, _ := body["data"].(map[string]interface{})
	return data
}

func TestHandleLogin(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedStatus int
	}{
		{name: "invalid body", body: `{`, expectedStatus: http.StatusBadRequest},
		{name: "missing password", body: `{"email_or_login":"janedoe"}`, expectedStatus: http.StatusBadRequest},
		{name: "wrong password", body: `{"email_or_login":"janedoe","password":"nope"}`, expectedStatus: http.StatusUnauthorized},
		{name: "success", body: `{"email_or_login":"janedoe","password":"password123"}`, expectedStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			handler := NewHandler(env.service)
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString(tt.body))
			rr := httptest.NewRecorder()

			handler.HandleLogin(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.NotEmpty(t, decodeData(t, rr)["access_token"])
				cookies := rr.Result().Cookies()
				require.Len(t, cookies, 1)
				assert.Equal(t, refreshTokenCookie, cookies[0].Name)
				assert.True(t, cookies[0].HttpOnly)
			}
		})
	}
}

func TestHandleLogin_TwoFactorFlow(t *testing.T) {
	env := newTestEnv(t)
	secret := env.enableTOTP(t)
	handler := NewHandler(env.service)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		bytes.NewBufferString(`{"email_or_login":"janedoe","password":"password123"}`))
	rr := httptest.NewRecorder()
	handler.HandleLogin(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	data := decodeData(t, rr)
	sessionToken, _ := data["session_token"].(string)
	require.NotEmpty(t, sessionToken)
	assert.Equal(t, google2FAAuthMethod, data["2fa_auth_method"])
	assert.Empty(t, rr.Result().Cookies())

	code, err := totp.GenerateCode(secret, time.Now())
	require.NoError(t, err)
	body, err := json.Marshal(map[string]string{"session_token": sessionToken, "code": code})
	require.NoError(t, err)

	rr = httptest.NewRecorder()
	handler.HandleVerifyTwoFactor(rr, httptest.NewRequest(http.MethodPost, "/api/auth/2fa/verify", bytes.NewReader(body)))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, decodeData(t, rr)["access_token"])
}

func TestHandleRegisterTwoFactor_Unauthorized(t *testing.T) {
	env := newTestEnv(t)
	handler := NewHandler(env.service)

	req := httptest.NewRequest(http.MethodPost, "/api/protected/2fa/register",
		bytes.NewBufferString(`{"method":"google_authenticator"}`))
	rr := httptest.NewRecorder()
	handler.HandleRegisterTwoFactor(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestHandleRegisterTwoFactor(t *testing.T) {
	env := newTestEnv(t)
	handler := NewHandler(env.service)

	req := httptest.NewRequest(http.MethodPost, "/api/protected/2fa/register",
		bytes.NewBufferString(`{"method":"google_authenticator"}`))
	req = req.WithContext(WithUserID(req.Context(), env.user.ID))
	rr := httptest.NewRecorder()
	handler.HandleRegisterTwoFactor(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, decodeData(t, rr)["otp_uri"], "otpauth://totp/")
}

func TestHandleLogout(t *testing.T) {
	handler := NewHandler(newTestEnv(t).service)
	rr := httptest.NewRecorder()

	handler.HandleLogout(rr, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
}
