package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Relapt23/Refferal-system/config"
	"github.com/Relapt23/Refferal-system/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthTestRouter(jwtMgr *jwt.Manager) *gin.Engine {
	r := gin.New()
	r.GET("/protected", JWTAuth(jwtMgr), func(c *gin.Context) {
		email, _ := c.Get("email")
		c.JSON(http.StatusOK, gin.H{"email": email})
	})
	return r
}

func performWithHeader(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func detailOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("响应体不是合法 JSON: %v", err)
	}
	return body["detail"]
}

func TestJWTAuth_ValidToken(t *testing.T) {
	mgr := jwt.NewManager(&config.AuthConfig{
		JWTSecret: "test-secret-key-for-unit-testing-2026",
		TokenTTL:  time.Hour,
	})
	r := newAuthTestRouter(mgr)

	token, err := mgr.GenerateToken("user@test.com")
	if err != nil {
		t.Fatalf("签发 token 失败: %v", err)
	}

	w := performWithHeader(r, "Bearer "+token)

	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际=%d（body=%s）", w.Code, w.Body.String())
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("响应体不是合法 JSON: %v", err)
	}
	if body["email"] != "user@test.com" {
		t.Errorf("期望注入 email=user@test.com，实际=%s", body["email"])
	}
}

func TestJWTAuth_MissingHeader(t *testing.T) {
	mgr := jwt.NewManager(&config.AuthConfig{
		JWTSecret: "test-secret-key-for-unit-testing-2026",
		TokenTTL:  time.Hour,
	})
	r := newAuthTestRouter(mgr)

	w := performWithHeader(r, "")

	if w.Code != http.StatusUnauthorized {
		t.Errorf("期望 401，实际=%d", w.Code)
	}
	if got := detailOf(t, w); got != "missing_authorization_header" {
		t.Errorf("期望 detail=missing_authorization_header，实际=%s", got)
	}
}

func TestJWTAuth_MalformedHeader(t *testing.T) {
	mgr := jwt.NewManager(&config.AuthConfig{
		JWTSecret: "test-secret-key-for-unit-testing-2026",
		TokenTTL:  time.Hour,
	})
	r := newAuthTestRouter(mgr)

	w := performWithHeader(r, "Token abc123")

	if w.Code != http.StatusUnauthorized {
		t.Errorf("期望 401，实际=%d", w.Code)
	}
	if got := detailOf(t, w); got != "invalid_authorization_header" {
		t.Errorf("期望 detail=invalid_authorization_header，实际=%s", got)
	}
}

func TestJWTAuth_InvalidToken(t *testing.T) {
	mgr := jwt.NewManager(&config.AuthConfig{
		JWTSecret: "test-secret-key-for-unit-testing-2026",
		TokenTTL:  time.Hour,
	})
	r := newAuthTestRouter(mgr)

	w := performWithHeader(r, "Bearer garbage.token.value")

	if w.Code != http.StatusUnauthorized {
		t.Errorf("期望 401，实际=%d", w.Code)
	}
	if got := detailOf(t, w); got != "invalid_token" {
		t.Errorf("期望 detail=invalid_token，实际=%s", got)
	}
}

func TestJWTAuth_ExpiredToken(t *testing.T) {
	mgr := jwt.NewManager(&config.AuthConfig{
		JWTSecret: "test-secret-key-for-unit-testing-2026",
		TokenTTL:  time.Millisecond,
	})
	r := newAuthTestRouter(mgr)

	token, err := mgr.GenerateToken("user@test.com")
	if err != nil {
		t.Fatalf("签发 token 失败: %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	w := performWithHeader(r, "Bearer "+token)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("过期 token 期望 401，实际=%d", w.Code)
	}
}
