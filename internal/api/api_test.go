package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"

	"wellness_tracker/internal/middleware"
	"wellness_tracker/pkg/auth"

	"github.com/gin-gonic/gin"
)

// testAuth skips signature checks so requests only need well-formed init data.
var testAuth = auth.NewTelegramAuth("test-token", true)

func authHeader(userID int64) string {
	v := url.Values{}
	v.Set("auth_date", "1760000000")
	v.Set("user", `{"id":`+strconv.FormatInt(userID, 10)+`,"username":"tester"}`)
	return "Telegram " + v.Encode()
}

func newTestRouter(t *testing.T, register func(g *gin.RouterGroup)) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	register(r.Group("/api/v1"))
	return r
}

func noLimit() *middleware.RateLimiter {
	return middleware.NewRateLimiter(middleware.RateLimitConfig{})
}

func doRequest(r http.Handler, method, path string, caller int64, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set("Authorization", authHeader(caller))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
