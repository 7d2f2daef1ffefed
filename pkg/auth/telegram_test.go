package auth

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initData(id string) string {
	v := url.Values{}
	v.Set("auth_date", "1760000000")
	v.Set("user", `{"id":`+id+`,"username":"calm_otter"}`)
	return v.Encode()
}

func TestExtractTelegramData(t *testing.T) {
	data, err := ExtractTelegramData(initData("42"))
	require.NoError(t, err)
	assert.Equal(t, int64(42), data.ID)
	assert.Equal(t, "calm_otter", data.Username)
	assert.Equal(t, int64(1760000000), data.AuthDate.Unix())

	_, err = ExtractTelegramData("auth_date=abc")
	assert.Error(t, err)
}

func TestTelegramAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		debug      bool
		header     string
		wantStatus int
	}{
		{"Missing header", true, "", http.StatusUnauthorized},
		{"Wrong scheme", true, "Bearer abc", http.StatusUnauthorized},
		{"Debug mode accepts unsigned data", true, "Telegram " + initData("7"), http.StatusOK},
		{"Unsigned data rejected", false, "Telegram " + initData("7"), http.StatusUnauthorized},
		{"Malformed user", true, "Telegram auth_date=1&user=nope", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(NewTelegramAuth("token", tt.debug).TelegramAuthMiddleware())
			r.GET("/", func(c *gin.Context) {
				user, ok := UserFromContext(c)
				require.True(t, ok)
				c.JSON(http.StatusOK, gin.H{"id": user.ID})
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
