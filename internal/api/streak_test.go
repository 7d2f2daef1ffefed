package api

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"wellness_tracker/internal/model"
	"wellness_tracker/internal/service"
	"wellness_tracker/internal/service/mocks"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCheckInHandler(t *testing.T) {
	tests := []struct {
		name       string
		caller     int64
		path       string
		mockSetup  func(ss *mocks.MockStreakService)
		wantStatus int
		check      func(t *testing.T, body []byte)
	}{
		{
			name:   "Streak increased with unlock",
			caller: 5,
			path:   "/api/v1/streak/5/checkin",
			mockSetup: func(ss *mocks.MockStreakService) {
				ss.On("CheckIn", mock.Anything, int64(5), mock.Anything).Return(&model.CheckInResult{
					Outcome:         model.CheckInIncreased,
					CurrentStreak:   7,
					LongestStreak:   7,
					StreakIncreased: true,
					Unlocked:        []model.AchievementType{model.SevenDaysJourney},
				}, nil)
			},
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var resp CheckInResponse
				require.NoError(t, json.Unmarshal(body, &resp))
				assert.Equal(t, "increased", resp.Outcome)
				assert.Equal(t, 7, resp.CurrentStreak)
				assert.True(t, resp.StreakIncreased)
				assert.Equal(t, []string{"SEVEN_DAYS_JOURNEY"}, resp.Unlocked)
			},
		},
		{
			name:       "Other user's streak",
			caller:     5,
			path:       "/api/v1/streak/6/checkin",
			mockSetup:  func(ss *mocks.MockStreakService) {},
			wantStatus: http.StatusForbidden,
		},
		{
			name:   "Storage failure",
			caller: 5,
			path:   "/api/v1/streak/5/checkin",
			mockSetup: func(ss *mocks.MockStreakService) {
				ss.On("CheckIn", mock.Anything, int64(5), mock.Anything).Return(nil, errors.New("db down"))
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ss := new(mocks.MockStreakService)
			tt.mockSetup(ss)
			r := newTestRouter(t, func(g *gin.RouterGroup) {
				NewStreakRoutes(g, ss, testAuth, noLimit())
			})

			w := doRequest(r, http.MethodPost, tt.path, tt.caller, "")

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.check != nil {
				tt.check(t, w.Body.Bytes())
			}
			ss.AssertExpectations(t)
		})
	}
}

func TestGetStreakHandler(t *testing.T) {
	last := time.Date(2026, time.May, 3, 8, 0, 0, 0, time.UTC)

	ss := new(mocks.MockStreakService)
	ss.On("GetStreak", mock.Anything, int64(5), mock.Anything).Return(&model.StreakStatus{
		UserID:          5,
		CurrentStreak:   3,
		LongestStreak:   4,
		LastCheckIn:     last,
		NextCheckInAt:   last.Add(24 * time.Hour),
		StreakExpiresAt: last.Add(72 * time.Hour),
		CanCheckIn:      true,
	}, nil)
	ss.On("GetStreak", mock.Anything, int64(8), mock.Anything).Return(nil, service.ErrStreakNotFound)

	r := newTestRouter(t, func(g *gin.RouterGroup) {
		NewStreakRoutes(g, ss, testAuth, noLimit())
	})

	w := doRequest(r, http.MethodGet, "/api/v1/streak/5", 5, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp StreakResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.CurrentStreak)
	assert.True(t, resp.StreakExpiresAt.Equal(last.Add(72*time.Hour)))
	assert.True(t, resp.CanCheckIn)

	w = doRequest(r, http.MethodGet, "/api/v1/streak/8", 8, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
