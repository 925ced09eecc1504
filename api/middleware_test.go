package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Domenick1991/roomstay/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret, subject, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, actorClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestActorAuth(t *testing.T) {
	testCases := []struct {
		name       string
		header     string
		wantStatus int
		wantActor  *domain.Actor
	}{
		{
			name:       "valid guest token",
			header:     "Bearer " + signToken(t, testSecret, "7", "guest"),
			wantStatus: http.StatusOK,
			wantActor:  &domain.Actor{ID: 7, Role: domain.RoleGuest},
		},
		{
			name:       "valid tenant token",
			header:     "Bearer " + signToken(t, testSecret, "3", "tenant"),
			wantStatus: http.StatusOK,
			wantActor:  &domain.Actor{ID: 3, Role: domain.RoleTenant},
		},
		{
			name:       "missing header",
			header:     "",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong secret",
			header:     "Bearer " + signToken(t, "other-secret", "7", "guest"),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "non-numeric subject",
			header:     "Bearer " + signToken(t, testSecret, "seven", "guest"),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "unknown role",
			header:     "Bearer " + signToken(t, testSecret, "7", "admin"),
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("GET", "/bookings", nil)
			if tc.header != "" {
				c.Request.Header.Set("Authorization", tc.header)
			}

			ActorAuth(testSecret)(c)

			if tc.wantStatus != http.StatusOK {
				assert.Equal(t, tc.wantStatus, w.Code)
				assert.True(t, c.IsAborted())
				return
			}

			assert.False(t, c.IsAborted())
			actor, ok := actorFrom(c)
			require.True(t, ok)
			assert.Equal(t, *tc.wantActor, actor)
		})
	}
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("matching role passes", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest("GET", "/tenant/orders", nil)
		c.Set(actorContextKey, tenantActor())

		RequireRole(domain.RoleTenant)(c)

		assert.False(t, c.IsAborted())
	})

	t.Run("other role is rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest("GET", "/tenant/orders", nil)
		c.Set(actorContextKey, guestActor())

		RequireRole(domain.RoleTenant)(c)

		assert.True(t, c.IsAborted())
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
