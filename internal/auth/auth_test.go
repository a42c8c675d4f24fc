package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nestegg-dev/nestegg/internal/auth"
)

func TestTokens(t *testing.T) {
	tokens := auth.New("test-secret", 24*time.Hour)
	userID := uuid.New()

	t.Run("RoundTrip", func(t *testing.T) {
		signed, expiresIn, err := tokens.Issue(userID, time.Now())
		require.NoError(t, err)

		assert.Equal(t, 86400, expiresIn)

		got, err := tokens.Verify(signed)
		require.NoError(t, err)
		assert.Equal(t, userID, got)
	})

	t.Run("Expired", func(t *testing.T) {
		signed, _, err := tokens.Issue(userID, time.Now().Add(-48*time.Hour))
		require.NoError(t, err)

		_, err = tokens.Verify(signed)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		signed, _, err := auth.New("other-secret", 24*time.Hour).Issue(userID, time.Now())
		require.NoError(t, err)

		_, err = tokens.Verify(signed)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := tokens.Verify("not.a.token")
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("RejectsUnsignedToken", func(t *testing.T) {
		claims := jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}

		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = tokens.Verify(unsigned)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("RejectsNonUUIDSubject", func(t *testing.T) {
		claims := jwt.RegisteredClaims{
			Subject:   "franklin",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}

		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, err = tokens.Verify(signed)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}

func TestMiddleware(t *testing.T) {
	tokens := auth.New("test-secret", time.Hour)
	userID := uuid.New()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok := auth.UserID(r.Context())
		require.True(t, ok)
		assert.Equal(t, userID, got)

		w.WriteHeader(http.StatusNoContent)
	})

	handler := auth.Middleware(tokens)(next)

	t.Run("ValidToken", func(t *testing.T) {
		signed, _, err := tokens.Issue(userID, time.Now())
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+signed)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("MissingHeader", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("NotBearer", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("BadToken", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer nope")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
