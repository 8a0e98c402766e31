//go:build unit

package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Validation("bad"), http.StatusBadRequest},
		{Conflict("Username already exists"), http.StatusBadRequest},
		{Authentication("Invalid username or password"), http.StatusUnauthorized},
		{Unauthenticated("Authentication required"), http.StatusUnauthorized},
		{Forbidden("Admin access required"), http.StatusForbidden},
		{NotFound("Car not found"), http.StatusNotFound},
		{Internal("boom", errors.New("io")), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, HTTPStatus(tc.err), tc.err.Error())
	}
}

func TestErrorsIsMatchesKind(t *testing.T) {
	err := fmt.Errorf("lookup: %w", NotFound("Video not found"))

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrForbidden))
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestUnauthenticatedAndForbiddenAreDistinct(t *testing.T) {
	assert.NotEqual(t, KindOf(Unauthenticated("x")), KindOf(Forbidden("x")))
	assert.NotEqual(t, HTTPStatus(Unauthenticated("x")), HTTPStatus(Forbidden("x")))
}

func TestMessageOfHidesInternalDetail(t *testing.T) {
	err := Internal("query cars", errors.New("connection refused"))

	assert.Equal(t, "Failed to fetch cars", MessageOf(err, "Failed to fetch cars"))
	assert.Equal(t, "Car not found", MessageOf(NotFound("Car not found"), "fallback"))
	assert.ErrorContains(t, err, "connection refused")
}
