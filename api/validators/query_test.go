package validators

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	pkgerrors "github.com/nmoralesdev/receiptdesk-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQueryInt(t *testing.T) {
	r := httptest.NewRequest("GET", "/items?limit=50", nil)
	got, err := ParseQueryInt(r, "limit", 25, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, 50, got)

	r = httptest.NewRequest("GET", "/items", nil)
	got, err = ParseQueryInt(r, "limit", 25, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, 25, got)

	r = httptest.NewRequest("GET", "/items?limit=abc", nil)
	_, err = ParseQueryInt(r, "limit", 25, 1, 100)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	r = httptest.NewRequest("GET", "/items?limit=5000", nil)
	_, err = ParseQueryInt(r, "limit", 25, 1, 100)
	require.Error(t, err)
}

func TestParseQueryDate(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	r := httptest.NewRequest("GET", "/reports?from=2026-03-14", nil)
	got, err := ParseQueryDate(r, "from", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, loc), got)

	r = httptest.NewRequest("GET", "/reports", nil)
	got, err = ParseQueryDate(r, "from", loc)
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	r = httptest.NewRequest("GET", "/reports?from=14-03-2026", nil)
	_, err = ParseQueryDate(r, "from", loc)
	require.Error(t, err)
}

func TestDecodeJSONBody(t *testing.T) {
	type payload struct {
		Name  string `json:"name" validate:"required"`
		Price string `json:"price" validate:"omitempty"`
	}

	r := httptest.NewRequest("POST", "/items", strings.NewReader(`{"name":"Apple"}`))
	var dest payload
	require.NoError(t, DecodeJSONBody(r, &dest))
	assert.Equal(t, "Apple", dest.Name)

	r = httptest.NewRequest("POST", "/items", strings.NewReader(`{"name":"Apple","extra":true}`))
	dest = payload{}
	err := DecodeJSONBody(r, &dest)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	r = httptest.NewRequest("POST", "/items", strings.NewReader(`{}`))
	dest = payload{}
	err = DecodeJSONBody(r, &dest)
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	details, ok := typed.Details().(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "is required", details["name"])
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "Apple", SanitizeString("  Apple  ", 0))
	assert.Equal(t, "App", SanitizeString("Apple", 3))
}
