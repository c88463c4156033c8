package pagination

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClamp(t *testing.T) {
	assert.Equal(t, DefaultLimit, Clamp(0))
	assert.Equal(t, DefaultLimit, Clamp(-5))
	assert.Equal(t, 10, Clamp(10))
	assert.Equal(t, MaxLimit, Clamp(5000))
}

func TestFetchSize(t *testing.T) {
	assert.Equal(t, DefaultLimit+1, FetchSize(0))
	assert.Equal(t, 11, FetchSize(10))
}

func TestCursorRoundTrip(t *testing.T) {
	want := Cursor{
		CreatedAt: time.Date(2026, 3, 14, 9, 26, 53, 589000000, time.UTC),
		ID:        uuid.New(),
	}

	got, err := Decode(Encode(want))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, want.CreatedAt.Equal(got.CreatedAt))
	assert.Equal(t, want.ID, got.ID)
}

func TestDecodeEmptyTokenMeansFirstPage(t *testing.T) {
	got, err := Decode("   ")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDecodeRejectsBadTokens(t *testing.T) {
	for _, token := range []string{"%%%", "bm90LWEtY3Vyc29y", "MjAyNi0wMS0wMXxub3QtYS11dWlk"} {
		_, err := Decode(token)
		assert.Error(t, err, token)
	}
}
