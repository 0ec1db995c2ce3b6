package helpers

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePaginationParams(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := map[string]PageRequest{
		"/?page=3&size=20": {Page: 3, Size: 20},
		"/":                {Page: 1, Size: DefaultPageSize},
		"/?page=-1&size=x": {Page: 1, Size: DefaultPageSize},
		"/?size=1000":      {Page: 1, Size: DefaultPageSize},
	}
	for url, want := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", url, nil)
		assert.Equal(t, want, ParsePaginationParams(c), url)
	}
}

func TestNewPaginationInfo(t *testing.T) {
	info := NewPaginationInfo(37, PageRequest{Page: 2, Size: 10})
	assert.Equal(t, 4, info.TotalPages)
	assert.Equal(t, 2, info.CurrentPage)
	assert.Equal(t, 10, PageRequest{Page: 2, Size: 10}.Offset())

	empty := NewPaginationInfo(0, PageRequest{Page: 5, Size: 10})
	assert.Equal(t, 1, empty.TotalPages)
	assert.Equal(t, 1, empty.CurrentPage)
}

func TestParseDueDate(t *testing.T) {
	d, err := ParseDueDate("2025-06-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 1, 23, 59, 59, 0, time.UTC), d)

	ts, err := ParseDueDate("2025-06-01T10:00:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, 8, ts.Hour())

	_, err = ParseDueDate("tomorrow")
	assert.Error(t, err)
}

func TestParseDuration(t *testing.T) {
	assert.Equal(t, time.Hour, ParseDuration("bogus", time.Hour))
	assert.Equal(t, 2*time.Minute, ParseDuration("2m", time.Hour))
}
