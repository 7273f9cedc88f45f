package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/yukikurage/duty-tracker/internal/constants"
)

func paramsFor(query string) PaginationParams {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+query, nil)
	return GetPaginationParams(c)
}

func TestGetPaginationParams(t *testing.T) {
	p := paramsFor("")
	assert.Equal(t, PaginationParams{Page: 1, Limit: constants.DefaultPageSize, Offset: 0}, p)

	p = paramsFor("page=3&limit=5")
	assert.Equal(t, PaginationParams{Page: 3, Limit: 5, Offset: 10}, p)

	p = paramsFor("page=-1&limit=1000")
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, constants.DefaultPageSize, p.Limit)
}

func TestWindow(t *testing.T) {
	p := PaginationParams{Page: 2, Limit: 5, Offset: 5}
	start, end := p.Window(7)
	assert.Equal(t, 5, start)
	assert.Equal(t, 7, end)

	start, end = p.Window(3)
	assert.Equal(t, 3, start)
	assert.Equal(t, 3, end)

	assert.Equal(t, PaginationResponse{Page: 2, Limit: 5, Total: 7}, p.Response(7))
}

func TestGetPaginationParams_HugePage(t *testing.T) {
	p := paramsFor("page=92233720368547760&limit=100")
	assert.GreaterOrEqual(t, p.Offset, 0)

	start, end := p.Window(3)
	assert.Equal(t, 3, start)
	assert.Equal(t, 3, end)

	items := []int{1, 2, 3}
	assert.NotPanics(t, func() { _ = items[start:end] })
}

func TestWindow_NegativeOffset(t *testing.T) {
	p := PaginationParams{Page: 1, Limit: 2, Offset: -5}
	start, end := p.Window(3)
	assert.Equal(t, 0, start)
	assert.Equal(t, 2, end)
}
