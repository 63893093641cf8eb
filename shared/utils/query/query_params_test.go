package query

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func paramsFor(t *testing.T, rawQuery string) PageParams {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+rawQuery, nil)
	return ParsePageParams(c)
}

func TestParsePageParams(t *testing.T) {
	require.Equal(t, PageParams{Page: 1, PageSize: 20}, paramsFor(t, ""))
	require.Equal(t, PageParams{Page: 3, PageSize: 50}, paramsFor(t, "page=3&page_size=50"))

	// Out-of-range values are clamped rather than rejected.
	require.Equal(t, PageParams{Page: 1, PageSize: 1}, paramsFor(t, "page=-2&page_size=0"))
	require.Equal(t, PageParams{Page: 1, PageSize: 100}, paramsFor(t, "page_size=5000"))
	require.Equal(t, PageParams{Page: 1, PageSize: 20}, paramsFor(t, "page=abc&page_size=xyz"))
}

func TestBuildPaginationResponse(t *testing.T) {
	resp := BuildPaginationResponse(PageParams{Page: 2, PageSize: 20}, 45)
	require.Equal(t, int64(45), resp.Total)
	require.Equal(t, int64(3), resp.TotalPages)
	require.True(t, resp.HasNext)
	require.True(t, resp.HasPrev)

	last := BuildPaginationResponse(PageParams{Page: 3, PageSize: 20}, 45)
	require.False(t, last.HasNext)
}
