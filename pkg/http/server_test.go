package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRoutes struct{}

func (testRoutes) RegisterRoutes(e *echo.Echo) {
	e.GET("/ping", func(c echo.Context) error { return SuccessResponse(c, "pong") })
	e.GET("/panic", func(echo.Context) error { panic("boom") })
	e.GET("/opaque", func(c echo.Context) error { return AppErrorResponse(c, errors.New("disk full")) })
	e.GET("/missing", func(c echo.Context) error {
		return AppErrorResponse(c, NotFoundErrorf("no chain for %s", "ZZZZ").WithParam("symbol", "ZZZZ"))
	})
}

func serve(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestNewServerRegistersRoutes(t *testing.T) {
	s := NewServer([]Handler{testRoutes{}, nil}, WithHost("127.0.0.1"), WithPort(0))

	rec := serve(t, s, "/ping")
	require.Equal(t, http.StatusOK, rec.Code)
	var body APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "pong", body.Data)

	assert.Equal(t, http.StatusOK, serve(t, s, "/metrics").Code)
}

func TestServerRecoversPanics(t *testing.T) {
	s := NewServer([]Handler{testRoutes{}})
	assert.Equal(t, http.StatusInternalServerError, serve(t, s, "/panic").Code)
}

func TestAppErrorResponse(t *testing.T) {
	s := NewServer([]Handler{testRoutes{}})
	rec := serve(t, s, "/missing")
	require.Equal(t, http.StatusNotFound, rec.Code)

	var body struct {
		Data []AppError `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, "ERR_NOT_FOUND", body.Data[0].Code)
	assert.Equal(t, "ZZZZ", body.Data[0].Params["symbol"])
}

func TestAppErrorResponseHidesPlainErrors(t *testing.T) {
	s := NewServer([]Handler{testRoutes{}})
	rec := serve(t, s, "/opaque")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "disk full")
	assert.Contains(t, rec.Body.String(), "Something went wrong")
}
