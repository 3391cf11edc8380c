package http

import "github.com/labstack/echo/v4"

// Handler mounts a group of API routes on the shared echo instance.
// NewServer calls RegisterRoutes once per handler before listening.
type Handler interface {
	RegisterRoutes(e *echo.Echo)
}
