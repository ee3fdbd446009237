package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	applogger "FinLens/pkg/logger"

	"github.com/labstack/echo/v4"
)

// Recover turns a panic in a handler into a 500 envelope and logs the stack.
func Recover(l *applogger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			defer func() {
				if r := recover(); r != nil {
					err, ok := r.(error)
					if !ok {
						err = fmt.Errorf("%v", r)
					}
					l.Error("panic recovered",
						applogger.Error(err),
						applogger.String("route", c.Path()),
						applogger.String("query", c.QueryString()),
						applogger.String("stack", string(debug.Stack())),
					)
					if c.Response().Committed {
						return
					}
					_ = c.JSON(http.StatusInternalServerError, map[string]interface{}{
						"status":  http.StatusInternalServerError,
						"message": http.StatusText(http.StatusInternalServerError),
						"data":    []map[string]string{{"code": "ERR_INTERNAL", "message": "chart could not be built"}},
					})
				}
			}()
			return next(c)
		}
	}
}
