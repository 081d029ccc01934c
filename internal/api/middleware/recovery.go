package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/labstack/echo/v4"
)

const panicPage = `<!DOCTYPE html><html lang="es"><head><meta charset="utf-8">` +
	`<title>Error · EcoFinder</title></head><body><h1>Algo salió mal</h1>` +
	`<p>Ocurrió un error inesperado. Intenta nuevamente en unos segundos.</p>` +
	`<p><small>ID de solicitud: %s</small></p></body></html>`

// errorBody is the JSON body written for a recovered panic on the API.
type errorBody struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// Recovery returns Echo middleware that turns a handler panic into a 500.
// API routes get a JSON body and pages get a short HTML error page; both
// carry the request ID so the logged stack can be found. A response that was
// already committed is left as is.
func Recovery(log *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}

				reqID, _ := c.Get("request_id").(string)
				log.Error("panic recovered",
					"panic", panicMessage(r),
					"method", c.Request().Method,
					"path", c.Request().URL.Path,
					"request_id", reqID,
					"committed", c.Response().Committed,
					"stack", string(debug.Stack()),
				)

				if c.Response().Committed {
					err = nil
					return
				}
				if strings.HasPrefix(c.Request().URL.Path, "/api/") {
					err = c.JSON(http.StatusInternalServerError, errorBody{
						Error:     "internal server error",
						RequestID: reqID,
					})
					return
				}
				err = c.HTML(http.StatusInternalServerError, fmt.Sprintf(panicPage, reqID))
			}()

			return next(c)
		}
	}
}

func panicMessage(r any) string {
	if e, ok := r.(error); ok {
		return e.Error()
	}
	return fmt.Sprint(r)
}
