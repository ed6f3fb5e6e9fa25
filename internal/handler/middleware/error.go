package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"stay-booking/internal/handler/httperr"
	"stay-booking/internal/pkg/errs"
)

// ErrorHandler renders errors that a handler attached with c.Error but did not
// write. Public errors carry their response in Meta; anything else is mapped
// by its error kind.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		last := c.Errors.Last()
		if resp, ok := last.Meta.(httperr.Response); ok && last.IsType(gin.ErrorTypePublic) {
			c.JSON(resp.Status, resp)
			return
		}

		status, code := httperr.StatusFor(last.Err)
		resp := httperr.Response{Status: status}
		resp.Error.Code = code
		resp.Error.Message = errs.Reason(last.Err)
		if status >= http.StatusInternalServerError {
			resp.Error.Message = "Internal server error"
			slog.Error("unhandled error",
				"request_id", GetRequestID(c),
				"path", c.Request.URL.Path,
				"error", last.Err.Error(),
				"stack", errs.ExtractStackLines(last.Err, 5))
		}
		c.JSON(status, resp)
	}
}

func CustomRecovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("recovered from panic",
					"request_id", GetRequestID(c),
					"route", c.FullPath(),
					"panic", fmt.Sprint(rec))

				resp := httperr.Response{Status: http.StatusInternalServerError}
				resp.Error.Code = httperr.CodeInternal
				resp.Error.Message = "Internal server error"
				c.AbortWithStatusJSON(http.StatusInternalServerError, resp)
			}
		}()
		c.Next()
	}
}
