package response

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xyz-asif/todoapi/internal/logging"
	apperrors "github.com/xyz-asif/todoapi/pkg/errors"
)

// ErrorHandler renders the last error attached to the request as an
// ErrorResponse and logs it. It is the only place errors are caught.
// Tracebacks and raw messages of unclassified errors are only exposed when
// dev is set.
func ErrorHandler(logger logging.Logger, dev bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		trace := ""
		if dev {
			trace = errorChain(err)
		}
		writeError(c, logger, dev, err, trace)
	}
}

// Recovery turns panics into a server_error envelope.
func Recovery(logger logging.Logger, dev bool) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, rec any) {
		err := apperrors.Internal(fmt.Errorf("panic: %v", rec))
		trace := ""
		if dev {
			trace = string(debug.Stack())
		}
		writeError(c, logger, dev, err, trace)
	})
}

// NoRoute and NoMethod hand router misses to ErrorHandler.
func NoRoute(c *gin.Context) {
	Fail(c, apperrors.RouteNotFound())
}

func NoMethod(c *gin.Context) {
	Fail(c, apperrors.MethodNotAllowed())
}

func writeError(c *gin.Context, logger logging.Logger, dev bool, err error, trace string) {
	appErr := apperrors.Classify(err)

	body := ErrorResponse{
		Detail:    appErr.Detail,
		ErrorCode: appErr.Code,
		Path:      c.Request.URL.Path,
		Method:    c.Request.Method,
		Traceback: trace,
	}
	if appErr.Kind == apperrors.KindUnclassified && !dev {
		body.Detail = http.StatusText(http.StatusInternalServerError)
	}

	args := []any{
		"detail", appErr.Detail,
		"error_code", appErr.Code,
		"status", appErr.Status,
		"path", body.Path,
		"method", body.Method,
	}
	if appErr.Status >= http.StatusInternalServerError {
		logger.Error(c.Request.Context(), "Error occurred", args...)
	} else {
		logger.Warn(c.Request.Context(), "Error occurred", args...)
	}

	if c.Writer.Written() {
		return
	}
	c.AbortWithStatusJSON(appErr.Status, body)
}

func errorChain(err error) string {
	var b strings.Builder
	for i := 0; err != nil; i++ {
		fmt.Fprintf(&b, "#%d %T: %v\n", i, err, err)
		err = errors.Unwrap(err)
	}
	return b.String()
}
