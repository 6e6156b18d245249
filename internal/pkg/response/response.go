// Package response writes success bodies and the uniform error envelope.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every non-2xx response.
// @Description Uniform error envelope
type ErrorResponse struct {
	Detail    string `json:"detail" example:"Todo not found"`
	ErrorCode string `json:"error_code" example:"todo_not_found"`
	Path      string `json:"path" example:"/api/v1/todos/3f0c1d9e-8a4b-4e55-9d2b-6f0f3c1a2b7d"`
	Method    string `json:"method" example:"GET"`
	Traceback string `json:"traceback,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Fail records err on the request and stops the chain. Rendering happens in
// ErrorHandler.
func Fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
