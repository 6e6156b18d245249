// ================== internal/features/todos/routes.go ==================
package todos

import (
	"database/sql"

	"github.com/gin-gonic/gin"

	"github.com/xyz-asif/todoapi/internal/logging"
	"github.com/xyz-asif/todoapi/internal/middleware"
)

func RegisterRoutes(router *gin.RouterGroup, db *sql.DB, logger logging.Logger) {
	handler := NewHandler(func(c *gin.Context) *Service {
		return NewService(NewPostgresRepository(middleware.Conn(c)), logger)
	})

	todos := router.Group("/todos")
	todos.Use(middleware.Session(db)) // every todo route runs on its own connection
	handler.Register(todos)
}
