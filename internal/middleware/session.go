package middleware

import (
	"database/sql"

	"github.com/gin-gonic/gin"

	"github.com/xyz-asif/todoapi/internal/database"
	"github.com/xyz-asif/todoapi/internal/pkg/response"
	apperrors "github.com/xyz-asif/todoapi/pkg/errors"
)

const connKey = "dbConn"

// Session checks a connection out of the pool for the lifetime of the
// request and returns it when the handler chain finishes, on every path.
func Session(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := db.Conn(c.Request.Context())
		if err != nil {
			response.Fail(c, apperrors.Database(err))
			return
		}
		defer conn.Close()

		c.Set(connKey, conn)
		c.Next()
	}
}

// Conn returns the request's connection. It panics when Session is not
// mounted on the route, which is a wiring bug.
func Conn(c *gin.Context) database.DBTX {
	return c.MustGet(connKey).(*sql.Conn)
}
