// ================== internal/features/todos/handler.go ==================
package todos

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/xyz-asif/todoapi/internal/pkg/response"
	apperrors "github.com/xyz-asif/todoapi/pkg/errors"
)

// ServiceFactory builds the service for one request, bound to that
// request's store session.
type ServiceFactory func(c *gin.Context) *Service

type Handler struct {
	services ServiceFactory
}

func NewHandler(services ServiceFactory) *Handler {
	return &Handler{services: services}
}

// Register binds the handlers to a group mounted at the collection path.
func (h *Handler) Register(todos *gin.RouterGroup) {
	for _, root := range []string{"", "/"} {
		todos.POST(root, h.Create)
		todos.GET(root, h.List)
	}
	todos.GET("/:id", h.Get)
	todos.PUT("/:id", h.Update)
	todos.DELETE("/:id", h.Delete)
}

// Create godoc
// @Summary Create a new todo
// @Description Create a new todo item. Status starts as pending.
// @Tags todos
// @Accept json
// @Produce json
// @Param request body CreateTodoRequest true "Todo creation data"
// @Success 201 {object} Todo
// @Failure 422 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /todos [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, TranslateBindError(err))
		return
	}

	todo, err := h.services(c).Create(c.Request.Context(), &req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.Created(c, todo)
}

// List godoc
// @Summary List todos
// @Description Get todos in creation order
// @Tags todos
// @Produce json
// @Param skip query int false "Number of todos to skip (default: 0)"
// @Param limit query int false "Maximum number of todos to return (default: 100)"
// @Success 200 {array} Todo
// @Failure 422 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /todos [get]
func (h *Handler) List(c *gin.Context) {
	var query ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Fail(c, TranslateBindError(err))
		return
	}

	todos, err := h.services(c).List(c.Request.Context(), query.Skip, query.Limit)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.Success(c, todos)
}

// Get godoc
// @Summary Get a todo by ID
// @Tags todos
// @Produce json
// @Param id path string true "Todo ID" format(uuid)
// @Success 200 {object} Todo
// @Failure 404 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /todos/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, err := ParseID(c.Param("id"))
	if err != nil {
		response.Fail(c, err)
		return
	}

	todo, err := h.services(c).Get(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.Success(c, todo)
}

// Update godoc
// @Summary Update a todo
// @Description Apply the fields present in the body; omitted fields keep their value
// @Tags todos
// @Accept json
// @Produce json
// @Param id path string true "Todo ID" format(uuid)
// @Param request body UpdateTodoRequest true "Fields to change"
// @Success 200 {object} Todo
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /todos/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	id, err := ParseID(c.Param("id"))
	if err != nil {
		response.Fail(c, err)
		return
	}

	var req UpdateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if errors.Is(err, io.EOF) {
			response.Fail(c, apperrors.BadRequest("No fields provided for update"))
			return
		}
		response.Fail(c, TranslateBindError(err))
		return
	}

	if err := ValidateUpdateTodo(&req); err != nil {
		response.Fail(c, err)
		return
	}

	patch := req.Patch()
	if patch.IsEmpty() {
		response.Fail(c, apperrors.BadRequest("No fields provided for update"))
		return
	}

	todo, err := h.services(c).Update(c.Request.Context(), id, patch)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.Success(c, todo)
}

// Delete godoc
// @Summary Delete a todo
// @Tags todos
// @Param id path string true "Todo ID" format(uuid)
// @Success 204
// @Failure 404 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /todos/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, err := ParseID(c.Param("id"))
	if err != nil {
		response.Fail(c, err)
		return
	}

	if err := h.services(c).Delete(c.Request.Context(), id); err != nil {
		response.Fail(c, err)
		return
	}

	response.NoContent(c)
}
