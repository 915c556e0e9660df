package handlers

import (
	"net/http"
	"strconv"

	"taskmanager/internal/auth"
	dom "taskmanager/internal/domain"
	"taskmanager/internal/dto"
	"taskmanager/internal/logging"
	"taskmanager/internal/service"

	"github.com/gin-gonic/gin"
)

type TaskHandler struct {
	svc *service.TaskService
	log logging.Logger
}

func NewTaskHandler(svc *service.TaskService, log logging.Logger) *TaskHandler {
	return &TaskHandler{svc: svc, log: log}
}

// List godoc
// @Summary      List visible tasks
// @Description  Default tasks for everyone, plus the caller's own tasks when logged in.
// @Tags         tasks
// @Produce      json
// @Success      200  {array}   dto.TaskResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	var owner *int64
	if id, ok := auth.UserIDFromContext(c); ok {
		owner = &id
	}
	list, err := h.svc.List(c.Request.Context(), owner)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, tasksToResponses(list))
}

// Create godoc
// @Summary      Create a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      dto.CreateTaskRequest  true  "Task body"
// @Success      200   {object}  dto.CreateTaskResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	userID, _ := auth.UserIDFromContext(c)
	var req dto.CreateTaskRequest
	if !bindJSON(c, &req) {
		return
	}
	t, err := h.svc.Create(c.Request.Context(), userID, req.Title, req.Description, req.DueDate)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.CreateTaskResponse{Message: "Task created", ID: t.ID})
}

// Update godoc
// @Summary      Update a task
// @Description  Partial update: absent fields keep their values.
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      int  true  "Task ID"
// @Param        body  body      dto.UpdateTaskRequest  true  "Fields to change"
// @Success      200   {object}  dto.TaskResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /tasks/{id} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	userID, _ := auth.UserIDFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateTaskRequest
	if !bindJSON(c, &req) {
		return
	}
	t, err := h.svc.Update(c.Request.Context(), userID, id, dom.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Completed:   req.Completed,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, taskToResponse(t))
}

// Delete godoc
// @Summary      Delete a task
// @Tags         tasks
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      int  true  "Task ID"
// @Success      200  {object}  dto.MessageResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	userID, _ := auth.UserIDFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), userID, id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Task deleted"})
}

// parseID rejects non-numeric IDs with 404: no task can live at such a path.
func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return 0, false
	}
	return id, true
}

func taskToResponse(t dom.Task) dto.TaskResponse {
	return dto.TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		Completed:   t.Completed,
		UserID:      t.UserID,
	}
}

func tasksToResponses(list []dom.Task) []dto.TaskResponse {
	out := make([]dto.TaskResponse, len(list))
	for i := range list {
		out[i] = taskToResponse(list[i])
	}
	return out
}
