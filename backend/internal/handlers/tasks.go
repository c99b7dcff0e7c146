package handlers

import (
	"net/http"
	"time"

	"github.com/Nienta-PK/taskmanager/backend/internal/services"

	"github.com/gin-gonic/gin"
)

type TaskHandler struct {
	taskService services.TaskService
	authz       services.AuthorizationService
}

func NewTaskHandler(taskService services.TaskService, authz services.AuthorizationService) *TaskHandler {
	return &TaskHandler{taskService: taskService, authz: authz}
}

// GetTasks lists the caller's tasks, or another user's for admins.
// GET /tasks?user_id=&sort_by=&reverse=&title=&category=&status=&priority=
func (h *TaskHandler) GetTasks(c *gin.Context) {
	userID, ok := targetUser(c, h.authz)
	if !ok {
		return
	}
	reverse, ok := queryBool(c, "reverse")
	if !ok {
		return
	}

	tasks, err := h.taskService.ListTasks(c.Request.Context(), services.TaskQuery{
		UserID:   userID,
		SortBy:   c.Query("sort_by"),
		Reverse:  reverse,
		Title:    c.Query("title"),
		Category: c.Query("category"),
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	var taskInput struct {
		UserID      int64      `json:"user_id"`
		Title       string     `json:"title" binding:"required"`
		Description *string    `json:"description"`
		DueDate     *time.Time `json:"due_date"`
		IsImportant bool       `json:"is_important"`
		CategoryID  *int64     `json:"category_id"`
		PriorityID  int64      `json:"priority_id" binding:"required"`
		StatusID    int64      `json:"status_id"`
	}
	if err := c.ShouldBindJSON(&taskInput); err != nil {
		badRequest(c, err.Error())
		return
	}

	caller, ok := identity(c)
	if !ok {
		return
	}
	if taskInput.UserID == 0 {
		taskInput.UserID = caller.UserID
	}
	if err := h.authz.CanAccessUser(caller, taskInput.UserID); err != nil {
		writeError(c, err)
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), services.CreateTaskInput{
		UserID:      taskInput.UserID,
		Title:       taskInput.Title,
		Description: taskInput.Description,
		DueDate:     taskInput.DueDate,
		IsImportant: taskInput.IsImportant,
		CategoryID:  taskInput.CategoryID,
		PriorityID:  taskInput.PriorityID,
		StatusID:    taskInput.StatusID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

// authorizedTask parses :id and checks the caller owns the task.
func (h *TaskHandler) authorizedTask(c *gin.Context) (int64, bool) {
	taskID, ok := pathID(c, "id")
	if !ok {
		return 0, false
	}
	caller, ok := identity(c)
	if !ok {
		return 0, false
	}
	if err := h.authz.CanAccessTask(c.Request.Context(), caller, taskID); err != nil {
		writeError(c, err)
		return 0, false
	}
	return taskID, true
}

func (h *TaskHandler) GetTaskByID(c *gin.Context) {
	taskID, ok := h.authorizedTask(c)
	if !ok {
		return
	}
	task, err := h.taskService.GetTask(c.Request.Context(), taskID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) CompleteTask(c *gin.Context) {
	taskID, ok := h.authorizedTask(c)
	if !ok {
		return
	}
	task, err := h.taskService.CompleteTask(c.Request.Context(), taskID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) AbandonTask(c *gin.Context) {
	taskID, ok := h.authorizedTask(c)
	if !ok {
		return
	}
	task, err := h.taskService.AbandonTask(c.Request.Context(), taskID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) Overview(c *gin.Context) {
	userID, ok := targetUser(c, h.authz)
	if !ok {
		return
	}
	overview, err := h.taskService.Overview(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

func (h *TaskHandler) DueSoon(c *gin.Context) {
	userID, ok := targetUser(c, h.authz)
	if !ok {
		return
	}
	groups, err := h.taskService.DueSoon(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, groups)
}

func (h *TaskHandler) Calendar(c *gin.Context) {
	userID, ok := targetUser(c, h.authz)
	if !ok {
		return
	}
	tasks, err := h.taskService.Calendar(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}
