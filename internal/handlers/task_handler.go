package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Bekarys2104/Task_Planner/internal/models"
	"github.com/Bekarys2104/Task_Planner/internal/services"
	"github.com/Bekarys2104/Task_Planner/pkg/middleware"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// TaskHandler handles HTTP requests related to tasks.
type TaskHandler struct {
	Service *services.TaskService
}

// NewTaskHandler creates a new instance of TaskHandler.
func NewTaskHandler(service *services.TaskService) *TaskHandler {
	return &TaskHandler{
		Service: service,
	}
}

// authorizeTaskAccess resolves the caller's claims and checks them
// against the user id in the path.
func authorizeTaskAccess(w http.ResponseWriter, r *http.Request) string {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		log.Warn("Unauthorized access attempt to tasks")
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return ""
	}

	requestedUserID := mux.Vars(r)["userID"]
	if requestedUserID != claims.UserID {
		log.WithFields(log.Fields{
			"requestedUserID": requestedUserID,
			"loggedInUserID":  claims.UserID,
		}).Warn("Forbidden access attempt to tasks")
		respondError(w, http.StatusForbidden, "Forbidden: You can only access your own tasks")
		return ""
	}

	return claims.UserID
}

// CreateTaskHandler handles creating a new task.
func (h *TaskHandler) CreateTaskHandler(w http.ResponseWriter, r *http.Request) {
	log.Info("CreateTaskHandler called")

	userID := authorizeTaskAccess(w, r)
	if userID == "" {
		return
	}

	var req models.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.WithError(err).Warn("Failed to decode task request")
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	task, err := h.Service.CreateTask(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, task)
}

// GetTasksHandler returns every task of the user.
func (h *TaskHandler) GetTasksHandler(w http.ResponseWriter, r *http.Request) {
	log.Info("GetTasksHandler called")

	userID := authorizeTaskAccess(w, r)
	if userID == "" {
		return
	}

	tasks, err := h.Service.GetTasks(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}

	respondJSON(w, http.StatusOK, tasks)
}

// GetTaskHandler returns a single task by id.
func (h *TaskHandler) GetTaskHandler(w http.ResponseWriter, r *http.Request) {
	log.Info("GetTaskHandler called")

	userID := authorizeTaskAccess(w, r)
	if userID == "" {
		return
	}

	taskID := mux.Vars(r)["taskID"]
	task, err := h.Service.GetTask(r.Context(), userID, taskID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, task)
}

// UpdateTaskHandler updates an existing task.
func (h *TaskHandler) UpdateTaskHandler(w http.ResponseWriter, r *http.Request) {
	log.Info("UpdateTaskHandler called")

	userID := authorizeTaskAccess(w, r)
	if userID == "" {
		return
	}

	var req models.UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.WithError(err).Warn("Failed to decode task update request")
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	taskID := mux.Vars(r)["taskID"]
	task, err := h.Service.UpdateTask(r.Context(), userID, taskID, &req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, task)
}

// DeleteTaskHandler deletes a task along with its reminders.
func (h *TaskHandler) DeleteTaskHandler(w http.ResponseWriter, r *http.Request) {
	log.Info("DeleteTaskHandler called")

	userID := authorizeTaskAccess(w, r)
	if userID == "" {
		return
	}

	taskID := mux.Vars(r)["taskID"]
	if err := h.Service.DeleteTask(r.Context(), userID, taskID); err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Task deleted successfully"})
}
