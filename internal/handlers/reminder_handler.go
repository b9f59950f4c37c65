package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Bekarys2104/Task_Planner/internal/models"
	"github.com/Bekarys2104/Task_Planner/internal/services"
	"github.com/Bekarys2104/Task_Planner/pkg/middleware"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// ReminderHandler handles HTTP requests related to reminders.
type ReminderHandler struct {
	Service *services.ReminderService
}

// NewReminderHandler creates a new instance of ReminderHandler.
func NewReminderHandler(service *services.ReminderService) *ReminderHandler {
	return &ReminderHandler{
		Service: service,
	}
}

// authorizeReminderAccess resolves the caller's claims and checks them
// against the user id in the path. It writes the error response itself
// and returns an empty string when the caller may not proceed.
func authorizeReminderAccess(w http.ResponseWriter, r *http.Request) string {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		log.Warn("Unauthorized access attempt to reminders")
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return ""
	}

	requestedUserID := mux.Vars(r)["userID"]
	if requestedUserID != claims.UserID {
		log.WithFields(log.Fields{
			"requestedUserID": requestedUserID,
			"loggedInUserID":  claims.UserID,
		}).Warn("Forbidden access attempt to reminders")
		respondError(w, http.StatusForbidden, "Forbidden: You can only access your own reminders")
		return ""
	}

	return claims.UserID
}

// CreateReminderHandler handles creating a new reminder.
func (h *ReminderHandler) CreateReminderHandler(w http.ResponseWriter, r *http.Request) {
	log.Info("CreateReminderHandler called")

	userID := authorizeReminderAccess(w, r)
	if userID == "" {
		return
	}

	var req models.CreateReminderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.WithError(err).Warn("Failed to decode reminder request")
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	reminder, err := h.Service.CreateReminder(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, reminder)
}

// GetRemindersHandler returns every reminder of the user.
func (h *ReminderHandler) GetRemindersHandler(w http.ResponseWriter, r *http.Request) {
	log.Info("GetRemindersHandler called")

	userID := authorizeReminderAccess(w, r)
	if userID == "" {
		return
	}

	reminders, err := h.Service.ListReminders(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if reminders == nil {
		reminders = []models.Reminder{}
	}

	respondJSON(w, http.StatusOK, reminders)
}

// GetDueRemindersHandler returns the reminders that are due right now
// and advances their repeat state. Polling this endpoint is how clients
// consume reminder occurrences, so the read deliberately mutates.
func (h *ReminderHandler) GetDueRemindersHandler(w http.ResponseWriter, r *http.Request) {
	log.Info("GetDueRemindersHandler called")

	userID := authorizeReminderAccess(w, r)
	if userID == "" {
		return
	}

	due, err := h.Service.FetchAndProcessDue(r.Context(), userID, time.Now().UTC())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if due == nil {
		due = []models.DueReminder{}
	}

	respondJSON(w, http.StatusOK, due)
}

// DeleteReminderHandler deletes a reminder by id.
func (h *ReminderHandler) DeleteReminderHandler(w http.ResponseWriter, r *http.Request) {
	log.Info("DeleteReminderHandler called")

	userID := authorizeReminderAccess(w, r)
	if userID == "" {
		return
	}

	reminderID := mux.Vars(r)["reminderID"]
	if err := h.Service.DeleteReminder(r.Context(), userID, reminderID); err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Reminder deleted successfully"})
}
