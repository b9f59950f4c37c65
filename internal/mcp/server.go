package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/Bekarys2104/Task_Planner/internal/models"
	"github.com/Bekarys2104/Task_Planner/internal/services"
)

const (
	serverName    = "task-planner"
	serverVersion = "1.0.0"
)

// Server is the MCP server exposing the planner to AI assistants. It is
// bound to a single user at construction time and every tool call acts
// on that user's data.
type Server struct {
	mcpServer     *server.MCPServer
	userID        string
	tasks         *services.TaskService
	reminders     *services.ReminderService
	conversations *services.ConversationService
}

// NewServer creates a new planner MCP server acting on behalf of the
// given user.
func NewServer(userID string, tasks *services.TaskService, reminders *services.ReminderService, conversations *services.ConversationService) *Server {
	s := &Server{
		userID:        userID,
		tasks:         tasks,
		reminders:     reminders,
		conversations: conversations,
	}

	s.mcpServer = server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(false),
	)

	s.registerTools()
	return s
}

// MCPServer returns the underlying MCP server for serving.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

func (s *Server) registerTools() {
	// add_task
	s.mcpServer.AddTool(
		mcp.NewTool("add_task",
			mcp.WithDescription("Add a new task with a title, optional description and due date"),
			mcp.WithString("title", mcp.Required(), mcp.Description("Task title")),
			mcp.WithString("description", mcp.Description("Optional description")),
			mcp.WithString("due_date", mcp.Description("Optional due date in RFC3339 format (e.g. 2025-01-15T09:00:00Z)")),
		),
		s.handleAddTask,
	)

	// list_tasks
	s.mcpServer.AddTool(
		mcp.NewTool("list_tasks",
			mcp.WithDescription("List all tasks of the user"),
		),
		s.handleListTasks,
	)

	// complete_task
	s.mcpServer.AddTool(
		mcp.NewTool("complete_task",
			mcp.WithDescription("Mark a task as completed"),
			mcp.WithString("id", mcp.Required(), mcp.Description("Task ID")),
		),
		s.handleCompleteTask,
	)

	// delete_task
	s.mcpServer.AddTool(
		mcp.NewTool("delete_task",
			mcp.WithDescription("Delete a task permanently along with its reminders"),
			mcp.WithString("id", mcp.Required(), mcp.Description("Task ID")),
		),
		s.handleDeleteTask,
	)

	// add_reminder
	s.mcpServer.AddTool(
		mcp.NewTool("add_reminder",
			mcp.WithDescription("Attach a reminder to a task, optionally repeating a fixed number of times"),
			mcp.WithString("task_id", mcp.Required(), mcp.Description("ID of the task to remind about")),
			mcp.WithString("remind_at", mcp.Required(), mcp.Description("When to remind, in RFC3339 format (e.g. 2025-01-15T09:00:00Z)")),
			mcp.WithNumber("repeat_interval_minutes", mcp.Description("Minutes between repeats, 1 to 1440; requires repeat_count")),
			mcp.WithNumber("repeat_count", mcp.Description("Total number of times to fire, 1 to 100; requires repeat_interval_minutes")),
		),
		s.handleAddReminder,
	)

	// list_reminders
	s.mcpServer.AddTool(
		mcp.NewTool("list_reminders",
			mcp.WithDescription("List all reminders of the user, active and spent"),
		),
		s.handleListReminders,
	)

	// get_due_reminders
	s.mcpServer.AddTool(
		mcp.NewTool("get_due_reminders",
			mcp.WithDescription("Get the reminders that are due now. Each returned reminder is counted as fired and is rescheduled or deactivated"),
		),
		s.handleGetDueReminders,
	)

	// delete_reminder
	s.mcpServer.AddTool(
		mcp.NewTool("delete_reminder",
			mcp.WithDescription("Delete a reminder permanently"),
			mcp.WithString("id", mcp.Required(), mcp.Description("Reminder ID")),
		),
		s.handleDeleteReminder,
	)

	// list_conversations
	s.mcpServer.AddTool(
		mcp.NewTool("list_conversations",
			mcp.WithDescription("List the user's saved conversations"),
		),
		s.handleListConversations,
	)

	// read_conversation
	s.mcpServer.AddTool(
		mcp.NewTool("read_conversation",
			mcp.WithDescription("Read a conversation with all its messages"),
			mcp.WithString("id", mcp.Required(), mcp.Description("Conversation ID")),
		),
		s.handleReadConversation,
	)
}

func (s *Server) handleAddTask(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title := req.GetString("title", "")
	description := req.GetString("description", "")
	dueDateStr := req.GetString("due_date", "")

	if title == "" {
		return mcp.NewToolResultError("title is required"), nil
	}

	taskReq := models.CreateTaskRequest{
		Title:       title,
		Description: description,
	}
	if dueDateStr != "" {
		dueDate, err := time.Parse(time.RFC3339, dueDateStr)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid due_date format: %v (use RFC3339, e.g. 2025-01-15T09:00:00Z)", err)), nil
		}
		taskReq.DueDate = &dueDate
	}

	task, err := s.tasks.CreateTask(ctx, s.userID, &taskReq)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to add task: %v", err)), nil
	}

	output, _ := json.MarshalIndent(task, "", "  ")
	return mcp.NewToolResultText(string(output)), nil
}

func (s *Server) handleListTasks(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tasks, err := s.tasks.GetTasks(ctx, s.userID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list tasks: %v", err)), nil
	}

	if len(tasks) == 0 {
		return mcp.NewToolResultText("No tasks found."), nil
	}

	output, _ := json.MarshalIndent(tasks, "", "  ")
	return mcp.NewToolResultText(string(output)), nil
}

func (s *Server) handleCompleteTask(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("id is required"), nil
	}

	completed := true
	task, err := s.tasks.UpdateTask(ctx, s.userID, id, &models.UpdateTaskRequest{Completed: &completed})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to complete task: %v", err)), nil
	}

	output, _ := json.MarshalIndent(task, "", "  ")
	return mcp.NewToolResultText(string(output)), nil
}

func (s *Server) handleDeleteTask(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("id is required"), nil
	}

	if err := s.tasks.DeleteTask(ctx, s.userID, id); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to delete task: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Task %s deleted.", id)), nil
}

func (s *Server) handleAddReminder(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	taskID := req.GetString("task_id", "")
	remindAt := req.GetString("remind_at", "")

	if taskID == "" {
		return mcp.NewToolResultError("task_id is required"), nil
	}
	if remindAt == "" {
		return mcp.NewToolResultError("remind_at is required"), nil
	}

	reminderReq := models.CreateReminderRequest{
		TaskID:   taskID,
		RemindAt: remindAt,
	}
	if v := req.GetFloat("repeat_interval_minutes", 0); v != 0 {
		interval := int(v)
		reminderReq.RepeatIntervalMinutes = &interval
	}
	if v := req.GetFloat("repeat_count", 0); v != 0 {
		count := int(v)
		reminderReq.RepeatCount = &count
	}

	reminder, err := s.reminders.CreateReminder(ctx, s.userID, &reminderReq)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to add reminder: %v", err)), nil
	}

	output, _ := json.MarshalIndent(reminder, "", "  ")
	return mcp.NewToolResultText(string(output)), nil
}

func (s *Server) handleListReminders(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	reminders, err := s.reminders.ListReminders(ctx, s.userID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list reminders: %v", err)), nil
	}

	if len(reminders) == 0 {
		return mcp.NewToolResultText("No reminders found."), nil
	}

	output, _ := json.MarshalIndent(reminders, "", "  ")
	return mcp.NewToolResultText(string(output)), nil
}

func (s *Server) handleGetDueReminders(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	due, err := s.reminders.FetchAndProcessDue(ctx, s.userID, time.Now().UTC())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get due reminders: %v", err)), nil
	}

	if len(due) == 0 {
		return mcp.NewToolResultText("No due reminders."), nil
	}

	output, _ := json.MarshalIndent(due, "", "  ")
	return mcp.NewToolResultText(string(output)), nil
}

func (s *Server) handleDeleteReminder(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("id is required"), nil
	}

	if err := s.reminders.DeleteReminder(ctx, s.userID, id); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to delete reminder: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Reminder %s deleted.", id)), nil
}

func (s *Server) handleListConversations(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	conversations, err := s.conversations.GetConversations(ctx, s.userID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list conversations: %v", err)), nil
	}

	if len(conversations) == 0 {
		return mcp.NewToolResultText("No conversations found."), nil
	}

	output, _ := json.MarshalIndent(conversations, "", "  ")
	return mcp.NewToolResultText(string(output)), nil
}

func (s *Server) handleReadConversation(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("id is required"), nil
	}

	conversation, err := s.conversations.GetConversation(ctx, s.userID, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read conversation: %v", err)), nil
	}

	output, _ := json.MarshalIndent(conversation, "", "  ")
	return mcp.NewToolResultText(string(output)), nil
}
