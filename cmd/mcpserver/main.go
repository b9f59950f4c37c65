// Command mcpserver provides an MCP server for the task planner.
//
// This server exposes tools for managing tasks, reminders and saved
// conversations stored in the planner's SQLite database. It acts on
// behalf of a single user, selected by email at startup.
//
// Usage:
//
//	./mcpserver          # Start MCP server (stdio)
//	./mcpserver --help   # Show help
//
// Environment:
//
//	DB_PATH         Path to the planner SQLite database (default: planner.db)
//	MCP_USER_EMAIL  Email of the user the server acts for (required)
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/Bekarys2104/Task_Planner/internal/config"
	"github.com/Bekarys2104/Task_Planner/internal/database"
	plannermcp "github.com/Bekarys2104/Task_Planner/internal/mcp"
	"github.com/Bekarys2104/Task_Planner/internal/repository"
	"github.com/Bekarys2104/Task_Planner/internal/services"
	"github.com/Bekarys2104/Task_Planner/pkg/logger"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--help", "-h":
			printHelp()
			return
		}
	}

	cfg := config.LoadConfig()
	logger.InitLogger()

	email := os.Getenv("MCP_USER_EMAIL")
	if email == "" {
		fmt.Fprintln(os.Stderr, "MCP_USER_EMAIL is required")
		os.Exit(1)
	}

	db, err := database.ConnectDB(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	reminderRepo := repository.NewReminderRepository(db)
	conversationRepo := repository.NewConversationRepository(db)

	user, err := userRepo.GetUserByEmail(context.Background(), email)
	if err != nil {
		fmt.Fprintf(os.Stderr, "No user registered with email %s\n", email)
		os.Exit(1)
	}

	taskService := services.NewTaskService(taskRepo)
	reminderService := services.NewReminderService(reminderRepo, taskRepo)
	conversationService := services.NewConversationService(conversationRepo)

	s := plannermcp.NewServer(user.ID, taskService, reminderService, conversationService)

	if err := server.ServeStdio(s.MCPServer()); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println(`MCP Task Planner Server - task and reminder management via MCP protocol

USAGE:
    mcpserver          Start MCP server (communicates via stdio)
    mcpserver --help   Show this help

ENVIRONMENT:
    DB_PATH         Path to the planner SQLite database (default: planner.db)
    MCP_USER_EMAIL  Email of the registered user the server acts for

TOOLS:
    add_task            Add a new task (title, description, due_date)
    list_tasks          List all tasks
    complete_task       Mark a task as completed
    delete_task         Delete a task and its reminders
    add_reminder        Attach a reminder to a task (task_id, remind_at, repeat)
    list_reminders      List all reminders
    get_due_reminders   Fetch due reminders and advance their repeat state
    delete_reminder     Delete a reminder permanently
    list_conversations  List saved conversations
    read_conversation   Read a conversation with its messages

CONFIGURATION:
    Add to your assistant's mcp.json:
    {
      "mcpServers": {
        "task-planner": {
          "command": "/path/to/mcpserver",
          "env": {"MCP_USER_EMAIL": "you@example.com"}
        }
      }
    }`)
}
