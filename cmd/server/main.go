package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/Bekarys2104/Task_Planner/internal/config"
	"github.com/Bekarys2104/Task_Planner/internal/database"
	"github.com/Bekarys2104/Task_Planner/internal/handlers"
	"github.com/Bekarys2104/Task_Planner/internal/repository"
	"github.com/Bekarys2104/Task_Planner/internal/services"
	"github.com/Bekarys2104/Task_Planner/pkg/logger"
	"github.com/Bekarys2104/Task_Planner/pkg/middleware"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	// Load configuration from .env file
	cfg := config.LoadConfig()

	logger.InitLogger()
	logger.Log.Info("Logger initialized")

	// Open the SQLite database and run migrations
	db, err := database.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("Database connection error: %v", err)
	}
	defer db.Close()

	// --- Repositories ---
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	reminderRepo := repository.NewReminderRepository(db)
	conversationRepo := repository.NewConversationRepository(db)

	// --- Services ---
	userService := services.NewUserService(userRepo)
	taskService := services.NewTaskService(taskRepo)
	reminderService := services.NewReminderService(reminderRepo, taskRepo)
	conversationService := services.NewConversationService(conversationRepo)

	// --- Handlers ---
	userHandler := handlers.NewUserHandler(userService, cfg)
	taskHandler := handlers.NewTaskHandler(taskService)
	reminderHandler := handlers.NewReminderHandler(reminderService)
	conversationHandler := handlers.NewConversationHandler(conversationService)

	// Initialize Gorilla Mux router
	router := mux.NewRouter()

	router.HandleFunc("/health", handlers.HealthHandler).Methods("GET")

	// Public auth routes
	router.HandleFunc("/api/auth/register", userHandler.RegisterUserHandler).Methods("POST")
	router.HandleFunc("/api/auth/login", userHandler.LoginUserHandler).Methods("POST")

	// Protected auth routes
	protectedAuthRoutes := router.PathPrefix("/api/auth").Subrouter()
	protectedAuthRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedAuthRoutes.Use(middleware.UpdateLastActiveMiddleware(userService))
	protectedAuthRoutes.HandleFunc("/me", userHandler.GetMeHandler).Methods("GET")

	// Task routes
	protectedTaskRoutes := router.PathPrefix("/api/{userID}/tasks").Subrouter()
	protectedTaskRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedTaskRoutes.Use(middleware.UpdateLastActiveMiddleware(userService))
	protectedTaskRoutes.HandleFunc("", taskHandler.CreateTaskHandler).Methods("POST")
	protectedTaskRoutes.HandleFunc("", taskHandler.GetTasksHandler).Methods("GET")
	protectedTaskRoutes.HandleFunc("/{taskID}", taskHandler.GetTaskHandler).Methods("GET")
	protectedTaskRoutes.HandleFunc("/{taskID}", taskHandler.UpdateTaskHandler).Methods("PUT")
	protectedTaskRoutes.HandleFunc("/{taskID}", taskHandler.DeleteTaskHandler).Methods("DELETE")

	// Reminder routes. The due route must be registered before the
	// wildcard reminder id route.
	protectedReminderRoutes := router.PathPrefix("/api/{userID}/reminders").Subrouter()
	protectedReminderRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedReminderRoutes.Use(middleware.UpdateLastActiveMiddleware(userService))
	protectedReminderRoutes.HandleFunc("", reminderHandler.CreateReminderHandler).Methods("POST")
	protectedReminderRoutes.HandleFunc("", reminderHandler.GetRemindersHandler).Methods("GET")
	protectedReminderRoutes.HandleFunc("/due", reminderHandler.GetDueRemindersHandler).Methods("GET")
	protectedReminderRoutes.HandleFunc("/{reminderID}", reminderHandler.DeleteReminderHandler).Methods("DELETE")

	// Conversation routes
	protectedConversationRoutes := router.PathPrefix("/api/{userID}/conversations").Subrouter()
	protectedConversationRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedConversationRoutes.Use(middleware.UpdateLastActiveMiddleware(userService))
	protectedConversationRoutes.HandleFunc("", conversationHandler.CreateConversationHandler).Methods("POST")
	protectedConversationRoutes.HandleFunc("", conversationHandler.GetConversationsHandler).Methods("GET")
	protectedConversationRoutes.HandleFunc("/{conversationID}", conversationHandler.GetConversationHandler).Methods("GET")
	protectedConversationRoutes.HandleFunc("/{conversationID}/messages", conversationHandler.AppendMessageHandler).Methods("POST")
	protectedConversationRoutes.HandleFunc("/{conversationID}/messages", conversationHandler.GetMessagesHandler).Methods("GET")
	protectedConversationRoutes.HandleFunc("/{conversationID}", conversationHandler.DeleteConversationHandler).Methods("DELETE")

	// Admin routes
	adminRoutes := router.PathPrefix("/api/admin").Subrouter()
	adminRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	adminRoutes.Use(middleware.RequireRole("admin"))
	adminRoutes.HandleFunc("/users", userHandler.AdminGetAllUsersHandler).Methods("GET")

	// Apply middleware for logging
	router.Use(middleware.LoggingMiddleware)

	// Start the HTTP server
	port := cfg.Port
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(router)

	fmt.Printf("Server running on port %s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, handler))
}
