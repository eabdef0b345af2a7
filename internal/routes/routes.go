package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/nabin00012/codecommons/internal/config"
	"github.com/nabin00012/codecommons/internal/handlers"
	"github.com/nabin00012/codecommons/internal/middleware"
)

func SetupRouter(client *mongo.Client, cfg config.Config, log *zap.Logger) *mux.Router {
	router := mux.NewRouter()

	// Health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Server is healthy"))
	}).Methods("GET")

	dbName := cfg.DatabaseName
	authHandler := handlers.NewAuthHandler(client, dbName, cfg, log)
	userHandler := handlers.NewUserHandler(client, dbName, cfg.Timeout, log)
	classroomHandler := handlers.NewClassroomHandler(client, dbName, cfg.Timeout, log)
	assignmentHandler := handlers.NewAssignmentHandler(client, dbName, cfg.Timeout, log)
	discussionHandler := handlers.NewDiscussionHandler(client, dbName, cfg.Timeout, log)
	groupHandler := handlers.NewGroupHandler(client, dbName, cfg.Timeout, log)
	eventHandler := handlers.NewEventHandler(client, dbName, cfg.Timeout, log)
	questionHandler := handlers.NewQuestionHandler(client, dbName, cfg.Timeout, log)
	resourceHandler := handlers.NewResourceHandler(client, dbName, cfg.Timeout, log)

	auth := middleware.RequireAuth
	teacher := func(h http.HandlerFunc) http.Handler {
		return middleware.RequireRole("teacher", h)
	}
	student := func(h http.HandlerFunc) http.Handler {
		return middleware.RequireRole("student", h)
	}

	// Auth
	router.HandleFunc("/api/auth/register", authHandler.Register).Methods("POST")
	router.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST")
	router.HandleFunc("/api/auth/logout", authHandler.Logout).Methods("POST")
	router.HandleFunc("/api/auth/session", authHandler.Session).Methods("GET")

	// Users
	router.HandleFunc("/api/users/verify-email", userHandler.VerifyEmail).Methods("POST")
	router.Handle("/api/users/skip-profile", auth(http.HandlerFunc(userHandler.SkipProfile))).Methods("POST")
	router.Handle("/api/users/complete-profile", auth(http.HandlerFunc(userHandler.CompleteProfile))).Methods("POST")
	router.HandleFunc("/api/users/{id}/stats", userHandler.Stats).Methods("GET")

	// Classrooms and materials
	router.Handle("/api/classrooms", auth(http.HandlerFunc(classroomHandler.ListClassrooms))).Methods("GET")
	router.Handle("/api/classrooms", teacher(classroomHandler.CreateClassroom)).Methods("POST")
	router.Handle("/api/classrooms/join", auth(http.HandlerFunc(classroomHandler.JoinClassroom))).Methods("POST")
	router.Handle("/api/classrooms/{id}", auth(http.HandlerFunc(classroomHandler.GetClassroom))).Methods("GET")
	router.Handle("/api/classrooms/{id}/materials", auth(http.HandlerFunc(classroomHandler.ListMaterials))).Methods("GET")
	router.Handle("/api/classrooms/{id}/materials", teacher(classroomHandler.AddMaterial)).Methods("POST")
	router.Handle("/api/classrooms/{id}/materials/download/{name}", auth(http.HandlerFunc(classroomHandler.DownloadMaterial))).Methods("GET")

	// Assignments and submissions
	router.Handle("/api/classrooms/{id}/assignments", auth(http.HandlerFunc(assignmentHandler.ListAssignments))).Methods("GET")
	router.Handle("/api/classrooms/{id}/assignments", teacher(assignmentHandler.CreateAssignment)).Methods("POST")
	router.Handle("/api/assignments/{id}/submissions", student(assignmentHandler.Submit)).Methods("POST")
	router.Handle("/api/assignments/{id}/submissions", auth(http.HandlerFunc(assignmentHandler.ListSubmissions))).Methods("GET")
	router.Handle("/api/assignments/{id}/submissions/{sid}/grade", auth(http.HandlerFunc(assignmentHandler.Grade))).Methods("POST")

	// Discussions
	router.HandleFunc("/api/discussions", discussionHandler.ListDiscussions).Methods("GET")
	router.Handle("/api/discussions", auth(http.HandlerFunc(discussionHandler.CreateDiscussion))).Methods("POST")
	router.Handle("/api/discussions/{id}/like", auth(http.HandlerFunc(discussionHandler.ToggleLike))).Methods("POST")
	router.Handle("/api/discussions/{id}/comments", auth(http.HandlerFunc(discussionHandler.AddComment))).Methods("POST")

	// Groups
	router.HandleFunc("/api/groups", groupHandler.ListGroups).Methods("GET")
	router.Handle("/api/groups", auth(http.HandlerFunc(groupHandler.CreateGroup))).Methods("POST")
	router.Handle("/api/groups/{id}/join", auth(http.HandlerFunc(groupHandler.ToggleJoin))).Methods("POST")

	// Events
	router.HandleFunc("/api/events", eventHandler.ListEvents).Methods("GET")
	router.Handle("/api/events", auth(http.HandlerFunc(eventHandler.CreateEvent))).Methods("POST")
	router.Handle("/api/events/{id}/attend", auth(http.HandlerFunc(eventHandler.ToggleAttend))).Methods("POST")

	// CodeCorner
	router.HandleFunc("/api/codecorner/questions", questionHandler.ListQuestions).Methods("GET")
	router.Handle("/api/codecorner/questions", auth(http.HandlerFunc(questionHandler.CreateQuestion))).Methods("POST")
	router.HandleFunc("/api/codecorner/questions/{id}", questionHandler.GetQuestion).Methods("GET")
	router.Handle("/api/codecorner/questions/{id}/answers", auth(http.HandlerFunc(questionHandler.AddAnswer))).Methods("POST")
	router.Handle("/api/codecorner/questions/{id}/answers/{answerId}/accept", auth(http.HandlerFunc(questionHandler.AcceptAnswer))).Methods("POST")

	// Resources
	router.HandleFunc("/api/resources", resourceHandler.ListResources).Methods("GET")
	router.Handle("/api/resources", auth(http.HandlerFunc(resourceHandler.CreateResource))).Methods("POST")
	router.Handle("/api/resources/{id}/upvote", auth(http.HandlerFunc(resourceHandler.Upvote))).Methods("POST")
	router.Handle("/api/resources/{id}/bookmark", auth(http.HandlerFunc(resourceHandler.Bookmark))).Methods("POST")

	return router
}
