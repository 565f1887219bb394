package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/yyuan-rahh/Manim-Interactive-sub000/internal/auth"
	"github.com/yyuan-rahh/Manim-Interactive-sub000/internal/collab"
	"github.com/yyuan-rahh/Manim-Interactive-sub000/internal/config"
	"github.com/yyuan-rahh/Manim-Interactive-sub000/internal/export"
	mw "github.com/yyuan-rahh/Manim-Interactive-sub000/internal/middleware"
	"github.com/yyuan-rahh/Manim-Interactive-sub000/internal/project"
	"github.com/yyuan-rahh/Manim-Interactive-sub000/internal/scene"
	"github.com/yyuan-rahh/Manim-Interactive-sub000/internal/store"
	"github.com/yyuan-rahh/Manim-Interactive-sub000/internal/typeid"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := store.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	db := store.New(pool)

	authService := auth.NewService(db, cfg.JWTSecret)
	authHandler := auth.NewHandler(authService)

	projectService := project.NewService(db)
	projectHandler := project.NewHandler(projectService)

	// Scene loader for the collaboration hub
	sceneLoader := func(projectID string) (*scene.Scene, error) {
		// Background context: this runs in the hub goroutine
		snap, err := db.GetLatestSnapshot(context.Background(), projectID)
		if err != nil {
			return nil, err
		}
		return scene.Parse(snap.Scene)
	}

	// Scene saver for the collaboration hub
	sceneSaver := func(projectID string, data []byte) error {
		currentSnap, err := db.GetLatestSnapshot(context.Background(), projectID)
		nextVersion := int32(1)
		if err == nil {
			nextVersion = currentSnap.Version + 1
		}

		_, err = db.CreateSnapshot(context.Background(), store.CreateSnapshotParams{
			ID:        typeid.NewSnapshotID(),
			ProjectID: projectID,
			Version:   nextVersion,
			Scene:     data,
		})
		if err != nil {
			return fmt.Errorf("create snapshot: %w", err)
		}
		return nil
	}

	hub := collab.NewHub(sceneLoader, sceneSaver)
	go hub.Run()

	exportHandler := export.NewHandler()

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS)

	// Auth routes (public)
	r.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Script export (public — used by playground and authenticated users)
	r.HandleFunc("/export/script", exportHandler.ExportScript).Methods("POST", "OPTIONS")

	// Protected API routes
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authService.AuthMiddleware)

	api.HandleFunc("/projects", projectHandler.List).Methods("GET")
	api.HandleFunc("/projects", projectHandler.Create).Methods("POST")
	api.HandleFunc("/projects/{projectId}", projectHandler.Get).Methods("GET")
	api.HandleFunc("/projects/{projectId}", projectHandler.Delete).Methods("DELETE")
	api.HandleFunc("/projects/{projectId}/invite", projectHandler.Invite).Methods("POST")
	api.HandleFunc("/projects/{projectId}/members", projectHandler.ListMembers).Methods("GET")
	api.HandleFunc("/projects/{projectId}/members/{userId}", projectHandler.RemoveMember).Methods("DELETE")
	api.HandleFunc("/projects/{projectId}/scene/latest", projectHandler.GetLatestScene).Methods("GET")

	// WebSocket endpoint
	wsOrigins := originPatterns(cfg.AllowedOrigins)
	r.HandleFunc("/ws/project/{projectId}", func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(w, r, hub, authService, db, wsOrigins)
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")

		// Stop hub first to persist all open scenes
		slog.Info("saving open scenes...")
		hub.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

// originPatterns converts the configured origin URLs to the host patterns
// the websocket accept check expects.
func originPatterns(allowedOrigins string) []string {
	var patterns []string
	for _, origin := range strings.Split(allowedOrigins, ",") {
		origin = strings.TrimSpace(origin)
		origin = strings.TrimPrefix(origin, "http://")
		origin = strings.TrimPrefix(origin, "https://")
		if origin != "" {
			patterns = append(patterns, origin)
		}
	}
	return patterns
}

func handleWebSocket(w http.ResponseWriter, r *http.Request, hub *collab.Hub, authSvc *auth.Service, db *store.Store, origins []string) {
	vars := mux.Vars(r)
	projectID := vars["projectId"]

	var userID string
	var displayName string

	// Playground project allows anonymous access
	const playgroundProjectID = "proj_playground"
	if projectID == playgroundProjectID {
		userID = "anon-" + uuid.New().String()[:8]
		displayName = "Anonymous"
	} else {
		// Auth via query param for real projects
		token := r.URL.Query().Get("token")
		if token == "" {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}

		var err error
		userID, err = authSvc.ValidateToken(token)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		// Check membership
		_, err = db.GetProjectMember(r.Context(), store.GetProjectMemberParams{
			ProjectID: projectID,
			UserID:    userID,
		})
		if err != nil {
			http.Error(w, "not a project member", http.StatusForbidden)
			return
		}

		user, err := authSvc.GetUser(r.Context(), userID)
		if err != nil {
			http.Error(w, "user not found", http.StatusInternalServerError)
			return
		}
		displayName = user.DisplayName
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: origins,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	clientID := uuid.New().String()
	client := collab.NewClient(hub, conn, userID, displayName, projectID, clientID)

	hub.Register(client)

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}
