package server

import (
	"fmt"
	"log"
	"net/http"

	"distractiondodge/internal/config"
	"distractiondodge/internal/db"
	"distractiondodge/internal/game"
	"distractiondodge/internal/session"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func Run() error {
	appCfg := config.Load()

	srv := &Server{
		DefaultDuration: appCfg.SessionDuration,
		DefaultVariant:  session.Variant(appCfg.DefaultVariant),
	}
	srv.Sessions = game.NewStore(srv.persistResult)

	// Optional database connection
	if appCfg.DatabaseURL != "" {
		database, err := db.Connect(appCfg.DatabaseURL)
		if err != nil {
			log.Printf("[DB] Failed to connect: %v (running without database)\n", err)
		} else {
			if err := database.Migrate(); err != nil {
				log.Printf("[DB] Migration failed: %v\n", err)
			}
			srv.DB = database
			log.Println("[DB] Database connected and migrations applied")
		}
	} else {
		log.Println("[DB] DATABASE_URL not set, running without database")
	}

	mux := http.NewServeMux()
	srv.addRoutes(mux)

	addr := "0.0.0.0:" + appCfg.Port
	fmt.Printf("Server listening on http://localhost:%s\n", appCfg.Port)
	return http.ListenAndServe(addr, mux)
}

func (s *Server) addRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /session/start", s.handleStartSession)
	mux.HandleFunc("POST /session/pause", s.handlePause)
	mux.HandleFunc("POST /session/resume", s.handleResume)
	mux.HandleFunc("POST /session/end", s.handleEndSession)
	mux.HandleFunc("POST /session/distraction/{id}/tap", s.handleTap)
	mux.HandleFunc("GET /session/state", s.handleState)
	mux.HandleFunc("GET /session/events", s.handleEvents)
	mux.HandleFunc("GET /session/ws", s.handleWS)
	mux.HandleFunc("GET /progress", s.handleProgress)
	mux.HandleFunc("GET /progress/achievements", s.handleAchievements)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())
}
