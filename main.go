package main

import (
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/hvj78/3dsnake/api"
	"github.com/hvj78/3dsnake/config"
	"github.com/hvj78/3dsnake/server"
)

func main() {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}
	cfg := config.LoadServerConfig()

	// Core game server
	rooms := server.NewRoomManager()

	r := chi.NewRouter()

	// Serve the built frontend when STATIC_DIR points at one.
	if cfg.StaticDir != "" {
		if _, err := os.Stat(cfg.StaticDir); err != nil {
			log.Fatalf("Static directory does not exist: %s", cfg.StaticDir)
		}
		r.Handle("/*", server.StaticFileServer(cfg.StaticDir, "/index.html"))
	}

	// Mount REST API under /api
	r.Mount("/api", api.NewAPIRouter(rooms))
	// Websocket endpoint
	r.HandleFunc("/ws", rooms.HandleConnections)

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	log.Printf("Server started on %s", cfg.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("ListenAndServe:", err)
	}
}
