package main

import (
	"flag"
	"log"
	"net/http"
	"time"

	"github.com/0xlayout/privacypuzzle/internal/config"
	"github.com/0xlayout/privacypuzzle/internal/handlers"
)

func main() {
	addr := flag.String("addr", "", "listen address (default $"+config.AddrEnv+" or "+config.DefaultAddr+")")
	flag.Parse()

	h := handlers.NewHandler()

	mux := http.NewServeMux()
	mux.HandleFunc("/hide", h.HideHandler)
	mux.HandleFunc("/reveal", h.RevealHandler)
	mux.HandleFunc("/capacity", h.CapacityHandler)
	mux.HandleFunc("/educate", h.EducateHandler)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("puzzlesvc: service up\n"))
	})

	srv := &http.Server{
		Addr:         config.Addr(*addr),
		Handler:      loggingMiddleware(mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	log.Printf("puzzlesvc starting on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

// Simple request logger
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}
