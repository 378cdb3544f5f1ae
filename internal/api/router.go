package api

import (
	"net/http"

	"voyage-plan-service/internal/api/handlers"
	"voyage-plan-service/internal/domain"
	"voyage-plan-service/internal/ports"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(src ports.WeatherSource, selector ports.SpeedSelector, cfg domain.VoyageConfig) http.Handler {
	mux := http.NewServeMux()

	routeHandler := &handlers.RouteHandler{Src: src}
	voyageHandler := &handlers.VoyageHandler{
		Src:      src,
		Selector: selector,
		Cfg:      cfg,
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/route", routeHandler.Get)
	mux.HandleFunc("/voyages", voyageHandler.Run)

	return loggingMiddleware(mux)
}
