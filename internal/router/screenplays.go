package router

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/njorogek/screenplay-ingest-api/internal/handlers"
	"github.com/njorogek/screenplay-ingest-api/internal/middleware"
	"github.com/njorogek/screenplay-ingest-api/internal/services"
	"github.com/njorogek/screenplay-ingest-api/internal/utils"
)

func NewRouter(spService services.ScreenplayService, logger *utils.Logger, maxFileSize int64) http.Handler {
	r := mux.NewRouter()

	// Middlewares
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS())
	r.Use(middleware.Recovery(logger))

	spHandler := handlers.NewScreenplayHandler(spService, logger, maxFileSize)

	// Routes
	api := r.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)

	// Screenplay endpoints
	api.HandleFunc("/screenplays/upload", spHandler.UploadScreenplay).Methods(http.MethodPost)
	api.HandleFunc("/screenplays/{id}/process", spHandler.ProcessScreenplay).Methods(http.MethodPost)
	api.HandleFunc("/screenplays/{id}/scenes", spHandler.ListScenes).Methods(http.MethodGet)
	api.HandleFunc("/screenplays/{id}", spHandler.GetScreenplay).Methods(http.MethodGet)

	return r
}
