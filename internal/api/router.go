package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tgilmour/broadside/internal/api/apierr"
	"github.com/tgilmour/broadside/internal/api/response"
	"github.com/tgilmour/broadside/internal/middleware"
	"github.com/tgilmour/broadside/internal/services/session"
)

// RouterConfig holds configuration for the HTTP router
type RouterConfig struct {
	Logger      *slog.Logger
	Coordinator *session.Coordinator
	// GameSocket serves the websocket game protocol at /ws
	GameSocket http.Handler
}

// NewRouter creates the HTTP router: the websocket game endpoint plus a
// small REST surface for room browsing and health checks
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger, middleware.DefaultPanicHandler)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	api.HandleFunc("/rooms", listRoomsHandler(cfg.Coordinator)).Methods(http.MethodGet)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	// The websocket endpoint hijacks the connection, so it skips the
	// response-writing middleware
	r.Handle("/ws", recoveryMiddleware(cfg.GameSocket))

	return r
}

func listRoomsHandler(coordinator *session.Coordinator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rooms, err := coordinator.Rooms(r.Context())
		if err != nil {
			apierr.WriteError(w, err)
			return
		}
		response.JSON(w, http.StatusOK, response.RoomListFromModel(rooms))
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
