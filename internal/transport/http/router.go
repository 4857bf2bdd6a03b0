package http

import (
	"net/http"

	"mock-interview-service/internal/app"
	"mock-interview-service/internal/metrics"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// NewRouter wires the REST API, the websocket endpoint and the operational routes.
func NewRouter(service *app.InterviewService, m *metrics.Metrics, l *zap.Logger) http.Handler {
	r := mux.NewRouter()

	sessions := NewSessionHandler(service, l)
	ws := NewWSHandler(service, l)

	r.Use(corsMiddleware)

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/sessions", sessions.Create).Methods("POST", "OPTIONS")
	v1.HandleFunc("/sessions/{id}", sessions.Get).Methods("GET", "OPTIONS")
	v1.HandleFunc("/sessions/{id}", sessions.End).Methods("DELETE", "OPTIONS")
	v1.HandleFunc("/sessions/{id}/answers", sessions.Submit).Methods("POST", "OPTIONS")
	v1.HandleFunc("/sessions/{id}/restart", sessions.Restart).Methods("POST", "OPTIONS")
	v1.HandleFunc("/sessions/{id}/timer", sessions.StartTimer).Methods("POST", "OPTIONS")
	v1.HandleFunc("/sessions/{id}/timer", sessions.ResetTimer).Methods("DELETE", "OPTIONS")
	v1.HandleFunc("/sessions/{id}/presence", sessions.SetPresence).Methods("PUT", "OPTIONS")
	v1.HandleFunc("/sessions/{id}/results", sessions.Results).Methods("GET", "OPTIONS")

	r.HandleFunc("/ws", ws.ServeWS).Methods("GET")

	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}).Methods("GET")
	r.Handle("/metrics", m.Handler()).Methods("GET")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
