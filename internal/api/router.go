package api

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

func NewRouter(a *API) http.Handler {
	mux := http.NewServeMux()

	// Swagger documentation - must be registered first
	mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:8080/swagger/doc.json"),
	))

	// Health check (for Railway, k8s, etc.)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	// Auth
	mux.HandleFunc("/api/auth/register", a.RegisterHandler)
	mux.HandleFunc("/api/auth/login", a.LoginHandler)

	// Jobs
	mux.HandleFunc("/api/jobs", a.RequireAuth(a.JobsHandler))
	mux.HandleFunc("/api/jobs/", a.RequireAuth(a.JobDetailHandler))

	// Candidates
	mux.HandleFunc("/api/candidates/upload", a.RequireAuth(a.ResumeUploadHandler))
	mux.HandleFunc("/api/candidates/search", a.RequireAuth(a.CandidateSearchHandler))
	mux.HandleFunc("/api/candidates/", a.RequireAuth(a.CandidateDetailHandler))

	// Screening pipeline visibility
	mux.HandleFunc("/api/screening/metrics", a.RequireAuth(a.ScreeningMetricsHandler))

	return mux
}
