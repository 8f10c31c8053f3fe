package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"ats-backend/internal/auth"
	"ats-backend/internal/config"
	"ats-backend/internal/cv"
	"ats-backend/internal/logger"
	"ats-backend/internal/screening"
	"ats-backend/internal/storage"
)

// API bundles the handlers' dependencies.
type API struct {
	db       *storage.DB
	cfg      *config.Config
	parser   *cv.Parser
	tokens   *auth.Manager
	worker   *screening.Worker
	validate *validator.Validate
	log      *logrus.Entry
}

func NewAPI(db *storage.DB, cfg *config.Config, tokens *auth.Manager, worker *screening.Worker) *API {
	return &API{
		db:       db,
		cfg:      cfg,
		parser:   cv.NewParser(cfg.UploadsDir),
		tokens:   tokens,
		worker:   worker,
		validate: validator.New(),
		log:      logger.Component("api"),
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Component("api").WithError(err).Error("encoding response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
