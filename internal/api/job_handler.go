package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"ats-backend/internal/storage"
)

type createJobRequest struct {
	Title         string `json:"title" validate:"required,min=3"`
	Description   string `json:"description" validate:"required"`
	ReqExperience string `json:"req_experience"`
	ReqSkills     string `json:"req_skills"`
	RcdURL        string `json:"rcd_url" validate:"omitempty,url"`
}

// JobsHandler lists or creates jobs
// @Summary List or create jobs
// @Description GET lists the caller's jobs, POST creates one
// @Tags jobs
// @Accept json
// @Produce json
// @Param body body createJobRequest false "Job details (POST)"
// @Success 200 {array} storage.Job
// @Success 201 {object} storage.Job
// @Failure 400 {object} map[string]string
// @Router /jobs [get]
// @Router /jobs [post]
func (a *API) JobsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		jobs, err := a.db.ListJobs(r.Context(), callerID(r))
		if err != nil {
			a.log.WithError(err).Error("listing jobs")
			writeError(w, http.StatusInternalServerError, "failed to list jobs")
			return
		}
		writeJSON(w, http.StatusOK, jobs)

	case http.MethodPost:
		var req createJobRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
		if err := a.validate.Struct(req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		job := &storage.Job{
			UserID:        callerID(r),
			Title:         req.Title,
			Description:   req.Description,
			ReqExperience: req.ReqExperience,
			ReqSkills:     req.ReqSkills,
			RcdURL:        req.RcdURL,
		}
		if err := a.db.CreateJob(r.Context(), job); err != nil {
			a.log.WithError(err).Error("creating job")
			writeError(w, http.StatusInternalServerError, "failed to create job")
			return
		}
		writeJSON(w, http.StatusCreated, job)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// JobDetailHandler returns one job or its ranked candidates
// @Summary Get job / ranked candidates
// @Description GET /jobs/{id} returns the job; GET /jobs/{id}/candidates returns its candidates ranked by match score
// @Tags jobs
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} storage.Job
// @Failure 404 {object} map[string]string
// @Router /jobs/{id} [get]
func (a *API) JobDetailHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/jobs/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")

	jobID, err := uuid.Parse(parts[0])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid job id")
		return
	}

	job, err := a.db.GetJob(r.Context(), jobID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load job")
		return
	}
	if job == nil {
		writeError(w, http.StatusNotFound, "job not found")
		return
	}

	if len(parts) == 2 && parts[1] == "candidates" {
		candidates, err := a.db.ListCandidatesByJob(r.Context(), jobID)
		if err != nil {
			a.log.WithError(err).Error("listing candidates")
			writeError(w, http.StatusInternalServerError, "failed to list candidates")
			return
		}
		writeJSON(w, http.StatusOK, candidates)
		return
	}

	writeJSON(w, http.StatusOK, job)
}
