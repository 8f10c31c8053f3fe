package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"ats-backend/internal/cv"
	"ats-backend/internal/storage"
)

// ResumeUploadHandler ingests a resume and enqueues the candidate for screening
// @Summary Upload resume
// @Description Upload a resume (PDF/DOCX/TXT) for a job. The candidate is parsed and enters the screening queue; the background worker scores it asynchronously.
// @Tags candidates
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Resume file"
// @Param job_id formData string true "Job ID"
// @Param name formData string true "Candidate name"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /candidates/upload [post]
func (a *API) ResumeUploadHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	startTime := time.Now()

	// Parse multipart form (max 10MB)
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "file too large or invalid (max 10MB)")
		return
	}

	jobID, err := uuid.Parse(r.FormValue("job_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid job_id")
		return
	}
	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
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

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer file.Close()

	ext := filepath.Ext(header.Filename)
	if ext != ".pdf" && ext != ".docx" && ext != ".doc" && ext != ".txt" {
		writeError(w, http.StatusBadRequest, "invalid file type (supported: PDF, DOCX, TXT)")
		return
	}

	parsed, err := a.parser.ParseFile(header.Filename, file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to parse resume: %v", err))
		return
	}

	a.log.WithField("filename", parsed.Filename).
		WithField("text_len", len(parsed.FullText)).Info("resume parsed")

	profile := cv.Extract(parsed.FullText)

	experiences := make([]storage.WorkExperience, 0, len(profile.Experiences))
	for _, e := range profile.Experiences {
		experiences = append(experiences, storage.WorkExperience{
			Title:     e.Title,
			Company:   e.Company,
			StartDate: e.StartDate,
			EndDate:   e.EndDate,
		})
	}

	// The candidate enters the queue as 'parsed'; the screening worker is the
	// only path that scores it. No synchronous screening on upload.
	candidate := &storage.Candidate{
		JobID:      jobID,
		UserID:     callerID(r),
		Name:       name,
		Email:      profile.Email,
		Phone:      profile.Phone,
		ResumePath: parsed.FilePath,
		Status:     storage.StatusParsed,
	}
	if err := a.db.CreateCandidate(r.Context(), candidate, profile.Skills, experiences); err != nil {
		a.log.WithError(err).Error("creating candidate")
		writeError(w, http.StatusInternalServerError, "failed to save candidate")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"candidate_id":       candidate.ID,
		"job_id":             jobID,
		"status":             candidate.Status,
		"skills":             profile.Skills,
		"experiences":        len(experiences),
		"processing_time_ms": time.Since(startTime).Milliseconds(),
	})
}

// CandidateSearchHandler searches candidates
// @Summary Search candidates
// @Description Search candidates by job, status, name and skills
// @Tags candidates
// @Accept json
// @Produce json
// @Param criteria body storage.CandidateSearch true "Search criteria"
// @Success 200 {array} storage.Candidate
// @Failure 400 {object} map[string]string
// @Router /candidates/search [post]
func (a *API) CandidateSearchHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var crit storage.CandidateSearch
	if err := json.NewDecoder(r.Body).Decode(&crit); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	candidates, err := a.db.SearchCandidates(r.Context(), &crit)
	if err != nil {
		a.log.WithError(err).Error("searching candidates")
		writeError(w, http.StatusInternalServerError, "search error")
		return
	}
	writeJSON(w, http.StatusOK, candidates)
}

// CandidateDetailHandler reads or soft-deletes one candidate
// @Summary Get or delete candidate
// @Description GET returns the candidate with its screening result and feedback history; DELETE soft-deletes it
// @Tags candidates
// @Produce json
// @Param id path string true "Candidate ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /candidates/{id} [get]
// @Router /candidates/{id} [delete]
func (a *API) CandidateDetailHandler(w http.ResponseWriter, r *http.Request) {
	idStr := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/candidates/"), "/")
	id, err := uuid.Parse(idStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid candidate id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		cand, err := a.db.GetCandidate(r.Context(), id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to load candidate")
			return
		}
		if cand == nil {
			writeError(w, http.StatusNotFound, "candidate not found")
			return
		}

		result, err := a.db.GetScreeningResult(r.Context(), id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to load screening result")
			return
		}
		feedback, err := a.db.ListFeedback(r.Context(), id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to load feedback")
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"candidate":        cand,
			"screening_result": result,
			"feedback":         feedback,
		})

	case http.MethodDelete:
		if err := a.db.SoftDeleteCandidate(r.Context(), id); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to delete candidate")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// ScreeningMetricsHandler exposes the queue worker's counters
// @Summary Screening pipeline metrics
// @Description Process-local screening counters (reset on restart)
// @Tags screening
// @Produce json
// @Success 200 {object} screening.MetricsSnapshot
// @Router /screening/metrics [get]
func (a *API) ScreeningMetricsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, a.worker.Metrics())
}
