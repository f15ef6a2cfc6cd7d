package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/okian/optiwork/internal/domain/model"
)

// Read-only views over the reference collections.

func (s *Server) handleListSkills(w http.ResponseWriter, r *http.Request) {
	s.listCollection(w, r, model.Skills)
}

func (s *Server) handleGetSkill(w http.ResponseWriter, r *http.Request) {
	s.getRecord(w, r, model.Skills, chi.URLParam(r, "id"))
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	s.listCollection(w, r, model.Reports)
}

// handleGetReport handles GET /reports/{date}; the date is matched as an
// exact string.
func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	s.getRecord(w, r, model.Reports, chi.URLParam(r, "date"))
}

func (s *Server) handleListPerformance(w http.ResponseWriter, r *http.Request) {
	s.listCollection(w, r, model.Performance)
}

// handleGetPerformance handles GET /performance/{employeeId}, matching
// either employeeId or employee_id.
func (s *Server) handleGetPerformance(w http.ResponseWriter, r *http.Request) {
	s.getRecord(w, r, model.Performance, chi.URLParam(r, "employeeId"))
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Analytics(r.Context()))
}

func (s *Server) handleListTraining(w http.ResponseWriter, r *http.Request) {
	s.listCollection(w, r, model.Training)
}

// handleTrainingFor handles GET /training-suggestions/{employeeId}. An
// employee without suggestions gets an empty list.
func (s *Server) handleTrainingFor(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.TrainingFor(r.Context(), chi.URLParam(r, "employeeId")))
}

func (s *Server) handleListSkillGaps(w http.ResponseWriter, r *http.Request) {
	s.listCollection(w, r, model.SkillGaps)
}
