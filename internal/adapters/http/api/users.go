package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/okian/optiwork/internal/domain/model"
)

// handleListUsers handles GET /users.
func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	s.listCollection(w, r, model.Users)
}

// handleGetUser handles GET /users/{id}.
func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	s.getRecord(w, r, model.Users, chi.URLParam(r, "id"))
}

// listCollection writes every record of c.
func (s *Server) listCollection(w http.ResponseWriter, r *http.Request, c model.Collection) {
	records, err := s.store.List(r.Context(), c)
	if err != nil {
		s.writeStoreError(w, r, Wrap("api.list_"+string(c), err))
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// getRecord writes the record of c identified by id.
func (s *Server) getRecord(w http.ResponseWriter, r *http.Request, c model.Collection, id string) {
	record, err := s.store.Get(r.Context(), c, id)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}
