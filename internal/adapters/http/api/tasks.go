package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/okian/optiwork/internal/domain/model"
	"github.com/okian/optiwork/pkg/logger"
)

const maxBodyBytes = 1 << 20

var errNotObject = errors.New("body must be a JSON object")

// decodeObject reads a JSON object body. Arrays, scalars, null and trailing
// data are rejected.
func decodeObject(r *http.Request) (model.Record, error) {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("unexpected data after JSON object")
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, errNotObject
	}
	return model.Record(obj), nil
}

// handleListTasks handles GET /tasks.
func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	s.listCollection(w, r, model.Tasks)
}

// handleGetTask handles GET /tasks/{id}.
func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	s.getRecord(w, r, model.Tasks, chi.URLParam(r, "id"))
}

// handleCreateTask handles POST /tasks.
func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_task"
	fields, err := decodeObject(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, WrapKind(op, ErrBadRequest, err))
		return
	}
	task, err := s.store.CreateTask(r.Context(), fields)
	if err != nil {
		s.writeStoreError(w, r, Wrap(op, err))
		return
	}
	id, _ := task.String("id")
	s.logger.Info(r.Context(), "task created", logger.String("task_id", id))
	writeJSON(w, http.StatusOK, task)
}

// handleUpdateTask handles PATCH /tasks/{id}.
func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	const op = "api.update_task"
	id := chi.URLParam(r, "id")
	changes, err := decodeObject(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, WrapKind(op, ErrBadRequest, err))
		return
	}
	task, err := s.store.UpdateTask(r.Context(), id, changes)
	if err != nil {
		s.writeStoreError(w, r, Wrap(op, err))
		return
	}
	s.logger.Info(r.Context(), "task updated", logger.String("task_id", id))
	writeJSON(w, http.StatusOK, task)
}

// handleDeleteTask handles DELETE /tasks/{id}.
func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	const op = "api.delete_task"
	id := chi.URLParam(r, "id")
	if err := s.store.DeleteTask(r.Context(), id); err != nil {
		s.writeStoreError(w, r, Wrap(op, err))
		return
	}
	s.logger.Info(r.Context(), "task deleted", logger.String("task_id", id))
	writeJSON(w, http.StatusOK, okResponse{OK: true, Message: "Task deleted"})
}
