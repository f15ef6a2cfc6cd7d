package api

import (
	"errors"
	"net/http"

	"github.com/okian/optiwork/internal/domain/model"
)

var errMissingCredentials = errors.New("username and password required")

type loginResponse struct {
	OK   bool         `json:"ok"`
	User model.Record `json:"user"`
}

// handleLogin handles POST /login. The body is {username, password}; both
// must be non-empty strings.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	const op = "api.login"

	body, err := decodeObject(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, WrapKind(op, ErrBadRequest, err))
		return
	}
	username, _ := body["username"].(string)
	password, _ := body["password"].(string)
	if username == "" || password == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, WrapKind(op, ErrBadRequest, errMissingCredentials))
		return
	}

	user, err := s.store.Login(r.Context(), username, password)
	if err != nil {
		s.writeStoreError(w, r, WrapKind(op, ErrUnauthorized, err))
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{OK: true, User: user})
}
