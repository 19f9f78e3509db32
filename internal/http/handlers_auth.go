package http

import (
	"errors"
	"net/http"

	"xpense/internal/core"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in core.RegisterInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	session, err := s.auth.Register(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, session)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in core.LoginInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	session, err := s.auth.Login(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, session)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	session, err := s.auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		// In this flow the failed token is a refresh token, so an undecodable
		// token gets the refresh error code rather than the access one.
		if errors.Is(err, core.ErrTokenInvalid) {
			writeJSON(w, http.StatusUnauthorized, ErrorEnvelope{
				ResultCode:    http.StatusUnauthorized,
				ResultMessage: err.Error(),
				ErrorCode:     CodeRefreshToken,
			})
			return
		}
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, session)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	if err := s.auth.Logout(r.Context(), user); err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]string{"detail": "logged out"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, userFrom(r.Context()))
}
