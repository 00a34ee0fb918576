package server

import (
	"net/http"

	"snappy/errors"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type setAvatarRequest struct {
	Image string `json:"image"`
}

func (s *Server) registerAuthRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/auth/register", func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if !s.decodeJSON(w, r, &req) {
			return
		}
		token, user, err := s.auth.Register(req.Username, req.Email, req.Password)
		if err != nil {
			s.fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"status": true,
			"user":   user.PublicIdentity(),
			"token":  token,
		})
	})

	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if !s.decodeJSON(w, r, &req) {
			return
		}
		token, user, err := s.auth.Login(req.Username, req.Password)
		if err != nil {
			s.fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"status": true,
			"user":   user.PublicIdentity(),
			"token":  token,
		})
	})

	mux.HandleFunc("GET /api/auth/allusers/{id}", func(w http.ResponseWriter, r *http.Request) {
		users, err := s.users.AllUsers(r.PathValue("id"))
		if err != nil {
			s.fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, users)
	})

	mux.HandleFunc("GET /api/auth/contacts/{id}", func(w http.ResponseWriter, r *http.Request) {
		contacts, err := s.users.Contacts(r.PathValue("id"))
		if err != nil {
			s.fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, contacts)
	})

	mux.HandleFunc("GET /api/auth/status/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		online, err := s.users.Status(id)
		if err != nil {
			s.fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"userId":   id,
			"isOnline": online,
		})
	})

	mux.HandleFunc("POST /api/auth/setavatar/{id}", func(w http.ResponseWriter, r *http.Request) {
		var req setAvatarRequest
		if !s.decodeJSON(w, r, &req) {
			return
		}
		user, err := s.users.SetAvatar(r.PathValue("id"), req.Image)
		if err != nil {
			s.fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"isSet": true,
			"image": user.AvatarImage,
		})
	})

	mux.HandleFunc("GET /api/auth/logout/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if id == "" {
			s.fail(w, errors.ErrMissingIdentity)
			return
		}
		// Explicit logout unbinds regardless of which connection is bound.
		s.lifecycle.Disconnect(r.Context(), id, nil)
		writeJSON(w, http.StatusOK, map[string]bool{"status": true})
	})
}
