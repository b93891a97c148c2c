package api

import (
	"net/http"
	"strings"
)

type registerRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role,omitempty"`
	AdminCode string `json:"admin_code,omitempty"`
}

func (s *HTTPServer) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "body tidak valid")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Username == "" || req.Email == "" || len(req.Password) < 8 {
		writeError(w, http.StatusBadRequest, "username, email, dan password (min 8 karakter) wajib diisi")
		return
	}

	wantAdmin := req.Role == "admin"
	user, err := s.users.Register(r.Context(), req.Username, req.Email, req.Password, wantAdmin, req.AdminCode)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "registrasi berhasil", user)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginPayload struct {
	Token string `json:"token"`
	User  any    `json:"user"`
}

func (s *HTTPServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "body tidak valid")
		return
	}

	user, token, err := s.users.Login(r.Context(), strings.TrimSpace(strings.ToLower(req.Email)), req.Password)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "login berhasil", loginPayload{Token: token, User: user})
}

func (s *HTTPServer) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.users.Logout(r.Context(), claimsFrom(r)); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "logout berhasil", nil)
}

func (s *HTTPServer) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.users.GetByID(r.Context(), actorFrom(r).ID)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "ok", user)
}
