package api

import (
	"net/http"
	"strings"

	"siruang/internal/models"
)

func (s *HTTPServer) handleListGedung(w http.ResponseWriter, r *http.Request) {
	list, err := s.gedung.List(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "ok", list)
}

func (s *HTTPServer) handleGetGedung(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "id tidak valid")
		return
	}
	g, err := s.gedung.Get(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "ok", g)
}

func (s *HTTPServer) handleCreateGedung(w http.ResponseWriter, r *http.Request) {
	var g models.Gedung
	if err := decodeBody(r, &g); err != nil {
		writeError(w, http.StatusBadRequest, "body tidak valid")
		return
	}
	if strings.TrimSpace(g.Nama) == "" {
		writeError(w, http.StatusBadRequest, "nama gedung wajib diisi")
		return
	}
	if err := s.gedung.Create(r.Context(), &g); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "gedung berhasil dibuat", g)
}

func (s *HTTPServer) handleUpdateGedung(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "id tidak valid")
		return
	}
	var g models.Gedung
	if err := decodeBody(r, &g); err != nil {
		writeError(w, http.StatusBadRequest, "body tidak valid")
		return
	}
	g.ID = id
	if err := s.gedung.Update(r.Context(), &g); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "gedung berhasil diperbarui", g)
}

func (s *HTTPServer) handleDeleteGedung(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "id tidak valid")
		return
	}
	if err := s.gedung.Delete(r.Context(), id); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "gedung berhasil dihapus", nil)
}
