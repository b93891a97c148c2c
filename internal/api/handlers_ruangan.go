package api

import (
	"net/http"
	"strings"

	"siruang/internal/models"
)

func (s *HTTPServer) handleListRuangan(w http.ResponseWriter, r *http.Request) {
	list, err := s.ruangan.List(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "ok", list)
}

func (s *HTTPServer) handleListRuanganByGedung(w http.ResponseWriter, r *http.Request) {
	gedungID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "id tidak valid")
		return
	}
	list, err := s.ruangan.ListByGedung(r.Context(), gedungID)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "ok", list)
}

func (s *HTTPServer) handleGetRuangan(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "id tidak valid")
		return
	}
	ruangan, err := s.ruangan.Get(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "ok", ruangan)
}

func (s *HTTPServer) handleCreateRuangan(w http.ResponseWriter, r *http.Request) {
	var ruangan models.Ruangan
	if err := decodeBody(r, &ruangan); err != nil {
		writeError(w, http.StatusBadRequest, "body tidak valid")
		return
	}
	if strings.TrimSpace(ruangan.NamaRuangan) == "" || ruangan.GedungID == 0 {
		writeError(w, http.StatusBadRequest, "nama_ruangan dan gedung_id wajib diisi")
		return
	}
	if err := s.ruangan.Create(r.Context(), &ruangan); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "ruangan berhasil dibuat", ruangan)
}

func (s *HTTPServer) handleUpdateRuangan(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "id tidak valid")
		return
	}
	var ruangan models.Ruangan
	if err := decodeBody(r, &ruangan); err != nil {
		writeError(w, http.StatusBadRequest, "body tidak valid")
		return
	}
	ruangan.ID = id
	if err := s.ruangan.Update(r.Context(), &ruangan); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "ruangan berhasil diperbarui", ruangan)
}

func (s *HTTPServer) handleDeleteRuangan(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "id tidak valid")
		return
	}
	if err := s.ruangan.Delete(r.Context(), id); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "ruangan berhasil dihapus", nil)
}
