package api

import (
	"errors"
	"net/http"
	"path/filepath"
	"time"

	"siruang/internal/database"
	"siruang/internal/models"
)

type createPeminjamanRequest struct {
	RuanganID     int64  `json:"ruangan_id"`
	Tanggal       string `json:"tanggal"`
	WaktuMulai    string `json:"waktu_mulai"`
	WaktuSelesai  string `json:"waktu_selesai"`
	Keperluan     string `json:"keperluan"`
	JumlahPeserta int64  `json:"jumlah_peserta"`
}

func (s *HTTPServer) handleCreatePeminjaman(w http.ResponseWriter, r *http.Request) {
	var req createPeminjamanRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "body tidak valid")
		return
	}
	if req.RuanganID == 0 || req.Tanggal == "" || req.WaktuMulai == "" || req.WaktuSelesai == "" ||
		req.Keperluan == "" || req.JumlahPeserta == 0 {
		writeError(w, http.StatusBadRequest, "ruangan_id, tanggal, waktu_mulai, waktu_selesai, keperluan, dan jumlah_peserta wajib diisi")
		return
	}

	actor := actorFrom(r)
	p := &models.Peminjaman{
		UserID:        actor.ID,
		RuanganID:     req.RuanganID,
		Tanggal:       req.Tanggal,
		WaktuMulai:    req.WaktuMulai,
		WaktuSelesai:  req.WaktuSelesai,
		Keperluan:     req.Keperluan,
		JumlahPeserta: req.JumlahPeserta,
	}

	conflicts, err := s.reservations.Create(r.Context(), actor, p)
	if errors.Is(err, database.ErrConflict) {
		writeErrorPayload(w, http.StatusConflict, "jadwal bentrok dengan peminjaman lain", map[string]any{
			"conflicts": conflicts,
		})
		return
	}
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "peminjaman berhasil diajukan", p)
}

func (s *HTTPServer) handleListPeminjaman(w http.ResponseWriter, r *http.Request) {
	list, err := s.reservations.List(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "ok", list)
}

func (s *HTTPServer) handleListPeminjamanByStatus(w http.ResponseWriter, r *http.Request) {
	status := r.PathValue("status")
	if !models.IsValidStatus(status) {
		writeError(w, http.StatusBadRequest, "status tidak valid")
		return
	}
	list, err := s.reservations.ListByStatus(r.Context(), status)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "ok", list)
}

func (s *HTTPServer) handleListPeminjamanByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "id tidak valid")
		return
	}

	cap := actorFrom(r).CapabilityFor(userID)
	if !cap.Owner && !cap.Admin {
		writeError(w, http.StatusForbidden, "anda tidak memiliki akses")
		return
	}

	list, err := s.reservations.ListByUser(r.Context(), userID)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "ok", list)
}

// handleListPeminjamanByRuangan is public so the booking form can show the
// day's schedule before login. Without ?tanggal= it returns the room's whole
// history.
func (s *HTTPServer) handleListPeminjamanByRuangan(w http.ResponseWriter, r *http.Request) {
	ruanganID, err := pathID(r, "ruanganId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "id tidak valid")
		return
	}

	var list []*models.Peminjaman
	if tanggal := r.URL.Query().Get("tanggal"); tanggal != "" {
		if _, err := time.Parse(models.DateLayout, tanggal); err != nil {
			writeError(w, http.StatusBadRequest, "format tanggal tidak valid, gunakan YYYY-MM-DD")
			return
		}
		list, err = s.reservations.ListByRuanganAndDate(r.Context(), ruanganID, tanggal)
	} else {
		list, err = s.reservations.ListByRuangan(r.Context(), ruanganID)
	}
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "ok", list)
}

func (s *HTTPServer) handleGetPeminjaman(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "id tidak valid")
		return
	}

	p, err := s.reservations.Get(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	cap := actorFrom(r).CapabilityFor(p.UserID)
	if !cap.Owner && !cap.Admin {
		writeError(w, http.StatusForbidden, "anda tidak memiliki akses")
		return
	}
	writeSuccess(w, http.StatusOK, "ok", p)
}

type updateStatusRequest struct {
	Status  string `json:"status"`
	Catatan string `json:"catatan"`
}

func (s *HTTPServer) handleUpdatePeminjamanStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "id tidak valid")
		return
	}

	var req updateStatusRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "body tidak valid")
		return
	}
	// The decision route only approves or rejects. Cancellation goes
	// through DELETE, and re-submitting pending is not a decision.
	if req.Status != models.StatusApproved && req.Status != models.StatusRejected {
		writeError(w, http.StatusBadRequest, "status harus approved atau rejected")
		return
	}

	p, err := s.reservations.Transition(r.Context(), actorFrom(r), id, req.Status, req.Catatan)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "status peminjaman diperbarui", p)
}

type cancelRequest struct {
	Catatan string `json:"catatan"`
}

// handleCancelPeminjaman implements DELETE as a cancel transition. The row
// stays in place for the audit trail.
func (s *HTTPServer) handleCancelPeminjaman(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "id tidak valid")
		return
	}

	var req cancelRequest
	if r.Body != nil && r.ContentLength > 0 {
		if err := decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "body tidak valid")
			return
		}
	}

	p, err := s.reservations.Cancel(r.Context(), actorFrom(r), id, req.Catatan)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "peminjaman dibatalkan", p)
}

func (s *HTTPServer) handleExportPeminjaman(w http.ResponseWriter, r *http.Request) {
	start := r.URL.Query().Get("start")
	end := r.URL.Query().Get("end")
	if start == "" && end == "" {
		now := time.Now()
		start = now.AddDate(0, -models.DefaultExportRangeMonthsBefore, 0).Format(models.DateLayout)
		end = now.AddDate(0, models.DefaultExportRangeMonthsAfter, 0).Format(models.DateLayout)
	}
	if start == "" || end == "" {
		writeError(w, http.StatusBadRequest, "start dan end wajib diisi bersamaan")
		return
	}
	for _, d := range []string{start, end} {
		if _, err := time.Parse(models.DateLayout, d); err != nil {
			writeError(w, http.StatusBadRequest, "format tanggal tidak valid, gunakan YYYY-MM-DD")
			return
		}
	}

	path, err := s.exports.Export(r.Context(), start, end)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	w.Header().Set("Content-Disposition", "attachment; filename="+filepath.Base(path))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	http.ServeFile(w, r, path)
}
