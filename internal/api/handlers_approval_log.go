package api

import (
	"net/http"
	"strconv"

	"siruang/internal/models"
)

// handleListApprovalLogs serves the full decision history to admins.
// With ?peminjaman_id= it narrows to one reservation and the owner may
// read it too.
func (s *HTTPServer) handleListApprovalLogs(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r)

	if raw := r.URL.Query().Get("peminjaman_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "peminjaman_id tidak valid")
			return
		}
		s.listApprovalLogsForPeminjaman(w, r, id)
		return
	}

	if actor.Role != models.RoleAdmin {
		writeError(w, http.StatusForbidden, "anda tidak memiliki akses")
		return
	}
	logs, err := s.reservations.ListApprovalLogs(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "ok", logs)
}

func (s *HTTPServer) listApprovalLogsForPeminjaman(w http.ResponseWriter, r *http.Request, id int64) {
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

	logs, err := s.reservations.ListApprovalLogsByPeminjaman(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "ok", logs)
}

// handleListApprovalLogsByPeminjaman lets the reservation owner see the
// history of their own request; admins see any.
func (s *HTTPServer) handleListApprovalLogsByPeminjaman(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "id tidak valid")
		return
	}
	s.listApprovalLogsForPeminjaman(w, r, id)
}
