package models

import "time"

// ApprovalLog is one immutable record of a reservation status transition.
// Rows are only ever inserted, never updated or deleted.
type ApprovalLog struct {
	ID               int64     `json:"id"`
	PeminjamanID     int64     `json:"peminjaman_id"`
	AdminID          int64     `json:"admin_id"`
	StatusSebelumnya string    `json:"status_sebelumnya"`
	StatusBaru       string    `json:"status_baru"`
	Catatan          string    `json:"catatan"`
	WaktuPerubahan   time.Time `json:"waktu_perubahan"`

	// Joined display fields.
	AdminUsername       string `json:"admin_username,omitempty"`
	PeminjamanKeperluan string `json:"peminjaman_keperluan,omitempty"`
	RuanganNama         string `json:"ruangan_nama,omitempty"`
	GedungNama          string `json:"gedung_nama,omitempty"`
}
