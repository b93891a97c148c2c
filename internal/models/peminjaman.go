package models

import "time"

// Peminjaman is a room reservation request for a same-day time interval.
// The interval is half-open: [WaktuMulai, WaktuSelesai).
type Peminjaman struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	RuanganID     int64     `json:"ruangan_id"`
	Tanggal       string    `json:"tanggal"`       // YYYY-MM-DD
	WaktuMulai    string    `json:"waktu_mulai"`   // HH:MM
	WaktuSelesai  string    `json:"waktu_selesai"` // HH:MM
	Keperluan     string    `json:"keperluan"`
	JumlahPeserta int64     `json:"jumlah_peserta"`
	Catatan       string    `json:"catatan"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Joined display fields, populated by list queries.
	UserUsername string `json:"user_username,omitempty"`
	RuanganNama  string `json:"ruangan_nama,omitempty"`
	GedungNama   string `json:"gedung_nama,omitempty"`
}

// Overlaps reports whether the reservation's interval overlaps [start, end)
// under half-open semantics. Back-to-back intervals do not overlap.
func (p *Peminjaman) Overlaps(start, end string) bool {
	return p.WaktuMulai < end && p.WaktuSelesai > start
}
