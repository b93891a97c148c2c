package models

import "time"

// Ruangan is a bookable room. It belongs to exactly one building and is
// read-only reference data during conflict checks.
type Ruangan struct {
	ID          int64     `json:"id"`
	GedungID    int64     `json:"gedung_id"`
	NamaRuangan string    `json:"nama_ruangan"`
	Kapasitas   int64     `json:"kapasitas"`
	Deskripsi   string    `json:"deskripsi"`
	GedungNama  string    `json:"gedung_nama,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
