package models

import "time"

// Gedung is a campus building. Map position fields back the frontend map view.
type Gedung struct {
	ID             int64     `json:"id"`
	Nama           string    `json:"nama"`
	Lokasi         string    `json:"lokasi"`
	Singkatan      string    `json:"singkatan"`
	JamOperasional string    `json:"jam_operasional"`
	Pengelola      string    `json:"pengelola"`
	PosisiPetaX    float64   `json:"posisi_peta_x"`
	PosisiPetaY    float64   `json:"posisi_peta_y"`
	JumlahRuangan  int64     `json:"jumlah_ruangan"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
