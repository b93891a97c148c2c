package domain

import (
	"context"
	"time"

	"siruang/internal/models"
)

// Store is the persistence surface the services depend on. *database.DB is
// the production implementation.
type Store interface {
	// users
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	ListUsersByRole(ctx context.Context, role string) ([]*models.User, error)

	// gedung
	ListGedung(ctx context.Context) ([]*models.Gedung, error)
	GetGedung(ctx context.Context, id int64) (*models.Gedung, error)
	CreateGedung(ctx context.Context, g *models.Gedung) error
	UpdateGedung(ctx context.Context, g *models.Gedung) error
	DeleteGedung(ctx context.Context, id int64) error

	// ruangan
	ListRuangan(ctx context.Context) ([]*models.Ruangan, error)
	ListRuanganByGedung(ctx context.Context, gedungID int64) ([]*models.Ruangan, error)
	GetRuangan(ctx context.Context, id int64) (*models.Ruangan, error)
	CreateRuangan(ctx context.Context, r *models.Ruangan) error
	UpdateRuangan(ctx context.Context, r *models.Ruangan) error
	DeleteRuangan(ctx context.Context, id int64) error

	// peminjaman
	GetPeminjaman(ctx context.Context, id int64) (*models.Peminjaman, error)
	ListPeminjaman(ctx context.Context) ([]*models.Peminjaman, error)
	ListPeminjamanByStatus(ctx context.Context, status string) ([]*models.Peminjaman, error)
	ListPeminjamanByUser(ctx context.Context, userID int64) ([]*models.Peminjaman, error)
	ListPeminjamanByRuangan(ctx context.Context, ruanganID int64) ([]*models.Peminjaman, error)
	ListPeminjamanByRuanganAndDate(ctx context.Context, ruanganID int64, tanggal string) ([]*models.Peminjaman, error)
	ListPeminjamanByDateRange(ctx context.Context, start, end string) ([]*models.Peminjaman, error)
	HasConflict(ctx context.Context, ruanganID int64, tanggal, waktuMulai, waktuSelesai string) (bool, error)
	FindConflicts(ctx context.Context, ruanganID int64, tanggal, waktuMulai, waktuSelesai string) ([]*models.Peminjaman, error)
	CreatePeminjamanWithLock(ctx context.Context, p *models.Peminjaman) ([]*models.Peminjaman, error)
	TransitionPeminjamanStatus(ctx context.Context, id int64, fromStatus, toStatus string, actorID int64, catatan string) error

	// approval log
	ListApprovalLogs(ctx context.Context) ([]*models.ApprovalLog, error)
	ListApprovalLogsByPeminjaman(ctx context.Context, peminjamanID int64) ([]*models.ApprovalLog, error)
}

// TokenStore holds revoked token IDs until their natural expiry.
type TokenStore interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// SyncWorker accepts mirror tasks for the external spreadsheet.
type SyncWorker interface {
	EnqueueUpsert(ctx context.Context, p *models.Peminjaman) error
	EnqueueStatusUpdate(ctx context.Context, peminjamanID int64, status string) error
}
