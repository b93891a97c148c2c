package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"siruang/internal/models"
)

const peminjamanColumns = `p.id, p.user_id, p.ruangan_id, p.tanggal, p.waktu_mulai, p.waktu_selesai,
	p.keperluan, p.jumlah_peserta, COALESCE(p.catatan, ''), p.status, p.created_at, p.updated_at`

const peminjamanJoins = `FROM peminjaman p
	JOIN users u ON p.user_id = u.id
	JOIN ruangan r ON p.ruangan_id = r.id
	JOIN gedung g ON r.gedung_id = g.id`

func scanPeminjaman(row interface{ Scan(...any) error }, joined bool) (*models.Peminjaman, error) {
	p := &models.Peminjaman{}
	dest := []any{
		&p.ID, &p.UserID, &p.RuanganID, &p.Tanggal, &p.WaktuMulai, &p.WaktuSelesai,
		&p.Keperluan, &p.JumlahPeserta, &p.Catatan, &p.Status, &p.CreatedAt, &p.UpdatedAt,
	}
	if joined {
		dest = append(dest, &p.UserUsername, &p.RuanganNama, &p.GedungNama)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return p, nil
}

// FindConflicts returns reservations for the same room and date that overlap
// [waktuMulai, waktuSelesai) under half-open semantics. Rejected and canceled
// reservations never block; pending holds the slot just like approved.
func (db *DB) FindConflicts(ctx context.Context, ruanganID int64, tanggal, waktuMulai, waktuSelesai string) ([]*models.Peminjaman, error) {
	query := `SELECT ` + peminjamanColumns + ` FROM peminjaman p
		WHERE p.ruangan_id = ? AND p.tanggal = ?
		AND p.status NOT IN (?, ?)
		AND p.waktu_mulai < ? AND p.waktu_selesai > ?
		ORDER BY p.waktu_mulai`

	rows, err := db.QueryContext(ctx, query, ruanganID, tanggal,
		models.StatusRejected, models.StatusCanceled, waktuSelesai, waktuMulai)
	if err != nil {
		return nil, fmt.Errorf("failed to find conflicts: %w", err)
	}
	defer rows.Close()

	var conflicts []*models.Peminjaman
	for rows.Next() {
		p, err := scanPeminjaman(rows, false)
		if err != nil {
			return nil, fmt.Errorf("failed to scan conflict row: %w", err)
		}
		conflicts = append(conflicts, p)
	}
	return conflicts, rows.Err()
}

// HasConflict is the boolean variant of FindConflicts.
func (db *DB) HasConflict(ctx context.Context, ruanganID int64, tanggal, waktuMulai, waktuSelesai string) (bool, error) {
	query := `SELECT COUNT(*) FROM peminjaman
		WHERE ruangan_id = ? AND tanggal = ?
		AND status NOT IN (?, ?)
		AND waktu_mulai < ? AND waktu_selesai > ?`

	var count int
	err := db.QueryRowContext(ctx, query, ruanganID, tanggal,
		models.StatusRejected, models.StatusCanceled, waktuSelesai, waktuMulai).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check conflict: %w", err)
	}
	return count > 0, nil
}

// CreatePeminjamanWithLock re-runs the conflict predicate and inserts inside
// one transaction, closing the check-then-act window between two concurrent
// creation requests. On conflict it returns the blocking reservations
// alongside ErrConflict.
func (db *DB) CreatePeminjamanWithLock(ctx context.Context, p *models.Peminjaman) ([]*models.Peminjaman, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `SELECT ` + peminjamanColumns + ` FROM peminjaman p
		WHERE p.ruangan_id = ? AND p.tanggal = ?
		AND p.status NOT IN (?, ?)
		AND p.waktu_mulai < ? AND p.waktu_selesai > ?
		ORDER BY p.waktu_mulai`

	rows, err := tx.QueryContext(ctx, query, p.RuanganID, p.Tanggal,
		models.StatusRejected, models.StatusCanceled, p.WaktuSelesai, p.WaktuMulai)
	if err != nil {
		return nil, fmt.Errorf("failed to check conflicts in tx: %w", err)
	}

	var conflicts []*models.Peminjaman
	for rows.Next() {
		c, err := scanPeminjaman(rows, false)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan conflict row: %w", err)
		}
		conflicts = append(conflicts, c)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	if len(conflicts) > 0 {
		return conflicts, ErrConflict
	}

	now := time.Now()
	result, err := tx.ExecContext(ctx,
		`INSERT INTO peminjaman (user_id, ruangan_id, tanggal, waktu_mulai, waktu_selesai,
			keperluan, jumlah_peserta, catatan, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.UserID, p.RuanganID, p.Tanggal, p.WaktuMulai, p.WaktuSelesai,
		p.Keperluan, p.JumlahPeserta, p.Catatan, models.StatusPending, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert peminjaman in tx: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}
	p.ID = id
	p.Status = models.StatusPending
	p.CreatedAt = now
	p.UpdatedAt = now

	return nil, tx.Commit()
}

// TransitionPeminjamanStatus updates the status and appends one approval log
// entry in a single transaction. The WHERE status guard makes the update a
// compare-and-swap: a concurrent transition loses and gets
// ErrConcurrentModification instead of silently overwriting.
func (db *DB) TransitionPeminjamanStatus(ctx context.Context, id int64, fromStatus, toStatus string, actorID int64, catatan string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	now := time.Now()
	result, err := tx.ExecContext(ctx,
		`UPDATE peminjaman SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
		toStatus, now, id, fromStatus,
	)
	if err != nil {
		return fmt.Errorf("failed to update peminjaman status: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrConcurrentModification
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO approval_log (peminjaman_id, admin_id, status_sebelumnya, status_baru, catatan, waktu_perubahan)
		VALUES (?, ?, ?, ?, ?, ?)`,
		id, actorID, fromStatus, toStatus, catatan, now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert approval log: %w", err)
	}

	return tx.Commit()
}

func (db *DB) GetPeminjaman(ctx context.Context, id int64) (*models.Peminjaman, error) {
	query := `SELECT ` + peminjamanColumns + `,
		u.username, r.nama_ruangan, g.nama ` + peminjamanJoins + ` WHERE p.id = ?`

	p, err := scanPeminjaman(db.QueryRowContext(ctx, query, id), true)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get peminjaman: %w", err)
	}
	return p, nil
}

func (db *DB) listPeminjaman(ctx context.Context, where, orderBy string, args ...any) ([]*models.Peminjaman, error) {
	query := `SELECT ` + peminjamanColumns + `,
		u.username, r.nama_ruangan, g.nama ` + peminjamanJoins
	if where != "" {
		query += ` WHERE ` + where
	}
	query += ` ORDER BY ` + orderBy

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list peminjaman: %w", err)
	}
	defer rows.Close()

	var list []*models.Peminjaman
	for rows.Next() {
		p, err := scanPeminjaman(rows, true)
		if err != nil {
			return nil, fmt.Errorf("failed to scan peminjaman: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (db *DB) ListPeminjaman(ctx context.Context) ([]*models.Peminjaman, error) {
	return db.listPeminjaman(ctx, "", "p.tanggal DESC, p.waktu_mulai")
}

func (db *DB) ListPeminjamanByStatus(ctx context.Context, status string) ([]*models.Peminjaman, error) {
	return db.listPeminjaman(ctx, "p.status = ?", "p.tanggal, p.waktu_mulai", status)
}

func (db *DB) ListPeminjamanByUser(ctx context.Context, userID int64) ([]*models.Peminjaman, error) {
	return db.listPeminjaman(ctx, "p.user_id = ?", "p.tanggal DESC, p.waktu_mulai", userID)
}

func (db *DB) ListPeminjamanByRuangan(ctx context.Context, ruanganID int64) ([]*models.Peminjaman, error) {
	return db.listPeminjaman(ctx, "p.ruangan_id = ?", "p.tanggal, p.waktu_mulai", ruanganID)
}

func (db *DB) ListPeminjamanByRuanganAndDate(ctx context.Context, ruanganID int64, tanggal string) ([]*models.Peminjaman, error) {
	return db.listPeminjaman(ctx, "p.ruangan_id = ? AND p.tanggal = ?", "p.waktu_mulai", ruanganID, tanggal)
}

// ListPeminjamanByDateRange returns reservations with tanggal in [start, end],
// ordered chronologically. Used by the export and sheets mirror.
func (db *DB) ListPeminjamanByDateRange(ctx context.Context, start, end string) ([]*models.Peminjaman, error) {
	return db.listPeminjaman(ctx, "p.tanggal >= ? AND p.tanggal <= ?", "p.tanggal, p.waktu_mulai", start, end)
}
