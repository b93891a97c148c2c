package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"siruang/internal/models"
)

const ruanganColumns = `r.id, r.gedung_id, r.nama_ruangan, r.kapasitas,
	COALESCE(r.deskripsi, ''), g.nama, r.created_at, r.updated_at`

func scanRuangan(row interface{ Scan(...any) error }) (*models.Ruangan, error) {
	r := &models.Ruangan{}
	err := row.Scan(&r.ID, &r.GedungID, &r.NamaRuangan, &r.Kapasitas,
		&r.Deskripsi, &r.GedungNama, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (db *DB) ListRuangan(ctx context.Context) ([]*models.Ruangan, error) {
	return db.listRuangan(ctx, "", nil)
}

func (db *DB) ListRuanganByGedung(ctx context.Context, gedungID int64) ([]*models.Ruangan, error) {
	return db.listRuangan(ctx, "WHERE r.gedung_id = ?", []any{gedungID})
}

func (db *DB) listRuangan(ctx context.Context, where string, args []any) ([]*models.Ruangan, error) {
	query := `SELECT ` + ruanganColumns + ` FROM ruangan r
		JOIN gedung g ON r.gedung_id = g.id ` + where + ` ORDER BY g.nama, r.nama_ruangan`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list ruangan: %w", err)
	}
	defer rows.Close()

	var list []*models.Ruangan
	for rows.Next() {
		r, err := scanRuangan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ruangan: %w", err)
		}
		list = append(list, r)
	}
	return list, rows.Err()
}

func (db *DB) GetRuangan(ctx context.Context, id int64) (*models.Ruangan, error) {
	r, err := scanRuangan(db.QueryRowContext(ctx,
		`SELECT `+ruanganColumns+` FROM ruangan r
		JOIN gedung g ON r.gedung_id = g.id WHERE r.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ruangan: %w", err)
	}
	return r, nil
}

func (db *DB) CreateRuangan(ctx context.Context, r *models.Ruangan) error {
	now := time.Now()
	result, err := db.ExecContext(ctx,
		`INSERT INTO ruangan (gedung_id, nama_ruangan, kapasitas, deskripsi, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		r.GedungID, r.NamaRuangan, r.Kapasitas, r.Deskripsi, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to create ruangan: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	r.ID = id
	r.CreatedAt = now
	r.UpdatedAt = now
	return nil
}

func (db *DB) UpdateRuangan(ctx context.Context, r *models.Ruangan) error {
	now := time.Now()
	result, err := db.ExecContext(ctx,
		`UPDATE ruangan SET gedung_id = ?, nama_ruangan = ?, kapasitas = ?, deskripsi = ?, updated_at = ?
		WHERE id = ?`,
		r.GedungID, r.NamaRuangan, r.Kapasitas, r.Deskripsi, now, r.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update ruangan: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	r.UpdatedAt = now
	return nil
}

func (db *DB) DeleteRuangan(ctx context.Context, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM ruangan WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete ruangan: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
