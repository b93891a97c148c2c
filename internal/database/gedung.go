package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"siruang/internal/models"
)

const gedungColumns = `g.id, g.nama, COALESCE(g.lokasi, ''), COALESCE(g.singkatan, ''),
	COALESCE(g.jam_operasional, ''), COALESCE(g.pengelola, ''),
	g.posisi_peta_x, g.posisi_peta_y,
	(SELECT COUNT(*) FROM ruangan r WHERE r.gedung_id = g.id),
	g.created_at, g.updated_at`

func scanGedung(row interface{ Scan(...any) error }) (*models.Gedung, error) {
	g := &models.Gedung{}
	err := row.Scan(&g.ID, &g.Nama, &g.Lokasi, &g.Singkatan, &g.JamOperasional,
		&g.Pengelola, &g.PosisiPetaX, &g.PosisiPetaY, &g.JumlahRuangan,
		&g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return g, nil
}

func (db *DB) ListGedung(ctx context.Context) ([]*models.Gedung, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+gedungColumns+` FROM gedung g ORDER BY g.nama`)
	if err != nil {
		return nil, fmt.Errorf("failed to list gedung: %w", err)
	}
	defer rows.Close()

	var list []*models.Gedung
	for rows.Next() {
		g, err := scanGedung(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan gedung: %w", err)
		}
		list = append(list, g)
	}
	return list, rows.Err()
}

func (db *DB) GetGedung(ctx context.Context, id int64) (*models.Gedung, error) {
	g, err := scanGedung(db.QueryRowContext(ctx,
		`SELECT `+gedungColumns+` FROM gedung g WHERE g.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get gedung: %w", err)
	}
	return g, nil
}

func (db *DB) CreateGedung(ctx context.Context, g *models.Gedung) error {
	now := time.Now()
	result, err := db.ExecContext(ctx,
		`INSERT INTO gedung (nama, lokasi, singkatan, jam_operasional, pengelola,
			posisi_peta_x, posisi_peta_y, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.Nama, g.Lokasi, g.Singkatan, g.JamOperasional, g.Pengelola,
		g.PosisiPetaX, g.PosisiPetaY, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to create gedung: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	g.ID = id
	g.CreatedAt = now
	g.UpdatedAt = now
	return nil
}

func (db *DB) UpdateGedung(ctx context.Context, g *models.Gedung) error {
	now := time.Now()
	result, err := db.ExecContext(ctx,
		`UPDATE gedung SET nama = ?, lokasi = ?, singkatan = ?, jam_operasional = ?,
			pengelola = ?, posisi_peta_x = ?, posisi_peta_y = ?, updated_at = ?
		WHERE id = ?`,
		g.Nama, g.Lokasi, g.Singkatan, g.JamOperasional, g.Pengelola,
		g.PosisiPetaX, g.PosisiPetaY, now, g.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update gedung: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	g.UpdatedAt = now
	return nil
}

func (db *DB) DeleteGedung(ctx context.Context, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM gedung WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete gedung: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
