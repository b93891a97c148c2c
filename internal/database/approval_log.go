package database

import (
	"context"
	"fmt"

	"siruang/internal/models"
)

// ListApprovalLogs returns the full audit trail, most recent first, with
// display fields joined in for the admin view.
func (db *DB) ListApprovalLogs(ctx context.Context) ([]*models.ApprovalLog, error) {
	query := `SELECT al.id, al.peminjaman_id, al.admin_id, al.status_sebelumnya, al.status_baru,
			COALESCE(al.catatan, ''), al.waktu_perubahan,
			u.username, p.keperluan, r.nama_ruangan, g.nama
		FROM approval_log al
		JOIN users u ON al.admin_id = u.id
		JOIN peminjaman p ON al.peminjaman_id = p.id
		JOIN ruangan r ON p.ruangan_id = r.id
		JOIN gedung g ON r.gedung_id = g.id
		ORDER BY al.waktu_perubahan DESC, al.id DESC`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list approval logs: %w", err)
	}
	defer rows.Close()

	var logs []*models.ApprovalLog
	for rows.Next() {
		l := &models.ApprovalLog{}
		err := rows.Scan(
			&l.ID, &l.PeminjamanID, &l.AdminID, &l.StatusSebelumnya, &l.StatusBaru,
			&l.Catatan, &l.WaktuPerubahan,
			&l.AdminUsername, &l.PeminjamanKeperluan, &l.RuanganNama, &l.GedungNama,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan approval log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// ListApprovalLogsByPeminjaman returns the audit trail of one reservation,
// most recent first.
func (db *DB) ListApprovalLogsByPeminjaman(ctx context.Context, peminjamanID int64) ([]*models.ApprovalLog, error) {
	query := `SELECT al.id, al.peminjaman_id, al.admin_id, al.status_sebelumnya, al.status_baru,
			COALESCE(al.catatan, ''), al.waktu_perubahan, u.username
		FROM approval_log al
		JOIN users u ON al.admin_id = u.id
		WHERE al.peminjaman_id = ?
		ORDER BY al.waktu_perubahan DESC, al.id DESC`

	rows, err := db.QueryContext(ctx, query, peminjamanID)
	if err != nil {
		return nil, fmt.Errorf("failed to list approval logs for peminjaman: %w", err)
	}
	defer rows.Close()

	var logs []*models.ApprovalLog
	for rows.Next() {
		l := &models.ApprovalLog{}
		err := rows.Scan(
			&l.ID, &l.PeminjamanID, &l.AdminID, &l.StatusSebelumnya, &l.StatusBaru,
			&l.Catatan, &l.WaktuPerubahan, &l.AdminUsername,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan approval log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// CountApprovalLogsByPeminjaman exists for tests asserting the append-only
// one-entry-per-transition property.
func (db *DB) CountApprovalLogsByPeminjaman(ctx context.Context, peminjamanID int64) (int, error) {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM approval_log WHERE peminjaman_id = ?`, peminjamanID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count approval logs: %w", err)
	}
	return count, nil
}
