package database

import (
	"context"
	"testing"

	"siruang/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *DB {
	logger := zerolog.Nop()
	db, err := NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

// seedRoom creates a user, building and room and returns their IDs.
func seedRoom(t *testing.T, db *DB) (userID, ruanganID int64) {
	ctx := context.Background()

	user := &models.User{Username: "budi", Email: "budi@kampus.ac.id", PasswordHash: "x", Role: models.RoleUser}
	require.NoError(t, db.CreateUser(ctx, user))

	gedung := &models.Gedung{Nama: "Gedung A", Lokasi: "Kampus Pusat"}
	require.NoError(t, db.CreateGedung(ctx, gedung))

	ruangan := &models.Ruangan{GedungID: gedung.ID, NamaRuangan: "A-101", Kapasitas: 40}
	require.NoError(t, db.CreateRuangan(ctx, ruangan))

	return user.ID, ruangan.ID
}

func insertPeminjaman(t *testing.T, db *DB, userID, ruanganID int64, tanggal, mulai, selesai, status string) int64 {
	ctx := context.Background()
	p := &models.Peminjaman{
		UserID:        userID,
		RuanganID:     ruanganID,
		Tanggal:       tanggal,
		WaktuMulai:    mulai,
		WaktuSelesai:  selesai,
		Keperluan:     "kuliah",
		JumlahPeserta: 10,
	}
	_, err := db.CreatePeminjamanWithLock(ctx, p)
	require.NoError(t, err)

	if status != models.StatusPending {
		_, err := db.ExecContext(ctx, `UPDATE peminjaman SET status = ? WHERE id = ?`, status, p.ID)
		require.NoError(t, err)
	}
	return p.ID
}

func TestFindConflicts_OverlapGrid(t *testing.T) {
	db := setupTestDB(t)
	userID, ruanganID := seedRoom(t, db)
	ctx := context.Background()

	// Existing reservation 10:00-12:00.
	insertPeminjaman(t, db, userID, ruanganID, "2025-09-01", "10:00", "12:00", models.StatusApproved)

	tests := []struct {
		name     string
		mulai    string
		selesai  string
		conflict bool
	}{
		{"identical interval", "10:00", "12:00", true},
		{"contained inside", "10:30", "11:30", true},
		{"contains existing", "09:00", "13:00", true},
		{"overlaps start", "09:00", "10:30", true},
		{"overlaps end", "11:30", "13:00", true},
		{"back to back before", "08:00", "10:00", false},
		{"back to back after", "12:00", "14:00", false},
		{"disjoint earlier", "07:00", "08:00", false},
		{"disjoint later", "13:00", "14:00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conflicts, err := db.FindConflicts(ctx, ruanganID, "2025-09-01", tt.mulai, tt.selesai)
			require.NoError(t, err)
			assert.Equal(t, tt.conflict, len(conflicts) > 0)

			has, err := db.HasConflict(ctx, ruanganID, "2025-09-01", tt.mulai, tt.selesai)
			require.NoError(t, err)
			assert.Equal(t, tt.conflict, has)
		})
	}
}

func TestFindConflicts_ScopedToRoomAndDate(t *testing.T) {
	db := setupTestDB(t)
	userID, ruanganID := seedRoom(t, db)
	ctx := context.Background()

	insertPeminjaman(t, db, userID, ruanganID, "2025-09-01", "10:00", "12:00", models.StatusApproved)

	// Same time, different date.
	conflicts, err := db.FindConflicts(ctx, ruanganID, "2025-09-02", "10:00", "12:00")
	require.NoError(t, err)
	assert.Empty(t, conflicts)

	// Same time and date, different room.
	otherRoom := &models.Ruangan{GedungID: 1, NamaRuangan: "A-102", Kapasitas: 20}
	require.NoError(t, db.CreateRuangan(ctx, otherRoom))

	conflicts, err = db.FindConflicts(ctx, otherRoom.ID, "2025-09-01", "10:00", "12:00")
	require.NoError(t, err)
	assert.Empty(t, conflicts)
}

func TestFindConflicts_RejectedAndCanceledDoNotBlock(t *testing.T) {
	db := setupTestDB(t)
	userID, ruanganID := seedRoom(t, db)
	ctx := context.Background()

	insertPeminjaman(t, db, userID, ruanganID, "2025-09-01", "10:00", "12:00", models.StatusRejected)
	insertPeminjaman(t, db, userID, ruanganID, "2025-09-01", "10:00", "12:00", models.StatusCanceled)

	conflicts, err := db.FindConflicts(ctx, ruanganID, "2025-09-01", "10:00", "12:00")
	require.NoError(t, err)
	assert.Empty(t, conflicts)

	// Pending blocks just like approved.
	insertPeminjaman(t, db, userID, ruanganID, "2025-09-01", "10:00", "12:00", models.StatusPending)

	conflicts, err = db.FindConflicts(ctx, ruanganID, "2025-09-01", "11:00", "13:00")
	require.NoError(t, err)
	assert.Len(t, conflicts, 1)
}

func TestCreatePeminjamanWithLock_Conflict(t *testing.T) {
	db := setupTestDB(t)
	userID, ruanganID := seedRoom(t, db)
	ctx := context.Background()

	first := &models.Peminjaman{
		UserID: userID, RuanganID: ruanganID,
		Tanggal: "2025-09-01", WaktuMulai: "10:00", WaktuSelesai: "12:00",
		Keperluan: "kuliah", JumlahPeserta: 10,
	}
	conflicts, err := db.CreatePeminjamanWithLock(ctx, first)
	require.NoError(t, err)
	assert.Empty(t, conflicts)
	assert.NotZero(t, first.ID)
	assert.Equal(t, models.StatusPending, first.Status)

	second := &models.Peminjaman{
		UserID: userID, RuanganID: ruanganID,
		Tanggal: "2025-09-01", WaktuMulai: "11:00", WaktuSelesai: "13:00",
		Keperluan: "rapat", JumlahPeserta: 5,
	}
	conflicts, err = db.CreatePeminjamanWithLock(ctx, second)
	require.ErrorIs(t, err, ErrConflict)
	require.Len(t, conflicts, 1)
	assert.Equal(t, first.ID, conflicts[0].ID)
	assert.Zero(t, second.ID)

	// Nothing was inserted for the losing request.
	list, err := db.ListPeminjamanByRuangan(ctx, ruanganID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestTransitionPeminjamanStatus(t *testing.T) {
	db := setupTestDB(t)
	userID, ruanganID := seedRoom(t, db)
	ctx := context.Background()

	id := insertPeminjaman(t, db, userID, ruanganID, "2025-09-01", "10:00", "12:00", models.StatusPending)

	err := db.TransitionPeminjamanStatus(ctx, id, models.StatusPending, models.StatusApproved, userID, "ok")
	require.NoError(t, err)

	p, err := db.GetPeminjaman(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, p.Status)

	logs, err := db.ListApprovalLogsByPeminjaman(ctx, id)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, models.StatusPending, logs[0].StatusSebelumnya)
	assert.Equal(t, models.StatusApproved, logs[0].StatusBaru)
	assert.Equal(t, "ok", logs[0].Catatan)
}

func TestTransitionPeminjamanStatus_CompareAndSwap(t *testing.T) {
	db := setupTestDB(t)
	userID, ruanganID := seedRoom(t, db)
	ctx := context.Background()

	id := insertPeminjaman(t, db, userID, ruanganID, "2025-09-01", "10:00", "12:00", models.StatusPending)

	require.NoError(t, db.TransitionPeminjamanStatus(ctx, id, models.StatusPending, models.StatusApproved, userID, ""))

	// A second transition racing from the stale pending state must lose, and
	// must not append a log entry.
	err := db.TransitionPeminjamanStatus(ctx, id, models.StatusPending, models.StatusRejected, userID, "")
	require.ErrorIs(t, err, ErrConcurrentModification)

	count, err := db.CountApprovalLogsByPeminjaman(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	p, err := db.GetPeminjaman(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, p.Status)
}

func TestGetPeminjaman_NotFound(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.GetPeminjaman(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListPeminjamanByDateRange(t *testing.T) {
	db := setupTestDB(t)
	userID, ruanganID := seedRoom(t, db)
	ctx := context.Background()

	insertPeminjaman(t, db, userID, ruanganID, "2025-09-01", "08:00", "09:00", models.StatusApproved)
	insertPeminjaman(t, db, userID, ruanganID, "2025-09-05", "08:00", "09:00", models.StatusApproved)
	insertPeminjaman(t, db, userID, ruanganID, "2025-09-10", "08:00", "09:00", models.StatusApproved)

	list, err := db.ListPeminjamanByDateRange(ctx, "2025-09-01", "2025-09-05")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "2025-09-01", list[0].Tanggal)
	assert.Equal(t, "2025-09-05", list[1].Tanggal)
	assert.Equal(t, "budi", list[0].UserUsername)
	assert.Equal(t, "A-101", list[0].RuanganNama)
	assert.Equal(t, "Gedung A", list[0].GedungNama)
}
