package database

import (
	"context"
	"testing"

	"siruang/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGedungCRUD(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	g := &models.Gedung{Nama: "Rektorat", Lokasi: "Jl. Kampus 1", Singkatan: "RKT"}
	require.NoError(t, db.CreateGedung(ctx, g))
	require.NotZero(t, g.ID)

	got, err := db.GetGedung(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rektorat", got.Nama)
	assert.Zero(t, got.JumlahRuangan)

	require.NoError(t, db.CreateRuangan(ctx, &models.Ruangan{GedungID: g.ID, NamaRuangan: "R-1", Kapasitas: 10}))
	require.NoError(t, db.CreateRuangan(ctx, &models.Ruangan{GedungID: g.ID, NamaRuangan: "R-2", Kapasitas: 20}))

	got, err = db.GetGedung(ctx, g.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, got.JumlahRuangan)

	g.Nama = "Gedung Rektorat"
	require.NoError(t, db.UpdateGedung(ctx, g))

	got, err = db.GetGedung(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, "Gedung Rektorat", got.Nama)

	require.NoError(t, db.DeleteGedung(ctx, g.ID))
	_, err = db.GetGedung(ctx, g.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRuanganCRUD(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	g := &models.Gedung{Nama: "FMIPA"}
	require.NoError(t, db.CreateGedung(ctx, g))

	r := &models.Ruangan{GedungID: g.ID, NamaRuangan: "Lab Komputer", Kapasitas: 30, Deskripsi: "lantai 2"}
	require.NoError(t, db.CreateRuangan(ctx, r))

	got, err := db.GetRuangan(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lab Komputer", got.NamaRuangan)
	assert.Equal(t, "FMIPA", got.GedungNama)

	byGedung, err := db.ListRuanganByGedung(ctx, g.ID)
	require.NoError(t, err)
	assert.Len(t, byGedung, 1)

	r.Kapasitas = 35
	require.NoError(t, db.UpdateRuangan(ctx, r))

	got, err = db.GetRuangan(ctx, r.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 35, got.Kapasitas)

	require.NoError(t, db.DeleteRuangan(ctx, r.ID))
	_, err = db.GetRuangan(ctx, r.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
