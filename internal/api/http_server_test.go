package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"siruang/internal/auth"
	"siruang/internal/config"
	"siruang/internal/database"
	"siruang/internal/models"
	"siruang/internal/repository"
	"siruang/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	handler    http.Handler
	db         *database.DB
	adminToken string
	userToken  string
	userID     int64
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Payload json.RawMessage `json:"payload"`
}

func newTestEnv(t *testing.T) *testEnv {
	logger := zerolog.Nop()

	db, err := database.NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	tokens := auth.NewTokenManager("test-secret", time.Hour, repository.NewMemoryTokenStore())
	users := service.NewUserService(db, tokens, "kode-admin", 4, &logger)
	reservations := service.NewReservationService(db, nil, nil, &logger)

	srv := NewHTTPServer(config.ServerConfig{Port: 0, CORSOrigin: "*"}, Services{
		Tokens:       tokens,
		Users:        users,
		Reservations: reservations,
		Gedung:       service.NewGedungService(db),
		Ruangan:      service.NewRuanganService(db),
		Exports:      service.NewExportService(db, t.TempDir()),
	}, &logger)

	env := &testEnv{handler: srv.Handler(), db: db}

	env.adminToken, _ = env.registerAndLogin(t, "admin", "admin@kampus.ac.id", true)
	env.userToken, env.userID = env.registerAndLogin(t, "budi", "budi@kampus.ac.id", false)

	return env
}

func (e *testEnv) registerAndLogin(t *testing.T, username, email string, admin bool) (string, int64) {
	body := map[string]any{"username": username, "email": email, "password": "password123"}
	if admin {
		body["role"] = "admin"
		body["admin_code"] = "kode-admin"
	}
	resp := e.do(t, http.MethodPost, "/auth/register", "", body)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	resp = e.do(t, http.MethodPost, "/auth/login", "", map[string]any{"email": email, "password": "password123"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var env envelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env))
	var payload struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Payload, &payload))
	require.NotEmpty(t, payload.Token)
	return payload.Token, payload.User.ID
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

// seedRoom creates a building and room through the admin API and returns the
// room ID.
func (e *testEnv) seedRoom(t *testing.T, kapasitas int) int64 {
	resp := e.do(t, http.MethodPost, "/gedung", e.adminToken, map[string]any{"nama": "Gedung A"})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var gedung models.Gedung
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, resp).Payload, &gedung))

	resp = e.do(t, http.MethodPost, "/ruangan", e.adminToken, map[string]any{
		"gedung_id": gedung.ID, "nama_ruangan": "A-101", "kapasitas": kapasitas,
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var ruangan models.Ruangan
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, resp).Payload, &ruangan))
	return ruangan.ID
}

func (e *testEnv) createPeminjaman(t *testing.T, token string, ruanganID int64, mulai, selesai string) *httptest.ResponseRecorder {
	return e.do(t, http.MethodPost, "/peminjaman", token, map[string]any{
		"ruangan_id":     ruanganID,
		"tanggal":        "2025-09-01",
		"waktu_mulai":    mulai,
		"waktu_selesai":  selesai,
		"keperluan":      "kuliah pengganti",
		"jumlah_peserta": 10,
	})
}

func TestAuthFlow(t *testing.T) {
	e := newTestEnv(t)

	resp := e.do(t, http.MethodGet, "/auth/me", e.userToken, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var user models.User
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, resp).Payload, &user))
	assert.Equal(t, "budi", user.Username)
	assert.Equal(t, models.RoleUser, user.Role)

	// No token.
	resp = e.do(t, http.MethodGet, "/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	// Logout revokes the token.
	resp = e.do(t, http.MethodPost, "/auth/logout", e.userToken, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	resp = e.do(t, http.MethodGet, "/auth/me", e.userToken, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestRegister_WrongAdminCode(t *testing.T) {
	e := newTestEnv(t)

	resp := e.do(t, http.MethodPost, "/auth/register", "", map[string]any{
		"username": "x", "email": "x@kampus.ac.id", "password": "password123",
		"role": "admin", "admin_code": "salah",
	})
	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	e := newTestEnv(t)

	resp := e.do(t, http.MethodPost, "/auth/register", "", map[string]any{
		"username": "budi2", "email": "budi@kampus.ac.id", "password": "password123",
	})
	assert.Equal(t, http.StatusConflict, resp.Code)
}

func TestLogin_BadCredentials(t *testing.T) {
	e := newTestEnv(t)

	resp := e.do(t, http.MethodPost, "/auth/login", "", map[string]any{
		"email": "budi@kampus.ac.id", "password": "salah",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.False(t, decodeEnvelope(t, resp).Success)
}

func TestGedungEndpoints_AdminOnly(t *testing.T) {
	e := newTestEnv(t)

	resp := e.do(t, http.MethodPost, "/gedung", e.userToken, map[string]any{"nama": "Gedung B"})
	assert.Equal(t, http.StatusForbidden, resp.Code)

	e.seedRoom(t, 40)

	// Listing is public.
	resp = e.do(t, http.MethodGet, "/gedung", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var list []models.Gedung
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, resp).Payload, &list))
	require.Len(t, list, 1)
	assert.EqualValues(t, 1, list[0].JumlahRuangan)

	// Both room-by-building routes are public and equivalent.
	for _, path := range []string{
		fmt.Sprintf("/gedung/%d/ruangan", list[0].ID),
		fmt.Sprintf("/ruangan/gedung/%d", list[0].ID),
	} {
		resp = e.do(t, http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusOK, resp.Code, path)
		var rooms []models.Ruangan
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, resp).Payload, &rooms))
		assert.Len(t, rooms, 1, path)
	}
}

func TestCreatePeminjaman(t *testing.T) {
	e := newTestEnv(t)
	ruanganID := e.seedRoom(t, 40)

	resp := e.createPeminjaman(t, e.userToken, ruanganID, "10:00", "12:00")
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var p models.Peminjaman
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, resp).Payload, &p))
	assert.Equal(t, models.StatusPending, p.Status)
	assert.Equal(t, e.userID, p.UserID)
}

func TestCreatePeminjaman_Conflict(t *testing.T) {
	e := newTestEnv(t)
	ruanganID := e.seedRoom(t, 40)

	resp := e.createPeminjaman(t, e.userToken, ruanganID, "10:00", "12:00")
	require.Equal(t, http.StatusCreated, resp.Code)

	resp = e.createPeminjaman(t, e.adminToken, ruanganID, "11:00", "13:00")
	require.Equal(t, http.StatusConflict, resp.Code)

	env := decodeEnvelope(t, resp)
	assert.False(t, env.Success)
	var payload struct {
		Conflicts []models.Peminjaman `json:"conflicts"`
	}
	require.NoError(t, json.Unmarshal(env.Payload, &payload))
	require.Len(t, payload.Conflicts, 1)
}

func TestCreatePeminjaman_Validation(t *testing.T) {
	e := newTestEnv(t)
	ruanganID := e.seedRoom(t, 5)

	// Inverted interval.
	resp := e.createPeminjaman(t, e.userToken, ruanganID, "12:00", "10:00")
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	// Unknown room.
	resp = e.createPeminjaman(t, e.userToken, 999, "10:00", "12:00")
	assert.Equal(t, http.StatusNotFound, resp.Code)

	// Over capacity.
	resp = e.do(t, http.MethodPost, "/peminjaman", e.userToken, map[string]any{
		"ruangan_id": ruanganID, "tanggal": "2025-09-01",
		"waktu_mulai": "10:00", "waktu_selesai": "12:00",
		"keperluan": "seminar", "jumlah_peserta": 50,
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	// Missing purpose.
	resp = e.do(t, http.MethodPost, "/peminjaman", e.userToken, map[string]any{
		"ruangan_id": ruanganID, "tanggal": "2025-09-01",
		"waktu_mulai": "10:00", "waktu_selesai": "12:00",
		"jumlah_peserta": 5,
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	// Missing attendee count.
	resp = e.do(t, http.MethodPost, "/peminjaman", e.userToken, map[string]any{
		"ruangan_id": ruanganID, "tanggal": "2025-09-01",
		"waktu_mulai": "10:00", "waktu_selesai": "12:00",
		"keperluan": "seminar",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	// No token.
	resp = e.createPeminjaman(t, "", ruanganID, "10:00", "12:00")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestUpdateStatus(t *testing.T) {
	e := newTestEnv(t)
	ruanganID := e.seedRoom(t, 40)

	resp := e.createPeminjaman(t, e.userToken, ruanganID, "10:00", "12:00")
	require.Equal(t, http.StatusCreated, resp.Code)
	var p models.Peminjaman
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, resp).Payload, &p))

	// Only admins decide.
	resp = e.do(t, http.MethodPut, fmt.Sprintf("/peminjaman/%d/status", p.ID), e.userToken,
		map[string]any{"status": "approved"})
	assert.Equal(t, http.StatusForbidden, resp.Code)

	// The decision route only takes approved or rejected; canceling goes
	// through DELETE and pending is not a decision.
	for _, status := range []string{"canceled", "pending"} {
		resp = e.do(t, http.MethodPut, fmt.Sprintf("/peminjaman/%d/status", p.ID), e.adminToken,
			map[string]any{"status": status})
		assert.Equal(t, http.StatusBadRequest, resp.Code, status)
	}
	resp = e.do(t, http.MethodGet, fmt.Sprintf("/peminjaman/%d", p.ID), e.userToken, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var unchanged models.Peminjaman
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, resp).Payload, &unchanged))
	assert.Equal(t, models.StatusPending, unchanged.Status)

	resp = e.do(t, http.MethodPut, fmt.Sprintf("/peminjaman/%d/status", p.ID), e.adminToken,
		map[string]any{"status": "approved", "catatan": "silakan"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var updated models.Peminjaman
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, resp).Payload, &updated))
	assert.Equal(t, models.StatusApproved, updated.Status)

	// Approved is terminal.
	resp = e.do(t, http.MethodPut, fmt.Sprintf("/peminjaman/%d/status", p.ID), e.adminToken,
		map[string]any{"status": "rejected"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	// Unknown reservation.
	resp = e.do(t, http.MethodPut, "/peminjaman/999/status", e.adminToken,
		map[string]any{"status": "approved"})
	assert.Equal(t, http.StatusNotFound, resp.Code)

	// Unknown status value.
	resp = e.do(t, http.MethodPut, fmt.Sprintf("/peminjaman/%d/status", p.ID), e.adminToken,
		map[string]any{"status": "maybe"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestCancelPeminjaman(t *testing.T) {
	e := newTestEnv(t)
	ruanganID := e.seedRoom(t, 40)

	resp := e.createPeminjaman(t, e.userToken, ruanganID, "10:00", "12:00")
	require.Equal(t, http.StatusCreated, resp.Code)
	var p models.Peminjaman
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, resp).Payload, &p))

	// A different non-admin user cannot cancel someone else's reservation.
	strangerToken, _ := e.registerAndLogin(t, "siti", "siti@kampus.ac.id", false)
	resp = e.do(t, http.MethodDelete, fmt.Sprintf("/peminjaman/%d", p.ID), strangerToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	// The owner can.
	resp = e.do(t, http.MethodDelete, fmt.Sprintf("/peminjaman/%d", p.ID), e.userToken, nil)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var canceled models.Peminjaman
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, resp).Payload, &canceled))
	assert.Equal(t, models.StatusCanceled, canceled.Status)
}

func TestListPeminjaman_Authorization(t *testing.T) {
	e := newTestEnv(t)
	ruanganID := e.seedRoom(t, 40)
	require.Equal(t, http.StatusCreated, e.createPeminjaman(t, e.userToken, ruanganID, "10:00", "12:00").Code)

	// Full listing is admin only.
	resp := e.do(t, http.MethodGet, "/peminjaman", e.userToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.Code)
	resp = e.do(t, http.MethodGet, "/peminjaman", e.adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.Code)

	// Users see their own history, not someone else's.
	resp = e.do(t, http.MethodGet, fmt.Sprintf("/peminjaman/user/%d", e.userID), e.userToken, nil)
	assert.Equal(t, http.StatusOK, resp.Code)
	resp = e.do(t, http.MethodGet, fmt.Sprintf("/peminjaman/user/%d", e.userID+100), e.userToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.Code)
	resp = e.do(t, http.MethodGet, fmt.Sprintf("/peminjaman/user/%d", e.userID), e.adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.Code)

	// The per-room schedule is public.
	resp = e.do(t, http.MethodGet, fmt.Sprintf("/peminjaman/ruangan/%d?tanggal=2025-09-01", ruanganID), "", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var list []models.Peminjaman
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, resp).Payload, &list))
	assert.Len(t, list, 1)

	resp = e.do(t, http.MethodGet, fmt.Sprintf("/peminjaman/ruangan/%d?tanggal=bukan-tanggal", ruanganID), "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestApprovalLogEndpoints(t *testing.T) {
	e := newTestEnv(t)
	ruanganID := e.seedRoom(t, 40)

	resp := e.createPeminjaman(t, e.userToken, ruanganID, "10:00", "12:00")
	require.Equal(t, http.StatusCreated, resp.Code)
	var p models.Peminjaman
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, resp).Payload, &p))

	resp = e.do(t, http.MethodPut, fmt.Sprintf("/peminjaman/%d/status", p.ID), e.adminToken,
		map[string]any{"status": "rejected", "catatan": "jadwal perawatan"})
	require.Equal(t, http.StatusOK, resp.Code)

	// Global log is admin only.
	resp = e.do(t, http.MethodGet, "/approval-log", e.userToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = e.do(t, http.MethodGet, "/approval-log", e.adminToken, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var logs []models.ApprovalLog
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, resp).Payload, &logs))
	require.Len(t, logs, 1)
	assert.Equal(t, "jadwal perawatan", logs[0].Catatan)

	// Owner may read the log of their own reservation.
	resp = e.do(t, http.MethodGet, fmt.Sprintf("/approval-log/peminjaman/%d", p.ID), e.userToken, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	// The query form behaves like the path form.
	resp = e.do(t, http.MethodGet, fmt.Sprintf("/approval-log?peminjaman_id=%d", p.ID), e.userToken, nil)
	assert.Equal(t, http.StatusOK, resp.Code)

	strangerToken, _ := e.registerAndLogin(t, "siti", "siti@kampus.ac.id", false)
	resp = e.do(t, http.MethodGet, fmt.Sprintf("/approval-log/peminjaman/%d", p.ID), strangerToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.Code)
	resp = e.do(t, http.MethodGet, fmt.Sprintf("/approval-log?peminjaman_id=%d", p.ID), strangerToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestExportEndpoint(t *testing.T) {
	e := newTestEnv(t)
	ruanganID := e.seedRoom(t, 40)
	require.Equal(t, http.StatusCreated, e.createPeminjaman(t, e.userToken, ruanganID, "10:00", "12:00").Code)

	resp := e.do(t, http.MethodGet, "/peminjaman/export?start=2025-09-01&end=2025-09-30", e.userToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = e.do(t, http.MethodGet, "/peminjaman/export?start=2025-09-01&end=2025-09-30", e.adminToken, nil)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Contains(t, resp.Header().Get("Content-Disposition"), ".xlsx")
	assert.NotZero(t, resp.Body.Len())

	resp = e.do(t, http.MethodGet, "/peminjaman/export", e.adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.Code, "omitting the period should fall back to the default range")

	resp = e.do(t, http.MethodGet, "/peminjaman/export?start=2025-09-01", e.adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestRateLimit_PerServerInstance(t *testing.T) {
	logger := zerolog.Nop()
	cfg := config.ServerConfig{
		CORSOrigin: "*",
		RateLimit:  config.RateLimitConfig{RPS: 1, Burst: 1},
	}
	srv := NewHTTPServer(cfg, Services{}, &logger)

	hit := func(h http.Handler) int {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.RemoteAddr = "10.0.0.9:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	require.Equal(t, http.StatusOK, hit(srv.Handler()))
	assert.Equal(t, http.StatusTooManyRequests, hit(srv.Handler()))

	// A fresh server starts with a fresh bucket for the same client.
	other := NewHTTPServer(cfg, Services{}, &logger)
	assert.Equal(t, http.StatusOK, hit(other.Handler()))
}

func TestHealthz(t *testing.T) {
	e := newTestEnv(t)

	resp := e.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, resp.Code)
}
