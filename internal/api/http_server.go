package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"siruang/internal/auth"
	"siruang/internal/config"
	"siruang/internal/database"
	"siruang/internal/service"

	"github.com/rs/zerolog"
)

// HTTPServer exposes the REST API for the room reservation system.
type HTTPServer struct {
	cfg    config.ServerConfig
	logger *zerolog.Logger
	server *http.Server

	// limiters holds one token bucket per client address.
	limiters sync.Map

	tokens       *auth.TokenManager
	users        *service.UserService
	reservations *service.ReservationService
	gedung       *service.GedungService
	ruangan      *service.RuanganService
	exports      *service.ExportService
}

type Services struct {
	Tokens       *auth.TokenManager
	Users        *service.UserService
	Reservations *service.ReservationService
	Gedung       *service.GedungService
	Ruangan      *service.RuanganService
	Exports      *service.ExportService
}

func NewHTTPServer(cfg config.ServerConfig, svc Services, logger *zerolog.Logger) *HTTPServer {
	srv := &HTTPServer{
		cfg:          cfg,
		logger:       logger,
		tokens:       svc.Tokens,
		users:        svc.Users,
		reservations: svc.Reservations,
		gedung:       svc.Gedung,
		ruangan:      svc.Ruangan,
		exports:      svc.Exports,
	}

	mux := http.NewServeMux()
	srv.routes(mux)

	handler := srv.requestID(srv.accessLog(srv.rateLimit(srv.cors(mux))))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	return srv
}

func (s *HTTPServer) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", s.handleHealth)

	mux.HandleFunc("POST /auth/register", s.handleRegister)
	mux.HandleFunc("POST /auth/login", s.handleLogin)
	mux.Handle("POST /auth/logout", s.authenticate(http.HandlerFunc(s.handleLogout)))
	mux.Handle("GET /auth/me", s.authenticate(http.HandlerFunc(s.handleMe)))

	mux.HandleFunc("GET /gedung", s.handleListGedung)
	mux.HandleFunc("GET /gedung/{id}", s.handleGetGedung)
	mux.HandleFunc("GET /gedung/{id}/ruangan", s.handleListRuanganByGedung)
	mux.Handle("POST /gedung", s.requireAdmin(http.HandlerFunc(s.handleCreateGedung)))
	mux.Handle("PUT /gedung/{id}", s.requireAdmin(http.HandlerFunc(s.handleUpdateGedung)))
	mux.Handle("DELETE /gedung/{id}", s.requireAdmin(http.HandlerFunc(s.handleDeleteGedung)))

	mux.HandleFunc("GET /ruangan", s.handleListRuangan)
	mux.HandleFunc("GET /ruangan/{id}", s.handleGetRuangan)
	mux.HandleFunc("GET /ruangan/gedung/{id}", s.handleListRuanganByGedung)
	mux.Handle("POST /ruangan", s.requireAdmin(http.HandlerFunc(s.handleCreateRuangan)))
	mux.Handle("PUT /ruangan/{id}", s.requireAdmin(http.HandlerFunc(s.handleUpdateRuangan)))
	mux.Handle("DELETE /ruangan/{id}", s.requireAdmin(http.HandlerFunc(s.handleDeleteRuangan)))

	mux.Handle("GET /peminjaman", s.requireAdmin(http.HandlerFunc(s.handleListPeminjaman)))
	mux.Handle("GET /peminjaman/status/{status}", s.requireAdmin(http.HandlerFunc(s.handleListPeminjamanByStatus)))
	mux.Handle("GET /peminjaman/user/{userId}", s.authenticate(http.HandlerFunc(s.handleListPeminjamanByUser)))
	mux.HandleFunc("GET /peminjaman/ruangan/{ruanganId}", s.handleListPeminjamanByRuangan)
	mux.Handle("GET /peminjaman/export", s.requireAdmin(http.HandlerFunc(s.handleExportPeminjaman)))
	mux.Handle("GET /peminjaman/{id}", s.authenticate(http.HandlerFunc(s.handleGetPeminjaman)))
	mux.Handle("POST /peminjaman", s.authenticate(http.HandlerFunc(s.handleCreatePeminjaman)))
	mux.Handle("PUT /peminjaman/{id}/status", s.requireAdmin(http.HandlerFunc(s.handleUpdatePeminjamanStatus)))
	mux.Handle("DELETE /peminjaman/{id}", s.authenticate(http.HandlerFunc(s.handleCancelPeminjaman)))

	mux.Handle("GET /approval-log", s.authenticate(http.HandlerFunc(s.handleListApprovalLogs)))
	mux.Handle("GET /approval-log/peminjaman/{id}", s.authenticate(http.HandlerFunc(s.handleListApprovalLogsByPeminjaman)))
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler returns the fully wired handler, used by tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, "ok", nil)
}

// writeDomainError maps service and storage errors onto HTTP status codes.
// Conflict errors are handled at the call site because their payload carries
// the overlapping reservations.
func (s *HTTPServer) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, database.ErrNotFound):
		writeError(w, http.StatusNotFound, "data tidak ditemukan")
	case errors.Is(err, database.ErrForbidden):
		writeError(w, http.StatusForbidden, "anda tidak memiliki akses")
	case errors.Is(err, database.ErrInvalidInterval):
		writeError(w, http.StatusBadRequest, "waktu mulai harus sebelum waktu selesai")
	case errors.Is(err, database.ErrInvalidTransition):
		writeError(w, http.StatusBadRequest, "perubahan status tidak valid")
	case errors.Is(err, database.ErrCapacityExceeded):
		writeError(w, http.StatusBadRequest, "jumlah peserta melebihi kapasitas ruangan")
	case errors.Is(err, database.ErrEmailTaken):
		writeError(w, http.StatusConflict, "email sudah terdaftar")
	case errors.Is(err, database.ErrConcurrentModification):
		writeError(w, http.StatusConflict, "data berubah, silakan coba lagi")
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "email atau password salah")
	case errors.Is(err, service.ErrInvalidAdminCode):
		writeError(w, http.StatusForbidden, "kode admin tidak valid")
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrTokenRevoked):
		writeError(w, http.StatusUnauthorized, "token tidak valid")
	default:
		s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("internal error")
		writeError(w, http.StatusInternalServerError, "terjadi kesalahan pada server")
	}
}
