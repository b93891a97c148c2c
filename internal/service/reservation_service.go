package service

import (
	"context"
	"errors"
	"time"

	"siruang/internal/database"
	"siruang/internal/domain"
	"siruang/internal/events"
	"siruang/internal/metrics"
	"siruang/internal/models"

	"github.com/rs/zerolog"
)

// ReservationService owns the reservation lifecycle: creation behind the
// transactional conflict guard, and the pending → approved/rejected/canceled
// state machine with its append-only approval log.
type ReservationService struct {
	store      domain.Store
	eventBus   domain.EventPublisher
	syncWorker domain.SyncWorker
	logger     *zerolog.Logger
}

func NewReservationService(store domain.Store, eventBus domain.EventPublisher, syncWorker domain.SyncWorker, logger *zerolog.Logger) *ReservationService {
	return &ReservationService{
		store:      store,
		eventBus:   eventBus,
		syncWorker: syncWorker,
		logger:     logger,
	}
}

// ValidateInterval checks that both times parse as HH:MM and that the
// interval is non-empty. The store-level conflict check assumes this has
// already happened.
func ValidateInterval(waktuMulai, waktuSelesai string) error {
	start, err := time.Parse(models.TimeLayout, waktuMulai)
	if err != nil {
		return database.ErrInvalidInterval
	}
	end, err := time.Parse(models.TimeLayout, waktuSelesai)
	if err != nil {
		return database.ErrInvalidInterval
	}
	if !start.Before(end) {
		return database.ErrInvalidInterval
	}
	return nil
}

// Create validates the request, re-checks conflicts atomically with the
// insert, and emits the created event. On overlap the blocking reservations
// are returned together with database.ErrConflict.
func (s *ReservationService) Create(ctx context.Context, actor models.Actor, p *models.Peminjaman) ([]*models.Peminjaman, error) {
	if _, err := time.Parse(models.DateLayout, p.Tanggal); err != nil {
		return nil, database.ErrInvalidInterval
	}
	if err := ValidateInterval(p.WaktuMulai, p.WaktuSelesai); err != nil {
		return nil, err
	}

	ruangan, err := s.store.GetRuangan(ctx, p.RuanganID)
	if err != nil {
		return nil, err
	}

	// Capacity is checked at creation only and never re-checked later.
	if p.JumlahPeserta > ruangan.Kapasitas {
		return nil, database.ErrCapacityExceeded
	}

	p.UserID = actor.ID
	p.Status = models.StatusPending

	conflicts, err := s.store.CreatePeminjamanWithLock(ctx, p)
	if errors.Is(err, database.ErrConflict) {
		metrics.IncConflict()
		return conflicts, err
	}
	if err != nil {
		return nil, err
	}

	p.RuanganNama = ruangan.NamaRuangan
	p.GedungNama = ruangan.GedungNama
	p.UserUsername = actor.Username

	s.publishEvent(events.EventReservationCreated, p, actor.ID, "")
	s.enqueueUpsert(ctx, p)

	return nil, nil
}

// Transition applies one step of the status state machine on behalf of the
// actor. Re-applying the current status is an idempotent no-op that creates
// no approval log entry.
func (s *ReservationService) Transition(ctx context.Context, actor models.Actor, peminjamanID int64, newStatus, catatan string) (*models.Peminjaman, error) {
	p, err := s.store.GetPeminjaman(ctx, peminjamanID)
	if err != nil {
		return nil, err
	}

	if p.Status == newStatus {
		return p, nil
	}

	if !legalSuccessor(p.Status, newStatus) {
		return nil, database.ErrInvalidTransition
	}
	if !transitionPermitted(newStatus, actor.CapabilityFor(p.UserID)) {
		return nil, database.ErrForbidden
	}

	if err := s.store.TransitionPeminjamanStatus(ctx, p.ID, p.Status, newStatus, actor.ID, catatan); err != nil {
		return nil, err
	}

	metrics.IncDecision(newStatus)

	updated, err := s.store.GetPeminjaman(ctx, peminjamanID)
	if err != nil {
		// The transition committed; fall back to the stale copy.
		s.logger.Error().Err(err).Int64("peminjaman_id", peminjamanID).Msg("reload after transition failed")
		p.Status = newStatus
		updated = p
	}

	s.publishEvent(transitionEventType(newStatus), updated, actor.ID, catatan)
	s.enqueueStatusUpdate(ctx, updated.ID, newStatus)

	return updated, nil
}

// Cancel withdraws a reservation: owners may cancel their own pending
// requests, admins any pending request. Terminal statuses refuse.
func (s *ReservationService) Cancel(ctx context.Context, actor models.Actor, peminjamanID int64, catatan string) (*models.Peminjaman, error) {
	return s.Transition(ctx, actor, peminjamanID, models.StatusCanceled, catatan)
}

func transitionEventType(status string) string {
	switch status {
	case models.StatusApproved:
		return events.EventReservationApproved
	case models.StatusRejected:
		return events.EventReservationRejected
	default:
		return events.EventReservationCanceled
	}
}

func (s *ReservationService) Get(ctx context.Context, id int64) (*models.Peminjaman, error) {
	return s.store.GetPeminjaman(ctx, id)
}

func (s *ReservationService) List(ctx context.Context) ([]*models.Peminjaman, error) {
	return s.store.ListPeminjaman(ctx)
}

func (s *ReservationService) ListByStatus(ctx context.Context, status string) ([]*models.Peminjaman, error) {
	return s.store.ListPeminjamanByStatus(ctx, status)
}

func (s *ReservationService) ListByUser(ctx context.Context, userID int64) ([]*models.Peminjaman, error) {
	return s.store.ListPeminjamanByUser(ctx, userID)
}

func (s *ReservationService) ListByRuangan(ctx context.Context, ruanganID int64) ([]*models.Peminjaman, error) {
	return s.store.ListPeminjamanByRuangan(ctx, ruanganID)
}

func (s *ReservationService) ListByRuanganAndDate(ctx context.Context, ruanganID int64, tanggal string) ([]*models.Peminjaman, error) {
	return s.store.ListPeminjamanByRuanganAndDate(ctx, ruanganID, tanggal)
}

func (s *ReservationService) ListByDateRange(ctx context.Context, start, end string) ([]*models.Peminjaman, error) {
	return s.store.ListPeminjamanByDateRange(ctx, start, end)
}

func (s *ReservationService) FindConflicts(ctx context.Context, ruanganID int64, tanggal, waktuMulai, waktuSelesai string) ([]*models.Peminjaman, error) {
	return s.store.FindConflicts(ctx, ruanganID, tanggal, waktuMulai, waktuSelesai)
}

func (s *ReservationService) ListApprovalLogs(ctx context.Context) ([]*models.ApprovalLog, error) {
	return s.store.ListApprovalLogs(ctx)
}

func (s *ReservationService) ListApprovalLogsByPeminjaman(ctx context.Context, peminjamanID int64) ([]*models.ApprovalLog, error) {
	return s.store.ListApprovalLogsByPeminjaman(ctx, peminjamanID)
}

func (s *ReservationService) publishEvent(eventType string, p *models.Peminjaman, actorID int64, catatan string) {
	if s.eventBus == nil {
		return
	}

	payload := events.ReservationEventPayload{
		PeminjamanID: p.ID,
		UserID:       p.UserID,
		UserUsername: p.UserUsername,
		RuanganID:    p.RuanganID,
		RuanganNama:  p.RuanganNama,
		GedungNama:   p.GedungNama,
		Tanggal:      p.Tanggal,
		WaktuMulai:   p.WaktuMulai,
		WaktuSelesai: p.WaktuSelesai,
		Keperluan:    p.Keperluan,
		Status:       p.Status,
		Catatan:      catatan,
		ActorID:      actorID,
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Int64("peminjaman_id", p.ID).Msg("publish event error")
	}
}

func (s *ReservationService) enqueueUpsert(ctx context.Context, p *models.Peminjaman) {
	if s.syncWorker == nil {
		return
	}
	if err := s.syncWorker.EnqueueUpsert(ctx, p); err != nil {
		s.logger.Error().Err(err).Int64("peminjaman_id", p.ID).Msg("sheets enqueue error")
	}
}

func (s *ReservationService) enqueueStatusUpdate(ctx context.Context, id int64, status string) {
	if s.syncWorker == nil {
		return
	}
	if err := s.syncWorker.EnqueueStatusUpdate(ctx, id, status); err != nil {
		s.logger.Error().Err(err).Int64("peminjaman_id", id).Msg("sheets enqueue error")
	}
}
