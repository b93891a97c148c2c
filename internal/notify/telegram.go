package notify

import (
	"encoding/json"
	"fmt"

	"siruang/internal/config"
	"siruang/internal/events"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// TelegramNotifier pushes reservation events to the facilities admin chat.
type TelegramNotifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
	logger *zerolog.Logger
}

func NewTelegramNotifier(cfg config.TelegramConfig, logger *zerolog.Logger) (*TelegramNotifier, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("error creating telegram bot: %w", err)
	}
	return &TelegramNotifier{api: api, chatID: cfg.AdminChatID, logger: logger}, nil
}

// SubscribeTo wires the notifier into the event bus.
func (n *TelegramNotifier) SubscribeTo(bus *events.EventBus) {
	for _, eventType := range []string{
		events.EventReservationCreated,
		events.EventReservationApproved,
		events.EventReservationRejected,
		events.EventReservationCanceled,
	} {
		bus.Subscribe(eventType, n.handleEvent)
	}
}

func (n *TelegramNotifier) handleEvent(event *events.Event) error {
	var p events.ReservationEventPayload
	if err := json.Unmarshal(event.Payload, &p); err != nil {
		n.logger.Error().Err(err).Str("type", event.Type).Msg("error decoding event payload")
		return err
	}

	msg := tgbotapi.NewMessage(n.chatID, formatMessage(event.Type, p))
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := n.api.Send(msg); err != nil {
		n.logger.Error().Err(err).Str("type", event.Type).Msg("error sending telegram notification")
		return err
	}
	return nil
}

func formatMessage(eventType string, p events.ReservationEventPayload) string {
	var title string
	switch eventType {
	case events.EventReservationCreated:
		title = "📝 Pengajuan peminjaman baru"
	case events.EventReservationApproved:
		title = "✅ Peminjaman disetujui"
	case events.EventReservationRejected:
		title = "❌ Peminjaman ditolak"
	case events.EventReservationCanceled:
		title = "🚫 Peminjaman dibatalkan"
	default:
		title = "Peminjaman"
	}

	text := fmt.Sprintf("<b>%s</b>\nID: %d\nPeminjam: %s\nRuangan: %s (%s)\nTanggal: %s\nWaktu: %s - %s",
		title, p.PeminjamanID, p.UserUsername, p.RuanganNama, p.GedungNama,
		p.Tanggal, p.WaktuMulai, p.WaktuSelesai)
	if p.Keperluan != "" {
		text += "\nKeperluan: " + p.Keperluan
	}
	if p.Catatan != "" {
		text += "\nCatatan: " + p.Catatan
	}
	return text
}
