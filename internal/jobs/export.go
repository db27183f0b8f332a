package jobs

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"parkhub/internal/mailer"
	"parkhub/internal/models"
)

// BookingHistory provides the rows for an export.
type BookingHistory interface {
	ListDetailedByUser(ctx context.Context, userID int64) ([]models.BookingDetail, error)
}

// UserLookup resolves the recipient.
type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// Exporter renders a user's booking history as CSV and emails it.
type Exporter struct {
	bookings BookingHistory
	users    UserLookup
	mail     mailer.Mailer
	logger   *zap.Logger
}

// NewExporter builds the export job handler.
func NewExporter(bookings BookingHistory, users UserLookup, mail mailer.Mailer, logger *zap.Logger) *Exporter {
	return &Exporter{
		bookings: bookings,
		users:    users,
		mail:     mail,
		logger:   logger,
	}
}

// Handle executes one export_csv job.
func (e *Exporter) Handle(ctx context.Context, env Envelope) error {
	var payload ExportCSVPayload
	if err := json.Unmarshal(env.Payload, &payload); err != nil {
		return fmt.Errorf("export: decode payload: %w", err)
	}

	user, err := e.users.GetByID(ctx, payload.UserID)
	if err != nil {
		return fmt.Errorf("export: lookup user %d: %w", payload.UserID, err)
	}

	bookings, err := e.bookings.ListDetailedByUser(ctx, payload.UserID)
	if err != nil {
		return fmt.Errorf("export: list bookings: %w", err)
	}
	if len(bookings) == 0 {
		e.logger.Info("no bookings to export", zap.Int64("user_id", payload.UserID))
		return nil
	}

	data, err := renderCSV(bookings)
	if err != nil {
		return fmt.Errorf("export: render csv: %w", err)
	}

	err = e.mail.Send(ctx, user.Email,
		"Your Parking History Export",
		"Here is your parking history, attached as a CSV file.",
		mailer.Attachment{Filename: "parking_history.csv", Data: data},
	)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	e.logger.Info("export emailed", zap.Int64("user_id", payload.UserID), zap.Int("rows", len(bookings)))
	return nil
}

func renderCSV(bookings []models.BookingDetail) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"Booking ID", "Lot Name", "Spot Number", "Check-In Time", "Check-Out Time", "Total Cost"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, b := range bookings {
		checkOut := ""
		if b.CheckOutTime != nil {
			checkOut = b.CheckOutTime.UTC().Format(time.RFC3339)
		}
		cost := ""
		if b.TotalCost != nil {
			cost = strconv.FormatFloat(*b.TotalCost, 'f', 2, 64)
		}
		row := []string{
			strconv.FormatInt(b.BookingID, 10),
			b.LotName,
			strconv.Itoa(b.SpotNumber),
			b.CheckInTime.UTC().Format(time.RFC3339),
			checkOut,
			cost,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
