package jobs

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"parkhub/internal/mailer"
	"parkhub/internal/models"
)

type fakeHistory struct {
	bookings []models.BookingDetail
	err      error
}

func (f *fakeHistory) ListDetailedByUser(ctx context.Context, userID int64) ([]models.BookingDetail, error) {
	return f.bookings, f.err
}

type fakeUsers struct {
	user *models.User
	err  error
}

func (f *fakeUsers) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return f.user, f.err
}

type fakeMailer struct {
	to          string
	subject     string
	attachments []mailer.Attachment
	sent        int
}

func (f *fakeMailer) Send(ctx context.Context, to, subject, body string, attachments ...mailer.Attachment) error {
	f.to = to
	f.subject = subject
	f.attachments = attachments
	f.sent++
	return nil
}

func envelopeFor(t *testing.T, payload ExportCSVPayload) Envelope {
	t.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return Envelope{ID: "job-1", Name: JobExportCSV, Payload: raw, CreatedAt: time.Now()}
}

func TestExporterEmailsCSV(t *testing.T) {
	checkIn := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	checkOut := checkIn.Add(90 * time.Minute)
	cost := 15.0
	history := &fakeHistory{bookings: []models.BookingDetail{
		{BookingID: 3, LotName: "Central", SpotNumber: 2, CheckInTime: checkIn, CheckOutTime: &checkOut, TotalCost: &cost},
		{BookingID: 4, LotName: "Central", SpotNumber: 1, CheckInTime: checkOut, IsActive: true},
	}}
	users := &fakeUsers{user: &models.User{ID: 7, Email: "alice@example.com"}}
	mail := &fakeMailer{}

	exporter := NewExporter(history, users, mail, zap.NewNop())
	if err := exporter.Handle(context.Background(), envelopeFor(t, ExportCSVPayload{UserID: 7})); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if mail.sent != 1 {
		t.Fatalf("expected one email, got %d", mail.sent)
	}
	if mail.to != "alice@example.com" {
		t.Fatalf("expected recipient alice@example.com, got %q", mail.to)
	}
	if len(mail.attachments) != 1 || mail.attachments[0].Filename != "parking_history.csv" {
		t.Fatalf("expected parking_history.csv attachment, got %v", mail.attachments)
	}

	body := string(mail.attachments[0].Data)
	lines := strings.Split(strings.TrimSpace(body), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "Booking ID,Lot Name,Spot Number") {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	if !strings.Contains(lines[1], "15.00") {
		t.Fatalf("expected formatted cost in row, got %q", lines[1])
	}
	// Active booking has no checkout or cost yet.
	if !strings.HasSuffix(lines[2], ",,") {
		t.Fatalf("expected empty checkout and cost, got %q", lines[2])
	}
}

func TestExporterSkipsEmptyHistory(t *testing.T) {
	users := &fakeUsers{user: &models.User{ID: 7, Email: "alice@example.com"}}
	mail := &fakeMailer{}

	exporter := NewExporter(&fakeHistory{}, users, mail, zap.NewNop())
	if err := exporter.Handle(context.Background(), envelopeFor(t, ExportCSVPayload{UserID: 7})); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if mail.sent != 0 {
		t.Fatalf("expected no email for empty history, got %d", mail.sent)
	}
}

func TestExporterBadPayload(t *testing.T) {
	exporter := NewExporter(&fakeHistory{}, &fakeUsers{}, &fakeMailer{}, zap.NewNop())

	env := Envelope{ID: "job-2", Name: JobExportCSV, Payload: []byte("not json")}
	if err := exporter.Handle(context.Background(), env); err == nil {
		t.Fatal("expected decode error")
	}
}
