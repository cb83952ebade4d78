package gateways

import (
	"context"
	"fmt"
	"html"
	"net/smtp"
	"strings"

	"resort-backend/logger"
)

type ReceiptLine struct {
	Description string
	Quantity    int
	Amount      string
}

// Receipt is the checkout summary mailed to the guest.
type Receipt struct {
	Recipient     string
	GuestName     string
	HotelName     string
	ReferenceCode string
	RoomName      string
	CheckIn       string
	CheckOut      string
	Currency      string
	Lines         []ReceiptLine
	Total         string
}

type SMTPSettings struct {
	Host     string
	Port     string
	Username string
	Password string
	FromName string
}

// SMTPMailer sends multipart (plain + HTML) mail. With no SMTP credentials it
// only logs the message.
type SMTPMailer struct {
	settings SMTPSettings
	log      *logger.Logger
	send     func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPMailer(settings SMTPSettings, log *logger.Logger) *SMTPMailer {
	return &SMTPMailer{settings: settings, log: log, send: smtp.SendMail}
}

func (m *SMTPMailer) configured() bool {
	s := m.settings
	return s.Host != "" && s.Port != "" && s.Username != "" && s.Password != ""
}

func (m *SMTPMailer) SendCheckoutReceipt(_ context.Context, r Receipt) error {
	if strings.TrimSpace(r.Recipient) == "" {
		return nil
	}
	if !m.configured() {
		m.log.Info("[MOCK EMAIL] checkout receipt", "to", r.Recipient, "reference", r.ReferenceCode, "total", r.Total)
		return nil
	}

	safe := func(s string) string {
		return strings.ReplaceAll(strings.TrimSpace(s), "\r\n", " ")
	}

	subject := fmt.Sprintf("Your receipt - %s", safe(r.ReferenceCode))
	boundary := "----=_RESORT_RECEIPT_BOUNDARY"
	from := fmt.Sprintf("%s <%s>", safe(m.settings.FromName), m.settings.Username)

	var plain strings.Builder
	fmt.Fprintf(&plain, "Dear %s,\n\nThank you for staying at %s.\n\n", safe(r.GuestName), safe(r.HotelName))
	fmt.Fprintf(&plain, "Reservation: %s\nRoom: %s\nStay: %s - %s\n\n", safe(r.ReferenceCode), safe(r.RoomName), r.CheckIn, r.CheckOut)
	for _, l := range r.Lines {
		fmt.Fprintf(&plain, " - %s x%d: %s %s\n", safe(l.Description), l.Quantity, r.Currency, l.Amount)
	}
	fmt.Fprintf(&plain, "\nTotal: %s %s\n", r.Currency, r.Total)

	var rows strings.Builder
	for _, l := range r.Lines {
		fmt.Fprintf(&rows, "<tr><td>%s</td><td>%d</td><td>%s %s</td></tr>",
			html.EscapeString(l.Description), l.Quantity, html.EscapeString(r.Currency), html.EscapeString(l.Amount))
	}
	htmlBody := fmt.Sprintf(`<!doctype html>
<html>
<head><meta charset="utf-8"><title>Receipt</title></head>
<body style="background:#f5f7fb;font-family:Arial, Helvetica, sans-serif;color:#222;">
<div style="max-width:640px;margin:20px auto;background:#fff;border:1px solid #e6eef6;padding:24px;border-radius:8px;">
  <h2>%s</h2>
  <p>Dear %s,</p>
  <p>Reservation <strong>%s</strong>, room %s, %s - %s.</p>
  <table width="100%%" cellpadding="4">%s</table>
  <p><strong>Total: %s %s</strong></p>
</div>
</body>
</html>`,
		html.EscapeString(r.HotelName), html.EscapeString(r.GuestName), html.EscapeString(r.ReferenceCode),
		html.EscapeString(r.RoomName), r.CheckIn, r.CheckOut, rows.String(), html.EscapeString(r.Currency), r.Total,
	)

	var sb strings.Builder
	fmt.Fprintf(&sb, "From: %s\r\n", from)
	fmt.Fprintf(&sb, "To: %s\r\n", safe(r.Recipient))
	fmt.Fprintf(&sb, "Subject: %s\r\n", subject)
	sb.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&sb, "Content-Type: multipart/alternative; boundary=\"%s\"\r\n\r\n", boundary)
	fmt.Fprintf(&sb, "--%s\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n", boundary, plain.String())
	fmt.Fprintf(&sb, "--%s\r\nContent-Type: text/html; charset=utf-8\r\n\r\n%s\r\n", boundary, htmlBody)
	fmt.Fprintf(&sb, "--%s--\r\n", boundary)

	auth := smtp.PlainAuth("", m.settings.Username, m.settings.Password, m.settings.Host)
	addr := fmt.Sprintf("%s:%s", m.settings.Host, m.settings.Port)
	if err := m.send(addr, auth, m.settings.Username, []string{r.Recipient}, []byte(sb.String())); err != nil {
		m.log.Error("❌ failed to send receipt", "to", r.Recipient, "error", err)
		return err
	}

	m.log.Info("📨 receipt sent", "to", r.Recipient, "reference", r.ReferenceCode)
	return nil
}
