// Package sender отправляет письма по событиям из очередей уведомлений.
package sender

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"mime"
	"net/mail"
	"strings"

	"github.com/magabrotheeeer/junimo-store/internal/lib/money"
	"github.com/magabrotheeeer/junimo-store/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/junimo-store/internal/lib/sl"
	"github.com/magabrotheeeer/junimo-store/internal/lib/smtp"
	"github.com/magabrotheeeer/junimo-store/internal/models"
)

// Service формирует и отправляет письма.
type Service struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// New создаёт сервис отправки писем.
func New(transport smtp.TransportInterface, log *slog.Logger) *Service {
	return &Service{
		transport: transport,
		log:       log,
	}
}

// SendOrderConfirmation отправляет подтверждение заказа из события order.created.
func (s *Service) SendOrderConfirmation(body []byte) error {
	const op = "sender.SendOrderConfirmation"
	var event models.OrderCreatedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("%s: %w: %v", op, rabbitmq.ErrMalformedMessage, err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Hola, %s:\n\n", event.Name)
	fmt.Fprintf(&b, "Recibimos tu pedido %s. Este es el detalle:\n\n", event.Order.Number)
	for _, it := range event.Order.Items {
		fmt.Fprintf(&b, "  %d x %s (%s) = %s\n", it.Quantity, it.ProductName, money.FormatCLP(it.UnitPrice), money.FormatCLP(it.Subtotal))
	}
	fmt.Fprintf(&b, "\nTotal: %s\n", money.FormatCLP(event.Order.Total))
	if event.Order.Address != "" {
		fmt.Fprintf(&b, "Despacho: %s, %s, %s\n", event.Order.Address, event.Order.Commune, event.Order.Region)
	}
	b.WriteString("\nTe avisaremos cuando tu pedido sea enviado.\n\nJunimo Store")

	if err := s.sendEmail([]string{event.Email}, "Confirmación de pedido "+event.Order.Number, b.String()); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SendContactAck подтверждает получение обращения из события contact.received.
func (s *Service) SendContactAck(body []byte) error {
	const op = "sender.SendContactAck"
	var event models.ContactReceivedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("%s: %w: %v", op, rabbitmq.ErrMalformedMessage, err)
	}

	text := fmt.Sprintf("Hola, %s:\n\nRecibimos tu mensaje \"%s\".\n¡Gracias por contactarnos! Te responderemos a la brevedad.\n\nJunimo Store",
		event.Name, event.Subject)
	if err := s.sendEmail([]string{event.Email}, "Recibimos tu mensaje", text); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SendStockDigest отправляет сводку товаров с критическим остатком.
func (s *Service) SendStockDigest(body []byte) error {
	const op = "sender.SendStockDigest"
	var event models.StockCriticalEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("%s: %w: %v", op, rabbitmq.ErrMalformedMessage, err)
	}
	if len(event.Products) == 0 {
		s.log.Info("empty stock digest skipped")
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Productos con stock crítico: %d\n\n", len(event.Products))
	for _, p := range event.Products {
		fmt.Fprintf(&b, "  %s %s: stock %d (crítico %d) %s\n", p.Code, p.Name, p.Stock, p.CriticalStock, p.StockState())
	}
	if err := s.sendEmail([]string{event.Recipient}, "Alerta de stock crítico", b.String()); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Service) envelopeFrom() string {
	if user := s.transport.GetSMTPUser(); user != "" {
		return user
	}
	if addr, err := mail.ParseAddress(s.transport.From()); err == nil {
		return addr.Address
	}
	return s.transport.From()
}

func (s *Service) sendEmail(to []string, subject, bodyText string) error {
	from := s.envelopeFrom()
	msg := strings.Join([]string{
		"From: " + s.transport.From(),
		"To: " + strings.Join(to, ", "),
		"Subject: " + mime.QEncoding.Encode("utf-8", subject),
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer client.Close()

	if err := client.Mail(from); err != nil {
		s.log.Error("failed to set MAIL FROM", slog.String("from", from), sl.Err(err))
		return err
	}
	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get Data writer", sl.Err(err))
		return err
	}
	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}
	if err = wc.Close(); err != nil {
		s.log.Error("failed to close Data writer", sl.Err(err))
		return err
	}
	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", slog.Any("to", to), slog.String("subject", subject))
	return nil
}
