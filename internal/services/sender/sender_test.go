package sender

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/junimo-store/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/junimo-store/internal/lib/smtp"
)

type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Connect() (smtp.Client, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(smtp.Client), args.Error(1)
}

func (m *MockTransport) GetSMTPUser() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockTransport) From() string {
	args := m.Called()
	return args.String(0)
}

type MockSMTPClient struct {
	mock.Mock
}

func (m *MockSMTPClient) Mail(from string) error {
	args := m.Called(from)
	return args.Error(0)
}

func (m *MockSMTPClient) Rcpt(to string) error {
	args := m.Called(to)
	return args.Error(0)
}

func (m *MockSMTPClient) Data() (io.WriteCloser, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.WriteCloser), args.Error(1)
}

func (m *MockSMTPClient) Close() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockSMTPClient) Quit() error {
	args := m.Called()
	return args.Error(0)
}

// bufferWriter собирает тело письма.
type bufferWriter struct {
	data   []byte
	closed bool
}

func (w *bufferWriter) Write(p []byte) (int, error) {
	w.data = append(w.data, p...)
	return len(p), nil
}

func (w *bufferWriter) Close() error {
	w.closed = true
	return nil
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func expectDelivery(tr *MockTransport, recipient string) (*MockSMTPClient, *bufferWriter) {
	client := new(MockSMTPClient)
	w := &bufferWriter{}
	tr.On("GetSMTPUser").Return("tienda@junimo.cl")
	tr.On("From").Return("Junimo Store <tienda@junimo.cl>")
	tr.On("Connect").Return(client, nil).Once()
	client.On("Mail", "tienda@junimo.cl").Return(nil).Once()
	client.On("Rcpt", recipient).Return(nil).Once()
	client.On("Data").Return(w, nil).Once()
	client.On("Quit").Return(nil).Once()
	client.On("Close").Return(nil).Once()
	return client, w
}

const orderBody = `{"email":"sam@pelican.town","name":"Sam","order":{"number":"JM-20250314-ABCDEF12","total":24480,
"items":[{"product_code":"PE001","product_name":"Peluche Junimo","unit_price":9990,"quantity":2,"subtotal":19980},
{"product_code":"GU001","product_name":"Guía","unit_price":4500,"quantity":1,"subtotal":4500}]}}`

func TestService_SendOrderConfirmation(t *testing.T) {
	tests := []struct {
		name          string
		body          []byte
		setupMocks    func(*MockTransport) *bufferWriter
		expectedError bool
		errorMessage  string
		malformed     bool
	}{
		{
			name: "success - order confirmation",
			body: []byte(orderBody),
			setupMocks: func(tr *MockTransport) *bufferWriter {
				_, w := expectDelivery(tr, "sam@pelican.town")
				return w
			},
		},
		{
			name:          "invalid JSON",
			body:          []byte(`invalid json`),
			setupMocks:    func(_ *MockTransport) *bufferWriter { return nil },
			expectedError: true,
			errorMessage:  "malformed message",
			malformed:     true,
		},
		{
			name: "SMTP connection error",
			body: []byte(orderBody),
			setupMocks: func(tr *MockTransport) *bufferWriter {
				tr.On("GetSMTPUser").Return("tienda@junimo.cl")
				tr.On("From").Return("tienda@junimo.cl")
				tr.On("Connect").Return(nil, errors.New("connection error")).Once()
				return nil
			},
			expectedError: true,
			errorMessage:  "connection error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := new(MockTransport)
			service := New(transport, newNoopLogger())
			w := tt.setupMocks(transport)

			err := service.SendOrderConfirmation(tt.body)

			if tt.expectedError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMessage)
				assert.Equal(t, tt.malformed, errors.Is(err, rabbitmq.ErrMalformedMessage))
				return
			}
			assert.NoError(t, err)
			msg := string(w.data)
			assert.Contains(t, msg, "To: sam@pelican.town")
			assert.Contains(t, msg, "JM-20250314-ABCDEF12")
			assert.Contains(t, msg, "2 x Peluche Junimo ($9.990) = $19.980")
			assert.Contains(t, msg, "Total: $24.480")
			assert.Contains(t, msg, "charset=\"UTF-8\"")
			assert.True(t, w.closed)
			transport.AssertExpectations(t)
		})
	}
}

func TestService_SendContactAck(t *testing.T) {
	transport := new(MockTransport)
	_, w := expectDelivery(transport, "emily@pelican.town")
	service := New(transport, newNoopLogger())

	err := service.SendContactAck([]byte(`{"email":"emily@pelican.town","name":"Emily","subject":"Pedido"}`))
	assert.NoError(t, err)
	assert.Contains(t, string(w.data), "¡Gracias por contactarnos!")
	assert.Contains(t, string(w.data), "Subject: Recibimos tu mensaje")
}

func TestService_SendStockDigest(t *testing.T) {
	transport := new(MockTransport)
	_, w := expectDelivery(transport, "bodega@junimo.cl")
	service := New(transport, newNoopLogger())

	body := `{"recipient":"bodega@junimo.cl","products":[{"code":"PE001","name":"Peluche","stock":0,"critical_stock":2},{"code":"AC002","name":"Llavero","stock":1,"critical_stock":3}]}`
	assert.NoError(t, service.SendStockDigest([]byte(body)))
	msg := string(w.data)
	assert.Contains(t, msg, "Subject: =?utf-8?q?Alerta_de_stock_cr=C3=ADtico?=")
	assert.Contains(t, msg, "Productos con stock crítico: 2")
	assert.Contains(t, msg, "PE001 Peluche: stock 0 (crítico 2) SIN STOCK")
	assert.Contains(t, msg, "AC002 Llavero: stock 1 (crítico 3) STOCK CRÍTICO")
}

func TestService_SendStockDigest_EmptySkipsDelivery(t *testing.T) {
	transport := new(MockTransport)
	service := New(transport, newNoopLogger())

	assert.NoError(t, service.SendStockDigest([]byte(`{"recipient":"bodega@junimo.cl","products":[]}`)))
	transport.AssertNotCalled(t, "Connect")
}

func TestService_RcptFailure(t *testing.T) {
	transport := new(MockTransport)
	client := new(MockSMTPClient)
	transport.On("GetSMTPUser").Return("")
	transport.On("From").Return("Junimo Store <tienda@junimo.cl>")
	transport.On("Connect").Return(client, nil)
	client.On("Mail", "tienda@junimo.cl").Return(nil)
	client.On("Rcpt", "emily@pelican.town").Return(errors.New("mailbox unavailable"))
	client.On("Close").Return(nil)
	service := New(transport, newNoopLogger())

	err := service.SendContactAck([]byte(`{"email":"emily@pelican.town","name":"Emily","subject":"x"}`))
	assert.ErrorContains(t, err, "mailbox unavailable")
	client.AssertExpectations(t)
}

func TestService_MalformedBodiesArePermanent(t *testing.T) {
	transport := new(MockTransport)
	service := New(transport, newNoopLogger())

	for name, send := range map[string]func([]byte) error{
		"contact": service.SendContactAck,
		"stock":   service.SendStockDigest,
	} {
		err := send([]byte("{"))
		assert.ErrorIsf(t, err, rabbitmq.ErrMalformedMessage, "handler %s", name)
	}
	transport.AssertNotCalled(t, "Connect")
}
