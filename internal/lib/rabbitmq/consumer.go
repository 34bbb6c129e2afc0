package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/junimo-store/internal/lib/sl"
)

// maxInFlight ограничивает число одновременно обрабатываемых сообщений одной очереди.
const maxInFlight = 10

// ErrMalformedMessage сообщение невозможно обработать ни при какой повторной доставке.
// Такие сообщения отбрасываются без возврата в очередь.
var ErrMalformedMessage = errors.New("malformed message")

// Handler обрабатывает тело сообщения.
type Handler func(body []byte) error

// ConsumerMessage запускает потребителя очереди. Успешно обработанное сообщение
// подтверждается. Временная ошибка возвращает его в очередь, ErrMalformedMessage отбрасывает.
func ConsumerMessage(ctx context.Context, log *slog.Logger, ch *amqp.Channel, queueName string, handler Handler) error {
	const op = "rabbitmq.ConsumerMessage"
	delivery, err := ch.Consume(queueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	log = log.With(slog.String("queue", queueName))
	sem := make(chan struct{}, maxInFlight)
	go func() {
		for {
			select {
			case d, ok := <-delivery:
				if !ok {
					return
				}
				sem <- struct{}{}
				go func(d amqp.Delivery) {
					defer func() { <-sem }()
					settle(log, d, handler)
				}(d)
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}

// settle вызывает обработчик и подтверждает, возвращает или отбрасывает доставку.
func settle(log *slog.Logger, d amqp.Delivery, handler Handler) {
	err := handler(d.Body)
	switch {
	case err == nil:
		if ackErr := d.Ack(false); ackErr != nil {
			log.Error("failed to ack message", sl.Err(ackErr))
		}
	case errors.Is(err, ErrMalformedMessage):
		log.Error("malformed message dropped", sl.Err(err), slog.Int("bytes", len(d.Body)))
		if nackErr := d.Nack(false, false); nackErr != nil {
			log.Error("failed to nack message", sl.Err(nackErr))
		}
	default:
		log.Warn("handler failed, requeue", sl.Err(err), slog.Bool("redelivered", d.Redelivered))
		if nackErr := d.Nack(false, true); nackErr != nil {
			log.Error("failed to nack message", sl.Err(nackErr))
		}
	}
}
