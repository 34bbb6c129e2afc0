package rabbitmq

import "github.com/magabrotheeeer/junimo-store/internal/models"

// Очереди уведомлений.
const (
	QueueOrders  = "notifications.orders"
	QueueContact = "notifications.contact"
	QueueStock   = "notifications.stock"
)

// QueueConfig связывает очередь с ключом маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetNotificationQueues возвращает очереди, которые слушает notification-sender.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: QueueOrders, RoutingKey: models.EventOrderCreated},
		{QueueName: QueueContact, RoutingKey: models.EventContactReceived},
		{QueueName: QueueStock, RoutingKey: models.EventStockCritical},
	}
}
