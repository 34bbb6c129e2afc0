package models

// Ключи маршрутизации событий уведомлений.
const (
	EventOrderCreated    = "order.created"
	EventContactReceived = "contact.received"
	EventStockCritical   = "stock.critical"
)

// OrderCreatedEvent публикуется после оформления заказа.
type OrderCreatedEvent struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Order Order  `json:"order"`
}

// ContactReceivedEvent публикуется после получения обращения.
type ContactReceivedEvent struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Subject string `json:"subject"`
}

// StockCriticalEvent сводка товаров с критическим остатком.
type StockCriticalEvent struct {
	Recipient string    `json:"recipient"`
	Products  []Product `json:"products"`
}
