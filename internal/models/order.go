package models

import "time"

// Статусы заказа.
const (
	StatusPending   = "Pendiente"
	StatusShipped   = "Enviado"
	StatusDelivered = "Entregado"
	StatusCancelled = "Cancelado"
)

// OrderStatuses возвращает все допустимые статусы заказа.
func OrderStatuses() []string {
	return []string{StatusPending, StatusShipped, StatusDelivered, StatusCancelled}
}

// IsValidOrderStatus проверяет, что статус входит в список допустимых.
func IsValidOrderStatus(status string) bool {
	for _, s := range OrderStatuses() {
		if s == status {
			return true
		}
	}
	return false
}

// Order представляет заказ покупателя вместе с позициями.
type Order struct {
	Number    string      `json:"number"`
	RUN       string      `json:"run"`
	Status    string      `json:"status"`
	Total     int64       `json:"total"`
	Region    string      `json:"region,omitempty"`
	Commune   string      `json:"commune,omitempty"`
	Address   string      `json:"address,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	Items     []OrderItem `json:"items"`
}

// Quantity возвращает общее количество единиц товара в заказе.
func (o Order) Quantity() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}

// OrderItem позиция заказа. Цена фиксируется на момент оформления.
type OrderItem struct {
	ID          int    `json:"id"`
	OrderNumber string `json:"order_number"`
	ProductCode string `json:"product_code"`
	ProductName string `json:"product_name"`
	UnitPrice   int64  `json:"unit_price"`
	Quantity    int    `json:"quantity"`
	Subtotal    int64  `json:"subtotal"`
}

// OrderLine запрошенная позиция при оформлении заказа.
type OrderLine struct {
	ProductCode string
	Quantity    int
}

// OrderFilter параметры поиска заказов. Date в формате YYYY-MM-DD.
type OrderFilter struct {
	Number string
	RUN    string
	Status string
	Date   string
}

// OrderStats сводка по набору заказов.
type OrderStats struct {
	Total            int    `json:"total"`
	Pending          int    `json:"pending"`
	Shipped          int    `json:"shipped"`
	Delivered        int    `json:"delivered"`
	Cancelled        int    `json:"cancelled"`
	Revenue          int64  `json:"revenue"`
	RevenueFormatted string `json:"revenue_formatted"`
	DeliveryRate     int    `json:"delivery_rate"`
}

// DummyStatus используется для приёма нового статуса из JSON-запроса.
type DummyStatus struct {
	Status string `json:"status" validate:"required,order_status"`
}
