package models

// Cart корзина пользователя. Total и ItemCount вычисляются по позициям.
type Cart struct {
	Items     []CartItem `json:"items"`
	Total     int64      `json:"total"`
	ItemCount int        `json:"item_count"`
}

// CartItem позиция корзины.
type CartItem struct {
	Code          string `json:"code"`
	Name          string `json:"name"`
	Price         int64  `json:"price"`
	Quantity      int    `json:"quantity"`
	Stock         int    `json:"stock"`
	CriticalStock int    `json:"critical_stock"`
	Subtotal      int64  `json:"subtotal"`
}

// Recalculate пересчитывает подытоги, сумму и количество единиц.
func (c *Cart) Recalculate() {
	c.Total = 0
	c.ItemCount = 0
	for i := range c.Items {
		c.Items[i].Subtotal = c.Items[i].Price * int64(c.Items[i].Quantity)
		c.Total += c.Items[i].Subtotal
		c.ItemCount += c.Items[i].Quantity
	}
	if c.Items == nil {
		c.Items = []CartItem{}
	}
}

// DummyCartItem используется для приёма позиции из JSON-запроса.
type DummyCartItem struct {
	Code     string `json:"code" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,gte=1"`
}

// DummyQuantity новое количество позиции. Ноль и меньше удаляют позицию.
type DummyQuantity struct {
	Quantity int `json:"quantity"`
}
