// Package models содержит доменные структуры магазина: товары, категории,
// пользователей, заказы, корзину и обращения, а также DTO для приёма JSON-запросов.
package models

import "time"

// Состояния остатка товара.
const (
	StockOut      = "SIN STOCK"
	StockCritical = "STOCK CRÍTICO"
	StockNormal   = "NORMAL"
)

// Product представляет товар каталога. Цена хранится в целых песо (CLP).
type Product struct {
	Code          string    `json:"code"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         int64     `json:"price"`
	Stock         int       `json:"stock"`
	CriticalStock int       `json:"critical_stock"`
	CategoryID    int       `json:"category_id"`
	Category      string    `json:"category"`
	ImageURL      string    `json:"image_url,omitempty"`
	ThumbnailURL  string    `json:"thumbnail_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// StockState возвращает состояние остатка: нет в наличии, критический или нормальный.
func (p Product) StockState() string {
	switch {
	case p.Stock == 0:
		return StockOut
	case p.Stock <= p.CriticalStock:
		return StockCritical
	default:
		return StockNormal
	}
}

// ProductFilter параметры выборки товаров. Нулевые значения не фильтруют.
type ProductFilter struct {
	Name         string
	CategoryID   int
	MinPrice     int64
	MaxPrice     int64
	CriticalOnly bool
}

// DummyProduct используется для приёма данных товара из JSON-запроса.
// Если NewCategory заполнено, категория создаётся перед сохранением товара.
type DummyProduct struct {
	Name          string `json:"name" validate:"required,max=120"`
	Description   string `json:"description" validate:"max=2000"`
	Price         int64  `json:"price" validate:"required,gt=0"`
	Stock         int    `json:"stock" validate:"gte=0"`
	CriticalStock int    `json:"critical_stock" validate:"gte=0"`
	CategoryID    int    `json:"category_id" validate:"required_without=NewCategory"`
	NewCategory   string `json:"new_category,omitempty" validate:"omitempty,max=60"`
}
