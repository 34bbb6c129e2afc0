package models

// Category представляет категорию каталога. CodePrefix - двухбуквенный
// префикс, с которого начинаются коды товаров категории.
type Category struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	CodePrefix string `json:"code_prefix"`
}

// DummyCategory используется для приёма названия категории из JSON-запроса.
type DummyCategory struct {
	Name string `json:"name" validate:"required,max=60"`
}
