package report

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/magabrotheeeer/junimo-store/internal/lib/money"
	"github.com/magabrotheeeer/junimo-store/internal/models"
)

type productRow struct {
	*models.Product
	StockState string `json:"estado_stock"`
}

type productStats struct {
	Total      int `json:"total"`
	OutOfStock int `json:"sin_stock"`
	Critical   int `json:"stock_critico"`
	Normal     int `json:"stock_normal"`
	Categories int `json:"categorias"`
}

type productsDoc struct {
	GeneratedAt time.Time    `json:"fecha_generacion"`
	Total       int          `json:"total_productos"`
	Stats       productStats `json:"estadisticas"`
	Products    []productRow `json:"productos"`
}

// Критическими считаются товары в наличии, остаток которых не выше критического.
func countStock(products []*models.Product) productStats {
	st := productStats{Total: len(products)}
	categories := make(map[string]struct{})
	for _, p := range products {
		switch {
		case p.Stock == 0:
			st.OutOfStock++
		case p.Stock <= p.CriticalStock:
			st.Critical++
		default:
			st.Normal++
		}
		categories[p.Category] = struct{}{}
	}
	st.Categories = len(categories)
	return st
}

func productsDocument(products []*models.Product, at time.Time) productsDoc {
	rows := make([]productRow, 0, len(products))
	for _, p := range products {
		rows = append(rows, productRow{Product: p, StockState: p.StockState()})
	}
	return productsDoc{
		GeneratedAt: at,
		Total:       len(products),
		Stats:       countStock(products),
		Products:    rows,
	}
}

type categoryStats struct {
	Total  int      `json:"total"`
	Oldest *string  `json:"mas_antigua"`
	Newest *string  `json:"mas_reciente"`
	Names  []string `json:"nombres"`
}

type categoriesDoc struct {
	Kind        string             `json:"tipo"`
	GeneratedAt time.Time          `json:"fecha_generacion"`
	Total       int                `json:"total_categorias"`
	Stats       categoryStats      `json:"estadisticas"`
	Categories  []*models.Category `json:"categorias"`
}

func categoriesDocument(categories []*models.Category, at time.Time) categoriesDoc {
	st := categoryStats{Total: len(categories), Names: make([]string, 0, len(categories))}
	var oldest, newest *models.Category
	for _, c := range categories {
		st.Names = append(st.Names, c.Name)
		if oldest == nil || c.ID < oldest.ID {
			oldest = c
		}
		if newest == nil || c.ID > newest.ID {
			newest = c
		}
	}
	if oldest != nil {
		st.Oldest = &oldest.Name
		st.Newest = &newest.Name
	}
	return categoriesDoc{
		Kind:        "categorias",
		GeneratedAt: at,
		Total:       len(categories),
		Stats:       st,
		Categories:  categories,
	}
}

type ordersSummary struct {
	Pending   int    `json:"pendientes"`
	Shipped   int    `json:"enviadas"`
	Delivered int    `json:"entregadas"`
	Cancelled int    `json:"canceladas"`
	Revenue   string `json:"ingresos_totales"`
}

type ordersMeta struct {
	GeneratedAt time.Time     `json:"fecha_generacion"`
	Total       int           `json:"total_ordenes"`
	Summary     ordersSummary `json:"resumen"`
}

type ordersDoc struct {
	Metadata ordersMeta      `json:"metadata"`
	Orders   []*models.Order `json:"ordenes"`
}

func ordersDocument(orders []*models.Order, at time.Time) ordersDoc {
	sum := ordersSummary{}
	var revenue int64
	for _, o := range orders {
		switch o.Status {
		case models.StatusPending:
			sum.Pending++
		case models.StatusShipped:
			sum.Shipped++
		case models.StatusDelivered:
			sum.Delivered++
			revenue += o.Total
		case models.StatusCancelled:
			sum.Cancelled++
		}
	}
	sum.Revenue = money.FormatCLP(revenue)
	return ordersDoc{
		Metadata: ordersMeta{GeneratedAt: at, Total: len(orders), Summary: sum},
		Orders:   orders,
	}
}

type usersSummary struct {
	Clients       int    `json:"total_clientes"`
	Admins        int    `json:"total_admins"`
	Vendors       int    `json:"total_vendedores"`
	WithPurchases int    `json:"usuarios_con_compras"`
	Revenue       string `json:"ingresos_totales"`
}

type security struct {
	ExcludedFields []string `json:"campos_excluidos"`
	Note           string   `json:"nota"`
}

type usersMeta struct {
	GeneratedAt time.Time    `json:"fecha_generacion"`
	Total       int          `json:"total_usuarios"`
	Summary     usersSummary `json:"resumen"`
	Security    security     `json:"seguridad"`
}

type usersDoc struct {
	Metadata usersMeta             `json:"metadata"`
	Users    []*models.UserSummary `json:"usuarios"`
}

func usersDocument(users []*models.UserSummary, at time.Time) usersDoc {
	sum := usersSummary{}
	var revenue int64
	for _, u := range users {
		switch u.Role {
		case models.RoleAdmin:
			sum.Admins++
		case models.RoleVendor:
			sum.Vendors++
		default:
			sum.Clients++
		}
		if u.TotalPurchases > 0 {
			sum.WithPurchases++
		}
		revenue += u.TotalSpent
	}
	sum.Revenue = money.FormatCLP(revenue)
	return usersDoc{
		Metadata: usersMeta{
			GeneratedAt: at,
			Total:       len(users),
			Summary:     sum,
			Security: security{
				ExcludedFields: []string{"password_hash"},
				Note:           "Información sensible ha sido excluida por seguridad",
			},
		},
		Users: users,
	}
}

func writeJSON(buf *bytes.Buffer, doc any) error {
	enc := json.NewEncoder(buf)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
