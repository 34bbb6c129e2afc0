package report

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/magabrotheeeer/junimo-store/internal/lib/money"
	"github.com/magabrotheeeer/junimo-store/internal/models"
)

func newCSV(buf *bytes.Buffer, format string) *csv.Writer {
	buf.WriteString(bom)
	w := csv.NewWriter(buf)
	if format == FormatCSVExcel {
		w.Comma = ';'
	}
	return w
}

func amount(v int64, format string) string {
	if format == FormatCSVExcel {
		return money.DecimalComma(v)
	}
	return strconv.FormatInt(v, 10)
}

func writeProductsCSV(buf *bytes.Buffer, products []*models.Product, format string) error {
	w := newCSV(buf, format)
	rows := [][]string{{"Código", "Nombre", "Categoría", "Descripción", "Precio (CLP)", "Stock", "Stock Crítico", "Estado Stock"}}
	for _, p := range products {
		rows = append(rows, []string{
			p.Code,
			p.Name,
			p.Category,
			p.Description,
			amount(p.Price, format),
			strconv.Itoa(p.Stock),
			strconv.Itoa(p.CriticalStock),
			p.StockState(),
		})
	}
	return w.WriteAll(rows)
}

func writeCategoriesCSV(buf *bytes.Buffer, categories []*models.Category, format string) error {
	w := newCSV(buf, format)
	rows := [][]string{{"ID", "Nombre"}}
	for _, c := range categories {
		rows = append(rows, []string{strconv.Itoa(c.ID), c.Name})
	}
	return w.WriteAll(rows)
}

func writeOrdersCSV(buf *bytes.Buffer, orders []*models.Order, format string) error {
	w := newCSV(buf, format)
	rows := [][]string{{"Número Orden", "Fecha", "RUN Cliente", "Estado", "Total", "Cantidad Productos"}}
	for _, o := range orders {
		rows = append(rows, []string{
			o.Number,
			o.CreatedAt.Format("02/01/2006"),
			o.RUN,
			o.Status,
			amount(o.Total, format),
			strconv.Itoa(len(o.Items)),
		})
	}
	return w.WriteAll(rows)
}

func writeUsersCSV(buf *bytes.Buffer, users []*models.UserSummary, format string) error {
	w := newCSV(buf, format)
	rows := [][]string{{"RUN", "Nombre", "Apellidos", "Email", "Teléfono", "Tipo", "Total Compras", "Total Gastado", "Región", "Comuna"}}
	for _, u := range users {
		rows = append(rows, []string{
			u.RUN,
			u.FirstName,
			u.LastName,
			u.Email,
			u.Phone,
			u.Role,
			strconv.Itoa(u.TotalPurchases),
			amount(u.TotalSpent, format),
			u.Region,
			u.Commune,
		})
	}
	return w.WriteAll(rows)
}
