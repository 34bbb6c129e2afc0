// Package report формирует выгрузки каталога, заказов и пользователей в CSV и JSON.
package report

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/junimo-store/internal/models"
)

// Виды отчётов.
const (
	KindProducts   = "products"
	KindCategories = "categories"
	KindOrders     = "orders"
	KindUsers      = "users"
)

// Форматы отчётов. csv-excel отличается разделителем ";".
const (
	FormatCSV      = "csv"
	FormatCSVExcel = "csv-excel"
	FormatJSON     = "json"
)

const bom = "\uFEFF"

// ProductSource источник товаров.
type ProductSource interface {
	ListProducts(ctx context.Context, f models.ProductFilter) ([]*models.Product, error)
}

// CategorySource источник категорий.
type CategorySource interface {
	ListCategories(ctx context.Context) ([]*models.Category, error)
}

// OrderSource источник заказов.
type OrderSource interface {
	ListOrders(ctx context.Context, f models.OrderFilter) ([]*models.Order, error)
}

// UserSource источник пользователей с показателями покупок.
type UserSource interface {
	Summaries(ctx context.Context) ([]*models.UserSummary, error)
}

// Recorder учитывает сформированные отчёты.
type Recorder interface {
	ReportGenerated(kind, format string)
}

// Report готовый файл отчёта.
type Report struct {
	Filename    string
	ContentType string
	Body        []byte
}

// Service строит отчёты.
type Service struct {
	products   ProductSource
	categories CategorySource
	orders     OrderSource
	users      UserSource
	metrics    Recorder
	log        *slog.Logger
	now        func() time.Time
}

// New создаёт сервис отчётов.
func New(products ProductSource, categories CategorySource, orders OrderSource, users UserSource, metrics Recorder, log *slog.Logger) *Service {
	return &Service{
		products:   products,
		categories: categories,
		orders:     orders,
		users:      users,
		metrics:    metrics,
		log:        log,
		now:        time.Now,
	}
}

// IsKnown проверяет вид и формат отчёта.
func IsKnown(kind, format string) bool {
	switch kind {
	case KindProducts, KindCategories, KindOrders, KindUsers:
	default:
		return false
	}
	switch format {
	case FormatCSV, FormatCSVExcel, FormatJSON:
		return true
	}
	return false
}

// Validate возвращает ErrEmptyReport, если для отчёта нет данных.
func Validate(kind string, n int) error {
	if n == 0 {
		return fmt.Errorf("report %s: %w", kind, models.ErrEmptyReport)
	}
	return nil
}

// Filename имя файла вида reporte_<kind>_<DD-MM-YYYY_HHMM>.<ext>.
func Filename(kind, format string, at time.Time) string {
	ext := "csv"
	if format == FormatJSON {
		ext = "json"
	}
	return fmt.Sprintf("reporte_%s_%s.%s", kind, at.Format("02-01-2006_1504"), ext)
}

func contentType(format string) string {
	if format == FormatJSON {
		return "application/json; charset=utf-8"
	}
	return "text/csv; charset=utf-8"
}

// Build формирует отчёт вида kind в формате format.
func (s *Service) Build(ctx context.Context, kind, format string) (*Report, error) {
	const op = "report.Build"
	if !IsKnown(kind, format) {
		return nil, fmt.Errorf("%s: %s/%s: %w", op, kind, format, models.ErrUnknownReport)
	}
	at := s.now()

	var (
		buf bytes.Buffer
		err error
	)
	switch kind {
	case KindProducts:
		err = s.buildProducts(ctx, &buf, format, at)
	case KindCategories:
		err = s.buildCategories(ctx, &buf, format, at)
	case KindOrders:
		err = s.buildOrders(ctx, &buf, format, at)
	case KindUsers:
		err = s.buildUsers(ctx, &buf, format, at)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.metrics.ReportGenerated(kind, format)
	s.log.Info("report generated", slog.String("kind", kind), slog.String("format", format), slog.Int("bytes", buf.Len()))
	return &Report{
		Filename:    Filename(kind, format, at),
		ContentType: contentType(format),
		Body:        buf.Bytes(),
	}, nil
}

func (s *Service) buildProducts(ctx context.Context, buf *bytes.Buffer, format string, at time.Time) error {
	products, err := s.products.ListProducts(ctx, models.ProductFilter{})
	if err != nil {
		return err
	}
	if err := Validate(KindProducts, len(products)); err != nil {
		return err
	}
	if format == FormatJSON {
		return writeJSON(buf, productsDocument(products, at))
	}
	return writeProductsCSV(buf, products, format)
}

func (s *Service) buildCategories(ctx context.Context, buf *bytes.Buffer, format string, at time.Time) error {
	categories, err := s.categories.ListCategories(ctx)
	if err != nil {
		return err
	}
	if err := Validate(KindCategories, len(categories)); err != nil {
		return err
	}
	if format == FormatJSON {
		return writeJSON(buf, categoriesDocument(categories, at))
	}
	return writeCategoriesCSV(buf, categories, format)
}

func (s *Service) buildOrders(ctx context.Context, buf *bytes.Buffer, format string, at time.Time) error {
	orders, err := s.orders.ListOrders(ctx, models.OrderFilter{})
	if err != nil {
		return err
	}
	if err := Validate(KindOrders, len(orders)); err != nil {
		return err
	}
	if format == FormatJSON {
		return writeJSON(buf, ordersDocument(orders, at))
	}
	return writeOrdersCSV(buf, orders, format)
}

func (s *Service) buildUsers(ctx context.Context, buf *bytes.Buffer, format string, at time.Time) error {
	users, err := s.users.Summaries(ctx)
	if err != nil {
		return err
	}
	if err := Validate(KindUsers, len(users)); err != nil {
		return err
	}
	if format == FormatJSON {
		return writeJSON(buf, usersDocument(users, at))
	}
	return writeUsersCSV(buf, users, format)
}
