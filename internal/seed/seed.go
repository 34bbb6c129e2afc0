// Package seed загружает начальные данные магазина из YAML: категории, товары и пользователей.
// Уже существующие записи пропускаются, поэтому файл можно применять повторно.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/junimo-store/internal/lib/sl"
	"github.com/magabrotheeeer/junimo-store/internal/lib/validate"
	"github.com/magabrotheeeer/junimo-store/internal/models"
)

// File содержимое файла начальных данных.
type File struct {
	Categories []string  `yaml:"categories"`
	Products   []Product `yaml:"products"`
	Users      []User    `yaml:"users"`
}

// Product товар в файле. Code можно не указывать: он будет сгенерирован по категории.
type Product struct {
	Code          string `yaml:"code"`
	Name          string `yaml:"name"`
	Description   string `yaml:"description"`
	Price         int64  `yaml:"price"`
	Stock         int    `yaml:"stock"`
	CriticalStock int    `yaml:"critical_stock"`
	Category      string `yaml:"category"`
}

// User пользователь в файле.
type User struct {
	RUN       string `yaml:"run"`
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`
	Email     string `yaml:"email"`
	Password  string `yaml:"password"`
	Role      string `yaml:"role"`
	Phone     string `yaml:"phone"`
	Region    string `yaml:"region"`
	Commune   string `yaml:"commune"`
	Address   string `yaml:"address"`
}

// Result количество созданных и пропущенных записей.
type Result struct {
	Categories int
	Products   int
	Users      int
	Skipped    int
}

// Catalog операции каталога, которые использует загрузка.
type Catalog interface {
	ListCategories(ctx context.Context) ([]*models.Category, error)
	CreateCategory(ctx context.Context, name string) (*models.Category, error)
	CreateProduct(ctx context.Context, req models.DummyProduct) (*models.Product, error)
	ListProducts(ctx context.Context, f models.ProductFilter) ([]*models.Product, error)
}

// ProductStore сохраняет товар с заранее заданным кодом.
type ProductStore interface {
	CreateProduct(ctx context.Context, p models.Product) (*models.Product, error)
}

// Users создаёт учётные записи.
type Users interface {
	CreateUser(ctx context.Context, req models.DummyUser) (*models.User, error)
}

// Loader применяет файл начальных данных.
type Loader struct {
	catalog  Catalog
	products ProductStore
	users    Users
	validate *validator.Validate
	log      *slog.Logger
}

// New создаёт Loader.
func New(catalog Catalog, products ProductStore, users Users, log *slog.Logger) *Loader {
	return &Loader{
		catalog:  catalog,
		products: products,
		users:    users,
		validate: validate.New(),
		log:      log,
	}
}

// Parse читает YAML.
func Parse(r io.Reader) (*File, error) {
	const op = "seed.Parse"
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &f, nil
}

// Apply создаёт категории, затем товары, затем пользователей.
func (l *Loader) Apply(ctx context.Context, f *File) (Result, error) {
	const op = "seed.Apply"
	var res Result

	existing, err := l.catalog.ListCategories(ctx)
	if err != nil {
		return res, fmt.Errorf("%s: %w", op, err)
	}
	byName := make(map[string]*models.Category, len(existing))
	for _, c := range existing {
		byName[strings.ToLower(c.Name)] = c
	}

	for _, name := range f.Categories {
		if _, ok := byName[strings.ToLower(strings.TrimSpace(name))]; ok {
			res.Skipped++
			continue
		}
		c, err := l.catalog.CreateCategory(ctx, name)
		if err != nil {
			if errors.Is(err, models.ErrAlreadyExists) {
				res.Skipped++
				continue
			}
			return res, fmt.Errorf("%s: category %q: %w", op, name, err)
		}
		byName[strings.ToLower(c.Name)] = c
		res.Categories++
	}

	for _, p := range f.Products {
		created, err := l.product(ctx, p, byName)
		if err != nil {
			return res, fmt.Errorf("%s: product %q: %w", op, p.Name, err)
		}
		if created {
			res.Products++
		} else {
			res.Skipped++
		}
	}

	for _, u := range f.Users {
		req := models.DummyUser{
			RUN: u.RUN, FirstName: u.FirstName, LastName: u.LastName, Email: u.Email,
			Password: u.Password, Role: u.Role, Phone: u.Phone,
			Region: u.Region, Commune: u.Commune, Address: u.Address,
		}
		if err := l.validate.Struct(req); err != nil {
			return res, fmt.Errorf("%s: user %q: %s", op, u.Email, validate.Message(err))
		}
		if _, err := l.users.CreateUser(ctx, req); err != nil {
			if errors.Is(err, models.ErrAlreadyExists) {
				l.log.Info("user already exists", slog.String("email", u.Email))
				res.Skipped++
				continue
			}
			return res, fmt.Errorf("%s: user %q: %w", op, u.Email, err)
		}
		res.Users++
	}

	l.log.Info("seed applied",
		slog.Int("categories", res.Categories),
		slog.Int("products", res.Products),
		slog.Int("users", res.Users),
		slog.Int("skipped", res.Skipped),
	)
	return res, nil
}

func (l *Loader) product(ctx context.Context, p Product, categories map[string]*models.Category) (bool, error) {
	category, ok := categories[strings.ToLower(strings.TrimSpace(p.Category))]
	if !ok {
		return false, fmt.Errorf("unknown category %q: %w", p.Category, models.ErrNotFound)
	}
	req := models.DummyProduct{
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		Stock:         p.Stock,
		CriticalStock: p.CriticalStock,
		CategoryID:    category.ID,
	}
	if err := l.validate.Struct(req); err != nil {
		return false, errors.New(validate.Message(err))
	}

	var err error
	if p.Code == "" {
		// без кода товар опознаётся по названию внутри категории
		exists, lookupErr := l.productExists(ctx, req.Name, category.ID)
		if lookupErr != nil {
			return false, lookupErr
		}
		if exists {
			l.log.Info("product already exists", slog.String("name", p.Name), slog.String("category", category.Name))
			return false, nil
		}
		_, err = l.catalog.CreateProduct(ctx, req)
	} else {
		_, err = l.products.CreateProduct(ctx, models.Product{
			Code:          strings.ToUpper(p.Code),
			Name:          strings.TrimSpace(p.Name),
			Description:   strings.TrimSpace(p.Description),
			Price:         p.Price,
			Stock:         p.Stock,
			CriticalStock: p.CriticalStock,
			CategoryID:    category.ID,
		})
	}
	if errors.Is(err, models.ErrAlreadyExists) {
		l.log.Info("product already exists", sl.Err(err), slog.String("name", p.Name))
		return false, nil
	}
	return err == nil, err
}

func (l *Loader) productExists(ctx context.Context, name string, categoryID int) (bool, error) {
	name = strings.TrimSpace(name)
	found, err := l.catalog.ListProducts(ctx, models.ProductFilter{Name: name, CategoryID: categoryID})
	if err != nil {
		return false, err
	}
	for _, p := range found {
		if strings.EqualFold(strings.TrimSpace(p.Name), name) {
			return true, nil
		}
	}
	return false, nil
}
