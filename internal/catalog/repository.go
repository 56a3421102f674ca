// Package catalog reads products, categories, and special offers from
// PostgreSQL and formats them for WhatsApp.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/breaders/whatsapp-bot/internal/domain"
)

// Repository defines the read-only catalog lookups the bot needs.
type Repository interface {
	Categories(ctx context.Context) ([]domain.Category, error)
	ProductsByCategoryName(ctx context.Context, name string) ([]domain.Product, error)
	ProductByID(ctx context.Context, id int64) (*domain.Product, error)
	ActiveOffers(ctx context.Context) ([]domain.SpecialOffer, error)
}

type repository struct {
	db  *sql.DB
	log *slog.Logger
}

// NewRepository creates a SQL-backed catalog repository.
func NewRepository(db *sql.DB, log *slog.Logger) Repository {
	return &repository{
		db:  db,
		log: log,
	}
}

func (r *repository) Categories(ctx context.Context) ([]domain.Category, error) {
	const query = `
		SELECT id, nombre, descripcion, activo
		FROM categorias
		WHERE activo = true
		ORDER BY nombre
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		if r.log != nil {
			r.log.Error("failed to list categories", slog.Any("error", err))
		}
		return nil, fmt.Errorf("select categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Active); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}

// ProductsByCategoryName matches the category by name fragment, so the
// menu's short labels ("carne", "pollo") find "Milanesas de carne".
func (r *repository) ProductsByCategoryName(ctx context.Context, name string) ([]domain.Product, error) {
	const query = `
		SELECT p.id, p.categoria_id, p.nombre, p.descripcion, p.precio, p.stock, p.activo, p.destacado
		FROM productos p
		JOIN categorias c ON c.id = p.categoria_id
		WHERE p.activo = true AND c.activo = true AND c.nombre ILIKE '%' || $1 || '%'
		ORDER BY p.destacado DESC, p.nombre
	`

	rows, err := r.db.QueryContext(ctx, query, name)
	if err != nil {
		if r.log != nil {
			r.log.Error("failed to list products", slog.String("category", name), slog.Any("error", err))
		}
		return nil, fmt.Errorf("select products by category: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.CategoryID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.Active, &p.Featured); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}

	return products, rows.Err()
}

func (r *repository) ProductByID(ctx context.Context, id int64) (*domain.Product, error) {
	const query = `
		SELECT id, categoria_id, nombre, descripcion, precio, stock, activo, destacado
		FROM productos
		WHERE id = $1
	`

	var p domain.Product
	if err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.CategoryID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.Active, &p.Featured,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}

		if r.log != nil {
			r.log.Error("failed to fetch product", slog.Int64("product_id", id), slog.Any("error", err))
		}
		return nil, fmt.Errorf("select product: %w", err)
	}

	return &p, nil
}

func (r *repository) ActiveOffers(ctx context.Context) ([]domain.SpecialOffer, error) {
	const query = `
		SELECT id, titulo, descripcion, descuento_porcentaje, codigo, fecha_inicio, fecha_fin, activo
		FROM ofertas_especiales
		WHERE activo = true AND fecha_inicio <= now() AND fecha_fin >= now()
		ORDER BY fecha_fin
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		if r.log != nil {
			r.log.Error("failed to list offers", slog.Any("error", err))
		}
		return nil, fmt.Errorf("select active offers: %w", err)
	}
	defer rows.Close()

	var offers []domain.SpecialOffer
	for rows.Next() {
		var o domain.SpecialOffer
		if err := rows.Scan(&o.ID, &o.Title, &o.Description, &o.DiscountPercentage, &o.Code, &o.StartDate, &o.EndDate, &o.Active); err != nil {
			return nil, fmt.Errorf("scan offer: %w", err)
		}
		offers = append(offers, o)
	}

	return offers, rows.Err()
}
