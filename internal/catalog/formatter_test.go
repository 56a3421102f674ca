package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/breaders/whatsapp-bot/internal/domain"
)

func TestFormatProductList(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, "No se encontraron productos disponibles.", FormatProductList(nil))
	})

	t.Run("numbered with availability", func(t *testing.T) {
		got := FormatProductList([]domain.Product{
			{Name: "Milanesa de carne x12", Price: 4200, Stock: 8, Active: true},
			{Name: "Milanesa de pollo x12", Price: 3800, Stock: 0, Active: true},
		})

		assert.Contains(t, got, "1. *Milanesa de carne x12*")
		assert.Contains(t, got, "$4200.00")
		assert.Contains(t, got, "✅ Disponible")
		assert.Contains(t, got, "2. *Milanesa de pollo x12*")
		assert.Contains(t, got, "❌ No disponible")
	})
}

func TestFormatProductDetail(t *testing.T) {
	got := FormatProductDetail(domain.Product{
		Name:        "Milanesa de cerdo x12",
		Description: "Carré de cerdo, rebozado con hierbas.",
		Price:       3900,
		Stock:       5,
		Active:      true,
	}, "Milanesas de cerdo")

	assert.Contains(t, got, "*Milanesa de cerdo x12*")
	assert.Contains(t, got, "📦 *Categoría:* Milanesas de cerdo")
	assert.Contains(t, got, "🔢 *Stock:* 5")
	assert.Contains(t, got, "Carré de cerdo")
}

func TestFormatOffers(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, "Actualmente no hay ofertas especiales disponibles.", FormatOffers(nil))
	})

	t.Run("renders code and discount", func(t *testing.T) {
		got := FormatOffers([]domain.SpecialOffer{{
			Title:              "2x1 en pollo",
			Description:        "Solo los martes",
			DiscountPercentage: 50,
			Code:               "POLLO2X1",
			StartDate:          time.Now().Add(-time.Hour),
			EndDate:            time.Now().Add(time.Hour),
			Active:             true,
		}})

		assert.Contains(t, got, "*2x1 en pollo*")
		assert.Contains(t, got, "🏷️ *Descuento:* 50%")
		assert.Contains(t, got, "🎫 *Código:* POLLO2X1")
	})
}
