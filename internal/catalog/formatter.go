package catalog

import (
	"fmt"
	"strings"

	"github.com/breaders/whatsapp-bot/internal/domain"
)

// FormatProductList renders products as a numbered WhatsApp block.
func FormatProductList(products []domain.Product) string {
	if len(products) == 0 {
		return "No se encontraron productos disponibles."
	}

	var b strings.Builder
	b.WriteString("📋 *PRODUCTOS DISPONIBLES*\n\n")

	for i, p := range products {
		availability := "❌ No disponible"
		if p.Available() {
			availability = "✅ Disponible"
		}

		fmt.Fprintf(&b, "%d. *%s*\n   💰 $%.2f\n   %s\n\n", i+1, p.Name, p.Price, availability)
	}

	b.WriteString("Para ver detalles de un producto, respondé con el número o nombre del producto.")
	return b.String()
}

// FormatProductDetail renders one product's full card.
func FormatProductDetail(p domain.Product, categoryName string) string {
	availability := "❌ No disponible"
	if p.Available() {
		availability = "✅ Disponible"
	}

	var b strings.Builder
	b.WriteString("🔍 *DETALLE DEL PRODUCTO*\n\n")
	fmt.Fprintf(&b, "*%s*\n\n", p.Name)
	fmt.Fprintf(&b, "💰 *Precio:* $%.2f\n", p.Price)
	if categoryName != "" {
		fmt.Fprintf(&b, "📦 *Categoría:* %s\n", categoryName)
	}
	fmt.Fprintf(&b, "🔢 *Stock:* %d\n", p.Stock)
	fmt.Fprintf(&b, "📊 *Estado:* %s\n\n", availability)
	fmt.Fprintf(&b, "📝 *Descripción:*\n%s", p.Description)

	return b.String()
}

// FormatOffers renders the current special offers.
func FormatOffers(offers []domain.SpecialOffer) string {
	if len(offers) == 0 {
		return "Actualmente no hay ofertas especiales disponibles."
	}

	var b strings.Builder
	b.WriteString("🔥 *OFERTAS ESPECIALES* 🔥\n\n")

	for i, o := range offers {
		fmt.Fprintf(&b, "%d. *%s*\n   %s\n   🏷️ *Descuento:* %.0f%%\n   🎫 *Código:* %s\n\n",
			i+1, o.Title, o.Description, o.DiscountPercentage, o.Code)
	}

	b.WriteString("Para aprovechar una oferta, respondé con el código de la oferta.")
	return b.String()
}
