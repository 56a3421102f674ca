// Package support resolves customer-support queries to a canned
// response using keyword category detection.
package support

import "strings"

// Category names one customer-support topic.
type Category string

const (
	CategoryPedido   Category = "pedido"
	CategoryProducto Category = "producto"
	CategoryPago     Category = "pago"
	CategoryEnvio    Category = "envio"
	CategoryHorario  Category = "horario"
	CategoryReclamo  Category = "reclamo"
	CategoryDefault  Category = "default"
)

type categoryRule struct {
	category Category
	keywords []string
}

// Rule order is fixed so equal match counts always resolve the same way.
var categoryRules = []categoryRule{
	{CategoryPedido, []string{
		"pedido", "orden", "compra", "tracking", "seguimiento",
		"estado", "cancelar", "modificar", "cambiar",
	}},
	{CategoryProducto, []string{
		"producto", "calidad", "ingredientes", "alergenos", "alérgenos",
		"conservacion", "conservación", "caducidad", "vencimiento",
	}},
	{CategoryPago, []string{
		"pago", "factura", "recibo", "tarjeta", "efectivo", "transferencia",
		"mercadopago", "reembolso", "devolucion", "devolución",
	}},
	{CategoryEnvio, []string{
		"envio", "envío", "delivery", "entrega", "direccion", "dirección",
		"domicilio", "tiempo", "demora", "retraso",
	}},
	{CategoryHorario, []string{
		"horario", "abierto", "cerrado", "atencion", "atención",
		"disponibilidad", "dias", "días", "horas",
	}},
	{CategoryReclamo, []string{
		"reclamo", "queja", "problema", "error", "incidencia", "incidente",
		"insatisfecho", "insatisfecha", "mal", "defectuoso",
	}},
}

var categoryResponses = map[Category]string{
	CategoryPedido: "Entiendo que tenés una consulta sobre tu pedido. " +
		"Para ayudarte mejor, necesito el número de pedido. " +
		"Por favor, enviame el número que recibiste en tu confirmación de compra.\n\n" +
		"Si no lo tenés, podés darme la fecha aproximada y tu nombre completo para buscarlo.",
	CategoryProducto: "Gracias por tu interés en nuestros productos. " +
		"Todas nuestras milanesas son elaboradas con ingredientes frescos y de alta calidad. " +
		"Si tenés alguna consulta específica sobre ingredientes, alérgenos o conservación, " +
		"contanos y te pasamos la información detallada.",
	CategoryPago: "Sobre tu consulta de pagos, aceptamos múltiples medios:\n" +
		"- Efectivo (solo en entregas a domicilio)\n" +
		"- Tarjetas de débito y crédito\n" +
		"- Transferencia bancaria\n" +
		"- MercadoPago\n\n" +
		"Si tenés una consulta puntual sobre facturación o reembolsos, " +
		"pasanos más detalles para poder ayudarte.",
	CategoryEnvio: "Sobre nuestro servicio de envío:\n" +
		"- Realizamos entregas en toda la ciudad\n" +
		"- El costo estándar es de $500\n" +
		"- Envío gratis en compras superiores a $5000\n" +
		"- Tiempo estimado de entrega: 30-45 minutos según la zona\n\n" +
		"Si necesitás saber dónde está tu envío, pasame el número de pedido.",
	CategoryHorario: "Nuestro horario de atención es:\n" +
		"- Lunes a viernes: 9:00 a 20:00 hs\n" +
		"- Sábados: 9:00 a 14:00 hs\n" +
		"- Domingos: cerrado\n\n" +
		"Los pedidos fuera del horario de atención se procesan al siguiente día hábil.",
	CategoryReclamo: "Lamentamos mucho que hayas tenido un problema. Tu satisfacción es " +
		"nuestra prioridad y queremos resolverlo lo antes posible.\n\n" +
		"Contanos en detalle el inconveniente, incluyendo el número de pedido si lo tenés. " +
		"Un representante de atención al cliente se va a contactar a la brevedad.",
	CategoryDefault: "Gracias por contactar a nuestro servicio de atención al cliente. " +
		"Estamos para ayudarte con cualquier consulta o problema. " +
		"Contanos más detalles para poder asistirte mejor.",
}

const backToMenuSuffix = "\n\nPara volver al menú principal, escribí 'menu' o 'volver'."

const (
	baseConfidence    = 0.3
	matchStep         = 0.15
	maxConfidence     = 0.9
	noMatchConfidence = 0.1
)

// Service maps free-text support queries to canned category responses.
type Service struct{}

// NewService constructs a support responder over the static category table.
func NewService() *Service {
	return &Service{}
}

// DetectCategory returns the best-matching support category with a
// confidence derived from the keyword match count.
func (s *Service) DetectCategory(message string) (Category, float64) {
	normalized := strings.ToLower(message)

	best := CategoryDefault
	bestMatches := 0

	for _, rule := range categoryRules {
		matches := 0
		for _, kw := range rule.keywords {
			if strings.Contains(normalized, kw) {
				matches++
			}
		}

		if matches > bestMatches {
			best = rule.category
			bestMatches = matches
		}
	}

	if bestMatches == 0 {
		return CategoryDefault, noMatchConfidence
	}

	confidence := baseConfidence + float64(bestMatches)*matchStep
	if confidence > maxConfidence {
		confidence = maxConfidence
	}

	return best, confidence
}

// Respond returns the canned response for the message's category, with
// the back-to-menu hint appended.
func (s *Service) Respond(message string) string {
	category, _ := s.DetectCategory(message)

	response, ok := categoryResponses[category]
	if !ok {
		response = categoryResponses[CategoryDefault]
	}

	return response + backToMenuSuffix
}
