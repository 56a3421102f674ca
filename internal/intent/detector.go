// Package intent classifies free-text WhatsApp messages into a closed
// set of intents using keyword and phrase matching.
package intent

import (
	"regexp"
	"strings"
)

// Intent is a coarse semantic category assigned to a user message.
type Intent string

const (
	// IntentSaludo indicates a greeting message.
	IntentSaludo Intent = "saludo"
	// IntentVerProductos indicates the user wants to browse the catalog.
	IntentVerProductos Intent = "ver_productos"
	// IntentHacerPedido indicates the user wants to place an order.
	IntentHacerPedido Intent = "hacer_pedido"
	// IntentEstadoPedido indicates the user is asking about an existing order.
	IntentEstadoPedido Intent = "estado_pedido"
	// IntentOfertasEspeciales indicates the user is asking for offers or discounts.
	IntentOfertasEspeciales Intent = "ofertas_especiales"
	// IntentAtencionCliente indicates the user wants customer support.
	IntentAtencionCliente Intent = "atencion_cliente"
	// IntentDesconocido is returned when no keyword group matches.
	IntentDesconocido Intent = "desconocido"
)

const (
	baseConfidence      = 0.3
	matchFactorStep     = 0.1
	matchFactorCap      = 0.3
	coverageFactorScale = 0.6
	coverageFactorCap   = 0.6
	maxConfidence       = 0.95
	noMatchConfidence   = 0.1

	// Greeting keywords embedded in long sentences rarely carry the
	// real intent, so greeting confidence is length-adjusted.
	greetingLongWords    = 5
	greetingShortWords   = 2
	greetingLongPenalty  = 0.7
	greetingShortBonus   = 0.2
)

type rule struct {
	intent  Intent
	pattern *regexp.Regexp
}

var saludoKeywords = []string{
	"hola", "buen dia", "buen día", "buenos dias", "buenos días",
	"buenas tardes", "buenas noches", "buenas", "que tal", "qué tal",
	"como va", "cómo va", "que onda", "qué onda", "holis", "saludos",
}

var verProductosKeywords = []string{
	"ver producto", "ver productos", "productos", "catalogo", "catálogo",
	"milanesas", "que tenes para vender", "que tenés para vender",
	"mostrame los productos", "quiero ver productos", "quisiera ver productos",
	"menu de productos", "menú de productos", "que vendes", "que vendés",
	"mostrame las opciones",
}

var hacerPedidoKeywords = []string{
	"hacer pedido", "hacer un pedido", "quiero comprar", "quisiera comprar",
	"quiero pedir", "quisiera pedir", "quiero ordenar", "quisiera ordenar",
	"realizar pedido", "realizar compra", "me gustaria comprar",
	"me gustaría comprar", "me gustaria pedir", "me gustaría pedir",
}

var estadoPedidoKeywords = []string{
	"consultar estado", "estado de mi pedido", "seguimiento de pedido",
	"mi pedido", "donde esta mi pedido", "donde está mi pedido",
	"cuando llega mi pedido", "cuándo llega mi pedido", "tracking de mi pedido",
	"rastreo de pedido", "revisar pedido", "como va mi pedido",
	"cómo va mi pedido", "estado de mi compra", "estado de mi orden",
}

var ofertasKeywords = []string{
	"ofertas especiales", "promociones especiales", "ofertas", "promociones",
	"descuentos", "promo", "combos especiales", "paquetes con descuento",
	"liquidacion", "liquidación", "ofertas del dia", "ofertas del día",
	"hay descuentos", "tienen ofertas",
}

var atencionClienteKeywords = []string{
	"atencion al cliente", "atención al cliente", "servicio al cliente",
	"hablar con alguien", "hablar con una persona", "hablar con un representante",
	"necesito ayuda", "tengo un problema", "tengo una duda", "tengo una pregunta",
	"quiero hablar con un humano", "quiero hablar con una persona",
	"contactar con soporte", "contactar con atencion", "contactar con atención",
}

// Detector scores messages against ordered keyword groups. The rule
// order is fixed so ties always resolve to the first registered intent.
type Detector struct {
	rules []rule
}

// NewDetector compiles the keyword groups for every known intent.
func NewDetector() *Detector {
	return &Detector{
		rules: []rule{
			{IntentSaludo, compileKeywords(saludoKeywords)},
			{IntentVerProductos, compileKeywords(verProductosKeywords)},
			{IntentHacerPedido, compileKeywords(hacerPedidoKeywords)},
			{IntentEstadoPedido, compileKeywords(estadoPedidoKeywords)},
			{IntentOfertasEspeciales, compileKeywords(ofertasKeywords)},
			{IntentAtencionCliente, compileKeywords(atencionClienteKeywords)},
		},
	}
}

// Detect classifies the message and returns the best intent with its
// confidence in [0,1]. It never fails: unmatched input yields
// (IntentDesconocido, 0.1).
func (d *Detector) Detect(message string) (Intent, float64) {
	normalized := strings.ToLower(strings.TrimSpace(message))
	if normalized == "" {
		return IntentDesconocido, noMatchConfidence
	}

	best := IntentDesconocido
	bestConfidence := 0.0

	for _, r := range d.rules {
		matches := r.pattern.FindAllStringIndex(normalized, -1)
		if len(matches) == 0 {
			continue
		}

		span := 0
		for _, m := range matches {
			span += m[1] - m[0]
		}

		confidence := score(len(matches), span, len(normalized))
		if r.intent == IntentSaludo {
			confidence = adjustGreeting(confidence, normalized)
		}

		if confidence > bestConfidence {
			best = r.intent
			bestConfidence = confidence
		}
	}

	if best == IntentDesconocido {
		return IntentDesconocido, noMatchConfidence
	}

	return best, bestConfidence
}

func score(matchCount, span, messageLen int) float64 {
	matchFactor := float64(matchCount) * matchFactorStep
	if matchFactor > matchFactorCap {
		matchFactor = matchFactorCap
	}

	coverage := float64(span) / float64(messageLen) * coverageFactorScale
	if coverage > coverageFactorCap {
		coverage = coverageFactorCap
	}

	confidence := baseConfidence + matchFactor + coverage
	if confidence > maxConfidence {
		confidence = maxConfidence
	}

	return confidence
}

func adjustGreeting(confidence float64, normalized string) float64 {
	words := len(strings.Fields(normalized))

	switch {
	case words > greetingLongWords:
		confidence *= greetingLongPenalty
	case words <= greetingShortWords:
		confidence += greetingShortBonus
	}

	if confidence > maxConfidence {
		confidence = maxConfidence
	}

	return confidence
}

// IsGreeting reports whether the message contains a greeting keyword.
// The assistant client uses it for the first-interaction shortcut.
func IsGreeting(message string) bool {
	normalized := strings.ToLower(strings.TrimSpace(message))
	if normalized == "" {
		return false
	}
	return greetingPattern.MatchString(normalized)
}

var greetingPattern = compileKeywords(saludoKeywords)

func compileKeywords(keywords []string) *regexp.Regexp {
	escaped := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		escaped = append(escaped, regexp.QuoteMeta(kw))
	}

	return regexp.MustCompile(`\b(` + strings.Join(escaped, "|") + `)\b`)
}
