package intent

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetector_Detect(t *testing.T) {
	d := NewDetector()

	testCases := []struct {
		name    string
		message string
		want    Intent
	}{
		{"simple greeting", "Hola", IntentSaludo},
		{"greeting with punctuation", "buenas tardes!", IntentSaludo},
		{"view products", "quiero ver productos", IntentVerProductos},
		{"catalog keyword", "mostrame el catálogo", IntentVerProductos},
		{"place order", "quiero hacer un pedido", IntentHacerPedido},
		{"order status", "donde esta mi pedido", IntentEstadoPedido},
		{"special offers", "tienen ofertas especiales?", IntentOfertasEspeciales},
		{"customer support", "necesito ayuda con algo", IntentAtencionCliente},
		{"no match", "xyzzy", IntentDesconocido},
		{"empty", "   ", IntentDesconocido},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, confidence := d.Detect(tc.message)
			assert.Equal(t, tc.want, got)

			if tc.want == IntentDesconocido {
				assert.InDelta(t, 0.1, confidence, 0.001)
			} else {
				assert.Greater(t, confidence, 0.3)
				assert.LessOrEqual(t, confidence, 0.95)
			}
		})
	}
}

func TestDetector_ConfidenceMonotonicInMatches(t *testing.T) {
	d := NewDetector()

	// Same length, more keyword occurrences must never score lower.
	padding := strings.Repeat("x", 20)
	one := "ofertas " + padding
	two := "ofertas promociones " + padding[:8]

	intentOne, confOne := d.Detect(one)
	intentTwo, confTwo := d.Detect(two)

	assert.Equal(t, IntentOfertasEspeciales, intentOne)
	assert.Equal(t, IntentOfertasEspeciales, intentTwo)
	assert.GreaterOrEqual(t, confTwo, confOne)
}

func TestDetector_GreetingLengthAdjustment(t *testing.T) {
	d := NewDetector()

	_, short := d.Detect("hola")
	_, long := d.Detect("hola quería saber si ustedes hacen envíos los domingos a la tarde")

	assert.Greater(t, short, long)
}

func TestDetector_ConfidenceCapped(t *testing.T) {
	d := NewDetector()

	_, confidence := d.Detect("ofertas promociones descuentos promo liquidacion")
	assert.LessOrEqual(t, confidence, 0.95)
}

func TestDetector_Deterministic(t *testing.T) {
	d := NewDetector()

	first, firstConf := d.Detect("hola quiero ver productos")
	for i := 0; i < 10; i++ {
		got, conf := d.Detect("hola quiero ver productos")
		assert.Equal(t, first, got)
		assert.Equal(t, firstConf, conf)
	}
}

func TestIsGreeting(t *testing.T) {
	assert.True(t, IsGreeting("Hola"))
	assert.True(t, IsGreeting("buenas noches"))
	assert.False(t, IsGreeting("quiero milanesas"))
	assert.False(t, IsGreeting(""))
}
