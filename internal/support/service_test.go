package support

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestService_DetectCategory(t *testing.T) {
	svc := NewService()

	testCases := []struct {
		name    string
		message string
		want    Category
	}{
		{"order query", "quiero cancelar mi pedido", CategoryPedido},
		{"product query", "qué ingredientes tienen las milanesas?", CategoryProducto},
		{"payment query", "aceptan mercadopago o tarjeta?", CategoryPago},
		{"delivery query", "cuánto demora la entrega a domicilio?", CategoryEnvio},
		{"schedule query", "están abiertos los domingos?", CategoryHorario},
		{"complaint", "tengo una queja, el producto llegó mal", CategoryReclamo},
		{"no keywords", "hola gente linda", CategoryDefault},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, confidence := svc.DetectCategory(tc.message)
			assert.Equal(t, tc.want, got)

			if tc.want == CategoryDefault {
				assert.InDelta(t, 0.1, confidence, 0.001)
			} else {
				assert.GreaterOrEqual(t, confidence, 0.45)
				assert.LessOrEqual(t, confidence, 0.9)
			}
		})
	}
}

func TestService_ConfidenceGrowsWithMatches(t *testing.T) {
	svc := NewService()

	_, one := svc.DetectCategory("pago")
	_, three := svc.DetectCategory("pago con tarjeta o transferencia")

	assert.Greater(t, three, one)
}

func TestService_RespondAppendsMenuHint(t *testing.T) {
	svc := NewService()

	response := svc.Respond("problema con la factura")
	assert.True(t, strings.HasSuffix(response, "escribí 'menu' o 'volver'."))
	assert.Contains(t, response, "medios")
}
