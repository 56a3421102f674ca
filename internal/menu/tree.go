package menu

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/breaders/whatsapp-bot/internal/state"
	"github.com/breaders/whatsapp-bot/internal/support"
)

// Catalog supplies formatted product and offer listings when the
// database is configured. A nil Catalog keeps every listing canned.
type Catalog interface {
	CategoryListing(ctx context.Context, category string) (string, error)
	OffersListing(ctx context.Context) (string, error)
}

// Neighborhoods currently covered by the delivery service. Compared
// case-folded against the free text the user sends during checkout.
var deliveryZones = []string{
	"palermo", "belgrano", "nuñez", "nunez", "colegiales", "chacarita",
	"villa crespo", "caballito", "almagro", "recoleta", "retiro",
	"villa urquiza", "saavedra", "flores",
}

var orderNumberPattern = regexp.MustCompile(`\d{3,}`)

func buildTree(catalog Catalog) map[state.State]*Node {
	supportSvc := support.NewService()

	nodes := []*Node{
		{
			State:   state.StateMenuPrincipal,
			Message: MsgMenuPrincipal,
			Options: map[string]Option{
				"1": {Next: state.StateNavegandoProductos},
				"2": {Next: state.StateHaciendoPedido},
				"3": {Next: state.StateEstadoPedido},
				"4": {Next: state.StateOfertasEspeciales, Handler: offersHandler(catalog)},
				"5": {Next: state.StateAtencionCliente, Handler: cannedNext(MsgAtencionCliente, state.StateAtencionCliente)},
			},
		},
		{
			State:   state.StateNavegandoProductos,
			Message: MsgVerProductos,
			Parent:  state.StateMenuPrincipal,
			Options: map[string]Option{
				"1": {Next: state.StateDetalleProducto, Handler: categoryHandler(catalog, "carne", MsgProductosCarne)},
				"2": {Next: state.StateDetalleProducto, Handler: categoryHandler(catalog, "pollo", MsgProductosPollo)},
				"3": {Next: state.StateDetalleProducto, Handler: categoryHandler(catalog, "cerdo", MsgProductosCerdo)},
				"4": {Next: state.StateDetalleProducto, Handler: categoryHandler(catalog, "vegetarianas", MsgProductosVegetarianas)},
			},
			Default: canned(MsgVerProductos),
		},
		{
			// Free text after a product detail falls through to the
			// orchestrator, where intents and the assistant take over.
			State:   state.StateDetalleProducto,
			Message: MsgVerProductos,
			Parent:  state.StateNavegandoProductos,
		},
		{
			State:   state.StateHaciendoPedido,
			Message: MsgHacerPedido,
			Parent:  state.StateMenuPrincipal,
			Options: map[string]Option{
				"1": {Next: state.StateAgregandoAlCarrito, Handler: cannedNext(MsgPedidoZona, state.StateAgregandoAlCarrito)},
				"2": {Next: state.StateAgregandoAlCarrito, Handler: cannedNext(MsgPedidoZona, state.StateAgregandoAlCarrito)},
				"3": {Next: state.StateAgregandoAlCarrito, Handler: cannedNext(MsgPedidoZona, state.StateAgregandoAlCarrito)},
				"4": {Next: state.StateAgregandoAlCarrito, Handler: cannedNext(MsgPedidoZona, state.StateAgregandoAlCarrito)},
			},
			Default: canned(MsgHacerPedido),
		},
		{
			State:   state.StateAgregandoAlCarrito,
			Message: MsgPedidoZona,
			Parent:  state.StateHaciendoPedido,
			Default: zoneHandler,
		},
		{
			State:   state.StateEstadoPedido,
			Message: MsgConsultarEstado,
			Parent:  state.StateMenuPrincipal,
			Default: orderStatusHandler,
		},
		{
			State:   state.StateOfertasEspeciales,
			Message: MsgOfertasEspeciales,
			Parent:  state.StateMenuPrincipal,
			Default: offersHandler(catalog),
		},
		{
			State:   state.StateAtencionCliente,
			Message: MsgAtencionCliente,
			Parent:  state.StateMenuPrincipal,
			Default: func(ctx context.Context, userID, input string) (string, state.State) {
				return supportSvc.Respond(input), ""
			},
		},
	}

	tree := make(map[state.State]*Node, len(nodes))
	for _, n := range nodes {
		tree[n.State] = n
	}

	return tree
}

func canned(msg string) HandlerFunc {
	return func(ctx context.Context, userID, input string) (string, state.State) {
		return msg, ""
	}
}

func cannedNext(msg string, next state.State) HandlerFunc {
	return func(ctx context.Context, userID, input string) (string, state.State) {
		return msg, next
	}
}

func offersHandler(catalog Catalog) HandlerFunc {
	return func(ctx context.Context, userID, input string) (string, state.State) {
		if catalog != nil {
			if listing, err := catalog.OffersListing(ctx); err == nil && listing != "" {
				return listing, state.StateOfertasEspeciales
			}
		}
		return MsgOfertasEspeciales, state.StateOfertasEspeciales
	}
}

func categoryHandler(catalog Catalog, category, fallback string) HandlerFunc {
	return func(ctx context.Context, userID, input string) (string, state.State) {
		if catalog != nil {
			if listing, err := catalog.CategoryListing(ctx, category); err == nil && listing != "" {
				return listing, state.StateDetalleProducto
			}
		}
		return fallback, state.StateDetalleProducto
	}
}

// zoneHandler checks the free-text neighborhood against the delivery
// list and returns to the order submenu on both outcomes.
func zoneHandler(ctx context.Context, userID, input string) (string, state.State) {
	normalized := strings.ToLower(strings.TrimSpace(input))

	for _, zone := range deliveryZones {
		if strings.Contains(normalized, zone) {
			return MsgZonaDisponible, state.StateHaciendoPedido
		}
	}

	return MsgZonaNoDisponible, state.StateHaciendoPedido
}

// orderStatusHandler extracts an order number from the message; without
// one it repeats the prompt.
func orderStatusHandler(ctx context.Context, userID, input string) (string, state.State) {
	number := orderNumberPattern.FindString(input)
	if number == "" {
		return MsgConsultarEstado, ""
	}

	return fmt.Sprintf(MsgEstadoPedidoEnCurso, number), state.StateMenuPrincipal
}
