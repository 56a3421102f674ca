// Package state manages the per-user menu position for the bot.
package state

// State names the menu node a user is currently in.
type State string

const (
	// StateMenuPrincipal is the root menu and the default for new users.
	StateMenuPrincipal State = "menu_principal"
	// StateNavegandoProductos indicates the user is browsing product categories.
	StateNavegandoProductos State = "navegando_productos"
	// StateDetalleProducto indicates the user is viewing one category's products.
	StateDetalleProducto State = "detalle_producto"
	// StateHaciendoPedido indicates the user is choosing a product to order.
	StateHaciendoPedido State = "haciendo_pedido"
	// StateAgregandoAlCarrito indicates the user is completing an order item.
	StateAgregandoAlCarrito State = "agregando_al_carrito"
	// StateEstadoPedido indicates the user is checking an order's status.
	StateEstadoPedido State = "estado_pedido"
	// StateOfertasEspeciales indicates the user is viewing current offers.
	StateOfertasEspeciales State = "ofertas_especiales"
	// StateAtencionCliente indicates the user is in the support area.
	StateAtencionCliente State = "atencion_cliente"
)

// Default is the state assigned on first contact and after self-healing
// resets.
const Default = StateMenuPrincipal

var known = map[State]struct{}{
	StateMenuPrincipal:      {},
	StateNavegandoProductos: {},
	StateDetalleProducto:    {},
	StateHaciendoPedido:     {},
	StateAgregandoAlCarrito: {},
	StateEstadoPedido:       {},
	StateOfertasEspeciales:  {},
	StateAtencionCliente:    {},
}

// IsKnown reports whether the state name belongs to the static menu
// tree. Unknown names are self-healed back to Default by callers.
func IsKnown(s State) bool {
	_, ok := known[s]
	return ok
}

// All returns every state of the static menu tree.
func All() []State {
	return []State{
		StateMenuPrincipal,
		StateNavegandoProductos,
		StateDetalleProducto,
		StateHaciendoPedido,
		StateAgregandoAlCarrito,
		StateEstadoPedido,
		StateOfertasEspeciales,
		StateAtencionCliente,
	}
}

var transitionRecorder = func(from, to string) {}

// RegisterTransitionRecorder allows external packages to observe state
// transitions, e.g. for Prometheus counters.
func RegisterTransitionRecorder(recorder func(from, to string)) {
	if recorder == nil {
		transitionRecorder = func(string, string) {}
		return
	}

	transitionRecorder = recorder
}

func recordTransition(from, to State) {
	transitionRecorder(string(from), string(to))
}
