package menu

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/breaders/whatsapp-bot/internal/state"
)

type memoryStore struct {
	mu     sync.Mutex
	states map[string]state.State
}

func newMemoryStore() *memoryStore {
	return &memoryStore{states: make(map[string]state.State)}
}

func (s *memoryStore) Get(ctx context.Context, userID string) (state.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.states[userID]
	if !ok {
		s.states[userID] = state.Default
		return state.Default, nil
	}

	return current, nil
}

func (s *memoryStore) Set(ctx context.Context, userID string, next state.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[userID] = next
	return nil
}

func (s *memoryStore) Clear(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, userID)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestMachine() (*Machine, *memoryStore) {
	store := newMemoryStore()
	return NewMachine(store, nil, testLogger()), store
}

func TestMachine_RootOptionOpensProducts(t *testing.T) {
	m, store := newTestMachine()
	ctx := context.Background()

	reply, handled, err := m.Handle(ctx, "549", state.StateMenuPrincipal, "1")
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Equal(t, MsgVerProductos, reply)
	assert.Equal(t, state.StateNavegandoProductos, store.states["549"])
}

func TestMachine_EveryRootOptionTransitions(t *testing.T) {
	expected := map[string]state.State{
		"1": state.StateNavegandoProductos,
		"2": state.StateHaciendoPedido,
		"3": state.StateEstadoPedido,
		"4": state.StateOfertasEspeciales,
		"5": state.StateAtencionCliente,
	}

	for digit, want := range expected {
		t.Run(digit, func(t *testing.T) {
			m, store := newTestMachine()

			_, handled, err := m.Handle(context.Background(), "549", state.StateMenuPrincipal, digit)
			require.NoError(t, err)
			assert.True(t, handled)
			assert.Equal(t, want, store.states["549"])
		})
	}
}

func TestMachine_UnknownOptionKeepsState(t *testing.T) {
	m, store := newTestMachine()
	ctx := context.Background()

	reply, handled, err := m.Handle(ctx, "549", state.StateMenuPrincipal, "9")
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Equal(t, MsgOpcionNoDisponible, reply)
	_, exists := store.states["549"]
	assert.False(t, exists, "state must not change on an invalid option")
}

func TestMachine_OptionIsIdempotent(t *testing.T) {
	m, store := newTestMachine()
	ctx := context.Background()

	first, _, err := m.Handle(ctx, "549", state.StateMenuPrincipal, "1")
	require.NoError(t, err)

	second, _, err := m.Handle(ctx, "549", state.StateMenuPrincipal, "1")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, state.StateNavegandoProductos, store.states["549"])
}

func TestMachine_BackReturnsToFixedParent(t *testing.T) {
	m, store := newTestMachine()
	ctx := context.Background()

	for _, token := range []string{"volver", "VOLVER", " Menú ", "atras"} {
		t.Run(token, func(t *testing.T) {
			reply, handled, err := m.Handle(ctx, "549", state.StateNavegandoProductos, token)
			require.NoError(t, err)
			assert.True(t, handled)
			assert.Equal(t, MsgMenuPrincipal, reply)
			assert.Equal(t, state.StateMenuPrincipal, store.states["549"])
		})
	}
}

func TestMachine_BackFromEveryStateLandsOnDeclaredParent(t *testing.T) {
	m, store := newTestMachine()
	ctx := context.Background()

	for _, s := range state.All() {
		node := m.Node(s)
		require.NotNil(t, node)

		want := node.Parent
		if want == "" {
			want = state.Default
		}

		reply, handled, err := m.Handle(ctx, "549", s, "volver")
		require.NoError(t, err)
		assert.True(t, handled)
		assert.Equal(t, m.Node(want).Message, reply)
		assert.Equal(t, want, store.states["549"])
	}
}

func TestMachine_BackFromRootStaysAtRoot(t *testing.T) {
	m, store := newTestMachine()

	reply, handled, err := m.Handle(context.Background(), "549", state.StateMenuPrincipal, "volver")
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Equal(t, MsgMenuPrincipal, reply)
	assert.Equal(t, state.StateMenuPrincipal, store.states["549"])
}

func TestMachine_CategoryOptionShowsDetail(t *testing.T) {
	m, store := newTestMachine()

	reply, handled, err := m.Handle(context.Background(), "549", state.StateNavegandoProductos, "2")
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Equal(t, MsgProductosPollo, reply)
	assert.Equal(t, state.StateDetalleProducto, store.states["549"])
}

type staticCatalog struct {
	listing string
}

func (c staticCatalog) CategoryListing(ctx context.Context, category string) (string, error) {
	return fmt.Sprintf("%s: %s", category, c.listing), nil
}

func (c staticCatalog) OffersListing(ctx context.Context) (string, error) {
	return "ofertas: " + c.listing, nil
}

func TestMachine_CatalogOverridesCannedListing(t *testing.T) {
	store := newMemoryStore()
	m := NewMachine(store, staticCatalog{listing: "2 productos"}, testLogger())

	reply, handled, err := m.Handle(context.Background(), "549", state.StateNavegandoProductos, "1")
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Equal(t, "carne: 2 productos", reply)
}

func TestMachine_ZoneLookup(t *testing.T) {
	m, store := newTestMachine()
	ctx := context.Background()

	t.Run("covered zone", func(t *testing.T) {
		reply, handled, err := m.Handle(ctx, "549", state.StateAgregandoAlCarrito, "Estoy en Palermo")
		require.NoError(t, err)
		assert.True(t, handled)
		assert.Equal(t, MsgZonaDisponible, reply)
		assert.Equal(t, state.StateHaciendoPedido, store.states["549"])
	})

	t.Run("uncovered zone", func(t *testing.T) {
		reply, handled, err := m.Handle(ctx, "549", state.StateAgregandoAlCarrito, "La Plata")
		require.NoError(t, err)
		assert.True(t, handled)
		assert.Equal(t, MsgZonaNoDisponible, reply)
		assert.Equal(t, state.StateHaciendoPedido, store.states["549"])
	})
}

func TestMachine_OrderStatusHandler(t *testing.T) {
	m, store := newTestMachine()
	ctx := context.Background()

	t.Run("with order number", func(t *testing.T) {
		reply, handled, err := m.Handle(ctx, "549", state.StateEstadoPedido, "mi pedido es el 12345")
		require.NoError(t, err)
		assert.True(t, handled)
		assert.Contains(t, reply, "#12345")
		assert.Equal(t, state.StateMenuPrincipal, store.states["549"])
	})

	t.Run("without order number", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "549", state.StateEstadoPedido))

		reply, handled, err := m.Handle(ctx, "549", state.StateEstadoPedido, "no lo tengo")
		require.NoError(t, err)
		assert.True(t, handled)
		assert.Equal(t, MsgConsultarEstado, reply)
		assert.Equal(t, state.StateEstadoPedido, store.states["549"])
	})
}

func TestMachine_SupportDefaultHandler(t *testing.T) {
	m, _ := newTestMachine()

	reply, handled, err := m.Handle(context.Background(), "549", state.StateAtencionCliente, "tengo un problema con el pago")
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Contains(t, reply, "volver al menú principal")
}

func TestMachine_FreeTextWithoutDefaultFallsThrough(t *testing.T) {
	m, _ := newTestMachine()

	reply, handled, err := m.Handle(context.Background(), "549", state.StateMenuPrincipal, "quiero saber algo")
	require.NoError(t, err)
	assert.False(t, handled)
	assert.Empty(t, reply)
}

func TestMachine_UnknownStateResetsToRoot(t *testing.T) {
	m, store := newTestMachine()

	reply, handled, err := m.Handle(context.Background(), "549", state.State("limbo"), "hola")
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Equal(t, MsgMenuPrincipal, reply)
	assert.Equal(t, state.StateMenuPrincipal, store.states["549"])
}

func TestIsBackCommand(t *testing.T) {
	assert.True(t, IsBackCommand("volver"))
	assert.True(t, IsBackCommand("  MENU  "))
	assert.True(t, IsBackCommand("Atrás"))
	assert.False(t, IsBackCommand("volveré mañana"))
	assert.False(t, IsBackCommand("1"))
}
