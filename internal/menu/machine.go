// Package menu implements the static menu tree that drives the
// numbered WhatsApp conversation flow.
package menu

import (
	"context"
	"log/slog"
	"strings"

	"github.com/breaders/whatsapp-bot/internal/state"
)

// HandlerFunc produces the reply for one menu interaction. A non-empty
// next state makes the machine transition after replying.
type HandlerFunc func(ctx context.Context, userID, input string) (reply string, next state.State)

// Option is one numbered entry of a menu node.
type Option struct {
	Next    state.State
	Handler HandlerFunc
}

// Node is one state of the static menu tree. Every non-root node has
// exactly one fixed parent; "back" always lands there, no matter how
// the node was entered.
type Node struct {
	State   state.State
	Message string
	Options map[string]Option
	Default HandlerFunc
	Parent  state.State
}

var backTokens = map[string]struct{}{
	"volver":       {},
	"volver atras": {},
	"volver atrás": {},
	"atras":        {},
	"atrás":        {},
	"menu":         {},
	"menú":         {},
	"inicio":       {},
}

// IsBackCommand reports whether the trimmed, case-folded input is one
// of the literal back-navigation tokens.
func IsBackCommand(text string) bool {
	_, ok := backTokens[strings.ToLower(strings.TrimSpace(text))]
	return ok
}

// Machine walks the static menu tree and keeps the per-user position in
// the state store.
type Machine struct {
	nodes map[state.State]*Node
	store state.Store
	log   *slog.Logger
}

// NewMachine builds the menu machine over the static tree. The catalog
// may be nil; product listings then use the canned texts.
func NewMachine(store state.Store, catalog Catalog, log *slog.Logger) *Machine {
	if log == nil {
		log = slog.Default()
	}

	m := &Machine{
		store: store,
		log:   log,
	}
	m.nodes = buildTree(catalog)

	return m
}

// Node returns the tree node for a state, or nil when unknown.
func (m *Machine) Node(s state.State) *Node {
	return m.nodes[s]
}

// RootMessage returns the canned text of the root menu.
func (m *Machine) RootMessage() string {
	return m.nodes[state.Default].Message
}

// Handle resolves back-navigation, numeric options, and each node's
// default handler. It reports handled=false only for free text in a
// state without a default handler, so the orchestrator can continue
// its fallback chain.
func (m *Machine) Handle(ctx context.Context, userID string, current state.State, text string) (string, bool, error) {
	node := m.nodes[current]
	if node == nil {
		// Unknown state: self-heal to the root menu.
		m.log.Warn("unknown menu state, resetting to root", "user_id", userID, "state", current)
		if err := m.store.Set(ctx, userID, state.Default); err != nil {
			return "", false, err
		}
		return m.RootMessage(), true, nil
	}

	if IsBackCommand(text) {
		return m.handleBack(ctx, userID, node)
	}

	trimmed := strings.TrimSpace(text)
	if isDigits(trimmed) {
		return m.handleOption(ctx, userID, node, trimmed)
	}

	if node.Default != nil {
		return m.runHandler(ctx, userID, node.Default, text)
	}

	return "", false, nil
}

// handleBack resolves the node's single fixed parent. Nodes without a
// parent entry reset to the root.
func (m *Machine) handleBack(ctx context.Context, userID string, node *Node) (string, bool, error) {
	target := node.Parent
	parent := m.nodes[target]
	if parent == nil {
		target = state.Default
		parent = m.nodes[target]
	}

	if err := m.store.Set(ctx, userID, target); err != nil {
		return "", false, err
	}

	m.log.Info("back navigation", "user_id", userID, "from", node.State, "to", target)
	return parent.Message, true, nil
}

// handleOption looks the digit up strictly in the current node; options
// of ancestor menus are never considered, so unrelated submenus can
// reuse the same digits.
func (m *Machine) handleOption(ctx context.Context, userID string, node *Node, digit string) (string, bool, error) {
	opt, ok := node.Options[digit]
	if !ok {
		if node.Default != nil {
			return m.runHandler(ctx, userID, node.Default, digit)
		}

		m.log.Info("option not available", "user_id", userID, "state", node.State, "option", digit)
		return MsgOpcionNoDisponible, true, nil
	}

	if opt.Handler != nil {
		reply, next := opt.Handler(ctx, userID, digit)
		if next == "" {
			next = opt.Next
		}
		return m.finish(ctx, userID, reply, next)
	}

	// Transition declared without a handler: the new state's default
	// handler (or canned message) produces the reply.
	nextNode := m.nodes[opt.Next]
	if nextNode == nil {
		return MsgOpcionNoDisponible, true, nil
	}

	reply := nextNode.Message
	if nextNode.Default != nil {
		if r, _ := nextNode.Default(ctx, userID, digit); r != "" {
			reply = r
		}
	}

	return m.finish(ctx, userID, reply, opt.Next)
}

func (m *Machine) runHandler(ctx context.Context, userID string, h HandlerFunc, input string) (string, bool, error) {
	reply, next := h(ctx, userID, input)
	return m.finish(ctx, userID, reply, next)
}

func (m *Machine) finish(ctx context.Context, userID, reply string, next state.State) (string, bool, error) {
	if next != "" {
		if err := m.store.Set(ctx, userID, next); err != nil {
			return "", false, err
		}
	}

	return reply, reply != "", nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}
