package state

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	t.Cleanup(func() {
		_ = client.Close()
	})

	return client, mr
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRedisStore_SetAndGet(t *testing.T) {
	client, _ := setupTestRedis(t)
	store := NewRedisStore(client, testLogger())

	ctx := context.Background()

	err := store.Set(ctx, "5491122334455", StateNavegandoProductos)
	require.NoError(t, err)

	got, err := store.Get(ctx, "5491122334455")
	require.NoError(t, err)
	assert.Equal(t, StateNavegandoProductos, got)
}

func TestRedisStore_GetInitializesDefault(t *testing.T) {
	client, mr := setupTestRedis(t)
	store := NewRedisStore(client, testLogger())

	ctx := context.Background()

	got, err := store.Get(ctx, "5491199999999")
	require.NoError(t, err)
	assert.Equal(t, Default, got)

	// The default must also have been persisted.
	stored, err := mr.Get("user:state:5491199999999")
	require.NoError(t, err)
	assert.Equal(t, string(Default), stored)
}

func TestRedisStore_GetSelfHealsUnknownState(t *testing.T) {
	client, mr := setupTestRedis(t)
	store := NewRedisStore(client, testLogger())

	require.NoError(t, mr.Set("user:state:5491100000000", "estado_fantasma"))

	got, err := store.Get(context.Background(), "5491100000000")
	require.NoError(t, err)
	assert.Equal(t, Default, got)
}

func TestRedisStore_SetResetsExpiry(t *testing.T) {
	client, mr := setupTestRedis(t)
	store := NewRedisStore(client, testLogger())

	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "549", StateMenuPrincipal))
	mr.FastForward(23 * time.Hour)
	require.NoError(t, store.Set(ctx, "549", StateOfertasEspeciales))
	mr.FastForward(23 * time.Hour)

	got, err := store.Get(ctx, "549")
	require.NoError(t, err)
	assert.Equal(t, StateOfertasEspeciales, got)
}

func TestRedisStore_ExpiredStateFallsBackToDefault(t *testing.T) {
	client, mr := setupTestRedis(t)
	store := NewRedisStore(client, testLogger())

	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "549", StateAtencionCliente))
	mr.FastForward(25 * time.Hour)

	got, err := store.Get(ctx, "549")
	require.NoError(t, err)
	assert.Equal(t, Default, got)
}

func TestRedisStore_SetRejectsUnknownState(t *testing.T) {
	client, _ := setupTestRedis(t)
	store := NewRedisStore(client, testLogger())

	err := store.Set(context.Background(), "549", State("estado_fantasma"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "estado_fantasma")
}

func TestRedisStore_Clear(t *testing.T) {
	client, _ := setupTestRedis(t)
	store := NewRedisStore(client, testLogger())

	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "549", StateEstadoPedido))
	require.NoError(t, store.Clear(ctx, "549"))

	got, err := store.Get(ctx, "549")
	require.NoError(t, err)
	assert.Equal(t, Default, got)
}

func TestRegisterTransitionRecorder(t *testing.T) {
	client, _ := setupTestRedis(t)
	store := NewRedisStore(client, testLogger())

	var recorded [][2]string
	RegisterTransitionRecorder(func(from, to string) {
		recorded = append(recorded, [2]string{from, to})
	})
	t.Cleanup(func() { RegisterTransitionRecorder(nil) })

	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "549", StateMenuPrincipal))
	require.NoError(t, store.Set(ctx, "549", StateNavegandoProductos))
	require.NoError(t, store.Set(ctx, "549", StateNavegandoProductos))

	assert.Equal(t, [][2]string{
		{"", "menu_principal"},
		{"menu_principal", "navegando_productos"},
	}, recorded)
}
