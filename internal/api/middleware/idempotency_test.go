package middleware

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/99minutos/catalog-api/internal/core/domain"
)

type memoryIdempotency struct {
	keys map[string]string
	err  error
}

func (m *memoryIdempotency) Lookup(_ context.Context, key string) (string, bool, error) {
	if m.err != nil {
		return "", false, m.err
	}
	name, ok := m.keys[key]
	return name, ok, nil
}

func (m *memoryIdempotency) Remember(_ context.Context, key, name string) error {
	m.keys[key] = name
	return nil
}

func TestReplayIdempotentCreate_NoHeader(t *testing.T) {
	store := &memoryIdempotency{keys: map[string]string{}}
	_, c, called := runGuards(t, jsonRequest(http.MethodPost, `{}`),
		withCaller(domain.RoleUser), ReplayIdempotentCreate(store, lookupFrom(nil, nil), zerolog.Nop()))
	assert.True(t, called)
	_, ok := IdempotencyKeyFrom(c.Request().Context())
	assert.False(t, ok)
}

func TestReplayIdempotentCreate_FirstRequestRecordsKey(t *testing.T) {
	store := &memoryIdempotency{keys: map[string]string{}}
	req := jsonRequest(http.MethodPost, `{}`)
	req.Header.Set(HeaderIdempotencyKey, "k1")

	_, c, called := runGuards(t, req,
		withCaller(domain.RoleUser), ReplayIdempotentCreate(store, lookupFrom(nil, nil), zerolog.Nop()))
	require.True(t, called)
	key, ok := IdempotencyKeyFrom(c.Request().Context())
	require.True(t, ok)
	assert.Equal(t, "u1:k1", key)
}

func TestReplayIdempotentCreate_Replays(t *testing.T) {
	store := &memoryIdempotency{keys: map[string]string{"u1:k1": "Widget"}}
	products := map[string]*domain.Product{"Widget": {ID: "p1", Name: "Widget", Quantity: 5}}
	req := jsonRequest(http.MethodPost, `{}`)
	req.Header.Set(HeaderIdempotencyKey, "k1")

	rec, _, called := runGuards(t, req,
		withCaller(domain.RoleUser), ReplayIdempotentCreate(store, lookupFrom(products, nil), zerolog.Nop()))
	assert.False(t, called)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"Widget"`)
}

func TestReplayIdempotentCreate_DeletedProductStartsFresh(t *testing.T) {
	store := &memoryIdempotency{keys: map[string]string{"u1:k1": "Widget"}}
	req := jsonRequest(http.MethodPost, `{}`)
	req.Header.Set(HeaderIdempotencyKey, "k1")

	_, c, called := runGuards(t, req,
		withCaller(domain.RoleUser), ReplayIdempotentCreate(store, lookupFrom(nil, nil), zerolog.Nop()))
	assert.True(t, called)
	_, ok := IdempotencyKeyFrom(c.Request().Context())
	assert.True(t, ok)
}

func TestReplayIdempotentCreate_StoreFailureContinues(t *testing.T) {
	store := &memoryIdempotency{err: errors.New("redis down")}
	req := jsonRequest(http.MethodPost, `{}`)
	req.Header.Set(HeaderIdempotencyKey, "k1")

	_, _, called := runGuards(t, req,
		withCaller(domain.RoleUser), ReplayIdempotentCreate(store, lookupFrom(nil, nil), zerolog.Nop()))
	assert.True(t, called)
}

func TestReplayIdempotentCreate_NilStore(t *testing.T) {
	req := jsonRequest(http.MethodPost, `{}`)
	req.Header.Set(HeaderIdempotencyKey, "k1")
	_, _, called := runGuards(t, req, ReplayIdempotentCreate(nil, lookupFrom(nil, nil), zerolog.Nop()))
	assert.True(t, called)
}
