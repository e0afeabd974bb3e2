package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
)

type mockStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newMockStore() *mockStore {
	return &mockStore{data: map[string]string{}}
}

func (m *mockStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value.(string)
	return nil
}

func (m *mockStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return "", redislib.Nil
	}
	return v, nil
}

func (m *mockStore) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

type mockKeyer struct{}

func (mockKeyer) AccessSessionKey(accessID string) string {
	return "st:session:access:" + accessID
}

func newTestManager() (*Manager, *mockStore) {
	store := newMockStore()
	return &Manager{store: store, keyer: mockKeyer{}, ttl: time.Hour}, store
}

func TestGenerateAndHasSession(t *testing.T) {
	mgr, _ := newTestManager()
	ctx := context.Background()

	token, err := mgr.Generate(ctx, "access-1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if token == "" {
		t.Fatal("token should not be empty")
	}

	ok, err := mgr.HasSession(ctx, "access-1")
	if err != nil || !ok {
		t.Fatalf("HasSession = %v, %v", ok, err)
	}

	ok, err = mgr.HasSession(ctx, "unknown")
	if err != nil || ok {
		t.Fatalf("HasSession(unknown) = %v, %v", ok, err)
	}
}

func TestRotateInvalidatesOldSession(t *testing.T) {
	mgr, _ := newTestManager()
	ctx := context.Background()

	token, err := mgr.Generate(ctx, "access-1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	newID, newToken, err := mgr.Rotate(ctx, "access-1", token)
	if err != nil {
		t.Fatalf("rotate: %v", err)
	}
	if newID == "access-1" || newToken == token {
		t.Fatal("rotation should produce fresh identifiers")
	}

	if ok, _ := mgr.HasSession(ctx, "access-1"); ok {
		t.Fatal("old session should be revoked")
	}
	if ok, _ := mgr.HasSession(ctx, newID); !ok {
		t.Fatal("new session should exist")
	}
}

func TestRotateRejectsWrongToken(t *testing.T) {
	mgr, _ := newTestManager()
	ctx := context.Background()

	if _, err := mgr.Generate(ctx, "access-1"); err != nil {
		t.Fatalf("generate: %v", err)
	}

	_, _, err := mgr.Rotate(ctx, "access-1", "forged-token")
	if !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("err = %v, want ErrInvalidRefreshToken", err)
	}

	if ok, _ := mgr.HasSession(ctx, "access-1"); !ok {
		t.Fatal("failed rotation must not revoke the session")
	}
}

func TestRevoke(t *testing.T) {
	mgr, _ := newTestManager()
	ctx := context.Background()

	if _, err := mgr.Generate(ctx, "access-1"); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if err := mgr.Revoke(ctx, "access-1"); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if ok, _ := mgr.HasSession(ctx, "access-1"); ok {
		t.Fatal("session should be gone after revoke")
	}
}
