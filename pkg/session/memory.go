package session

import (
	"context"
	"sync"
)

// MemoryStore はプロセス内のmapにトークンを保存するStore。
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Tokens
}

// NewMemoryStore は空のMemoryStoreを生成する。
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]Tokens)}
}

// Load はトークンを読み込む。
func (m *MemoryStore) Load(_ context.Context, id string) (Tokens, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tokens, ok := m.sessions[id]
	if !ok {
		return Tokens{}, ErrNotFound
	}
	return tokens, nil
}

// Save はトークンを上書き保存する。
func (m *MemoryStore) Save(_ context.Context, id string, tokens Tokens) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[id] = tokens
	return nil
}

// Update は保存済みのトークンを書き換える。
func (m *MemoryStore) Update(_ context.Context, id string, tokens Tokens) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return ErrNotFound
	}
	m.sessions[id] = tokens
	return nil
}

// Delete はトークンを削除する。
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, id)
	return nil
}
