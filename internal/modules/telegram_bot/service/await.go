package service

import "sync"

// awaitStore помнит, какой ввод ждём от чата (порог, фильтр объёма и т.п.).
type awaitStore struct {
	mu sync.Mutex
	m  map[int64]string // chatID -> key
}

func newAwaitStore() *awaitStore {
	return &awaitStore{m: make(map[int64]string)}
}

func (t *Telegram) setAwait(chatID int64, key string) {
	t.await.mu.Lock()
	defer t.await.mu.Unlock()
	t.await.m[chatID] = key
}

func (t *Telegram) popAwait(chatID int64) string {
	t.await.mu.Lock()
	defer t.await.mu.Unlock()
	key := t.await.m[chatID]
	delete(t.await.m, chatID)
	return key
}
