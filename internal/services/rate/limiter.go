package rate

import (
	"strconv"
	"sync"
	"time"
)

// WindowStore counts hits inside a fixed window and reports how long the
// current window still has to live.
type WindowStore interface {
	IncrementWindow(key string, window time.Duration) (int64, time.Duration)
}

// Limiter enforces the per-user command cooldown: at most limit invocations
// per window.
type Limiter struct {
	store  WindowStore
	limit  int
	window time.Duration
}

func NewLimiter(store WindowStore, limit int, window time.Duration) *Limiter {
	if limit <= 0 {
		limit = 1
	}
	if window <= 0 {
		window = 30 * time.Second
	}
	return &Limiter{
		store:  store,
		limit:  limit,
		window: window,
	}
}

// Allow consumes one slot for the user. When the user is over the limit it
// returns how long they have to wait.
func (l *Limiter) Allow(userID int64) (time.Duration, bool) {
	if l.store == nil {
		return 0, true
	}

	count, ttl := l.store.IncrementWindow(cooldownKey(userID), l.window)
	if count > int64(l.limit) {
		if ttl <= 0 {
			ttl = time.Second
		}
		return ttl, false
	}
	return 0, true
}

func cooldownKey(userID int64) string {
	return "cooldown:like:" + strconv.FormatInt(userID, 10)
}

type windowState struct {
	count     int64
	expiresAt time.Time
}

// MemoryStore is a process-local WindowStore. Cooldown state lives for
// seconds, so it is not persisted anywhere.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string]windowState
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		windows: make(map[string]windowState),
		now:     time.Now,
	}
}

func (m *MemoryStore) IncrementWindow(key string, window time.Duration) (int64, time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	state, ok := m.windows[key]
	if !ok || !state.expiresAt.After(now) {
		state = windowState{count: 0, expiresAt: now.Add(window)}
	}
	state.count++
	m.windows[key] = state

	return state.count, state.expiresAt.Sub(now)
}
