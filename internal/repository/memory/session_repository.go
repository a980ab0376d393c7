package memory

import (
	"time"

	"github.com/ranajunaid001/second-braind-junaid/pkg/store"

	"github.com/patrickmn/go-cache"
)

// SessionRepository keeps per-chat conversation state in process memory.
// Sessions expire after an hour of inactivity, which also abandons any
// pending disambiguation the user walked away from.
type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository() *SessionRepository {
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &SessionRepository{
		cache: c,
	}
}

func (r *SessionRepository) Find(chatID string) *store.Session {
	if x, found := r.cache.Get(chatID); found {
		return x.(*store.Session)
	}
	return nil
}

func (r *SessionRepository) Save(session *store.Session) {
	r.cache.Set(session.ChatID, session, cache.DefaultExpiration)
}

func (r *SessionRepository) Delete(chatID string) {
	r.cache.Delete(chatID)
}
