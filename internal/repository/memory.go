package repository

import (
	"context"
	"sync"

	"github.com/octopus12176/tokimeki-checker/internal/model"
)

// MemoryStore 三个仓储接口的内存实现
// 没配数据库 DSN 时的本地开发模式，也是单元测试的标准替身
// 互斥锁给的是 Resolve 要求的 per-key read-modify-write 语义
type MemoryStore struct {
	mu      sync.Mutex
	seq     uint64
	checks  map[string][]model.CheckEntity // userID → 新→旧
	savings map[string]float64
	users   map[string]model.User
}

// NewMemoryStore 构造函数
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		checks:  make(map[string][]model.CheckEntity),
		savings: make(map[string]float64),
		users:   make(map[string]model.User),
	}
}

// ── CheckRepo ───────────────────────────────────────────────

func (s *MemoryStore) Append(_ context.Context, record *model.CheckEntity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	record.Seq = s.seq

	list := append([]model.CheckEntity{*record}, s.checks[record.UserID]...)
	if len(list) > HistoryLimit {
		list = list[:HistoryLimit]
	}
	s.checks[record.UserID] = list
	return nil
}

func (s *MemoryStore) List(_ context.Context, userID string, limit int) ([]model.CheckEntity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 || limit > HistoryLimit {
		limit = HistoryLimit
	}
	list := s.checks[userID]
	if len(list) > limit {
		list = list[:limit]
	}
	out := make([]model.CheckEntity, len(list))
	copy(out, list)
	return out, nil
}

func (s *MemoryStore) GetByID(_ context.Context, userID, id string) (*model.CheckEntity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.checks[userID] {
		if r.ID == id {
			rec := r
			return &rec, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) Resolve(_ context.Context, userID, id string, decision model.Decision) (*model.CheckEntity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.checks[userID]
	for i := range list {
		if list[i].ID != id {
			continue
		}
		if list[i].Decision.Decided() {
			return nil, ErrAlreadyDecided
		}
		// 原地更新，位置不变
		list[i].Decision = decision
		rec := list[i]
		return &rec, nil
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) Delete(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.checks[userID]
	for i := range list {
		if list[i].ID == id {
			s.checks[userID] = append(list[:i:i], list[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) ClearAll(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.checks, userID)
	return nil
}

// ── SavingsRepo ─────────────────────────────────────────────

func (s *MemoryStore) Total(_ context.Context, userID string) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.savings[userID], nil
}

func (s *MemoryStore) IncrBy(_ context.Context, userID string, amount float64) error {
	if amount == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.savings[userID] += amount
	return nil
}

func (s *MemoryStore) Reset(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.savings[userID] = 0
	return nil
}

// ── UserRepo ────────────────────────────────────────────────

func (s *MemoryStore) Upsert(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = *user
	return nil
}

func (s *MemoryStore) Find(_ context.Context, id string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u, ok := s.users[id]; ok {
		user := u
		return &user, nil
	}
	return nil, ErrNotFound
}
