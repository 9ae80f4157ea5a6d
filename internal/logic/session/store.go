package session

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mindmate-ai/mindmate/core/errors"
	"github.com/mindmate-ai/mindmate/pkg/schema"
)

// Session 一个会话及其完整历史
type Session struct {
	ID           string
	CreatedAt    time.Time
	LastActiveAt time.Time
	Turns        []*schema.Turn
}

// Summary 会话概要，用于列表展示
type Summary struct {
	ID           string
	CreatedAt    time.Time
	LastActiveAt time.Time
	MessageCount int
}

// Store 内存会话存储。
// 时间戳在会话内单调递增，同一毫秒内的连续消息也保持顺序。
// TTL大于0时在每次访问前淘汰空闲超时的会话。
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create 创建新会话，id为空时自动生成
func (s *Store) Create(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictExpiredLocked()

	if id == "" {
		id = uuid.New().String()
	}
	if _, ok := s.sessions[id]; ok {
		return nil, errors.Newf(errors.ErrSessionExists, "session already exists: %s", id)
	}

	now := s.now()
	sess := &Session{
		ID:           id,
		CreatedAt:    now,
		LastActiveAt: now,
	}
	s.sessions[id] = sess
	return s.snapshotLocked(sess), nil
}

// GetOrCreate 获取会话，不存在时创建。返回会话快照和是否新建。
func (s *Store) GetOrCreate(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictExpiredLocked()

	if id != "" {
		if sess, ok := s.sessions[id]; ok {
			return s.snapshotLocked(sess), false
		}
	}
	if id == "" {
		id = uuid.New().String()
	}
	now := s.now()
	sess := &Session{ID: id, CreatedAt: now, LastActiveAt: now}
	s.sessions[id] = sess
	return s.snapshotLocked(sess), true
}

// Append 追加一条消息，时间戳保证严格递增
func (s *Store) Append(id string, role schema.RoleType, message string) (*schema.Turn, error) {
	if !schema.ValidRole(role) {
		return nil, errors.Newf(errors.ErrInvalidParameter, "invalid role: %s", role)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictExpiredLocked()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, errors.Newf(errors.ErrSessionNotFound, "session not found: %s", id)
	}

	ts := s.now()
	if n := len(sess.Turns); n > 0 && !ts.After(sess.Turns[n-1].Timestamp) {
		ts = sess.Turns[n-1].Timestamp.Add(time.Nanosecond)
	}

	turn := &schema.Turn{
		Role:      role,
		Message:   message,
		Timestamp: ts,
		SessionID: id,
	}
	sess.Turns = append(sess.Turns, turn)
	sess.LastActiveAt = ts
	return turn, nil
}

// Get 获取会话快照
func (s *Store) Get(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictExpiredLocked()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, errors.Newf(errors.ErrSessionNotFound, "session not found: %s", id)
	}
	return s.snapshotLocked(sess), nil
}

// History 获取会话消息，按时间升序。
// maxTurns>0 时只返回最近的maxTurns条，<=0 返回全部。
func (s *Store) History(id string, maxTurns int) ([]*schema.Turn, error) {
	sess, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	turns := sess.Turns
	if maxTurns > 0 && len(turns) > maxTurns {
		turns = turns[len(turns)-maxTurns:]
	}
	return turns, nil
}

// Delete 删除会话
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return errors.Newf(errors.ErrSessionNotFound, "session not found: %s", id)
	}
	delete(s.sessions, id)
	return nil
}

// List 按创建时间升序返回全部会话概要
func (s *Store) List() []*Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictExpiredLocked()

	result := make([]*Summary, 0, len(s.sessions))
	for _, sess := range s.sessions {
		result = append(result, &Summary{
			ID:           sess.ID,
			CreatedAt:    sess.CreatedAt,
			LastActiveAt: sess.LastActiveAt,
			MessageCount: len(sess.Turns),
		})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result
}

// Count 返回活跃会话数和消息总数
func (s *Store) Count() (sessions, messages int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictExpiredLocked()

	for _, sess := range s.sessions {
		messages += len(sess.Turns)
	}
	return len(s.sessions), messages
}

// snapshotLocked 返回会话的浅拷贝，Turns切片独立但元素共享（Turn不可变）
func (s *Store) snapshotLocked(sess *Session) *Session {
	turns := make([]*schema.Turn, len(sess.Turns))
	copy(turns, sess.Turns)
	return &Session{
		ID:           sess.ID,
		CreatedAt:    sess.CreatedAt,
		LastActiveAt: sess.LastActiveAt,
		Turns:        turns,
	}
}

func (s *Store) evictExpiredLocked() {
	if s.ttl <= 0 {
		return
	}
	deadline := s.now().Add(-s.ttl)
	for id, sess := range s.sessions {
		if sess.LastActiveAt.Before(deadline) {
			delete(s.sessions, id)
		}
	}
}
