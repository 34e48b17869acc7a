package session

import (
	"sync"
	"sync/atomic"
	"time"
)

// State 對話所在的步驟
type State string

const (
	StateMain       State = "MAIN"
	StateCategory   State = "CATEGORY"
	StateIngredient State = "INGREDIENT"
	StateEnded      State = "ENDED"
)

// Session 單一使用者的對話狀態
type Session struct {
	UserID      string    `json:"user_id"`
	State       State     `json:"state"`
	Category    string    `json:"category,omitempty"`
	Ingredients []string  `json:"ingredients"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// New 創建空白會話：MAIN 狀態、沒有分類、沒有食材
func New(userID string) Session {
	return Session{
		UserID:      userID,
		State:       StateMain,
		Ingredients: []string{},
	}
}

// Clone 深拷貝
func (s Session) Clone() Session {
	s.Ingredients = append([]string{}, s.Ingredients...)
	return s
}

// Store 會話存儲
//
// 每個使用者有自己的鎖，同一使用者的讀改寫依序執行；
// 不同使用者只共用 sync.Map 本身。
type Store struct {
	entries sync.Map // string -> *entry
	count   atomic.Int64
	now     func() time.Time
}

type entry struct {
	mu      sync.Mutex
	session *Session
}

// NewStore 創建會話存儲
func NewStore() *Store {
	return &Store{now: time.Now}
}

func (s *Store) entry(userID string) *entry {
	value, _ := s.entries.LoadOrStore(userID, &entry{})
	return value.(*entry)
}

// Get 取得會話副本
func (s *Store) Get(userID string) (Session, bool) {
	value, ok := s.entries.Load(userID)
	if !ok {
		return Session{}, false
	}
	e := value.(*entry)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		return Session{}, false
	}
	return e.session.Clone(), true
}

// Reset 建立或覆寫為空白會話
func (s *Store) Reset(userID string) Session {
	e := s.entry(userID)

	e.mu.Lock()
	defer e.mu.Unlock()
	fresh := New(userID)
	fresh.UpdatedAt = s.now()
	if e.session == nil {
		s.count.Add(1)
	}
	e.session = &fresh
	return fresh.Clone()
}

// Update 在使用者鎖內以副本執行 fn，fn 回傳 nil 時才寫回
//
// 尚無會話時以空白會話呼叫 fn，existed 為 false。
// fn 失敗時會話維持原狀，回傳原本的副本與錯誤。
func (s *Store) Update(userID string, fn func(sess *Session, existed bool) error) (Session, error) {
	e := s.entry(userID)

	e.mu.Lock()
	defer e.mu.Unlock()

	existed := e.session != nil
	working := New(userID)
	if existed {
		working = e.session.Clone()
	}

	if err := fn(&working, existed); err != nil {
		if existed {
			return e.session.Clone(), err
		}
		return New(userID), err
	}

	working.UserID = userID
	working.UpdatedAt = s.now()
	if !existed {
		s.count.Add(1)
	}
	e.session = &working
	return working.Clone(), nil
}

// Len 目前保存的會話數量
func (s *Store) Len() int {
	return int(s.count.Load())
}
