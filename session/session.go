// Package session holds the per-user workspace state that outlives a
// single request: the judgment intake form, the notice drafting
// workspace, and the chat transcript. Nothing here is persisted; a
// session that idles past its TTL simply starts fresh.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	cache "github.com/patrickmn/go-cache"
)

// DefaultTTL is how long an idle session survives
const DefaultTTL = 2 * time.Hour

// FormBuffer holds the judgment intake fields between an autofill run
// and the eventual save
type FormBuffer struct {
	CaseName      string `json:"case_name"`
	ActName       string `json:"act_name"`
	SectionNumber string `json:"section_number"`
	Authority     string `json:"authority"`
	BriefFacts    string `json:"brief_facts"`
	DecisionHeld  string `json:"decision_held"`
	AINotes       string `json:"ai_notes"`
}

// NoticeWorkspace holds the reply drafting state, from notice upload
// through suggestion review to the drafted reply
type NoticeWorkspace struct {
	NoticeText          string   `json:"notice_text"`
	SuggestedCases      []string `json:"suggested_cases"`
	ExternalSuggestions []string `json:"external_suggestions"`
	Draft               string   `json:"draft"`
}

// ChatEntry is one question/answer exchange in the document chat
type ChatEntry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// State is the mutable workspace of one session
type State struct {
	mu     sync.Mutex
	form   FormBuffer
	notice NoticeWorkspace
	chat   []ChatEntry
}

// Form returns the current intake form buffer
func (s *State) Form() FormBuffer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

// SetForm replaces the intake form buffer
func (s *State) SetForm(form FormBuffer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form = form
}

// ClearForm resets the intake form after a successful save
func (s *State) ClearForm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form = FormBuffer{}
}

// Notice returns the current reply drafting workspace
func (s *State) Notice() NoticeWorkspace {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notice
}

// SetNotice replaces the reply drafting workspace. A new notice
// analysis starts a fresh workspace; saving a reply leaves it alone so
// the user can keep iterating.
func (s *State) SetNotice(notice NoticeWorkspace) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notice = notice
}

// AppendChat appends one exchange and returns the full transcript
func (s *State) AppendChat(entry ChatEntry) []ChatEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chat = append(s.chat, entry)
	out := make([]ChatEntry, len(s.chat))
	copy(out, s.chat)
	return out
}

// Transcript returns a copy of the chat transcript
func (s *State) Transcript() []ChatEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ChatEntry, len(s.chat))
	copy(out, s.chat)
	return out
}

// ClearChat drops the chat transcript
func (s *State) ClearChat() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chat = nil
}

// Manager hands out session state keyed by session ID
type Manager struct {
	sessions *cache.Cache
}

// NewManager creates a session manager with the given idle TTL
func NewManager(ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		sessions: cache.New(ttl, ttl),
	}
}

// Get returns the state for a session ID, creating it when absent, and
// the effective ID. An empty ID mints a new session; an expired ID is
// reused with a fresh state so clients keep their handle. Each access
// slides the expiry window.
func (m *Manager) Get(id string) (*State, string) {
	if id == "" {
		id = uuid.NewString()
	}

	if v, ok := m.sessions.Get(id); ok {
		state := v.(*State)
		m.sessions.SetDefault(id, state)
		return state, id
	}

	state := &State{}
	m.sessions.SetDefault(id, state)
	return state, id
}
