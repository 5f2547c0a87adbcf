package handlers

import (
	"sync"

	"github.com/google/uuid"

	"venturepath-backend/models"
	"venturepath-backend/wizard"
)

// wizardSession is one live wizard run plus its per-idea consultation
// transcripts.
type wizardSession struct {
	ID         uuid.UUID
	Controller *wizard.Controller

	mu    sync.Mutex
	chats map[uuid.UUID][]models.ChatMessage
}

// history returns a copy of the transcript for one idea.
func (s *wizardSession) history(ideaID uuid.UUID) []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := s.chats[ideaID]
	out := make([]models.ChatMessage, len(msgs))
	copy(out, msgs)
	return out
}

// appendChat records a question and its reply. Transcripts are append-only.
func (s *wizardSession) appendChat(ideaID uuid.UUID, question, reply string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chats[ideaID] = append(s.chats[ideaID],
		models.ChatMessage{Role: models.ChatRoleUser, Text: question},
		models.ChatMessage{Role: models.ChatRoleModel, Text: reply},
	)
}

// Registry tracks live wizard sessions by ID.
type Registry struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*wizardSession
}

// NewRegistry creates an empty session registry
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[uuid.UUID]*wizardSession)}
}

// Add registers a controller under a fresh session ID.
func (r *Registry) Add(ctrl *wizard.Controller) *wizardSession {
	sess := &wizardSession{
		ID:         uuid.New(),
		Controller: ctrl,
		chats:      make(map[uuid.UUID][]models.ChatMessage),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sess.ID] = sess
	return sess
}

// Get looks up a session by ID.
func (r *Registry) Get(id uuid.UUID) (*wizardSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sess, ok := r.sessions[id]
	return sess, ok
}

// Remove drops a session. Missing IDs are ignored.
func (r *Registry) Remove(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}
