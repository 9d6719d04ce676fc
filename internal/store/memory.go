package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mkhalid/tasklist/internal/apperr"
	"github.com/mkhalid/tasklist/internal/models"
)

// MemoryStore is a mutex-guarded in-memory backend with the same semantics
// as PostgresStore: unique emails, ownership-scoped task lookups, and
// cascade on identity deletion. It backs the console tool and the tests.
type MemoryStore struct {
	mu         sync.Mutex
	identities map[string]*models.Identity // keyed by id
	emails     map[string]string           // email -> identity id
	tasks      map[string]*models.Task     // keyed by task id
	taskOrder  map[string][]string         // owner id -> task ids in creation order
	now        func() time.Time
}

// NewMemoryStore creates an empty store. now may be nil to use the wall
// clock; tests inject a fixed clock.
func NewMemoryStore(now func() time.Time) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{
		identities: make(map[string]*models.Identity),
		emails:     make(map[string]string),
		tasks:      make(map[string]*models.Task),
		taskOrder:  make(map[string][]string),
		now:        now,
	}
}

func (s *MemoryStore) CreateIdentity(ctx context.Context, email, passwordHash string) (*models.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.emails[email]; exists {
		return nil, apperr.New(apperr.KindConflict, "An account with this email already exists")
	}

	u := &models.Identity{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    s.now().UTC(),
	}
	s.identities[u.ID] = u
	s.emails[email] = u.ID
	return copyIdentity(u), nil
}

func (s *MemoryStore) GetIdentityByEmail(ctx context.Context, email string) (*models.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.emails[email]
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "Identity not found")
	}
	return copyIdentity(s.identities[id]), nil
}

func (s *MemoryStore) GetIdentityByID(ctx context.Context, id string) (*models.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.identities[id]
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "Identity not found")
	}
	return copyIdentity(u), nil
}

// DeleteIdentity removes an identity and cascades to its tasks, mirroring
// the relational foreign key.
func (s *MemoryStore) DeleteIdentity(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.identities[id]
	if !ok {
		return apperr.New(apperr.KindNotFound, "Identity not found")
	}
	delete(s.identities, id)
	delete(s.emails, u.Email)
	for _, taskID := range s.taskOrder[id] {
		delete(s.tasks, taskID)
	}
	delete(s.taskOrder, id)
	return nil
}

func (s *MemoryStore) CreateTask(ctx context.Context, userID, title, description string) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	t := &models.Task{
		ID:          uuid.New().String(),
		UserID:      userID,
		Title:       title,
		Description: description,
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.tasks[t.ID] = t
	s.taskOrder[userID] = append(s.taskOrder[userID], t.ID)
	return copyTask(t), nil
}

// ListTasks returns the owner's tasks newest first. Reversed insertion
// order stands in for created_at DESC and stays deterministic when the
// injected clock doesn't advance.
func (s *MemoryStore) ListTasks(ctx context.Context, userID string) ([]*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order := s.taskOrder[userID]
	tasks := make([]*models.Task, 0, len(order))
	for i := len(order) - 1; i >= 0; i-- {
		tasks = append(tasks, copyTask(s.tasks[order[i]]))
	}
	return tasks, nil
}

func (s *MemoryStore) GetTask(ctx context.Context, id, userID string) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.ownedTask(id, userID)
	if err != nil {
		return nil, err
	}
	return copyTask(t), nil
}

func (s *MemoryStore) UpdateTask(ctx context.Context, task *models.Task) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.ownedTask(task.ID, task.UserID)
	if err != nil {
		return nil, err
	}
	t.Title = task.Title
	t.Description = task.Description
	t.Completed = task.Completed
	t.UpdatedAt = s.now().UTC()
	return copyTask(t), nil
}

func (s *MemoryStore) DeleteTask(ctx context.Context, id, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.ownedTask(id, userID); err != nil {
		return err
	}
	delete(s.tasks, id)
	order := s.taskOrder[userID]
	for i, taskID := range order {
		if taskID == id {
			s.taskOrder[userID] = append(order[:i:i], order[i+1:]...)
			break
		}
	}
	return nil
}

// ownedTask resolves a task by (id, owner). A task owned by someone else is
// reported exactly like a missing one. Callers hold the lock.
func (s *MemoryStore) ownedTask(id, userID string) (*models.Task, error) {
	t, ok := s.tasks[id]
	if !ok || t.UserID != userID {
		return nil, apperr.New(apperr.KindNotFound, "Task not found")
	}
	return t, nil
}

func copyIdentity(u *models.Identity) *models.Identity {
	c := *u
	return &c
}

func copyTask(t *models.Task) *models.Task {
	c := *t
	return &c
}
