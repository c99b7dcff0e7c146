package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Nienta-PK/taskmanager/backend/internal/models"
)

var errStoreDown = errors.New("store down")

type fakeTaskStore struct {
	mu      sync.Mutex
	tasks   map[int64]models.Task
	nextID  int64
	updates []int64
	failOn  int64
}

func newFakeTaskStore(tasks ...models.Task) *fakeTaskStore {
	s := &fakeTaskStore{tasks: make(map[int64]models.Task), nextID: 1}
	for _, t := range tasks {
		s.tasks[t.TaskID] = t
		if t.TaskID >= s.nextID {
			s.nextID = t.TaskID + 1
		}
	}
	return s
}

func (s *fakeTaskStore) ListByUser(ctx context.Context, userID int64) ([]models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Task
	for _, t := range s.tasks {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TaskID < out[j].TaskID })
	return out, nil
}

func (s *fakeTaskStore) GetByID(ctx context.Context, taskID int64) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[taskID]
	if !ok {
		return models.Task{}, ErrNotFound
	}
	return t, nil
}

func (s *fakeTaskStore) Create(ctx context.Context, task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task.TaskID = s.nextID
	s.nextID++
	s.tasks[task.TaskID] = *task
	return nil
}

func (s *fakeTaskStore) UpdateStatus(ctx context.Context, task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failOn != 0 && task.TaskID == s.failOn {
		return errStoreDown
	}
	stored, ok := s.tasks[task.TaskID]
	if !ok {
		return ErrNotFound
	}
	stored.StatusID = task.StatusID
	stored.FinishedDate = task.FinishedDate
	s.tasks[task.TaskID] = stored
	s.updates = append(s.updates, task.TaskID)
	return nil
}

type fakeLookupStore struct {
	categories []models.Category
	priorities []models.Priority
	statuses   []models.Status
	weekdays   []models.Weekday
	calls      atomic.Int64
}

func seededLookupStore() *fakeLookupStore {
	return &fakeLookupStore{
		categories: []models.Category{{CategoryID: 1, Name: "Work"}, {CategoryID: 2, Name: "Personal"}},
		priorities: []models.Priority{{PriorityID: 1, Name: "Low"}, {PriorityID: 2, Name: "Medium"}, {PriorityID: 3, Name: "High"}},
		statuses: []models.Status{
			{StatusID: 1, Name: models.StatusOngoing},
			{StatusID: 2, Name: models.StatusDelayed},
			{StatusID: 3, Name: models.StatusLate},
			{StatusID: 4, Name: models.StatusCompleted},
			{StatusID: 5, Name: models.StatusAbandoned},
		},
		weekdays: []models.Weekday{{WeekdayID: 1, WeekdayName: "Monday"}},
	}
}

func (s *fakeLookupStore) Categories(ctx context.Context) ([]models.Category, error) {
	s.calls.Add(1)
	return s.categories, nil
}

func (s *fakeLookupStore) Priorities(ctx context.Context) ([]models.Priority, error) {
	s.calls.Add(1)
	return s.priorities, nil
}

func (s *fakeLookupStore) Statuses(ctx context.Context) ([]models.Status, error) {
	s.calls.Add(1)
	return s.statuses, nil
}

func (s *fakeLookupStore) Weekdays(ctx context.Context) ([]models.Weekday, error) {
	s.calls.Add(1)
	return s.weekdays, nil
}

type fakeUserStore struct {
	mu     sync.Mutex
	users  map[int64]models.User
	nextID int64
	// vanish removes the user on GetByID to simulate a concurrent delete.
	vanish bool
}

func newFakeUserStore(users ...models.User) *fakeUserStore {
	s := &fakeUserStore{users: make(map[int64]models.User), nextID: 1}
	for _, u := range users {
		s.users[u.UserID] = u
		if u.UserID >= s.nextID {
			s.nextID = u.UserID + 1
		}
	}
	return s
}

func (s *fakeUserStore) List(ctx context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (s *fakeUserStore) GetByID(ctx context.Context, userID int64) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.vanish {
		delete(s.users, userID)
	}
	u, ok := s.users[userID]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return u, nil
}

func (s *fakeUserStore) find(match func(models.User) bool) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if match(u) {
			return u, nil
		}
	}
	return models.User{}, ErrNotFound
}

func (s *fakeUserStore) GetByUsername(ctx context.Context, username string) (models.User, error) {
	return s.find(func(u models.User) bool { return u.Username == username })
}

func (s *fakeUserStore) GetByEmail(ctx context.Context, email string) (models.User, error) {
	return s.find(func(u models.User) bool { return strings.EqualFold(u.Email, email) })
}

func (s *fakeUserStore) Create(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user.UserID = s.nextID
	s.nextID++
	s.users[user.UserID] = *user
	return nil
}

func (s *fakeUserStore) Save(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, u := range s.users {
		if id != user.UserID && (u.Username == user.Username || u.Email == user.Email) {
			return ErrConflict
		}
	}
	s.users[user.UserID] = *user
	return nil
}

func (s *fakeUserStore) Delete(ctx context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.users, userID)
	return nil
}

type fakeTokenStore struct {
	mu     sync.Mutex
	tokens map[string]models.Token
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: make(map[string]models.Token)}
}

func (s *fakeTokenStore) Create(ctx context.Context, token *models.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tokens[token.JTI] = *token
	return nil
}

func (s *fakeTokenStore) FindActive(ctx context.Context, jti string, userID int64, now time.Time) (models.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tokens[jti]
	if !ok || t.UserID != userID || !t.ExpiresAt.After(now) {
		return models.Token{}, ErrNotFound
	}
	return t, nil
}

func (s *fakeTokenStore) DeleteByJTI(ctx context.Context, jti string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.tokens, jti)
	return nil
}

func (s *fakeTokenStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tokens)
}

type fakeHistoryStore struct {
	entries []models.LoginHistory
}

func (s *fakeHistoryStore) Create(ctx context.Context, entry *models.LoginHistory) error {
	entry.LoginID = int64(len(s.entries) + 1)
	s.entries = append(s.entries, *entry)
	return nil
}

func (s *fakeHistoryStore) view(e models.LoginHistory) models.LoginHistoryView {
	return models.LoginHistoryView{
		LoginID: e.LoginID, UserID: e.UserID, Time: e.Time,
		Day: e.Day, Month: e.Month, Year: e.Year, Weekday: "Monday",
	}
}

func (s *fakeHistoryStore) List(ctx context.Context) ([]models.LoginHistoryView, error) {
	var out []models.LoginHistoryView
	for _, e := range s.entries {
		out = append(out, s.view(e))
	}
	return out, nil
}

func (s *fakeHistoryStore) ListByUser(ctx context.Context, userID int64) ([]models.LoginHistoryView, error) {
	var out []models.LoginHistoryView
	for _, e := range s.entries {
		if e.UserID == userID {
			out = append(out, s.view(e))
		}
	}
	return out, nil
}
