// Package pending tracks Telegram users waiting for the admin to grant access.
package pending

import (
	"sort"
	"sync"

	"ai-infobot/internal/auth"
)

// Queue is persisted through an auth.Repository when one is given.
type Queue struct {
	mu    sync.Mutex
	repo  auth.Repository
	users map[int64]auth.User
}

func New(repo auth.Repository) (*Queue, error) {
	q := &Queue{repo: repo, users: make(map[int64]auth.User)}
	if repo == nil {
		return q, nil
	}
	users, err := repo.LoadAll()
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		q.users[u.ID] = u
	}
	return q, nil
}

// Add records a request and reports whether the user was not already waiting.
func (q *Queue) Add(user auth.User) (bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if _, ok := q.users[user.ID]; ok {
		return false, nil
	}
	if q.repo != nil {
		if err := q.repo.Upsert(user); err != nil {
			return false, err
		}
	}
	q.users[user.ID] = user
	return true, nil
}

// Take removes a request, returning what was stored for it.
func (q *Queue) Take(userID int64) (auth.User, bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	u, ok := q.users[userID]
	if !ok {
		return auth.User{}, false, nil
	}
	if q.repo != nil {
		if err := q.repo.Remove(userID); err != nil {
			return auth.User{}, false, err
		}
	}
	delete(q.users, userID)
	return u, true, nil
}

func (q *Queue) List() []auth.User {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]auth.User, 0, len(q.users))
	for _, u := range q.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
