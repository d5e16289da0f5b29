package main

import "sync"

// registry tracks live sessions and which session currently plays each user.
type registry struct {
	mu     sync.RWMutex
	all    map[*session]struct{}
	byUser map[string]*session
}

func newRegistry() *registry {
	return &registry{
		all:    make(map[*session]struct{}),
		byUser: make(map[string]*session),
	}
}

func (r *registry) add(s *session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.all[s] = struct{}{}
}

func (r *registry) remove(s *session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.all, s)
	if s.user != "" {
		if current, ok := r.byUser[s.user]; ok && current == s {
			delete(r.byUser, s.user)
		}
	}
}

// bind makes s the session for user and returns the session it replaced, if any.
func (r *registry) bind(user string, s *session) *session {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev := r.byUser[user]
	r.byUser[user] = s
	if prev == s {
		return nil
	}
	return prev
}

func (r *registry) find(user string) *session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byUser[user]
}

func (r *registry) len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.all)
}

func (r *registry) forEach(fn func(*session)) {
	r.mu.RLock()
	list := make([]*session, 0, len(r.all))
	for s := range r.all {
		list = append(list, s)
	}
	r.mu.RUnlock()
	for _, s := range list {
		fn(s)
	}
}
