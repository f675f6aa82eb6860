// Package session holds the identity of the logged-in user for one client
// run. A Context is created at startup and passed to everything that needs
// to know who is acting.
package session

import (
	"sync"

	"github.com/ecosync/ecosync/internal/client/models"
)

type Context struct {
	mu   sync.RWMutex
	user *models.User
}

func New() *Context {
	return &Context{}
}

// User returns a copy of the current user, or nil when logged out.
func (c *Context) User() *models.User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.user == nil {
		return nil
	}
	u := *c.user
	return &u
}

func (c *Context) Set(u models.User) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.user = &u
}

func (c *Context) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.user = nil
}

func (c *Context) LoggedIn() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.user != nil
}

// UserID returns the current user's id and whether someone is logged in.
func (c *Context) UserID() (int64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.user == nil {
		return 0, false
	}
	return c.user.ID, true
}
