package model

import (
	"sync"
	"time"
)

// Clock accumulates the thinking time of one side. There is no time
// control; the total is only reported to clients.
type Clock struct {
	mu          sync.Mutex
	used        time.Duration
	lastStarted time.Time
	isRunning   bool
	now         func() time.Time
}

type ClientClock struct {
	TimeUsed int `json:"timeUsed"` // tenths of a second
}

func NewClock(now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	return &Clock{now: now}
}

func (c *Clock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isRunning {
		c.lastStarted = c.now()
		c.isRunning = true
	}
}

func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isRunning {
		c.used += c.now().Sub(c.lastStarted)
		c.isRunning = false
	}
}

func (c *Clock) TimeUsed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isRunning {
		return c.used + c.now().Sub(c.lastStarted)
	}
	return c.used
}

func (c *Clock) Client() ClientClock {
	return ClientClock{TimeUsed: int(c.TimeUsed().Milliseconds() / 100)}
}
