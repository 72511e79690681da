package notification

import (
	"context"
	"encoding/json"
	"log"
	"sync"
)

// Subscriber is the push-change collaborator: it delivers the raw payload of
// each notification row newly inserted for a user. The transport (Redis
// pub/sub here) is owned elsewhere; the channel only opens and closes it.
type Subscriber interface {
	SubscribeNotifications(ctx context.Context, userID string) (<-chan []byte, error)
}

// Alerter fires the one-shot sound/shake cue for a pushed notification.
// Failures (e.g. autoplay restrictions) must never block the list update.
type Alerter func(n Notification) error

// Channel is one user's live notification feed: an in-memory newest-first
// list seeded by LoadInitial and prepended to by pushed events.
type Channel struct {
	repo   *Repo
	sub    Subscriber
	userID string
	alert  Alerter

	mu    sync.Mutex
	items []Notification
}

func NewChannel(repo *Repo, sub Subscriber, userID string, alert Alerter) *Channel {
	return &Channel{repo: repo, sub: sub, userID: userID, alert: alert}
}

// LoadInitial populates the feed before the first push arrives.
func (c *Channel) LoadInitial(ctx context.Context) error {
	ns, err := c.repo.ListByUserDesc(ctx, c.userID)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.items = ns
	c.mu.Unlock()
	return nil
}

// Subscribe opens the push feed and consumes it until ctx is cancelled
// (view unmount, logout). Each pushed row is prepended and alerted exactly
// once. Subscription errors are not retried here; the store stays queryable
// directly, the bell is a convenience signal.
func (c *Channel) Subscribe(ctx context.Context) error {
	events, err := c.sub.SubscribeNotifications(ctx, c.userID)
	if err != nil {
		return err
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case payload, ok := <-events:
				if !ok {
					return
				}
				var n Notification
				if err := json.Unmarshal(payload, &n); err != nil {
					log.Printf("notification push: bad payload user=%s err=%v", c.userID, err)
					continue
				}
				c.mu.Lock()
				c.items = append([]Notification{n}, c.items...)
				c.mu.Unlock()

				if c.alert != nil {
					if err := c.alert(n); err != nil {
						log.Printf("notification alert failed user=%s err=%v", c.userID, err)
					}
				}
			}
		}
	}()
	return nil
}

// Items returns the current feed, newest first.
func (c *Channel) Items() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Notification, len(c.items))
	copy(out, c.items)
	return out
}

// ClearAll deletes every row for the user and empties the feed. The local
// list is swapped in one step; no partially cleared state is observable.
func (c *Channel) ClearAll(ctx context.Context) error {
	if err := c.repo.DeleteAllForUser(ctx, c.userID); err != nil {
		return err
	}
	c.mu.Lock()
	c.items = nil
	c.mu.Unlock()
	return nil
}
