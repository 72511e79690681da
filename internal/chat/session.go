package chat

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/ecmobridge1-prog/Ecmo-Bridge-2.0/internal/profile"
)

var ErrSessionClosed = errors.New("chat: session manager is closed")

// Snapshot is one full replacement of a chat's rendered message list.
type Snapshot struct {
	ChatID   string
	Messages []Message
}

type pollHandle struct {
	chatID string
	cancel context.CancelFunc
	poke   chan struct{}
	done   chan struct{}
}

// SessionManager owns the chats view of a single signed-in user: which chat
// is open, its poll loop, and message sends. At most one chat polls at a
// time; opening a chat cancels the previous handle before starting the next
// one, so two live timers cannot coexist by construction.
type SessionManager struct {
	svc      *Service
	userID   string
	interval time.Duration

	mu      sync.Mutex
	open    *pollHandle
	closed  bool
	updates chan Snapshot
}

func NewSessionManager(svc *Service, userID string, interval time.Duration) *SessionManager {
	if interval <= 0 {
		interval = 3 * time.Second
	}
	return &SessionManager{
		svc:      svc,
		userID:   userID,
		interval: interval,
		updates:  make(chan Snapshot, 16),
	}
}

// Updates delivers one snapshot per completed fetch, initial fetch included.
// The channel is closed by Close.
func (s *SessionManager) Updates() <-chan Snapshot {
	return s.updates
}

func (s *SessionManager) ListChats(ctx context.Context) ([]Chat, error) {
	return s.svc.ListChats(ctx, s.userID)
}

// OpenChat fetches the full history once (the only fetch that may surface a
// loading state to the caller) and then polls silently until the chat is
// closed or another chat is opened. A fetch error on open is returned and
// leaves no chat open; fetch errors on later ticks are logged and the
// previous snapshot stands.
func (s *SessionManager) OpenChat(ctx context.Context, chatID string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	s.stopOpenLocked()

	hctx, cancel := context.WithCancel(context.Background())
	h := &pollHandle{
		chatID: chatID,
		cancel: cancel,
		poke:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	s.open = h
	s.mu.Unlock()

	// initial fetch runs outside the lock so sends and open-chat lookups
	// stay responsive while the store round trip is in flight
	msgs, err := s.svc.ListMessages(ctx, chatID)
	if err != nil {
		cancel()
		close(h.done)
		s.mu.Lock()
		if s.open == h {
			s.open = nil
		}
		s.mu.Unlock()
		return err
	}

	go s.pollLoop(hctx, h, msgs)
	return nil
}

func (s *SessionManager) pollLoop(ctx context.Context, h *pollHandle, initial []Message) {
	defer close(h.done)

	select {
	case s.updates <- Snapshot{ChatID: h.chatID, Messages: initial}:
	case <-ctx.Done():
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-h.poke:
		}

		msgs, err := s.svc.ListMessages(ctx, h.chatID)
		if err != nil {
			// stale-but-consistent: keep the last good snapshot
			log.Printf("chat poll failed chat=%s user=%s err=%v", h.chatID, s.userID, err)
			continue
		}

		select {
		case s.updates <- Snapshot{ChatID: h.chatID, Messages: msgs}:
		case <-ctx.Done():
			return
		}
	}
}

// SendMessage writes through the service and, when the target chat is the
// open one, pokes the poll loop so the sender sees the message without
// waiting for the next tick. Send failures are returned for a manual retry,
// never retried here.
func (s *SessionManager) SendMessage(ctx context.Context, chatID, text string) (*Message, error) {
	m, err := s.svc.SendMessage(ctx, chatID, s.userID, text)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.open != nil && s.open.chatID == chatID {
		select {
		case s.open.poke <- struct{}{}:
		default:
		}
	}
	s.mu.Unlock()
	return m, nil
}

// LeaveChat removes the membership; leaving the currently open chat also
// stops its poll loop and clears the open reference (back to the list view).
func (s *SessionManager) LeaveChat(ctx context.Context, chatID string) error {
	if err := s.svc.LeaveChat(ctx, chatID, s.userID); err != nil {
		return err
	}
	s.mu.Lock()
	if s.open != nil && s.open.chatID == chatID {
		s.stopOpenLocked()
	}
	s.mu.Unlock()
	return nil
}

func (s *SessionManager) ListMembers(ctx context.Context, chatID string) ([]profile.Profile, error) {
	return s.svc.ListMembers(ctx, chatID)
}

// OpenChatID reports which chat is currently polling; empty when none.
func (s *SessionManager) OpenChatID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.open == nil {
		return ""
	}
	return s.open.chatID
}

// CloseChat stops the current poll loop without tearing the manager down.
func (s *SessionManager) CloseChat() {
	s.mu.Lock()
	s.stopOpenLocked()
	s.mu.Unlock()
}

// Close is the navigation-away teardown: it cancels any live poll and closes
// the updates channel.
func (s *SessionManager) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.stopOpenLocked()
	s.closed = true
	close(s.updates)
}

// stopOpenLocked cancels the open handle and waits for its goroutine to
// exit, so a new poll never overlaps the old one. Caller holds s.mu.
func (s *SessionManager) stopOpenLocked() {
	if s.open == nil {
		return
	}
	s.open.cancel()
	<-s.open.done
	s.open = nil
}
