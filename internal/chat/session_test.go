package chat

import (
	"context"
	"testing"
	"time"
)

func waitForSnapshot(t *testing.T, sm *SessionManager, want func(Snapshot) bool) Snapshot {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case snap, ok := <-sm.Updates():
			if !ok {
				t.Fatalf("updates channel closed while waiting")
			}
			if want(snap) {
				return snap
			}
		case <-deadline:
			t.Fatalf("timed out waiting for snapshot")
		}
	}
}

func TestOpenChat_EmitsInitialSnapshotThenPolls(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(NewRepo(db))

	a := seedProfile(t, db, "dr-a")
	b := seedProfile(t, db, "dr-b")
	c, err := svc.CreateChatWithMembers(context.Background(), a, "Case 20", []string{b}, nil)
	if err != nil {
		t.Fatalf("create chat: %v", err)
	}

	sm := NewSessionManager(svc, a, 20*time.Millisecond)
	defer sm.Close()

	if err := sm.OpenChat(context.Background(), c.ID); err != nil {
		t.Fatalf("open chat: %v", err)
	}

	snap := waitForSnapshot(t, sm, func(s Snapshot) bool { return s.ChatID == c.ID })
	if len(snap.Messages) != 0 {
		t.Fatalf("expected empty initial snapshot, got %d messages", len(snap.Messages))
	}

	// another party writes; a later poll tick must pick it up
	if _, err := svc.SendMessage(context.Background(), c.ID, b, "hello"); err != nil {
		t.Fatalf("send: %v", err)
	}
	snap = waitForSnapshot(t, sm, func(s Snapshot) bool { return len(s.Messages) == 1 })
	if snap.Messages[0].Content != "hello" || snap.Messages[0].SenderID != b {
		t.Fatalf("unexpected polled message: %+v", snap.Messages[0])
	}
}

func TestOpenChat_SecondOpenCancelsFirst(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(NewRepo(db))

	a := seedProfile(t, db, "dr-a")
	b := seedProfile(t, db, "dr-b")
	c1, err := svc.CreateChatWithMembers(context.Background(), a, "Case 21", []string{b}, nil)
	if err != nil {
		t.Fatalf("create chat 1: %v", err)
	}
	c2, err := svc.CreateChatWithMembers(context.Background(), a, "Case 22", []string{b}, nil)
	if err != nil {
		t.Fatalf("create chat 2: %v", err)
	}

	sm := NewSessionManager(svc, a, 10*time.Millisecond)
	defer sm.Close()

	if err := sm.OpenChat(context.Background(), c1.ID); err != nil {
		t.Fatalf("open chat 1: %v", err)
	}
	if err := sm.OpenChat(context.Background(), c2.ID); err != nil {
		t.Fatalf("open chat 2: %v", err)
	}

	if got := sm.OpenChatID(); got != c2.ID {
		t.Fatalf("expected open chat %s, got %s", c2.ID, got)
	}

	// drain a few ticks; once the switch has settled, only chat 2 may emit
	time.Sleep(50 * time.Millisecond)
	for {
		select {
		case snap := <-sm.Updates():
			_ = snap
		default:
			goto drained
		}
	}
drained:
	snap := waitForSnapshot(t, sm, func(s Snapshot) bool { return true })
	if snap.ChatID != c2.ID {
		t.Fatalf("cancelled poll loop still emitting for chat %s", snap.ChatID)
	}
}

func TestSendMessage_ForcesImmediateRefresh(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(NewRepo(db))

	a := seedProfile(t, db, "dr-a")
	b := seedProfile(t, db, "dr-b")
	c, err := svc.CreateChatWithMembers(context.Background(), a, "Case 23", []string{b}, nil)
	if err != nil {
		t.Fatalf("create chat: %v", err)
	}

	// interval long enough that only the poke can deliver in time
	sm := NewSessionManager(svc, a, time.Hour)
	defer sm.Close()

	if err := sm.OpenChat(context.Background(), c.ID); err != nil {
		t.Fatalf("open chat: %v", err)
	}
	waitForSnapshot(t, sm, func(s Snapshot) bool { return s.ChatID == c.ID })

	if _, err := sm.SendMessage(context.Background(), c.ID, "on my way"); err != nil {
		t.Fatalf("send: %v", err)
	}

	snap := waitForSnapshot(t, sm, func(s Snapshot) bool { return len(s.Messages) == 1 })
	if snap.Messages[0].Content != "on my way" {
		t.Fatalf("unexpected message after forced refresh: %+v", snap.Messages[0])
	}
}

func TestPolling_NoNewMessagesLeavesListUnchanged(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(NewRepo(db))

	a := seedProfile(t, db, "dr-a")
	b := seedProfile(t, db, "dr-b")
	c, err := svc.CreateChatWithMembers(context.Background(), a, "Case 24", []string{b}, nil)
	if err != nil {
		t.Fatalf("create chat: %v", err)
	}
	if _, err := svc.SendMessage(context.Background(), c.ID, a, "only one"); err != nil {
		t.Fatalf("send: %v", err)
	}

	sm := NewSessionManager(svc, a, 10*time.Millisecond)
	defer sm.Close()

	if err := sm.OpenChat(context.Background(), c.ID); err != nil {
		t.Fatalf("open chat: %v", err)
	}

	// three successive fetches with no writes in between: identical lists,
	// no duplicates appended
	for i := 0; i < 3; i++ {
		snap := waitForSnapshot(t, sm, func(s Snapshot) bool { return s.ChatID == c.ID })
		if len(snap.Messages) != 1 {
			t.Fatalf("fetch %d: expected 1 message, got %d", i, len(snap.Messages))
		}
		if snap.Messages[0].Content != "only one" {
			t.Fatalf("fetch %d: unexpected content %q", i, snap.Messages[0].Content)
		}
	}
}

func TestOpenChat_InitialFetchErrorLeavesNothingOpen(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(NewRepo(db))

	a := seedProfile(t, db, "dr-a")
	b := seedProfile(t, db, "dr-b")
	c, err := svc.CreateChatWithMembers(context.Background(), a, "Case 27", []string{b}, nil)
	if err != nil {
		t.Fatalf("create chat: %v", err)
	}

	sm := NewSessionManager(svc, a, 10*time.Millisecond)
	defer sm.Close()

	// break the store so the initial fetch fails
	if err := db.Migrator().DropTable(&Message{}); err != nil {
		t.Fatalf("drop table: %v", err)
	}
	if err := sm.OpenChat(context.Background(), c.ID); err == nil {
		t.Fatalf("expected open to fail")
	}
	if got := sm.OpenChatID(); got != "" {
		t.Fatalf("failed open left a chat reference: %s", got)
	}

	// manager recovers once the store does
	if err := db.AutoMigrate(&Message{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	if err := sm.OpenChat(context.Background(), c.ID); err != nil {
		t.Fatalf("reopen: %v", err)
	}
	waitForSnapshot(t, sm, func(s Snapshot) bool { return s.ChatID == c.ID })
}

func TestLeaveChat_ClosesOpenChat(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(NewRepo(db))

	a := seedProfile(t, db, "dr-a")
	b := seedProfile(t, db, "dr-b")
	c, err := svc.CreateChatWithMembers(context.Background(), a, "Case 25", []string{b}, nil)
	if err != nil {
		t.Fatalf("create chat: %v", err)
	}

	sm := NewSessionManager(svc, a, 10*time.Millisecond)
	defer sm.Close()

	if err := sm.OpenChat(context.Background(), c.ID); err != nil {
		t.Fatalf("open chat: %v", err)
	}
	if err := sm.LeaveChat(context.Background(), c.ID); err != nil {
		t.Fatalf("leave chat: %v", err)
	}
	if got := sm.OpenChatID(); got != "" {
		t.Fatalf("open chat reference not cleared, still %s", got)
	}
}

func TestClose_StopsPollingAndClosesUpdates(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(NewRepo(db))

	a := seedProfile(t, db, "dr-a")
	b := seedProfile(t, db, "dr-b")
	c, err := svc.CreateChatWithMembers(context.Background(), a, "Case 26", []string{b}, nil)
	if err != nil {
		t.Fatalf("create chat: %v", err)
	}

	sm := NewSessionManager(svc, a, 10*time.Millisecond)
	if err := sm.OpenChat(context.Background(), c.ID); err != nil {
		t.Fatalf("open chat: %v", err)
	}
	sm.Close()

	if err := sm.OpenChat(context.Background(), c.ID); err != ErrSessionClosed {
		t.Fatalf("expected ErrSessionClosed after Close, got %v", err)
	}

	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-sm.Updates():
			if !ok {
				return // channel closed as promised
			}
		case <-deadline:
			t.Fatalf("updates channel not closed after Close")
		}
	}
}
