package notification

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ecmobridge1-prog/Ecmo-Bridge-2.0/internal/patient"
	"github.com/ecmobridge1-prog/Ecmo-Bridge-2.0/internal/profile"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(gormsqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&profile.Profile{}, &patient.Patient{}, &Notification{}, &FanoutJob{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

type fakeSub struct {
	events chan []byte
}

func (f *fakeSub) SubscribeNotifications(ctx context.Context, userID string) (<-chan []byte, error) {
	return f.events, nil
}

func seedNotification(t *testing.T, repo *Repo, userID, msg string, at time.Time) Notification {
	t.Helper()
	n := Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		PatientID: uuid.NewString(),
		Message:   msg,
		CreatedAt: at,
	}
	if err := repo.Insert(context.Background(), &n); err != nil {
		t.Fatalf("seed notification: %v", err)
	}
	return n
}

func waitForItems(t *testing.T, c *Channel, n int) []Notification {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		items := c.Items()
		if len(items) == n {
			return items
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d items, have %d", n, len(c.Items()))
	return nil
}

func TestLoadInitial_NewestFirst(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepo(db)
	uid := uuid.NewString()

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	seedNotification(t, repo, uid, "first", base)
	seedNotification(t, repo, uid, "second", base.Add(time.Minute))
	seedNotification(t, repo, uid, "third", base.Add(2*time.Minute))
	seedNotification(t, repo, uuid.NewString(), "someone else's", base.Add(3*time.Minute))

	c := NewChannel(repo, nil, uid, nil)
	if err := c.LoadInitial(context.Background()); err != nil {
		t.Fatalf("load initial: %v", err)
	}

	items := c.Items()
	if len(items) != 3 {
		t.Fatalf("expected 3 notifications, got %d", len(items))
	}
	if items[0].Message != "third" || items[1].Message != "second" || items[2].Message != "first" {
		t.Fatalf("not newest first: %q %q %q", items[0].Message, items[1].Message, items[2].Message)
	}
}

func TestSubscribe_PrependsPushedRows(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepo(db)
	uid := uuid.NewString()

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	seedNotification(t, repo, uid, "older", base)

	sub := &fakeSub{events: make(chan []byte, 1)}
	alerted := make(chan Notification, 1)
	c := NewChannel(repo, sub, uid, func(n Notification) error {
		alerted <- n
		return nil
	})
	if err := c.LoadInitial(context.Background()); err != nil {
		t.Fatalf("load initial: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := c.Subscribe(ctx); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	pushed := Notification{
		ID:        uuid.NewString(),
		UserID:    uid,
		PatientID: uuid.NewString(),
		Message:   "New patient added: Jane Doe",
		CreatedAt: base.Add(time.Hour),
	}
	payload, _ := json.Marshal(pushed)
	sub.events <- payload

	items := waitForItems(t, c, 2)
	if items[0].ID != pushed.ID {
		t.Fatalf("pushed row not prepended, head is %q", items[0].Message)
	}
	if items[1].Message != "older" {
		t.Fatalf("existing row lost: %+v", items)
	}

	select {
	case n := <-alerted:
		if n.ID != pushed.ID {
			t.Fatalf("alerted for wrong notification: %s", n.ID)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("alerter never fired")
	}
}

func TestSubscribe_AlertFailureDoesNotBlockUpdate(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepo(db)
	uid := uuid.NewString()

	sub := &fakeSub{events: make(chan []byte, 2)}
	c := NewChannel(repo, sub, uid, func(n Notification) error {
		return errors.New("autoplay blocked")
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := c.Subscribe(ctx); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	for i := 0; i < 2; i++ {
		n := Notification{ID: uuid.NewString(), UserID: uid, PatientID: uuid.NewString(), Message: "m"}
		payload, _ := json.Marshal(n)
		sub.events <- payload
	}

	waitForItems(t, c, 2)
}

func TestClearAll_EmptiesFeedAndStore(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepo(db)
	uid := uuid.NewString()
	other := uuid.NewString()

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	seedNotification(t, repo, uid, "a", base)
	seedNotification(t, repo, uid, "b", base.Add(time.Minute))
	keep := seedNotification(t, repo, other, "keep", base)

	c := NewChannel(repo, nil, uid, nil)
	if err := c.LoadInitial(context.Background()); err != nil {
		t.Fatalf("load initial: %v", err)
	}
	if err := c.ClearAll(context.Background()); err != nil {
		t.Fatalf("clear all: %v", err)
	}

	if got := c.Items(); len(got) != 0 {
		t.Fatalf("feed not emptied: %+v", got)
	}
	rows, err := repo.ListByUserDesc(context.Background(), uid)
	if err != nil {
		t.Fatalf("list after clear: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("store rows survived clear: %+v", rows)
	}

	// other users are untouched
	rows, err = repo.ListByUserDesc(context.Background(), other)
	if err != nil {
		t.Fatalf("list other: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != keep.ID {
		t.Fatalf("other user's rows affected: %+v", rows)
	}
}
