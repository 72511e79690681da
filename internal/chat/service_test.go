package chat

import (
	"context"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ecmobridge1-prog/Ecmo-Bridge-2.0/internal/profile"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(gormsqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&profile.Profile{}, &Chat{}, &Member{}, &Message{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func seedProfile(t *testing.T, db *gorm.DB, name string) string {
	t.Helper()
	p := profile.Profile{
		ID:       uuid.NewString(),
		Username: name + "-" + uuid.NewString()[:8],
		FullName: name,
	}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("seed profile: %v", err)
	}
	return p.ID
}

func TestSendMessage_RejectsEmptyWithoutWrite(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(NewRepo(db))

	a := seedProfile(t, db, "dr-a")
	b := seedProfile(t, db, "dr-b")

	c, err := svc.CreateChatWithMembers(context.Background(), a, "Case 12", []string{b}, nil)
	if err != nil {
		t.Fatalf("create chat: %v", err)
	}

	for _, text := range []string{"", "   ", "\t\n"} {
		if _, err := svc.SendMessage(context.Background(), c.ID, a, text); err != ErrEmptyMessage {
			t.Fatalf("text %q: expected ErrEmptyMessage, got %v", text, err)
		}
	}

	var cnt int64
	if err := db.Model(&Message{}).Where("chat_id = ?", c.ID).Count(&cnt).Error; err != nil {
		t.Fatalf("count messages: %v", err)
	}
	if cnt != 0 {
		t.Fatalf("expected no store write, found %d messages", cnt)
	}
}

func TestSendMessage_RejectsNonMember(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(NewRepo(db))

	a := seedProfile(t, db, "dr-a")
	b := seedProfile(t, db, "dr-b")
	outsider := seedProfile(t, db, "dr-x")

	c, err := svc.CreateChatWithMembers(context.Background(), a, "Case 13", []string{b}, nil)
	if err != nil {
		t.Fatalf("create chat: %v", err)
	}

	if _, err := svc.SendMessage(context.Background(), c.ID, outsider, "hello"); err != ErrNotMember {
		t.Fatalf("expected ErrNotMember, got %v", err)
	}
}

func TestListMessages_OrderingIsStable(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(NewRepo(db))

	a := seedProfile(t, db, "dr-a")
	b := seedProfile(t, db, "dr-b")

	c, err := svc.CreateChatWithMembers(context.Background(), a, "Case 14", []string{b}, nil)
	if err != nil {
		t.Fatalf("create chat: %v", err)
	}

	for _, text := range []string{"one", "two", "three"} {
		if _, err := svc.SendMessage(context.Background(), c.ID, a, text); err != nil {
			t.Fatalf("send %q: %v", text, err)
		}
	}

	first, err := svc.ListMessages(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("list messages: %v", err)
	}
	second, err := svc.ListMessages(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("list messages again: %v", err)
	}

	if len(first) != 3 || len(second) != 3 {
		t.Fatalf("expected 3 messages in both fetches, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("fetch order changed at index %d: %d vs %d", i, first[i].ID, second[i].ID)
		}
	}
	if first[0].Content != "one" || first[1].Content != "two" || first[2].Content != "three" {
		t.Fatalf("unexpected order: %q %q %q", first[0].Content, first[1].Content, first[2].Content)
	}
}

func TestLeaveChat_KeepsChatAndHistoryForOthers(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(NewRepo(db))

	a := seedProfile(t, db, "dr-a")
	b := seedProfile(t, db, "dr-b")

	c, err := svc.CreateChatWithMembers(context.Background(), a, "Case 15", []string{b}, nil)
	if err != nil {
		t.Fatalf("create chat: %v", err)
	}
	if _, err := svc.SendMessage(context.Background(), c.ID, a, "can you take ECMO?"); err != nil {
		t.Fatalf("send: %v", err)
	}

	if err := svc.LeaveChat(context.Background(), c.ID, b); err != nil {
		t.Fatalf("leave chat: %v", err)
	}

	bChats, err := svc.ListChats(context.Background(), b)
	if err != nil {
		t.Fatalf("list chats for b: %v", err)
	}
	for _, ch := range bChats {
		if ch.ID == c.ID {
			t.Fatalf("chat still listed for departed member")
		}
	}

	aChats, err := svc.ListChats(context.Background(), a)
	if err != nil {
		t.Fatalf("list chats for a: %v", err)
	}
	found := false
	for _, ch := range aChats {
		if ch.ID == c.ID {
			found = true
		}
	}
	if !found {
		t.Fatalf("remaining member lost the chat")
	}

	msgs, err := svc.ListMessages(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("list messages: %v", err)
	}
	if len(msgs) != 1 || msgs[0].Content != "can you take ECMO?" {
		t.Fatalf("history not preserved: %+v", msgs)
	}
}

func TestChatScenario_TwoPartyExchange(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(NewRepo(db))

	a := seedProfile(t, db, "dr-a")
	b := seedProfile(t, db, "dr-b")
	pid := uuid.NewString()

	c, err := svc.CreateChatWithMembers(context.Background(), a, "Case 12", []string{b}, &pid)
	if err != nil {
		t.Fatalf("create chat: %v", err)
	}
	if c.IsGroup {
		t.Fatalf("two-party chat flagged as group")
	}

	if _, err := svc.SendMessage(context.Background(), c.ID, a, "can you take ECMO?"); err != nil {
		t.Fatalf("a send: %v", err)
	}

	// b's next poll
	msgs, err := svc.ListMessages(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("b list: %v", err)
	}
	if len(msgs) != 1 || msgs[0].SenderID != a || msgs[0].Content != "can you take ECMO?" {
		t.Fatalf("unexpected first fetch: %+v", msgs)
	}

	if _, err := svc.SendMessage(context.Background(), c.ID, b, "yes"); err != nil {
		t.Fatalf("b send: %v", err)
	}

	// a's next poll
	msgs, err = svc.ListMessages(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("a list: %v", err)
	}
	if len(msgs) != 2 || msgs[0].Content != "can you take ECMO?" || msgs[1].Content != "yes" {
		t.Fatalf("unexpected second fetch: %+v", msgs)
	}
}

func TestListMembers(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(NewRepo(db))

	a := seedProfile(t, db, "dr-a")
	b := seedProfile(t, db, "dr-b")
	cc := seedProfile(t, db, "dr-c")

	c, err := svc.CreateChatWithMembers(context.Background(), a, "Case 16", []string{b, cc}, nil)
	if err != nil {
		t.Fatalf("create chat: %v", err)
	}
	if !c.IsGroup {
		t.Fatalf("three-party chat not flagged as group")
	}

	members, err := svc.ListMembers(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("list members: %v", err)
	}
	if len(members) != 3 {
		t.Fatalf("expected 3 members, got %d", len(members))
	}
}
