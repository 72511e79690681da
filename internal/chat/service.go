package chat

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/ecmobridge1-prog/Ecmo-Bridge-2.0/internal/profile"
)

var (
	ErrEmptyMessage = errors.New("chat: message text is empty")
	ErrEmptyTitle   = errors.New("chat: title is empty")
	ErrNoMembers    = errors.New("chat: at least one other member is required")
	ErrNotMember    = errors.New("chat: user is not a member of this chat")
)

type Service struct {
	repo *Repo
}

func NewService(repo *Repo) *Service {
	return &Service{repo: repo}
}

// CreateChatWithMembers creates the chat row, then adds the creator and the
// given members. The two writes are sequenced, not atomic: a failure after
// the first leaves a memberless chat behind. That gap is accepted; the store
// offers no multi-statement transaction at this gateway's contract.
func (s *Service) CreateChatWithMembers(ctx context.Context, creatorID, title string, memberIDs []string, patientID *string) (*Chat, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrEmptyTitle
	}
	if len(memberIDs) == 0 {
		return nil, ErrNoMembers
	}

	c := &Chat{
		ID:        uuid.NewString(),
		Title:     title,
		IsGroup:   len(memberIDs) > 1,
		PatientID: patientID,
	}
	if err := s.repo.CreateChat(ctx, c); err != nil {
		return nil, err
	}

	seen := map[string]bool{creatorID: true}
	members := []Member{{ChatID: c.ID, UserID: creatorID, Role: "member"}}
	for _, id := range memberIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		members = append(members, Member{ChatID: c.ID, UserID: id, Role: "member"})
	}
	if err := s.repo.AddMembers(ctx, members); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) ListChats(ctx context.Context, userID string) ([]Chat, error) {
	return s.repo.ListChatsByUser(ctx, userID)
}

func (s *Service) ListMessages(ctx context.Context, chatID string) ([]Message, error) {
	return s.repo.ListMessagesAsc(ctx, chatID)
}

func (s *Service) ListMembers(ctx context.Context, chatID string) ([]profile.Profile, error) {
	return s.repo.ListMembers(ctx, chatID)
}

// SendMessage validates locally before any store write: empty or
// whitespace-only text never reaches the database.
func (s *Service) SendMessage(ctx context.Context, chatID, senderID, text string) (*Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyMessage
	}
	ok, err := s.repo.IsMember(ctx, chatID, senderID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotMember
	}
	m := &Message{
		ChatID:   chatID,
		SenderID: senderID,
		Content:  text,
	}
	if err := s.repo.InsertMessage(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// InsertQuestionnaireMessage emits the chat marker for a newly opened
// questionnaire. Exactly one such message is written per questionnaire.
func (s *Service) InsertQuestionnaireMessage(ctx context.Context, chatID, senderID, questionnaireID string) (*Message, error) {
	m := &Message{
		ChatID:          chatID,
		SenderID:        senderID,
		Content:         "Questionnaire opened",
		IsQuestionnaire: true,
		QuestionnaireID: &questionnaireID,
	}
	if err := s.repo.InsertMessage(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// LeaveChat removes only the membership row; the chat and its history stay
// retrievable by remaining members.
func (s *Service) LeaveChat(ctx context.Context, chatID, userID string) error {
	ok, err := s.repo.IsMember(ctx, chatID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotMember
	}
	return s.repo.RemoveMember(ctx, chatID, userID)
}

func (s *Service) IsMember(ctx context.Context, chatID, userID string) (bool, error) {
	return s.repo.IsMember(ctx, chatID, userID)
}
