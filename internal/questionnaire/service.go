package questionnaire

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/ecmobridge1-prog/Ecmo-Bridge-2.0/internal/chat"
)

var (
	ErrEmptyTitle    = errors.New("questionnaire: title is empty")
	ErrEmptyQuestion = errors.New("questionnaire: question text is empty")
	ErrEmptyResponse = errors.New("questionnaire: response text is empty")
	ErrNotMember     = errors.New("questionnaire: user is not a member of the chat")
)

// Service owns questionnaires and their question/response sub-threads. A
// questionnaire surfaces in its chat as a marker message rather than a
// separate inbox, so all patient-discussion artifacts stay in one stream.
type Service struct {
	repo    *Repo
	chatSvc *chat.Service
}

func NewService(repo *Repo, chatSvc *chat.Service) *Service {
	return &Service{repo: repo, chatSvc: chatSvc}
}

// Create writes the questionnaire record and immediately emits the chat
// message carrying its reference. The two writes are sequenced, not atomic.
func (s *Service) Create(ctx context.Context, chatID, creatorID, title string) (*Questionnaire, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrEmptyTitle
	}
	ok, err := s.chatSvc.IsMember(ctx, chatID, creatorID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotMember
	}

	q := &Questionnaire{
		ID:             uuid.NewString(),
		ChatID:         chatID,
		OpenedByUserID: creatorID,
		Title:          title,
	}
	if err := s.repo.Create(ctx, q); err != nil {
		return nil, err
	}
	if _, err := s.chatSvc.InsertQuestionnaireMessage(ctx, chatID, creatorID, q.ID); err != nil {
		return nil, err
	}
	return q, nil
}

// AddQuestion appends a question on behalf of a chat member. Allowed at any
// time, including after every existing question already has responses;
// completion never locks anything.
func (s *Service) AddQuestion(ctx context.Context, questionnaireID, userID, text string) (*Question, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyQuestion
	}
	qn, err := s.repo.GetByID(ctx, questionnaireID)
	if err != nil {
		return nil, err
	}
	ok, err := s.chatSvc.IsMember(ctx, qn.ChatID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotMember
	}
	q := &Question{
		ID:              uuid.NewString(),
		QuestionnaireID: questionnaireID,
		QuestionText:    text,
	}
	if err := s.repo.InsertQuestion(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

// AddResponse appends a response. Any member of the owning chat may answer,
// and a question keeps accepting responses after its first one.
func (s *Service) AddResponse(ctx context.Context, questionID, responderID, text string) (*Response, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyResponse
	}
	question, err := s.repo.GetQuestionByID(ctx, questionID)
	if err != nil {
		return nil, err
	}
	qn, err := s.repo.GetByID(ctx, question.QuestionnaireID)
	if err != nil {
		return nil, err
	}
	ok, err := s.chatSvc.IsMember(ctx, qn.ChatID, responderID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotMember
	}

	resp := &Response{
		ID:           uuid.NewString(),
		QuestionID:   questionID,
		ResponderID:  responderID,
		ResponseText: text,
	}
	if err := s.repo.InsertResponse(ctx, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Load returns the questionnaire with its questions, nested responses in
// created_at order, and the status derived from what it just read. Only
// members of the owning chat may read it.
func (s *Service) Load(ctx context.Context, questionnaireID, userID string) (*View, error) {
	qn, err := s.repo.GetByID(ctx, questionnaireID)
	if err != nil {
		return nil, err
	}
	ok, err := s.chatSvc.IsMember(ctx, qn.ChatID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotMember
	}
	questions, err := s.repo.ListQuestions(ctx, questionnaireID)
	if err != nil {
		return nil, err
	}

	views := make([]QuestionView, 0, len(questions))
	answered := 0
	for _, q := range questions {
		responses, err := s.repo.ListResponses(ctx, q.ID)
		if err != nil {
			return nil, err
		}
		if len(responses) > 0 {
			answered++
		}
		views = append(views, QuestionView{Question: q, Responses: responses})
	}

	return &View{
		Questionnaire: *qn,
		Status:        deriveStatus(len(questions), answered),
		Questions:     views,
	}, nil
}

func (s *Service) ListByChat(ctx context.Context, chatID string) ([]Questionnaire, error) {
	return s.repo.ListByChat(ctx, chatID)
}

func deriveStatus(total, answered int) Status {
	switch {
	case answered == 0:
		return StatusOpen
	case answered < total:
		return StatusAnswering
	default:
		return StatusCompleted
	}
}
