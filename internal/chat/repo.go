package chat

import (
	"context"

	"gorm.io/gorm"

	"github.com/ecmobridge1-prog/Ecmo-Bridge-2.0/internal/profile"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) CreateChat(ctx context.Context, c *Chat) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *Repo) GetChatByID(ctx context.Context, chatID string) (*Chat, error) {
	var c Chat
	if err := r.db.WithContext(ctx).
		Where("id = ?", chatID).
		First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repo) AddMembers(ctx context.Context, members []Member) error {
	if len(members) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&members).Error
}

func (r *Repo) RemoveMember(ctx context.Context, chatID, userID string) error {
	return r.db.WithContext(ctx).
		Where("chat_id = ? AND user_id = ?", chatID, userID).
		Delete(&Member{}).Error
}

func (r *Repo) IsMember(ctx context.Context, chatID, userID string) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).Model(&Member{}).
		Where("chat_id = ? AND user_id = ?", chatID, userID).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

// ListChatsByUser returns the chats the user belongs to, newest membership
// first. An empty slice is not an error.
func (r *Repo) ListChatsByUser(ctx context.Context, userID string) ([]Chat, error) {
	var chats []Chat
	if err := r.db.WithContext(ctx).
		Joins("JOIN chat_members ON chat_members.chat_id = chats.id").
		Where("chat_members.user_id = ?", userID).
		Order("chat_members.joined_at DESC").
		Find(&chats).Error; err != nil {
		return nil, err
	}
	return chats, nil
}

// ListMembers returns the member profiles of a chat.
func (r *Repo) ListMembers(ctx context.Context, chatID string) ([]profile.Profile, error) {
	var profiles []profile.Profile
	if err := r.db.WithContext(ctx).Model(&profile.Profile{}).
		Joins("JOIN chat_members ON chat_members.user_id = profiles.id").
		Where("chat_members.chat_id = ?", chatID).
		Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *Repo) InsertMessage(ctx context.Context, m *Message) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// ListMessagesAsc returns the full message history of a chat in ASC
// created_at order (oldest -> newest), ties broken by id.
func (r *Repo) ListMessagesAsc(ctx context.Context, chatID string) ([]Message, error) {
	var msgs []Message
	if err := r.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("created_at ASC, id ASC").
		Find(&msgs).Error; err != nil {
		return nil, err
	}
	return msgs, nil
}
