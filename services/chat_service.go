package services

import (
	"context"
	"errors"
	"fmt"
	"law_office_app_go/models"
	"log"
	"sort"
	"unicode/utf8"

	"law_office_app_go/services/realtime"

	"gorm.io/gorm"
)

const (
	// MaxMessageLength bounds a single chat message in characters
	MaxMessageLength = 4000
	// recentPerCase and recentTotal shape the dashboard activity feed
	recentPerCase = 3
	recentTotal   = 10
)

var (
	ErrEmptyMessage   = errors.New("message is empty")
	ErrMessageTooLong = fmt.Errorf("message exceeds %d characters", MaxMessageLength)
	ErrInvalidSender  = errors.New("sender must be client or lawyer")
)

// ChatService stores case conversations and announces new messages
type ChatService struct {
	DB     *gorm.DB
	Broker realtime.Broker
}

func NewChatService(db *gorm.DB, broker realtime.Broker) *ChatService {
	return &ChatService{DB: db, Broker: broker}
}

// ListMessages returns the conversation oldest first
func (s *ChatService) ListMessages(ctx context.Context, officeID, caseID string) ([]models.ChatMessage, error) {
	db := s.DB.WithContext(ctx)
	if err := CaseBelongsToOffice(db, officeID, caseID); err != nil {
		return nil, err
	}
	var msgs []models.ChatMessage
	if err := db.Where("case_id = ?", caseID).Order("sent_at ASC").Find(&msgs).Error; err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return msgs, nil
}

// SendMessage appends a message and publishes the insert
func (s *ChatService) SendMessage(ctx context.Context, officeID, caseID, sender, body string) (*models.ChatMessage, error) {
	if !models.IsValidSender(sender) {
		return nil, ErrInvalidSender
	}
	body = SanitizeText(body)
	if body == "" {
		return nil, ErrEmptyMessage
	}
	if utf8.RuneCountInString(body) > MaxMessageLength {
		return nil, ErrMessageTooLong
	}

	db := s.DB.WithContext(ctx)
	if err := CaseBelongsToOffice(db, officeID, caseID); err != nil {
		return nil, err
	}

	msg := &models.ChatMessage{CaseID: caseID, Sender: sender, Body: body}
	if err := db.Create(msg).Error; err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}

	if s.Broker != nil {
		ev := realtime.MessageEvent{ID: msg.ID, CaseID: msg.CaseID, Sender: msg.Sender, SentAt: msg.SentAt}
		if err := s.Broker.Publish(context.WithoutCancel(ctx), ev); err != nil {
			log.Printf("[CHAT] publish failed for case %s: %v", caseID, err)
		}
	}
	return msg, nil
}

// ForOffice binds the service to one office for a live session
func (s *ChatService) ForOffice(officeID string) *OfficeChat {
	return &OfficeChat{svc: s, officeID: officeID}
}

// OfficeChat is the chat store seen by one signed-in user
type OfficeChat struct {
	svc      *ChatService
	officeID string
}

func (o *OfficeChat) ListMessages(ctx context.Context, caseID string) ([]models.ChatMessage, error) {
	return o.svc.ListMessages(ctx, o.officeID, caseID)
}

func (o *OfficeChat) SendMessage(ctx context.Context, caseID, sender, body string) (*models.ChatMessage, error) {
	return o.svc.SendMessage(ctx, o.officeID, caseID, sender, body)
}

// CaseConversation summarises one case's chat for the messages screen
type CaseConversation struct {
	Case         models.Case
	LastMessage  models.ChatMessage
	Recent       []models.ChatMessage // up to three, oldest first
	MessageCount int
	ClientCount  int
}

// ListConversations returns cases that have messages, most recent conversation first
func ListConversations(db *gorm.DB, officeID string) ([]CaseConversation, error) {
	var cases []models.Case
	err := db.Where("office_id = ?", officeID).
		Where("EXISTS (SELECT 1 FROM chat_messages WHERE chat_messages.case_id = cases.id)").
		Preload("ChatMessages", func(db *gorm.DB) *gorm.DB { return db.Order("sent_at ASC") }).
		Order("created_at DESC").
		Find(&cases).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}

	out := make([]CaseConversation, 0, len(cases))
	for _, c := range cases {
		if len(c.ChatMessages) == 0 {
			continue
		}
		conv := CaseConversation{
			Case:         c,
			LastMessage:  c.ChatMessages[len(c.ChatMessages)-1],
			MessageCount: len(c.ChatMessages),
		}
		for _, m := range c.ChatMessages {
			if m.IsFromClient() {
				conv.ClientCount++
			}
		}
		from := len(c.ChatMessages) - recentPerCase
		if from < 0 {
			from = 0
		}
		conv.Recent = c.ChatMessages[from:]
		conv.Case.ChatMessages = nil
		out = append(out, conv)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastMessage.SentAt.After(out[j].LastMessage.SentAt)
	})
	return out, nil
}

// ActivityItem is one message in the dashboard feed
type ActivityItem struct {
	CaseID     string
	CaseNum    string
	ClientName string
	Message    models.ChatMessage
}

// RecentActivity takes the last three messages of every case and keeps the ten newest
func RecentActivity(conversations []CaseConversation) []ActivityItem {
	var items []ActivityItem
	for _, conv := range conversations {
		for _, m := range conv.Recent {
			items = append(items, ActivityItem{
				CaseID:     conv.Case.ID,
				CaseNum:    conv.Case.CaseNum,
				ClientName: conv.Case.ClientName(),
				Message:    m,
			})
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Message.SentAt.After(items[j].Message.SentAt)
	})
	if len(items) > recentTotal {
		items = items[:recentTotal]
	}
	return items
}
