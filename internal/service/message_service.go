package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"vyapaar-backend/internal/agent"
	"vyapaar-backend/internal/model"
	"vyapaar-backend/internal/repository"
	"vyapaar-backend/internal/ws"
	"vyapaar-backend/pkg/logger"
)

// AgentTag marks a chat message for automated order processing.
const AgentTag = "@v"

// CommandProcessor is the order-to-invoice pipeline entry point.
type CommandProcessor interface {
	ProcessCommand(ctx context.Context, text, sellerContext string, customer *model.Customer, messageID *uuid.UUID) *agent.PostingResult
}

type MessageService interface {
	// Send persists the message, broadcasts it, and — when tagged —
	// runs the agent pipeline and persists the reply. The returned
	// PostingResult is nil for untagged messages.
	Send(ctx context.Context, senderID, receiverID uuid.UUID, text string, replyToID *uuid.UUID) (*model.Message, *agent.PostingResult, error)
	GetConversation(userID, peerID uuid.UUID) ([]model.Message, error)
	GetSidebarUsers(selfID uuid.UUID) ([]model.UserResponse, error)
}

type messageService struct {
	messages  repository.MessageRepository
	users     repository.UserRepository
	customers CustomerService
	processor CommandProcessor
	hub       *ws.Hub
	log       zerolog.Logger
}

func NewMessageService(
	messages repository.MessageRepository,
	users repository.UserRepository,
	customers CustomerService,
	processor CommandProcessor,
	hub *ws.Hub,
) MessageService {
	return &messageService{
		messages:  messages,
		users:     users,
		customers: customers,
		processor: processor,
		hub:       hub,
		log:       logger.WithComponent("message-service"),
	}
}

// HasAgentTag reports whether the message text requests automated
// processing.
func HasAgentTag(text string) bool {
	trimmed := strings.TrimSpace(text)
	return trimmed == AgentTag || strings.HasPrefix(trimmed, AgentTag+" ")
}

// StripAgentTag removes the leading tag, leaving the order text.
func StripAgentTag(text string) string {
	trimmed := strings.TrimSpace(text)
	return strings.TrimSpace(strings.TrimPrefix(trimmed, AgentTag))
}

func (s *messageService) Send(ctx context.Context, senderID, receiverID uuid.UUID, text string, replyToID *uuid.UUID) (*model.Message, *agent.PostingResult, error) {
	message := &model.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Text:       text,
		ReplyToID:  replyToID,
	}
	if err := s.messages.Create(message); err != nil {
		return nil, nil, err
	}
	s.hub.BroadcastEvent("new_message", message)

	if !HasAgentTag(text) {
		return message, nil, nil
	}

	result := s.runAgent(ctx, message)
	return message, result, nil
}

// runAgent maps the chat peer onto a ledger customer (created lazily
// on first contact), runs the pipeline, and persists the reply. Agent
// failures never fail the surrounding message send: the reply carries
// the user-visible outcome either way.
func (s *messageService) runAgent(ctx context.Context, message *model.Message) *agent.PostingResult {
	peer, err := s.users.FindByID(message.ReceiverID)
	if err != nil {
		s.log.Warn().Err(err).Str("receiver_id", message.ReceiverID.String()).Msg("tagged message for unknown peer")
		return nil
	}

	customer, err := s.customers.GetOrCreate(peer.FullName, peer.PhoneNumber)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to resolve customer for tagged message")
		return nil
	}

	result := s.processor.ProcessCommand(ctx, StripAgentTag(message.Text), "", customer, &message.ID)

	reply := &model.Message{
		SenderID:   message.SenderID,
		ReceiverID: message.ReceiverID,
		Text:       result.Message,
		ReplyToID:  &message.ID,
	}
	if err := s.messages.Create(reply); err != nil {
		s.log.Error().Err(err).Msg("failed to persist agent reply")
		return result
	}
	s.hub.BroadcastEvent("new_message", reply)

	return result
}

func (s *messageService) GetConversation(userID, peerID uuid.UUID) ([]model.Message, error) {
	return s.messages.FindConversation(userID, peerID)
}

func (s *messageService) GetSidebarUsers(selfID uuid.UUID) ([]model.UserResponse, error) {
	users, err := s.users.FindAll()
	if err != nil {
		return nil, err
	}

	responses := make([]model.UserResponse, 0, len(users))
	for _, u := range users {
		if u.ID == selfID {
			continue
		}
		responses = append(responses, u.ToResponse())
	}
	return responses, nil
}
