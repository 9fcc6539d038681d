package handler

import (
	"vyapaar-backend/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type MessageHandler struct {
	service service.MessageService
}

func NewMessageHandler(s service.MessageService) *MessageHandler {
	return &MessageHandler{service: s}
}

func (h *MessageHandler) GetSidebarUsers(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Invalid user"})
	}

	users, err := h.service.GetSidebarUsers(userID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(users)
}

func (h *MessageHandler) GetConversation(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Invalid user"})
	}

	peerID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	messages, err := h.service.GetConversation(userID, peerID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(messages)
}

type sendMessageRequest struct {
	Text      string     `json:"text"`
	ReplyToID *uuid.UUID `json:"reply_to_id"`
}

// SendMessage persists and broadcasts the message. When the text is
// tagged for the agent, the response additionally carries the pipeline
// outcome (posted transaction, clarification questions, or the error
// text that was replied into the chat).
func (h *MessageHandler) SendMessage(c *fiber.Ctx) error {
	senderID, err := currentUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Invalid user"})
	}

	receiverID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid receiver ID"})
	}

	var req sendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	message, result, err := h.service.Send(c.Context(), senderID, receiverID, req.Text, req.ReplyToID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to send message"})
	}

	resp := fiber.Map{"message": message}
	if result != nil {
		resp["agent_result"] = result
	}
	return c.Status(201).JSON(resp)
}
