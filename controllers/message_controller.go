package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/restaurant-assistant-api/services"
	"github.com/sirupsen/logrus"
)

// SendMessageRequest represents the request body for texting a reservation's customer
type SendMessageRequest struct {
	Body string `json:"body" binding:"required"`
}

// MessageController handles the SMS webhook and the reservation conversation endpoints
type MessageController struct {
	messages    *services.MessageService
	transcripts *services.TranscriptService
	log         *logrus.Logger
}

// NewMessageController creates a MessageController
func NewMessageController(messages *services.MessageService, transcripts *services.TranscriptService, log *logrus.Logger) *MessageController {
	return &MessageController{
		messages:    messages,
		transcripts: transcripts,
		log:         log,
	}
}

// formValue returns the first non-empty form field among names
func formValue(c *gin.Context, names ...string) string {
	for _, name := range names {
		if v := strings.TrimSpace(c.PostForm(name)); v != "" {
			return v
		}
	}
	return ""
}

// Receive handles POST /messages/receive - the inbound SMS webhook.
// Both the documented field names and the provider's native To/From/Body are accepted.
func (ctl *MessageController) Receive(c *gin.Context) {
	in := services.InboundSMS{
		To:   formValue(c, "to_number", "To"),
		From: formValue(c, "from_number", "From"),
		Body: c.PostForm("body"),
	}
	if in.Body == "" {
		in.Body = c.PostForm("Body")
	}

	switch {
	case in.From == "":
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Missing required field: from_number"})
		return
	case strings.TrimSpace(in.Body) == "":
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Missing required field: body"})
		return
	}

	_, err := ctl.messages.ReceiveInbound(c.Request.Context(), in)
	switch {
	case errors.Is(err, services.ErrCustomerNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": "Customer not found"})
		return
	case errors.Is(err, services.ErrNoActiveReservation):
		c.JSON(http.StatusNotFound, gin.H{"detail": "No active reservation found for customer"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to process message"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Message received"})
}

// ListForReservation handles GET /api/v1/reservations/:id/messages
func (ctl *MessageController) ListForReservation(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	messages, err := ctl.messages.ListForReservation(c.Request.Context(), id)
	if err != nil {
		writeError(c, ctl.log, err, "Reservation not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    messages,
	})
}

// Send handles POST /api/v1/reservations/:id/messages - texts the customer through the SMS provider
func (ctl *MessageController) Send(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationResponse(c, err)
		return
	}

	message, err := ctl.messages.SendOutbound(c.Request.Context(), id, req.Body)
	if err != nil {
		writeError(c, ctl.log, err, "Reservation not found")
		return
	}

	staffEntry(c, ctl.log).WithFields(logrus.Fields{
		"reservation_id": id,
		"message_id":     message.ID,
	}).Info("Staff replied to guest")

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    message,
	})
}

// MarkRead handles PATCH /api/v1/messages/:id/read
func (ctl *MessageController) MarkRead(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	message, err := ctl.messages.MarkRead(c.Request.Context(), id)
	if err != nil {
		writeError(c, ctl.log, err, "Message not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    message,
	})
}

// ArchiveTranscript handles POST /api/v1/reservations/:id/transcript
func (ctl *MessageController) ArchiveTranscript(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	transcript, err := ctl.transcripts.Archive(c.Request.Context(), id)
	if err != nil {
		writeError(c, ctl.log, err, "Reservation not found")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    transcript,
	})
}
