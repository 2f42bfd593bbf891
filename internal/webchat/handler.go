package webchat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"golang.org/x/net/websocket"

	"github.com/strengthclub/coaching-ai-platform/internal/conversation"
	"github.com/strengthclub/coaching-ai-platform/internal/discovery"
	"github.com/strengthclub/coaching-ai-platform/internal/escalation"
	"github.com/strengthclub/coaching-ai-platform/internal/validation"
	"github.com/strengthclub/coaching-ai-platform/pkg/logging"
)

// ChatService runs the conversation loop for the widget.
type ChatService interface {
	Start(ctx context.Context, req conversation.StartRequest) (*conversation.StartResult, error)
	Send(ctx context.Context, conversationID, message string) (*conversation.Reply, error)
	History(ctx context.Context, conversationID string) ([]conversation.ChatMessage, bool, error)
	List(ctx context.Context) ([]conversation.Summary, error)
	Delete(ctx context.Context, conversationID string) error
}

// Escalator hands conversations to a human coach.
type Escalator interface {
	Escalate(ctx context.Context, req escalation.EscalateRequest) (*escalation.Escalation, error)
}

// Handler serves the chat widget: WebSocket for live messaging plus HTTP
// fallbacks for widgets that cannot hold a socket open.
type Handler struct {
	chat      ChatService
	escalator Escalator
	logger    *logging.Logger
	widgetJS  []byte

	mu       sync.RWMutex
	sessions map[string]*wsConn // conversationID -> active connection
}

type wsConn struct {
	conn *websocket.Conn
	done chan struct{}
}

// InboundMessage is what the widget sends over the socket.
type InboundMessage struct {
	Type           string `json:"type"` // "message", "escalate", "ping"
	ConversationID string `json:"conversation_id"`
	Text           string `json:"text"`
}

// OutboundMessage is what we send to the widget.
type OutboundMessage struct {
	Type             string           `json:"type"` // "message", "session", "history", "escalated", "pong", "error"
	Text             string           `json:"text,omitempty"`
	Role             string           `json:"role,omitempty"`
	ConversationID   string           `json:"conversation_id,omitempty"`
	Suggestions      *discovery.Match `json:"suggestions,omitempty"`
	EscalationNeeded bool             `json:"escalation_needed,omitempty"`
	Escalated        bool             `json:"escalated,omitempty"`
	Timestamp        string           `json:"timestamp,omitempty"`
	Messages         []HistoryMessage `json:"messages,omitempty"`
}

// HistoryMessage is a simplified message for history responses.
type HistoryMessage struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// NewHandler creates a web chat handler.
func NewHandler(chat ChatService, escalator Escalator, widgetJS []byte, logger *logging.Logger) *Handler {
	if chat == nil {
		panic("webchat: chat service cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		chat:      chat,
		escalator: escalator,
		logger:    logger,
		widgetJS:  widgetJS,
		sessions:  make(map[string]*wsConn),
	}
}

// HandleWebSocket upgrades to WebSocket and handles real-time messaging.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	websocket.Handler(func(conn *websocket.Conn) {
		h.serveWS(conn, r)
	}).ServeHTTP(w, r)
}

func (h *Handler) serveWS(conn *websocket.Conn, r *http.Request) {
	ctx := r.Context()

	req := conversation.StartRequest{}
	if id := r.URL.Query().Get("conversation"); id != "" && validation.ValidConversationID(id) {
		req.ConversationID = id
		req.LoadExisting = true
	}

	started, err := h.chat.Start(ctx, req)
	if err != nil {
		h.logger.Error("webchat: failed to start session", "error", err)
		_ = websocket.JSON.Send(conn, OutboundMessage{Type: "error", Text: "Failed to start chat session."})
		return
	}
	convID := started.ConversationID

	_ = websocket.JSON.Send(conn, OutboundMessage{
		Type:           "session",
		ConversationID: convID,
		Text:           started.WelcomeMessage,
		Escalated:      started.Escalated,
	})
	if started.Loaded && len(started.Messages) > 0 {
		history := make([]HistoryMessage, 0, len(started.Messages))
		for _, m := range started.Messages {
			history = append(history, HistoryMessage{Role: m.Role, Text: m.Content})
		}
		_ = websocket.JSON.Send(conn, OutboundMessage{Type: "history", Messages: history})
	}

	wsc := &wsConn{conn: conn, done: make(chan struct{})}
	h.mu.Lock()
	h.sessions[convID] = wsc
	h.mu.Unlock()
	defer func() {
		h.mu.Lock()
		if h.sessions[convID] == wsc {
			delete(h.sessions, convID)
		}
		h.mu.Unlock()
		close(wsc.done)
	}()

	h.logger.Info("webchat: connection opened", "conversation_id", convID)

	for {
		var msg InboundMessage
		if err := websocket.JSON.Receive(conn, &msg); err != nil {
			h.logger.Debug("webchat: connection closed", "conversation_id", convID, "error", err)
			return
		}

		switch msg.Type {
		case "ping":
			_ = websocket.JSON.Send(conn, OutboundMessage{Type: "pong"})
		case "escalate":
			h.escalateSession(ctx, convID, msg.Text)
		case "message":
			if err := validation.ValidateMessage(msg.Text); err != nil {
				_ = websocket.JSON.Send(conn, OutboundMessage{Type: "error", Text: err.Error()})
				continue
			}
			h.processMessage(ctx, convID, msg.Text)
		}
	}
}

func (h *Handler) processMessage(ctx context.Context, convID, text string) {
	reply, err := h.chat.Send(ctx, convID, text)
	if err != nil {
		h.logger.Error("webchat: failed to process message", "error", err, "conversation_id", convID)
		h.SendToSession(convID, OutboundMessage{
			Type: "error",
			Text: "Sorry, something went wrong. Please try again.",
		})
		return
	}

	h.SendToSession(convID, OutboundMessage{
		Type:             "message",
		Role:             conversation.ChatRoleAssistant,
		Text:             reply.Message,
		ConversationID:   convID,
		Suggestions:      reply.Suggestions,
		EscalationNeeded: reply.EscalationNeeded,
		Escalated:        reply.Escalated,
		Timestamp:        reply.Timestamp.Format(time.RFC3339),
	})
}

func (h *Handler) escalateSession(ctx context.Context, convID, reason string) {
	if h.escalator == nil {
		h.SendToSession(convID, OutboundMessage{Type: "error", Text: "Escalation is not available right now."})
		return
	}
	if _, err := h.escalator.Escalate(ctx, escalation.EscalateRequest{
		ConversationID: convID,
		Reason:         validation.Sanitize(reason, 500),
		Priority:       escalation.PriorityHigh,
	}); err != nil {
		h.logger.Error("webchat: escalation failed", "error", err, "conversation_id", convID)
		h.SendToSession(convID, OutboundMessage{Type: "error", Text: "Failed to reach a coach. Please try again."})
		return
	}
	h.SendToSession(convID, OutboundMessage{
		Type:      "escalated",
		Escalated: true,
		Text:      "Your conversation has been escalated to our support team. A coach will contact you within 24 hours.",
	})
}

// SendToSession sends a message to an active WebSocket session.
func (h *Handler) SendToSession(convID string, msg OutboundMessage) {
	h.mu.RLock()
	wsc, ok := h.sessions[convID]
	h.mu.RUnlock()
	if !ok {
		return
	}
	_ = websocket.JSON.Send(wsc.conn, msg)
}

// HandleStartSession is the HTTP fallback for opening or resuming a session.
func (h *Handler) HandleStartSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ConversationID string `json:"conversation_id"`
		LoadExisting   bool   `json:"load_existing"`
	}
	if r.Body != nil {
		// An empty body means a fresh session.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	if req.LoadExisting && !validation.ValidConversationID(req.ConversationID) {
		http.Error(w, "invalid conversation_id", http.StatusBadRequest)
		return
	}

	result, err := h.chat.Start(r.Context(), conversation.StartRequest{
		ConversationID: req.ConversationID,
		LoadExisting:   req.LoadExisting,
	})
	if err != nil {
		h.logger.Error("webchat: failed to start session", "error", err)
		http.Error(w, "failed to start session", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// HandleMessage is the HTTP fallback for sending messages.
func (h *Handler) HandleMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ConversationID string `json:"conversation_id"`
		Message        string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if !validation.ValidConversationID(req.ConversationID) {
		http.Error(w, "invalid conversation_id", http.StatusBadRequest)
		return
	}
	if err := validation.ValidateMessage(req.Message); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	reply, err := h.chat.Send(r.Context(), req.ConversationID, req.Message)
	if err != nil {
		h.logger.Error("webchat: failed to process message", "error", err, "conversation_id", req.ConversationID)
		http.Error(w, "failed to get response, please try again", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

// HandleEscalate escalates a conversation to a human coach.
func (h *Handler) HandleEscalate(w http.ResponseWriter, r *http.Request) {
	if h.escalator == nil {
		http.Error(w, "escalation not configured", http.StatusServiceUnavailable)
		return
	}

	var req struct {
		ConversationID string                 `json:"conversation_id"`
		Reason         string                 `json:"reason"`
		Priority       string                 `json:"priority"`
		Contact        escalation.ContactInfo `json:"contact_info"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if !validation.ValidConversationID(req.ConversationID) {
		http.Error(w, "invalid conversation_id", http.StatusBadRequest)
		return
	}
	if req.Contact.Email != "" && !validation.ValidEmail(req.Contact.Email) {
		http.Error(w, "invalid email address", http.StatusBadRequest)
		return
	}

	esc, err := h.escalator.Escalate(r.Context(), escalation.EscalateRequest{
		ConversationID: req.ConversationID,
		Reason:         validation.Sanitize(req.Reason, 500),
		Priority:       req.Priority,
		Contact:        req.Contact,
	})
	if err != nil {
		h.logger.Error("webchat: escalation failed", "error", err, "conversation_id", req.ConversationID)
		http.Error(w, "failed to escalate conversation", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"escalation": esc,
		"message":    "Your conversation has been escalated to our support team. A coach will contact you within 24 hours.",
	})
}

// HandleHistory returns chat history for a conversation.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	convID := r.URL.Query().Get("conversation")
	if !validation.ValidConversationID(convID) {
		http.Error(w, "conversation parameter required", http.StatusBadRequest)
		return
	}

	messages, escalated, err := h.chat.History(r.Context(), convID)
	if err != nil {
		h.logger.Error("webchat: failed to load history", "error", err)
		http.Error(w, "failed to load history", http.StatusInternalServerError)
		return
	}

	history := make([]HistoryMessage, 0, len(messages))
	for _, m := range messages {
		history = append(history, HistoryMessage{Role: m.Role, Text: m.Content})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"messages":  history,
		"escalated": escalated,
	})
}

// HandleListConversations lists archived conversations.
func (h *Handler) HandleListConversations(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.chat.List(r.Context())
	if err != nil {
		h.logger.Error("webchat: failed to list conversations", "error", err)
		http.Error(w, "failed to list conversations", http.StatusInternalServerError)
		return
	}
	if summaries == nil {
		summaries = []conversation.Summary{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"conversations": summaries})
}

// HandleDeleteConversation removes a conversation.
func (h *Handler) HandleDeleteConversation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ConversationID string `json:"conversation_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if !validation.ValidConversationID(req.ConversationID) {
		http.Error(w, "invalid conversation_id", http.StatusBadRequest)
		return
	}

	if err := h.chat.Delete(r.Context(), req.ConversationID); err != nil {
		if errors.Is(err, conversation.ErrConversationNotFound) {
			http.Error(w, "conversation not found", http.StatusNotFound)
			return
		}
		h.logger.Error("webchat: failed to delete conversation", "error", err)
		http.Error(w, "failed to delete conversation", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "conversation deleted"})
}

// HandleWidgetJS serves the embeddable widget JavaScript.
func (h *Handler) HandleWidgetJS(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/javascript")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	_, _ = w.Write(h.widgetJS)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
