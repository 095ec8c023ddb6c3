package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/julin-realestate/realestate-api/internal/middleware"
	"github.com/julin-realestate/realestate-api/internal/model"
	"github.com/julin-realestate/realestate-api/internal/service"
)

// ChatbotHandler exposes the assistant to visitors and to admins.
type ChatbotHandler struct {
	Chat *service.ChatbotService
	Log  *zap.Logger
}

func NewChatbotHandler(chat *service.ChatbotService, log *zap.Logger) *ChatbotHandler {
	return &ChatbotHandler{Chat: chat, Log: log}
}

type chatReq struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
}

// sessionID prefers the body, then the X-Session-Id header.  Empty means the
// service starts a new session.
func (r chatReq) sessionID(c echo.Context) string {
	if s := strings.TrimSpace(r.SessionID); s != "" {
		return s
	}
	if s := strings.TrimSpace(c.Request().Header.Get("X-Session-Id")); s != "" {
		return s
	}
	return ""
}

func (h *ChatbotHandler) reply(c echo.Context, userType model.ChatUserType, identity string) error {
	var req chatReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if strings.TrimSpace(req.Message) == "" {
		return badRequest(c, "message is required")
	}
	out, err := h.Chat.Reply(c.Request().Context(), service.ChatRequest{
		SessionID: req.sessionID(c),
		Message:   req.Message,
		UserType:  userType,
		Identity:  identity,
	})
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reply": out.Reply, "sessionId": out.SessionID})
}

// Public handles POST /api/chatbot.
func (h *ChatbotHandler) Public(c echo.Context) error {
	return h.reply(c, model.ChatPublic, "")
}

// Admin handles POST /api/admin/chatbot with the guard-resolved identity.
func (h *ChatbotHandler) Admin(c echo.Context) error {
	return h.reply(c, model.ChatAdmin, middleware.AdminEmail(c))
}
