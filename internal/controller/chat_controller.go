package controller

import (
	"context"
	"encoding/json"

	"catalog-chat-be/internal/dto"
	"catalog-chat-be/internal/pkg/logger"
	"catalog-chat-be/internal/pkg/serverutils"
	"catalog-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	SendChat(ctx *fiber.Ctx) error
	GetKeywords(ctx *fiber.Ctx) error
	GetRewrite(ctx *fiber.Ctx) error
	ServeWs(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService    service.IChatService
	keywordService service.IKeywordService
	logger         logger.ILogger
}

func NewChatController(
	chatService service.IChatService,
	keywordService service.IKeywordService,
	log logger.ILogger,
) IChatController {
	return &chatController{
		chatService:    chatService,
		keywordService: keywordService,
		logger:         log,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Post("", c.SendChat)
	h.Get("keywords", c.GetKeywords)
	h.Get("rewrite/:session_id", c.GetRewrite)
	h.Get("ws/:session_id", c.ServeWs)
}

func (c *chatController) SendChat(ctx *fiber.Ctx) error {
	var req dto.SendChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatService.SendChat(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success send chat", res))
}

func (c *chatController) GetKeywords(ctx *fiber.Ctx) error {
	keywords, err := c.keywordService.Keywords(ctx.UserContext())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get keywords", dto.GetKeywordsResponse{
		Keywords: keywords,
	}))
}

func (c *chatController) GetRewrite(ctx *fiber.Ctx) error {
	sessionId := ctx.Params("session_id")
	rewrite := c.chatService.LastRewrite(sessionId)
	if rewrite == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse("No rewrite recorded for session"))
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get rewrite", rewrite))
}

// ServeWs runs the chat loop over a websocket: each inbound text frame is
// one user message, each outbound frame is the JSON-encoded reply.
func (c *chatController) ServeWs(ctx *fiber.Ctx) error {
	sessionId := ctx.Params("session_id")
	if sessionId == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse("Missing session id"))
	}

	if !websocket.IsWebSocketUpgrade(ctx) {
		return fiber.ErrUpgradeRequired
	}

	return websocket.New(func(conn *websocket.Conn) {
		c.logger.Info("ChatController", "Starting WebSocket chat session", map[string]interface{}{"session_id": sessionId})
		defer c.logger.Info("ChatController", "WebSocket chat session ended", map[string]interface{}{"session_id": sessionId})

		for {
			msgType, raw, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if msgType != websocket.TextMessage || len(raw) == 0 {
				continue
			}

			// The fiber request context dies with the upgrade; chat calls
			// run on a background context for the socket's lifetime.
			res, err := c.chatService.SendChat(context.Background(), &dto.SendChatRequest{
				SessionId: sessionId,
				Message:   string(raw),
			})
			if err != nil {
				c.logger.Error("ChatController", "WebSocket chat failed", map[string]interface{}{
					"session_id": sessionId,
					"error":      err.Error(),
				})
				_ = conn.WriteJSON(serverutils.ErrorResponse("The assistant is temporarily unavailable. Please try again shortly."))
				continue
			}

			payload, err := json.Marshal(res)
			if err != nil {
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		}
	})(ctx)
}
