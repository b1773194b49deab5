package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"marketingcoach/internal/models"
	"marketingcoach/internal/observability"
	"marketingcoach/internal/service/mediator"
)

const (
	errMsgMisconfigured = "API key not configured"
	errMsgFailed        = "Failed to process request"
)

// Mediator answers one coaching request with one provider reply.
type Mediator interface {
	Configured() bool
	Complete(ctx context.Context, req mediator.Request) (string, error)
}

// ExchangeReader lists recorded mediation calls.
type ExchangeReader interface {
	Recent(ctx context.Context, limit int) ([]models.Exchange, error)
}

// Handler wires HTTP routes to the completion mediator.
type Handler struct {
	mediator  Mediator
	exchanges ExchangeReader
}

// NewHandler constructs a Handler instance. exchanges may be nil.
func NewHandler(m Mediator, exchanges ExchangeReader) *Handler {
	return &Handler{mediator: m, exchanges: exchanges}
}

// RegisterRoutes attaches all HTTP routes to the router.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", h.health)
	api := router.Group("/api")
	api.POST("/agent", h.agent)
	api.GET("/modes", h.listModes)
	api.GET("/exchanges", h.listExchanges)
}

func (h *Handler) health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

type agentMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type businessInfo struct {
	Industry       string `json:"industry"`
	TargetAudience string `json:"targetAudience"`
	Product        string `json:"product"`
}

type agentRequest struct {
	Mode         string         `json:"mode"`
	Messages     []agentMessage `json:"messages"`
	BusinessInfo businessInfo   `json:"businessInfo"`
}

func (h *Handler) agent(c *gin.Context) {
	var req agentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		observability.LoggerFromContext(c.Request.Context()).Warn("agent request body rejected", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errMsgFailed})
		return
	}
	// Misconfiguration wins over every other check on the payload.
	if !h.mediator.Configured() {
		c.JSON(http.StatusInternalServerError, gin.H{"error": errMsgMisconfigured})
		return
	}

	msgs := make([]models.Message, 0, len(req.Messages))
	for _, m := range req.Messages {
		role := models.Role(m.Role)
		if !role.Valid() {
			observability.LoggerFromContext(c.Request.Context()).Warn("agent request has invalid role", "role", m.Role)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errMsgFailed})
			return
		}
		msgs = append(msgs, models.Message{Role: role, Content: m.Content})
	}

	reply, err := h.mediator.Complete(c.Request.Context(), mediator.Request{
		Mode:     models.Mode(req.Mode),
		Messages: msgs,
		Business: models.BusinessContext{
			Industry:       req.BusinessInfo.Industry,
			TargetAudience: req.BusinessInfo.TargetAudience,
			Product:        req.BusinessInfo.Product,
		},
	})
	if err != nil {
		observability.LoggerFromContext(c.Request.Context()).Error("agent request failed",
			"mode", req.Mode, "outcome", mediator.Kind(err), "error", err)
		if errors.Is(err, mediator.ErrMisconfigured) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": errMsgMisconfigured})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": errMsgFailed})
		return
	}
	c.JSON(http.StatusOK, gin.H{"response": reply})
}

func (h *Handler) listModes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"modes": models.Modes()})
}

func (h *Handler) listExchanges(c *gin.Context) {
	if h.exchanges == nil {
		c.JSON(http.StatusOK, gin.H{"exchanges": []models.Exchange{}})
		return
	}
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 500 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 500"})
			return
		}
		limit = n
	}
	list, err := h.exchanges.Recent(c.Request.Context(), limit)
	if err != nil {
		observability.LoggerFromContext(c.Request.Context()).Error("list exchanges failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list exchanges"})
		return
	}
	if list == nil {
		list = []models.Exchange{}
	}
	c.JSON(http.StatusOK, gin.H{"exchanges": list})
}
