package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/artem13815/interviewrally/api/http/presenter"
	"github.com/artem13815/interviewrally/pkg/security/jwt"
)

// ClientHandler выдаёт анонимные идентификаторы клиентов.
type ClientHandler struct {
	tokens *jwt.Generator
}

func NewClientHandler(tokens *jwt.Generator) *ClientHandler { return &ClientHandler{tokens: tokens} }

type clientResponse struct {
	ClientID  string    `json:"clientId"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Create выдаёт новый анонимный идентификатор клиента и токен к нему.
// @Summary Зарегистрировать клиента
// @Description История интервью хранится отдельно для каждого клиента. Токен передаётся в заголовке Authorization.
// @Tags    clients
// @Produce json
// @Success 201 {object} clientResponse
// @Failure 500 {object} presenter.ErrorResponse
// @Router  /v1/clients [post]
func (h *ClientHandler) Create(c *fiber.Ctx) error {
	id := uuid.NewString()
	token, exp, err := h.tokens.Generate(c.Context(), id)
	if err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "failed to issue token")
	}
	return presenter.JSON(c, http.StatusCreated, clientResponse{ClientID: id, Token: token, ExpiresAt: exp})
}
