package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/interviewrally/api/http/presenter"
	"github.com/artem13815/interviewrally/pkg/apperr"
	"github.com/artem13815/interviewrally/pkg/interview"
	"github.com/artem13815/interviewrally/pkg/session"
)

// respondError переводит доменные ошибки в HTTP-статусы. upstreamMsg показывается при сбоях провайдера.
func respondError(c *fiber.Ctx, err error, upstreamMsg string) error {
	var verr *apperr.ValidationError
	switch {
	case errors.As(err, &verr):
		return presenter.Error(c, http.StatusBadRequest, verr.Message)
	case apperr.IsUpstream(err):
		return presenter.Error(c, http.StatusInternalServerError, upstreamMsg)
	case errors.Is(err, interview.ErrNotFound), errors.Is(err, session.ErrNotFound):
		return presenter.Error(c, http.StatusNotFound, err.Error())
	case errors.Is(err, session.ErrClosed), errors.Is(err, session.ErrNotLastQuestion):
		return presenter.Error(c, http.StatusConflict, err.Error())
	case errors.Is(err, session.ErrNoQuestions):
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	default:
		return presenter.Error(c, http.StatusInternalServerError, "internal error")
	}
}
