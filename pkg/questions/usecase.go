package questions

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/artem13815/interviewrally/pkg/apperr"
	"github.com/artem13815/interviewrally/pkg/llm"
)

// UseCase генерирует вопросы к собеседованию по описанию вакансии.
type UseCase interface {
	Generate(ctx context.Context, jobDescription string) (string, error)
	GenerateList(ctx context.Context, jobDescription string) ([]string, error)
}

type Generator struct {
	model        llm.ChatModel
	systemPrompt string
	timeout      time.Duration
}

func NewService(model llm.ChatModel, systemPrompt string, timeout time.Duration) *Generator {
	return &Generator{model: model, systemPrompt: systemPrompt, timeout: timeout}
}

// Generate делает ровно один вызов чата, без повторов.
func (g *Generator) Generate(ctx context.Context, jobDescription string) (string, error) {
	if strings.TrimSpace(jobDescription) == "" {
		return "", apperr.Validation("jobDescription", "Job description is required")
	}
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	raw, err := g.model.Ask(ctx, g.systemPrompt, jobDescription)
	if err != nil {
		return "", apperr.Upstream("generate questions", err)
	}
	if strings.TrimSpace(raw) == "" {
		return "", apperr.Upstream("generate questions", errors.New("empty completion"))
	}
	return raw, nil
}

// GenerateList это Generate, а затем Format.
func (g *Generator) GenerateList(ctx context.Context, jobDescription string) ([]string, error) {
	raw, err := g.Generate(ctx, jobDescription)
	if err != nil {
		return nil, err
	}
	return Format(raw), nil
}
