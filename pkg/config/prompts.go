package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const defaultSystemPrompt = "You are an expert interview coach. Generate 10 detailed and challenging interview questions based on the job description provided. Format the response as a numbered list with each question on a new line starting with a number followed by a period and a space. Focus on technical skills, behavioral scenarios, and problem-solving abilities relevant to the position."

// Prompts содержит роль для генерации и фиксированные настройки голоса.
type Prompts struct {
	Generation GenerationPrompt `yaml:"generation"`
	Speech     SpeechSettings   `yaml:"speech"`
}

type GenerationPrompt struct {
	SystemPrompt string  `yaml:"system_prompt"`
	Temperature  float64 `yaml:"temperature"`
	MaxTokens    int     `yaml:"max_tokens"`
}

type SpeechSettings struct {
	Voice  string  `yaml:"voice"`
	Speed  float64 `yaml:"speed"`
	Format string  `yaml:"format"`
	// ReadAllSeparator склеивает вопросы, когда весь список читается одним клипом.
	ReadAllSeparator string `yaml:"read_all_separator"`
}

func DefaultPrompts() Prompts {
	return Prompts{
		Generation: GenerationPrompt{
			SystemPrompt: defaultSystemPrompt,
			Temperature:  0.7,
			MaxTokens:    1000,
		},
		Speech: SpeechSettings{
			Voice:            "shimmer",
			Speed:            1.0,
			Format:           "mp3",
			ReadAllSeparator: ". Next question. ",
		},
	}
}

// LoadPrompts накладывает YAML-файл на значения по умолчанию и проверяет результат.
func LoadPrompts(filename string) (Prompts, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Prompts{}, fmt.Errorf("read prompts file %s: %w", filename, err)
	}

	p := DefaultPrompts()
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Prompts{}, fmt.Errorf("parse prompts YAML: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Prompts{}, fmt.Errorf("invalid prompts file %s: %w", filename, err)
	}
	return p, nil
}

func (p Prompts) Validate() error {
	if p.Generation.SystemPrompt == "" {
		return fmt.Errorf("generation.system_prompt must not be empty")
	}
	if p.Generation.Temperature < 0 || p.Generation.Temperature > 2 {
		return fmt.Errorf("generation.temperature must be between 0 and 2")
	}
	if p.Generation.MaxTokens <= 0 {
		return fmt.Errorf("generation.max_tokens must be positive")
	}
	if p.Speech.Voice == "" {
		return fmt.Errorf("speech.voice must not be empty")
	}
	if p.Speech.Speed < 0.25 || p.Speech.Speed > 4 {
		return fmt.Errorf("speech.speed must be between 0.25 and 4")
	}
	switch p.Speech.Format {
	case "mp3", "opus", "aac", "flac", "wav", "pcm":
	default:
		return fmt.Errorf("unsupported speech.format %q", p.Speech.Format)
	}
	return nil
}
