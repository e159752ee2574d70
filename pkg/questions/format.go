package questions

import (
	"regexp"
	"strings"
)

var (
	lineBreaks     = regexp.MustCompile(`\n+`)
	numberedPrefix = regexp.MustCompile(`^\d+\.\s*`)
)

// Format превращает нумерованный список модели в чистые строки вопросов.
// Не возвращает ошибок и идемпотентна; результат может быть пустым.
func Format(raw string) []string {
	out := []string{}
	for _, line := range lineBreaks.Split(raw, -1) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		q := line
		for numberedPrefix.MatchString(q) {
			q = strings.TrimSpace(numberedPrefix.ReplaceAllString(q, ""))
		}
		if q == "" {
			continue
		}
		out = append(out, q)
	}
	return out
}
