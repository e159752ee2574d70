package jobdesc

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	"github.com/artem13815/interviewrally/pkg/apperr"
)

// MaxLength ограничивает извлечённый текст лимитом поля описания вакансии.
const MaxLength = 20000

var (
	reTags     = regexp.MustCompile(`<[^>]+>`)
	reSpaces   = regexp.MustCompile(`[ \t\r\f\v]+`)
	reNewlines = regexp.MustCompile(`\n{3,}`)
)

// Result это извлечённый текст вакансии.
type Result struct {
	Text      string `json:"text"`
	Truncated bool   `json:"truncated"`
}

// Extract достаёт текст из загруженного файла вакансии.
// Поддерживаются .pdf, .docx, .txt и .md
func Extract(filename string, data []byte) (Result, error) {
	if len(data) == 0 {
		return Result{}, apperr.Validation("file", "File is empty")
	}
	var (
		text string
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".pdf":
		text, err = extractPDF(data)
	case ".docx":
		text, err = extractDocx(data)
	case ".txt", ".md":
		if !utf8.Valid(data) {
			return Result{}, apperr.Validation("file", "Text file must be UTF-8")
		}
		text = string(data)
	default:
		return Result{}, apperr.Validation("file", "Unsupported file format: only pdf, docx, txt and md are allowed")
	}
	if err != nil {
		return Result{}, apperr.Validation("file", fmt.Sprintf("Could not read %s: %v", filepath.Base(filename), err))
	}

	text = normalizeWhitespace(text)
	if text == "" {
		return Result{}, apperr.Validation("file", "No text found in file")
	}
	return truncate(text), nil
}

func extractPDF(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	rs, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err = io.Copy(&buf, rs); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func extractDocx(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	defer doc.Close()

	xml := doc.Editable().GetContent()
	// Границы абзацев становятся переводами строк, остальная разметка выбрасывается.
	// Сущности раскрываем после удаления тегов, чтобы "&lt;" остался текстом.
	xml = strings.ReplaceAll(xml, "</w:p>", "\n")
	xml = strings.ReplaceAll(xml, "<w:tab/>", "\t")
	return html.UnescapeString(reTags.ReplaceAllString(xml, "")), nil
}

func normalizeWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\u00A0", " ")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = reSpaces.ReplaceAllString(s, " ")
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	s = reNewlines.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(s)
}

func truncate(s string) Result {
	if utf8.RuneCountInString(s) <= MaxLength {
		return Result{Text: s}
	}
	runes := []rune(s)
	return Result{Text: strings.TrimSpace(string(runes[:MaxLength])), Truncated: true}
}
