package jobdesc

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/interviewrally/pkg/apperr"
)

func TestExtractPlainText(t *testing.T) {
	in := "  Senior Go Engineer\r\n\r\n\r\n\r\nWe build   APIs. Remote.\t\n"
	res, err := Extract("posting.TXT", []byte(in))
	require.NoError(t, err)
	assert.Equal(t, "Senior Go Engineer\n\nWe build APIs. Remote.", res.Text)
	assert.False(t, res.Truncated)
}

func TestExtractMarkdown(t *testing.T) {
	res, err := Extract("job.md", []byte("# Role\n- Go\n- Postgres"))
	require.NoError(t, err)
	assert.Equal(t, "# Role\n- Go\n- Postgres", res.Text)
}

func TestExtractTruncatesLongText(t *testing.T) {
	in := strings.Repeat("é", MaxLength+10)
	res, err := Extract("long.txt", []byte(in))
	require.NoError(t, err)
	assert.True(t, res.Truncated)
	assert.Equal(t, MaxLength, utf8.RuneCountInString(res.Text))
}

func TestExtractRejects(t *testing.T) {
	cases := map[string]struct {
		name string
		data []byte
	}{
		"empty":       {"a.txt", nil},
		"unsupported": {"a.exe", []byte("MZ")},
		"blank":       {"a.txt", []byte("  \n\t ")},
		"not utf8":    {"a.txt", []byte{0xff, 0xfe, 0xfd}},
		"broken pdf":  {"a.pdf", []byte("not a pdf")},
		"broken docx": {"a.docx", []byte("not a zip")},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Extract(tc.name, tc.data)
			require.Error(t, err)
			assert.True(t, apperr.IsValidation(err))
		})
	}
}

func buildDocx(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	files := map[string]string{
		"word/document.xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
			body + `</w:body></w:document>`,
		"word/_rels/document.xml.rels": `<?xml version="1.0" encoding="UTF-8"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
	}
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestExtractDocxDecodesEntities(t *testing.T) {
	data := buildDocx(t,
		`<w:p><w:r><w:t>R&amp;D team &quot;Core&quot;</w:t></w:r></w:p>`+
			`<w:p><w:r><w:t>Salary &lt;200k&gt;</w:t><w:tab/><w:t>it&apos;s remote</w:t></w:r></w:p>`)

	res, err := Extract("posting.docx", data)
	require.NoError(t, err)
	assert.Equal(t, "R&D team \"Core\"\nSalary <200k> it's remote", res.Text)
}
