package web

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"
)

// raw HTML from model output is dropped by goldmark unless WithUnsafe is set
var md = goldmark.New(goldmark.WithRendererOptions(html.WithHardWraps()))

func renderMarkdown(src string) string {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return ""
	}
	return buf.String()
}
