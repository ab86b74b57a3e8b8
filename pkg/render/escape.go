package render

import "golang.org/x/net/html"

func escapeText(s string) string { return html.EscapeString(s) }

func escapeAttr(s string) string { return html.EscapeString(s) }
