package render

import "golang.org/x/net/html/atom"

// isVoidElement reports whether tag cannot have children and has no closing
// tag.
func isVoidElement(tag string) bool {
	switch atom.Lookup([]byte(tag)) {
	case atom.Area, atom.Base, atom.Br, atom.Col, atom.Embed, atom.Hr,
		atom.Img, atom.Input, atom.Link, atom.Meta, atom.Param,
		atom.Source, atom.Track, atom.Wbr:
		return true
	}
	return false
}

// isInlineElement reports whether tag is laid out inline and so gets no
// newlines in pretty-printed output.
func isInlineElement(tag string) bool {
	switch atom.Lookup([]byte(tag)) {
	case atom.A, atom.Abbr, atom.B, atom.Bdi, atom.Bdo, atom.Br, atom.Button,
		atom.Cite, atom.Code, atom.Data, atom.Dfn, atom.Em, atom.I, atom.Kbd,
		atom.Label, atom.Mark, atom.Q, atom.S, atom.Samp, atom.Small,
		atom.Span, atom.Strong, atom.Sub, atom.Sup, atom.Time, atom.U,
		atom.Var, atom.Wbr:
		return true
	}
	return false
}

// isRawTextElement reports whether the children of tag are emitted without
// escaping.
func isRawTextElement(tag string) bool {
	switch atom.Lookup([]byte(tag)) {
	case atom.Script, atom.Style:
		return true
	}
	return false
}

// booleanAttrs are attributes rendered as a bare name when set.
var booleanAttrs = map[string]bool{
	"allowfullscreen": true,
	"async":           true,
	"autofocus":       true,
	"checked":         true,
	"controls":        true,
	"defer":           true,
	"disabled":        true,
	"hidden":          true,
	"multiple":        true,
	"novalidate":      true,
	"open":            true,
	"readonly":        true,
	"required":        true,
	"selected":        true,
}

func isBooleanAttr(name string) bool {
	return booleanAttrs[name]
}
