// Package render serializes live host subtrees to HTML that package morph
// can hydrate.
//
// The root is annotated as "R" and every element the engine rendered is
// annotated with its path id, so a fresh engine pointed at the parsed markup
// adopts the existing nodes instead of rebuilding them:
//
//	renderer := render.NewRenderer(render.RendererConfig{TextMarkers: true})
//	html, err := renderer.RenderToString(container)
//
// With TextMarkers, text nodes are preceded by a "<!--marker=id-->" comment
// so that text mixed with elements is adopted too. Without it, a marked
// element whose children are all text is cleared on hydration and its text
// rebuilt by the first render.
//
// # Full Page Rendering
//
//	page := render.PageData{
//	    Root:      container,
//	    Title:     "Counter",
//	    SessionID: session.ID,
//	    LiveURL:   "/live",
//	}
//	err := renderer.RenderPage(w, page)
//
// For large pages, StreamingRenderer flushes the head before the body.
//
// # Security
//
// Text and attribute values are escaped. Children of script and style
// elements are written as they are.
package render
