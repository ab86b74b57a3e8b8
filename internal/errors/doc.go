// Package errors provides structured, actionable error messages for
// morphonent.
//
// Every error has a code (e.g., "E002") mapped to a short message, a longer
// explanation and, where one exists, a hint. Errors can be matched with the
// standard library by code:
//
//	if errors.Is(err, merrors.New("E002")) { ... }
//
// # Error Categories
//
//   - runtime: render failures (nil root, missing target, rejected host writes)
//   - hydration: malformed server-rendered markers
//   - protocol: live session failures
//   - config: unreadable or invalid configuration
//   - cli: command-line usage errors
//
// # Usage
//
//	err := errors.New("E002").
//	    WithTarget("#app").
//	    WithSuggestion("Check the selector against the served markup.")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E002: Render target not found
//	//
//	//   #app
//	//
//	//   No element in the document matches the selector given to RenderOn.
//	//
//	//   Hint: Check the selector against the served markup.
package errors
