package component

import "github.com/morphonent/morphonent/pkg/async"

// On creates an event prop for the given event type.
// The key is prefixed with "on" (e.g., "click" becomes "onclick").
func On(event string, handler EventHandler) Prop {
	return Prop{Key: "on" + event, Value: handler}
}

// OnAsync creates an event prop whose handler is itself still pending. When
// the event fires, the handler is applied once it settles.
func OnAsync(event string, handler async.Thenable[EventHandler]) Prop {
	return Prop{Key: "on" + event, Value: handler}
}

// Mouse events

// OnClick handles click events.
func OnClick(handler EventHandler) Prop { return On("click", handler) }

// OnDblClick handles double-click events.
func OnDblClick(handler EventHandler) Prop { return On("dblclick", handler) }

// OnMouseDown handles mousedown events.
func OnMouseDown(handler EventHandler) Prop { return On("mousedown", handler) }

// OnMouseUp handles mouseup events.
func OnMouseUp(handler EventHandler) Prop { return On("mouseup", handler) }

// Form events

// OnInput handles input events.
func OnInput(handler EventHandler) Prop { return On("input", handler) }

// OnChange handles change events.
func OnChange(handler EventHandler) Prop { return On("change", handler) }

// OnSubmit handles submit events.
func OnSubmit(handler EventHandler) Prop { return On("submit", handler) }

// Keyboard events

// OnKeyDown handles keydown events.
func OnKeyDown(handler EventHandler) Prop { return On("keydown", handler) }

// OnKeyUp handles keyup events.
func OnKeyUp(handler EventHandler) Prop { return On("keyup", handler) }
