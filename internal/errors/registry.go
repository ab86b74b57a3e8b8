package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Runtime Errors (E001-E039)
	// ============================================

	"E001": {
		Category:   CategoryRuntime,
		Message:    "Render root is nil",
		Detail:     "Render needs a live host node to attach the tree and its registry to.",
		Suggestion: "Pass document.Body() or an element returned by QuerySelector.",
	},
	"E002": {
		Category:   CategoryRuntime,
		Message:    "Render target not found",
		Detail:     "No element in the document matches the selector given to RenderOn.",
		Suggestion: "Check the selector against the served markup.",
	},
	"E003": {
		Category: CategoryRuntime,
		Message:  "Invalid selector",
		Detail:   "The selector given to RenderOn could not be parsed.",
	},
	"E004": {
		Category: CategoryRuntime,
		Message:  "Host write failed",
		Detail:   "The host document rejected a mutation while reconciling a subtree.",
	},

	// ============================================
	// Hydration Errors (E040-E059)
	// ============================================

	"E040": {
		Category:   CategoryHydration,
		Message:    "Invalid hydration marker",
		Detail:     "A server-rendered node carries a marker that is not a path id. The node is ignored and will be rebuilt.",
		Suggestion: "Markers must look like R, R/0 or R/0/3.",
	},

	// ============================================
	// Protocol Errors (E060-E079)
	// ============================================

	"E060": {
		Category: CategoryProtocol,
		Message:  "WebSocket connection failed",
		Detail:   "The live session could not be upgraded to a WebSocket connection.",
	},
	"E061": {
		Category: CategoryProtocol,
		Message:  "Invalid client message",
		Detail:   "The client sent a frame that is not a valid message.",
	},
	"E062": {
		Category:   CategoryProtocol,
		Message:    "Unknown event target",
		Detail:     "The client referenced a path id that is not registered in the session.",
		Suggestion: "The page is probably stale. Reload it to start a new session.",
	},

	// ============================================
	// Config Errors (E120-E139)
	// ============================================

	"E120": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Detail:   "The configuration file could not be parsed.",
	},
	"E121": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
		Detail:   "A configuration value failed validation.",
	},

	// ============================================
	// CLI Errors (E140-E159)
	// ============================================

	"E140": {
		Category:   CategoryCLI,
		Message:    "Unknown demo app",
		Detail:     "The requested app is not one of the built-in demos.",
		Suggestion: "Run 'morphonent serve --help' to list the available apps.",
	},
	"E141": {
		Category:   CategoryCLI,
		Message:    "Configuration file not found",
		Detail:     "The configuration file named on the command line does not exist.",
		Suggestion: "Omit --config to run with defaults.",
	},
}

// GetAllCodes returns all registered error codes, sorted.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
