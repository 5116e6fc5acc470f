package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
	DocURL     string
}

const docBase = "https://pagebake.dev/docs/errors/"

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Config Errors (E100-E109)
	// ============================================

	"E100": {
		Category:   CategoryConfig,
		Message:    "Project configuration not found",
		Detail:     "No pagebake.toml or pagebake.json was found in the project directory.",
		Suggestion: "Run 'pagebake init' to create one.",
		DocURL:     docBase + "E100",
	},
	"E101": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Detail:   "The configuration file could not be parsed.",
		DocURL:   docBase + "E101",
	},
	"E102": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
		Detail:   "A configuration value is out of range or names an unknown list format or publish target.",
		DocURL:   docBase + "E102",
	},
	"E103": {
		Category: CategoryConfig,
		Message:  "Cannot write configuration file",
		DocURL:   docBase + "E103",
	},

	// ============================================
	// Manifest Errors (E110-E119)
	// ============================================

	"E110": {
		Category:   CategoryManifest,
		Message:    "Site manifest not found",
		Detail:     "The manifest named by the 'manifest' setting does not exist.",
		Suggestion: "Create site.hcl or point 'manifest' in pagebake.toml at your manifest.",
		DocURL:     docBase + "E110",
	},
	"E111": {
		Category: CategoryManifest,
		Message:  "Manifest syntax error",
		Detail:   "The manifest is not valid HCL.",
		DocURL:   docBase + "E111",
	},
	"E112": {
		Category: CategoryManifest,
		Message:  "Invalid manifest block",
		Detail:   "A block or attribute in the manifest has the wrong shape or type.",
		DocURL:   docBase + "E112",
	},
	"E113": {
		Category:   CategoryManifest,
		Message:    "Route has no content",
		Detail:     "Every route needs exactly one of 'html' or 'file'.",
		Suggestion: `route "/about" { file = "pages/about.html" }`,
		DocURL:     docBase + "E113",
	},
	"E114": {
		Category: CategoryManifest,
		Message:  "Cannot read page file",
		Detail:   "A page's 'file' could not be read. Paths are relative to the manifest that names them.",
		DocURL:   docBase + "E114",
	},
	"E115": {
		Category: CategoryManifest,
		Message:  "Manifest include cycle",
		Detail:   "A merge block includes a manifest that is already being loaded.",
		DocURL:   docBase + "E115",
	},

	// ============================================
	// Route Tree Errors (E120-E129)
	// ============================================

	"E120": {
		Category:   CategoryRoute,
		Message:    "Duplicate route",
		Detail:     "The same path is registered twice on one tree level.",
		Suggestion: "Remove one of the registrations or give it a different path.",
		DocURL:     docBase + "E120",
	},
	"E121": {
		Category:   CategoryRoute,
		Message:    "Duplicate resolved path",
		Detail:     "Two routes resolve to the same absolute path after nest prefixes are joined.",
		Suggestion: "Rename one of the routes or move it under a different prefix.",
		DocURL:     docBase + "E121",
	},
	"E122": {
		Category: CategoryRoute,
		Message:  "Duplicate prefix",
		Detail:   "The same prefix is nested twice on one tree level.",
		DocURL:   docBase + "E122",
	},
	"E123": {
		Category:   CategoryRoute,
		Message:    "Duplicate fallback",
		Detail:     "A tree level can have at most one fallback page, including after a merge.",
		Suggestion: "Keep one fallback per level and nest the other under a prefix.",
		DocURL:     docBase + "E123",
	},
	"E124": {
		Category: CategoryRoute,
		Message:  "Invalid route path",
		Detail:   "Route paths cannot contain backslashes, '.' or '..' segments, query strings or fragments.",
		DocURL:   docBase + "E124",
	},
	"E125": {
		Category: CategoryRoute,
		Message:  "Invalid endpoint",
		Detail:   "A route was registered without content, a redirect without a target, or a fallback that is not a page.",
		DocURL:   docBase + "E125",
	},
	"E126": {
		Category:   CategoryRoute,
		Message:    "Redirect cycle",
		Detail:     "Following redirects from this path returns to a path already visited.",
		Suggestion: "Point one redirect in the chain at a page.",
		DocURL:     docBase + "E126",
	},

	// ============================================
	// Render Errors (E130-E139)
	// ============================================

	"E130": {
		Category: CategoryRender,
		Message:  "Page failed to render",
		Detail:   "A page generator returned an error or panicked. Nothing was written.",
		DocURL:   docBase + "E130",
	},
	"E131": {
		Category:   CategoryRender,
		Message:    "Output file collision",
		Detail:     "Two routes render to the same file, such as '/docs/' and '/docs/index'.",
		Suggestion: "Remove one of the two routes.",
		DocURL:     docBase + "E131",
	},

	// ============================================
	// Publish Errors (E140-E149)
	// ============================================

	"E140": {
		Category: CategoryPublish,
		Message:  "Some files could not be written",
		Detail:   "Every file was attempted; the ones listed failed and the rest were written.",
		DocURL:   docBase + "E140",
	},
	"E141": {
		Category: CategoryPublish,
		Message:  "Cannot open publish target",
		Detail:   "The output directory, bucket client or archive could not be set up.",
		DocURL:   docBase + "E141",
	},

	// ============================================
	// CLI Errors (E150-E159)
	// ============================================

	"E150": {
		Category: CategoryCLI,
		Message:  "Invalid command usage",
		DocURL:   docBase + "E150",
	},
	"E151": {
		Category: CategoryCLI,
		Message:  "Cannot write metrics file",
		DocURL:   docBase + "E151",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
