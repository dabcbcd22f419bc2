//go:build swag

package swaggerkit

import (
	"encoding/json"
	"net/http"
	"strings"

	"storefront/internal/platform/config"

	docs "storefront/internal/services/api/docs"
)

// SpecMutator lets modules tweak the parsed swagger spec before it is served
type SpecMutator func(map[string]any)

// mutators is the in process registry for spec mutators
var mutators []SpecMutator

// docReader is a seam so tests can inject invalid JSON without patching swagger
var docReader = func() string { return docs.SwaggerInfo.ReadDoc() }

// Register adds a spec mutator for swagger JSON
// call this from module init so it is wired automatically
func Register(m SpecMutator) {
	if m != nil {
		mutators = append(mutators, m)
	}
}

// serveDocJSON serves swagger JSON and lets modules adjust details
func serveDocJSON() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := docReader()

		var spec map[string]any
		if err := json.Unmarshal([]byte(raw), &spec); err != nil {
			http.Error(w, "spec parse error", http.StatusInternalServerError)
			return
		}

		// OAS3 base url lives in servers, not BasePath
		ensureServers(spec, "/api/v1")

		// optional global tweaks go here
		cfg := config.New().Prefix("CORE_API_")
		if v := cfg.MayString("DOCS_TITLE_SUFFIX", ""); v != "" {
			if info, ok := spec["info"].(map[string]any); ok {
				if title, ok := info["title"].(string); ok {
					info["title"] = title + " " + v
				}
			}
		}

		ensureErrorResponseDefinition(spec)
		ensureBearerScheme(spec)
		addDefaultErrors(spec)

		for _, m := range mutators {
			m(spec)
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(spec)
	}
}

// ensureServers makes sure the spec is OAS3 and has a servers array
// swagger http ui can't support 3.1 at the moment, so downconvert if needed
func ensureServers(spec map[string]any, url string) {
	// if it's swagger 2, lift to oas3
	if _, hasSwagger := spec["swagger"]; hasSwagger {
		spec["openapi"] = "3.0.3"
		delete(spec, "swagger")
	}

	// if it's already oas3, downsample 3.1 -> 3.0.3
	if v, ok := spec["openapi"].(string); ok {
		if strings.HasPrefix(v, "3.1") {
			spec["openapi"] = "3.0.3"
		}
	} else {
		// no version set at all: pick a sane default
		spec["openapi"] = "3.0.3"
	}

	// ensure servers
	if _, ok := spec["servers"]; !ok {
		spec["servers"] = []any{
			map[string]any{"url": url},
		}
	}
}

// ensureErrorResponseDefinition creates a simple error envelope model if missing
// kept minimal so it does not drift from the runtime wire
func ensureErrorResponseDefinition(spec map[string]any) {
	comps, ok := spec["components"].(map[string]any)
	if !ok {
		comps = map[string]any{}
		spec["components"] = comps
	}
	schemas, ok := comps["schemas"].(map[string]any)
	if !ok {
		schemas = map[string]any{}
		comps["schemas"] = schemas
	}
	if _, ok := schemas["ErrorResponse"]; ok {
		return
	}
	schemas["ErrorResponse"] = map[string]any{
		"type":        "object",
		"description": "Standard error response",
		"properties": map[string]any{
			"status_code": map[string]any{"type": "integer", "format": "int32"},
			"status":      map[string]any{"type": "string"},
			"code":        map[string]any{"type": "string", "example": "CSRF_ERROR"},
			"error":       map[string]any{"type": "string"},
			"message":     map[string]any{"type": "string"},
			"field":       map[string]any{"type": "string"},
			"redirect":    map[string]any{"type": "string"},
			"request_id":  map[string]any{"type": "string"},
		},
		"required": []any{"status_code", "status", "code"},
	}
}

// ensureBearerScheme declares the BearerAuth scheme referenced by @Security annotations
func ensureBearerScheme(spec map[string]any) {
	comps, _ := spec["components"].(map[string]any)
	if comps == nil {
		return
	}
	schemes, ok := comps["securitySchemes"].(map[string]any)
	if !ok {
		schemes = map[string]any{}
		comps["securitySchemes"] = schemes
	}
	if _, ok := schemes["BearerAuth"]; !ok {
		schemes["BearerAuth"] = map[string]any{"type": "http", "scheme": "bearer", "bearerFormat": "JWT"}
	}
}

// errorExample renders a wire error as an OAS3 response with the shared schema
func errorExample(status int, desc string, example map[string]any) map[string]any {
	example["status_code"] = status
	example["status"] = desc
	example["request_id"] = "storefront/abc-000001"
	return map[string]any{
		"description": desc,
		"content": map[string]any{
			"application/json": map[string]any{
				"schema":  map[string]any{"$ref": "#/components/schemas/ErrorResponse"},
				"example": example,
			},
		},
	}
}

// eachOperation calls fn for every operation under paths with its method
func eachOperation(spec map[string]any, fn func(method string, responses map[string]any)) {
	paths, ok := spec["paths"].(map[string]any)
	if !ok {
		return
	}
	for _, p := range paths {
		node, ok := p.(map[string]any)
		if !ok {
			continue
		}
		for method, opAny := range node {
			op, ok := opAny.(map[string]any)
			if !ok {
				continue
			}
			responses, ok := op["responses"].(map[string]any)
			if !ok {
				responses = map[string]any{}
				op["responses"] = responses
			}
			fn(method, responses)
		}
	}
}

// addDefaultErrors fills 500 and 400 on every operation and the forgery 403 on writes
func addDefaultErrors(spec map[string]any) {
	internal := errorExample(http.StatusInternalServerError, "Internal Server Error", map[string]any{
		"code": "UNKNOWN", "error": "Internal error", "message": "internal error",
	})
	invalid := errorExample(http.StatusBadRequest, "Bad Request", map[string]any{
		"code": "VALIDATION_ERROR", "error": "Invalid request",
		"message": "email must be a valid email address", "field": "email",
	})
	forgery := errorExample(http.StatusForbidden, "Forbidden", map[string]any{
		"code": "CSRF_ERROR", "error": "CSRF validation failed", "message": "Invalid or missing CSRF token.",
	})

	eachOperation(spec, func(method string, responses map[string]any) {
		setDefault(responses, "500", internal)
		setDefault(responses, "400", invalid)
		switch strings.ToLower(method) {
		case "post", "put", "patch", "delete":
			setDefault(responses, "403", forgery)
		}
	})
}

func setDefault(responses map[string]any, status string, resp map[string]any) {
	if _, exists := responses[status]; !exists {
		responses[status] = resp
	}
}
