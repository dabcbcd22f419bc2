// Package docs holds the OpenAPI document served by swaggerkit
// swag init regenerates the template from the handler annotations
package docs

import "github.com/swaggo/swag/v2"

const docTemplate = `{
    "openapi": "3.0.3",
    "info": {
        "title": "{{.Title}}",
        "description": "{{escape .Description}}",
        "version": "{{.Version}}"
    },
    "paths": {
        "/csrf-token": {
            "get": {
                "tags": ["CSRF"],
                "summary": "Issue a CSRF token and set the secret cookie",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/contact": {
            "post": {
                "tags": ["Contact"],
                "summary": "Submit the contact form",
                "parameters": [{"name": "X-CSRF-Token", "in": "header", "required": true, "schema": {"type": "string"}}],
                "requestBody": {"content": {"application/json": {"schema": {"$ref": "#/components/schemas/ContactInput"}}}},
                "responses": {"201": {"description": "Created"}, "403": {"description": "CSRF_ERROR; a fresh token is returned in X-CSRF-Token"}}
            }
        },
        "/contact/leads": {
            "get": {
                "tags": ["Contact"],
                "summary": "Recent leads, newest first (admin)",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "limit", "in": "query", "required": false, "schema": {"type": "integer", "minimum": 1, "maximum": 200}}],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "403": {"description": "Requires admin role"}}
            }
        },
        "/contact/leads/{id}": {
            "delete": {
                "tags": ["Contact"],
                "summary": "Delete a lead (admin)",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "schema": {"type": "string", "format": "uuid"}},
                    {"name": "X-CSRF-Token", "in": "header", "required": true, "schema": {"type": "string"}}
                ],
                "responses": {"200": {"description": "OK"}, "403": {"description": "ORIGIN_ERROR, CSRF_ERROR or requires admin role"}, "404": {"description": "Not found"}}
            }
        },
        "/access": {
            "get": {
                "tags": ["Access"],
                "summary": "Evaluate the route table for a path",
                "parameters": [{"name": "path", "in": "query", "required": true, "schema": {"type": "string"}}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/access/rules": {
            "get": {"tags": ["Access"], "summary": "List the route table", "responses": {"200": {"description": "OK"}}}
        },
        "/me": {
            "get": {
                "tags": ["Access"],
                "summary": "Current subject",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/me/subscription": {
            "get": {
                "tags": ["Access"],
                "summary": "Current subscription and unlocked paths",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}
            }
        },
        "/partner/brand-deals": {
            "get": {
                "tags": ["Access"],
                "summary": "Brand deals for partner tier",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}
            }
        },
        "/webhooks/stripe": {
            "post": {
                "tags": ["Webhooks"],
                "summary": "Stripe subscription events",
                "parameters": [{"name": "Stripe-Signature", "in": "header", "required": true, "schema": {"type": "string"}}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid signature or payload"}, "503": {"description": "Signing secret not configured"}}
            }
        },
        "/meta/health": {
            "get": {"tags": ["Meta"], "summary": "Liveness", "responses": {"200": {"description": "OK"}}}
        },
        "/meta/ready": {
            "get": {"tags": ["Meta"], "summary": "Readiness of pg, clickhouse and redis", "responses": {"200": {"description": "OK"}}}
        },
        "/meta/version": {
            "get": {"tags": ["Meta"], "summary": "Build information", "responses": {"200": {"description": "OK"}}}
        }
    },
    "components": {
        "schemas": {
            "ContactInput": {
                "type": "object",
                "required": ["name", "email", "message"],
                "properties": {
                    "name": {"type": "string", "maxLength": 200},
                    "email": {"type": "string", "format": "email"},
                    "company": {"type": "string", "maxLength": 200},
                    "message": {"type": "string", "minLength": 10, "maxLength": 5000}
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Storefront API",
	Description:      "Access control, CSRF tokens and subscription endpoints for the storefront",
	InfoInstanceName: "api",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
