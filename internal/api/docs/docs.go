// Package docs registers the OpenAPI description served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "{{.Title}}",
        "description": "{{escape .Description}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "schemes": {{ marshal .Schemes }},
    "paths": {
        "/v1/accounts": {
            "post": {
                "tags": ["accounts"],
                "summary": "Sign up",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/signUpRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/accountResponse"}},
                    "409": {"description": "Email already in use", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "422": {"description": "Unsupported email domain", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "503": {"description": "Repository unavailable", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/v1/accounts/me": {
            "delete": {
                "tags": ["accounts"],
                "summary": "Delete the logged-in account",
                "responses": {
                    "204": {"description": "Deleted"},
                    "401": {"description": "No active session", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "503": {"description": "Repository unavailable", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/v1/session": {
            "get": {
                "tags": ["session"],
                "summary": "Current session",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/accountResponse"}},
                    "401": {"description": "No active session", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            },
            "post": {
                "tags": ["session"],
                "summary": "Log in",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/logInRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/accountResponse"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            },
            "delete": {
                "tags": ["session"],
                "summary": "Log out",
                "responses": {
                    "204": {"description": "Logged out"},
                    "401": {"description": "No active session", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/v1/admin/accounts": {
            "get": {
                "tags": ["admin"],
                "summary": "List every account",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/accountListResponse"}},
                    "401": {"description": "No active session", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "403": {"description": "Not an admin", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "signUpRequest": {
            "type": "object",
            "required": ["username", "email", "password"],
            "properties": {
                "username": {"type": "string"},
                "email": {"type": "string", "example": "ana@gmail.com"},
                "password": {"type": "string"}
            }
        },
        "logInRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "account": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "username": {"type": "string"},
                "email": {"type": "string"},
                "role": {"type": "string", "enum": ["Admin", "Developer", "Customer", "User"]},
                "balance": {"type": "string"},
                "games": {"type": "array", "items": {"type": "object"}},
                "games_library": {"type": "array", "items": {"type": "object"}},
                "reviews": {"type": "array", "items": {"type": "object"}},
                "shopping_cart": {"type": "object"}
            }
        },
        "accountResponse": {
            "type": "object",
            "properties": {"account": {"$ref": "#/definitions/account"}}
        },
        "accountListResponse": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/account"}},
                "total": {"type": "integer"}
            }
        },
        "errorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Account Service API",
	Description:      "Signup, login, logout and deletion of role-typed accounts.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
