package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Dars API",
        "description": "Islamic audio lessons content service",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http",
        "https"
    ],
    "tags": [
        {"name": "Auth", "description": "Registration, login and email verification"},
        {"name": "Themes", "description": "Top-level content categories"},
        {"name": "Authors", "description": "Classical book authors"},
        {"name": "Books", "description": "Books studied across lesson series"},
        {"name": "Teachers", "description": "Lesson teachers"},
        {"name": "Series", "description": "Lesson series"},
        {"name": "Lessons", "description": "Lessons and audio delivery"},
        {"name": "Tests", "description": "Series tests and questions"},
        {"name": "Feedback", "description": "Support threads"},
        {"name": "Bookmarks", "description": "Playback positions"},
        {"name": "Settings", "description": "Runtime SMTP configuration"},
        {"name": "Statistics", "description": "Content dashboard aggregates"}
    ],
    "paths": {
        "/auth/register": {
            "post": {
                "tags": ["Auth"],
                "summary": "Register an account",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/User"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Log in with email and password",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/LoginResponse"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/auth/verify": {
            "get": {
                "tags": ["Auth"],
                "summary": "Verify an email address",
                "parameters": [
                    {"name": "token", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Verified"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Auth"],
                "summary": "Get the authenticated account",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/User"}}
                }
            }
        },
        "/themes": {
            "get": {
                "tags": ["Themes"],
                "summary": "List themes",
                "parameters": [
                    {"name": "skip", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "include_inactive", "in": "query", "type": "boolean"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Page"}}
                }
            },
            "post": {
                "tags": ["Themes"],
                "summary": "Create theme",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ThemeRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Theme"}},
                    "409": {"description": "Duplicate name", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/themes/{id}": {
            "get": {
                "tags": ["Themes"],
                "summary": "Get theme with dependent counts",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Theme"}}
                }
            },
            "put": {
                "tags": ["Themes"],
                "summary": "Update theme",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ThemeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Theme"}}
                }
            },
            "delete": {
                "tags": ["Themes"],
                "summary": "Delete theme",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "409": {"description": "Dependent records exist", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/series/{id}/lessons": {
            "get": {
                "tags": ["Series"],
                "summary": "List active lessons of a series as a bare array",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Lesson"}}}
                }
            }
        },
        "/lessons/{id}/audio": {
            "get": {
                "tags": ["Lessons"],
                "summary": "Stream lesson audio with HTTP Range support",
                "produces": ["audio/mpeg"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "Range", "in": "header", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Full content"},
                    "206": {"description": "Partial content"},
                    "416": {"description": "Range not satisfiable"}
                }
            },
            "post": {
                "tags": ["Lessons"],
                "summary": "Upload lesson audio (multipart, max 200 MB)",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "file", "in": "formData", "required": true, "type": "file"}
                ],
                "responses": {
                    "200": {"description": "Processed", "schema": {"$ref": "#/definitions/AudioUploadResult"}},
                    "413": {"description": "Payload too large", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/statistics": {
            "get": {
                "tags": ["Statistics"],
                "summary": "Get content statistics",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Statistics"}}
                }
            }
        },
        "/statistics/export": {
            "get": {
                "tags": ["Statistics"],
                "summary": "Export statistics as csv or pdf",
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "Document"}
                }
            }
        }
    },
    "definitions": {
        "Page": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"type": "object"}},
                "total": {"type": "integer"},
                "skip": {"type": "integer"},
                "limit": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "RegisterRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"},
                "first_name": {"type": "string"},
                "last_name": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "LoginResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "expires_at": {"type": "string"},
                "user": {"$ref": "#/definitions/User"}
            }
        },
        "User": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "email": {"type": "string"},
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "role_level": {"type": "integer"},
                "is_active": {"type": "boolean"},
                "email_verified": {"type": "boolean"}
            }
        },
        "Theme": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "description": {"type": "string"},
                "sort_order": {"type": "integer"},
                "is_active": {"type": "boolean"}
            }
        },
        "ThemeRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "description": {"type": "string"},
                "sort_order": {"type": "integer"}
            },
            "required": ["name"]
        },
        "Lesson": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "title": {"type": "string"},
                "lesson_number": {"type": "integer"},
                "duration_seconds": {"type": "integer"},
                "audio_path": {"type": "string"},
                "is_active": {"type": "boolean"}
            }
        },
        "AudioUploadResult": {
            "type": "object",
            "properties": {
                "processed_path": {"type": "string"},
                "duration_seconds": {"type": "integer"}
            }
        },
        "Statistics": {
            "type": "object",
            "properties": {
                "themes": {"type": "object"},
                "books": {"type": "object"},
                "authors": {"type": "object"},
                "teachers": {"type": "object"},
                "series": {"type": "object"},
                "lessons": {"type": "object"},
                "users": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
