// Package docs holds the OpenAPI document for the Task Manager API.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register",
                "parameters": [
                    {"description": "New account", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.MessageResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Login",
                "parameters": [
                    {"description": "Credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.LoginResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/logout": {
            "post": {
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Logout",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.MessageResponse"}}
                }
            }
        },
        "/check-session": {
            "get": {
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Report the logged-in user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SessionResponse"}}
                }
            }
        },
        "/tasks": {
            "get": {
                "description": "Default tasks for everyone, plus the caller's own tasks when logged in.",
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "List visible tasks",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/dto.TaskResponse"}}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"CookieAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "Create a task",
                "parameters": [
                    {"description": "Task body", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.CreateTaskRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.CreateTaskResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/tasks/{id}": {
            "put": {
                "security": [{"CookieAuth": []}],
                "description": "Partial update: absent fields keep their values.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "Update a task",
                "parameters": [
                    {"type": "integer", "description": "Task ID", "name": "id", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.UpdateTaskRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.TaskResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"CookieAuth": []}],
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "Delete a task",
                "parameters": [
                    {"type": "integer", "description": "Task ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.MessageResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "dto.CreateTaskRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string", "maxLength": 120},
                "description": {"type": "string", "maxLength": 200},
                "due_date": {"type": "string", "maxLength": 120}
            }
        },
        "dto.CreateTaskResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "message": {"type": "string"}
            }
        },
        "dto.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"}
            }
        },
        "dto.LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "dto.LoginResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "user_id": {"type": "integer"},
                "username": {"type": "string"}
            }
        },
        "dto.MessageResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"}
            }
        },
        "dto.RegisterRequest": {
            "type": "object",
            "required": ["email", "password", "username"],
            "properties": {
                "email": {"type": "string", "maxLength": 120},
                "password": {"type": "string", "maxLength": 72},
                "username": {"type": "string", "maxLength": 80}
            }
        },
        "dto.SessionResponse": {
            "type": "object",
            "properties": {
                "logged_in": {"type": "boolean"},
                "message": {"type": "string"},
                "user_id": {"type": "integer"},
                "username": {"type": "string"}
            }
        },
        "dto.TaskResponse": {
            "type": "object",
            "properties": {
                "completed": {"type": "boolean"},
                "description": {"type": "string"},
                "due_date": {"type": "string"},
                "id": {"type": "integer"},
                "title": {"type": "string"},
                "user_id": {"type": "integer"}
            }
        },
        "dto.UpdateTaskRequest": {
            "type": "object",
            "properties": {
                "completed": {"type": "boolean"},
                "description": {"type": "string", "maxLength": 200},
                "due_date": {"type": "string", "maxLength": 120},
                "title": {"type": "string", "maxLength": 120}
            }
        }
    },
    "securityDefinitions": {
        "CookieAuth": {
            "type": "apiKey",
            "name": "session_id",
            "in": "cookie"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Task Manager API",
	Description:      "To-do list API with cookie sessions and shared default tasks.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
