// Package docs registers the OpenAPI document served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/polls": {
            "get": {
                "produces": ["application/json"],
                "tags": ["polls"],
                "summary": "List polls",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.PollResponse"}}},
                    "503": {"description": "Temporarily unavailable", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Create a poll",
                "parameters": [
                    {"description": "Poll data", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.CreatePollRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.PollResponse"}},
                    "400": {"description": "Bad request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/polls/bulk": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Create or update polls in bulk",
                "parameters": [
                    {"description": "Poll trees", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.BulkUpsertPollsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.PollResponse"}}},
                    "400": {"description": "Bad request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/polls/{poll_id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["polls"],
                "summary": "Get a poll",
                "parameters": [{"type": "integer", "description": "Poll ID", "name": "poll_id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.PollResponse"}},
                    "404": {"description": "Poll not found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Delete a poll",
                "parameters": [{"type": "integer", "description": "Poll ID", "name": "poll_id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.MessageResponse"}},
                    "404": {"description": "Poll not found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/polls/{poll_id}/questions": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Add a question to a poll",
                "parameters": [
                    {"type": "integer", "description": "Poll ID", "name": "poll_id", "in": "path", "required": true},
                    {"description": "Question data", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.CreateQuestionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.QuestionResponse"}},
                    "404": {"description": "Poll not found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/questions/{question_id}/options": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Add an option to a question",
                "parameters": [
                    {"type": "integer", "description": "Question ID", "name": "question_id", "in": "path", "required": true},
                    {"description": "Option data", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.CreateOptionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.OptionResponse"}},
                    "404": {"description": "Question not found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/options/{option_id}/vote": {
            "post": {
                "produces": ["application/json"],
                "tags": ["votes"],
                "summary": "Vote for an option",
                "parameters": [{"type": "integer", "description": "Option ID", "name": "option_id", "in": "path", "required": true}],
                "responses": {
                    "201": {"description": "Vote recorded", "schema": {"$ref": "#/definitions/models.VoteResponse"}},
                    "404": {"description": "Option not found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "429": {"description": "Already voted on this question recently", "schema": {"$ref": "#/definitions/models.VoteResponse"}},
                    "503": {"description": "Temporarily unavailable", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/questions/{question_id}/results": {
            "get": {
                "produces": ["application/json"],
                "tags": ["results"],
                "summary": "Question results",
                "parameters": [{"type": "integer", "description": "Question ID", "name": "question_id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.QuestionResults"}},
                    "404": {"description": "Question not found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/questions/{question_id}/live": {
            "get": {
                "produces": ["application/json"],
                "tags": ["results"],
                "summary": "Live question results",
                "parameters": [{"type": "integer", "description": "Question ID", "name": "question_id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.LiveResults"}},
                    "404": {"description": "Question not found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Admin login",
                "parameters": [
                    {"description": "Admin credentials", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.LoginResponse"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "429": {"description": "Too many login attempts", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Admin logout",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.MessageResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "models.ErrorResponse": {
            "type": "object",
            "properties": {"code": {"type": "integer"}, "message": {"type": "string"}, "details": {"type": "string"}}
        },
        "models.MessageResponse": {
            "type": "object",
            "properties": {"message": {"type": "string"}}
        },
        "models.CreatePollRequest": {
            "type": "object",
            "required": ["title"],
            "properties": {"title": {"type": "string", "maxLength": 100}, "description": {"type": "string", "maxLength": 255}}
        },
        "models.CreateQuestionRequest": {
            "type": "object",
            "required": ["text"],
            "properties": {"text": {"type": "string", "maxLength": 255}}
        },
        "models.CreateOptionRequest": {
            "type": "object",
            "required": ["text"],
            "properties": {"text": {"type": "string", "maxLength": 100}}
        },
        "models.BulkUpsertPollsRequest": {
            "type": "object",
            "required": ["polls"],
            "properties": {"polls": {"type": "array", "items": {"$ref": "#/definitions/models.UpsertPollRequest"}}}
        },
        "models.UpsertPollRequest": {
            "type": "object",
            "required": ["title"],
            "properties": {
                "id": {"type": "integer"},
                "title": {"type": "string", "maxLength": 100},
                "description": {"type": "string", "maxLength": 255},
                "questions": {"type": "array", "items": {"$ref": "#/definitions/models.UpsertQuestionRequest"}}
            }
        },
        "models.UpsertQuestionRequest": {
            "type": "object",
            "required": ["text"],
            "properties": {
                "id": {"type": "integer"},
                "text": {"type": "string", "maxLength": 255},
                "options": {"type": "array", "items": {"$ref": "#/definitions/models.UpsertOptionRequest"}}
            }
        },
        "models.UpsertOptionRequest": {
            "type": "object",
            "required": ["text"],
            "properties": {"id": {"type": "integer"}, "text": {"type": "string", "maxLength": 100}}
        },
        "models.PollResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "questions": {"type": "array", "items": {"$ref": "#/definitions/models.QuestionResponse"}}
            }
        },
        "models.QuestionResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "text": {"type": "string"},
                "poll_id": {"type": "integer"},
                "options": {"type": "array", "items": {"$ref": "#/definitions/models.OptionResponse"}}
            }
        },
        "models.OptionResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "text": {"type": "string"},
                "question_id": {"type": "integer"},
                "votes_count": {"type": "integer"}
            }
        },
        "models.VoteResponse": {
            "type": "object",
            "properties": {"message": {"type": "string"}, "vote_id": {"type": "integer"}}
        },
        "models.QuestionResults": {
            "type": "object",
            "properties": {
                "question_id": {"type": "integer"},
                "question_text": {"type": "string"},
                "results": {"type": "array", "items": {"$ref": "#/definitions/models.OptionResult"}}
            }
        },
        "models.OptionResult": {
            "type": "object",
            "properties": {"option_id": {"type": "integer"}, "text": {"type": "string"}, "votes": {"type": "integer"}}
        },
        "models.LiveResults": {
            "type": "object",
            "properties": {
                "question_id": {"type": "integer"},
                "question_text": {"type": "string"},
                "approximate": {"type": "boolean"},
                "results": {"type": "array", "items": {"$ref": "#/definitions/models.LiveOptionResult"}}
            }
        },
        "models.LiveOptionResult": {
            "type": "object",
            "properties": {"option_id": {"type": "integer"}, "text": {"type": "string"}, "approximate_votes": {"type": "integer"}}
        },
        "models.LoginRequest": {
            "type": "object",
            "required": ["username", "password"],
            "properties": {"username": {"type": "string", "maxLength": 50}, "password": {"type": "string"}}
        },
        "models.LoginResponse": {
            "type": "object",
            "properties": {"token": {"type": "string"}, "expires_at": {"type": "string"}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "CleverPoll API",
	Description:      "Polls, rate-limited anonymous voting and tallies",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
