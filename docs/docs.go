// Package docs holds the OpenAPI description served at /docs.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/v1/card-service/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "Service healthy", "schema": {"$ref": "#/definitions/dto.HealthResponse"}},
                    "503": {"description": "Service unhealthy", "schema": {"$ref": "#/definitions/dto.HealthResponse"}}
                }
            }
        },
        "/api/v1/card-service/ready": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Readiness check",
                "responses": {"200": {"description": "Service ready"}, "503": {"description": "Service not ready"}}
            }
        },
        "/api/v1/card-service/live": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Liveness check",
                "responses": {"200": {"description": "Service alive"}}
            }
        },
        "/api/v1/card-service/styles": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Catalog"],
                "summary": "List styles",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.StylesResponse"}}}
            }
        },
        "/api/v1/card-service/recipients": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Catalog"],
                "summary": "Search recipients",
                "parameters": [
                    {"type": "string", "description": "Name fragment", "name": "q", "in": "query"},
                    {"type": "integer", "default": 20, "maximum": 100, "minimum": 1, "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.RecipientsResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/v1/card-service/cards/generate": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Cards"],
                "summary": "Generate a card",
                "parameters": [
                    {"description": "Card parameters", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.GenerateCardRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.GenerateCardResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Recipient not found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "502": {"description": "Generation failed", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "503": {"description": "Generation rate limited", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/v1/card-service/cards/regenerate/text": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Cards"],
                "summary": "Regenerate text",
                "parameters": [
                    {"description": "Session and optional new parameters", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.RegenerateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.RegenerateTextResponse"}},
                    "404": {"description": "Session not found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "410": {"description": "Session expired", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "429": {"description": "Regeneration limit exceeded", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/v1/card-service/cards/regenerate/image": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Cards"],
                "summary": "Regenerate image",
                "parameters": [
                    {"description": "Session and optional new parameters", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.RegenerateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.RegenerateImageResponse"}},
                    "404": {"description": "Session not found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "410": {"description": "Session expired", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "429": {"description": "Regeneration limit exceeded", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/v1/card-service/cards/send": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Cards"],
                "summary": "Send a card",
                "parameters": [
                    {"description": "Selection", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.SendCardRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SendCardResponse"}},
                    "404": {"description": "Session or variant not found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "410": {"description": "Session expired", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/v1/card-service/cards/sessions/{sessionId}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Cards"],
                "summary": "Get session status",
                "parameters": [{"type": "string", "name": "sessionId", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SessionStatusResponse"}},
                    "404": {"description": "Session not found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "410": {"description": "Session expired", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/v1/card-service/cards/sessions/{sessionId}/images/{imageId}": {
            "get": {
                "produces": ["image/png"],
                "tags": ["Cards"],
                "summary": "Download an image variant",
                "parameters": [
                    {"type": "string", "name": "sessionId", "in": "path", "required": true},
                    {"type": "string", "name": "imageId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "404": {"description": "Session or image not found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/v1/card-service/cards/sessions/{sessionId}/events": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Cards"],
                "summary": "List session audit events",
                "parameters": [
                    {"type": "string", "name": "sessionId", "in": "path", "required": true},
                    {"type": "integer", "default": 50, "maximum": 200, "minimum": 1, "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SessionEventsResponse"}},
                    "503": {"description": "Audit store unavailable", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/v1/card-service/cards/deliveries/{deliveryId}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Cards"],
                "summary": "Get a delivery receipt",
                "parameters": [{"type": "string", "name": "deliveryId", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.DeliveryReceipt"}},
                    "404": {"description": "Receipt not found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "dto.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "details": {"type": "string"},
                "elementType": {"type": "string"},
                "index": {"type": "integer"},
                "max": {"type": "integer"}
            }
        },
        "dto.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "components": {"type": "object", "additionalProperties": {"type": "string"}},
                "sessions": {"type": "integer"}
            }
        },
        "dto.StylesResponse": {
            "type": "object",
            "properties": {
                "textStyles": {"type": "array", "items": {"type": "string"}},
                "imageStyles": {"type": "array", "items": {"type": "string"}}
            }
        },
        "dto.RecipientsResponse": {
            "type": "object",
            "properties": {
                "recipients": {"type": "array", "items": {"$ref": "#/definitions/models.Recipient"}},
                "total": {"type": "integer"}
            }
        },
        "dto.GenerateCardRequest": {
            "type": "object",
            "properties": {
                "recipientName": {"type": "string", "example": "Jane Doe"},
                "senderName": {"type": "string", "example": "John Smith"},
                "reason": {"type": "string", "example": "10 years with the company"},
                "message": {"type": "string"},
                "enhanceText": {"type": "boolean"},
                "textStyle": {"type": "string", "example": "warm"},
                "imageStyle": {"type": "string", "example": "watercolor"}
            }
        },
        "dto.RegenerateRequest": {
            "type": "object",
            "required": ["sessionId"],
            "properties": {
                "sessionId": {"type": "string"},
                "request": {"$ref": "#/definitions/dto.GenerateCardRequest"}
            }
        },
        "dto.SendCardRequest": {
            "type": "object",
            "required": ["sessionId", "selectedTextIndex", "selectedImageIndex"],
            "properties": {
                "sessionId": {"type": "string"},
                "selectedTextIndex": {"type": "integer"},
                "selectedImageIndex": {"type": "integer"}
            }
        },
        "dto.TextVariantResponse": {
            "type": "object",
            "properties": {
                "index": {"type": "integer"},
                "text": {"type": "string"},
                "style": {"type": "string"}
            }
        },
        "dto.ImageVariantResponse": {
            "type": "object",
            "properties": {
                "index": {"type": "integer"},
                "id": {"type": "string"},
                "style": {"type": "string"},
                "prompt": {"type": "string"},
                "url": {"type": "string"}
            }
        },
        "dto.GenerateCardResponse": {
            "type": "object",
            "properties": {
                "sessionId": {"type": "string"},
                "recipient": {"$ref": "#/definitions/models.Recipient"},
                "textVariants": {"type": "array", "items": {"$ref": "#/definitions/dto.TextVariantResponse"}},
                "imageVariants": {"type": "array", "items": {"$ref": "#/definitions/dto.ImageVariantResponse"}},
                "remainingRegenerations": {"type": "integer"},
                "expiresAt": {"type": "string"}
            }
        },
        "dto.RegenerateTextResponse": {
            "type": "object",
            "properties": {
                "variant": {"$ref": "#/definitions/dto.TextVariantResponse"},
                "remainingRegenerations": {"type": "integer"}
            }
        },
        "dto.RegenerateImageResponse": {
            "type": "object",
            "properties": {
                "variant": {"$ref": "#/definitions/dto.ImageVariantResponse"},
                "remainingRegenerations": {"type": "integer"}
            }
        },
        "dto.SendCardResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "deliveryId": {"type": "string"}
            }
        },
        "dto.SessionStatusResponse": {
            "type": "object",
            "properties": {
                "sessionId": {"type": "string"},
                "textVariants": {"type": "array", "items": {"$ref": "#/definitions/dto.TextVariantResponse"}},
                "imageVariants": {"type": "array", "items": {"$ref": "#/definitions/dto.ImageVariantResponse"}},
                "textRegenerationsLeft": {"type": "integer"},
                "imageRegenerationsLeft": {"type": "integer"},
                "maxRegenerations": {"type": "integer"},
                "createdAt": {"type": "string"},
                "expiresAt": {"type": "string"}
            }
        },
        "dto.SessionEventsResponse": {
            "type": "object",
            "properties": {
                "sessionId": {"type": "string"},
                "events": {"type": "array", "items": {"type": "object"}}
            }
        },
        "models.Recipient": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "fullName": {"type": "string"},
                "email": {"type": "string"},
                "department": {"type": "string"},
                "position": {"type": "string"}
            }
        },
        "models.DeliveryReceipt": {
            "type": "object",
            "properties": {
                "deliveryId": {"type": "string"},
                "sessionId": {"type": "string"},
                "recipientName": {"type": "string"},
                "senderName": {"type": "string"},
                "textStyle": {"type": "string"},
                "imageStyle": {"type": "string"},
                "sentAt": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Greeting Card Service API",
	Description:      "Generates greeting card text and image variants, holds them in short-lived sessions and delivers the chosen card.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
