// Package docs registers the OpenAPI description served under /swagger.
// Regenerate with: swag init -g cmd/trainhub/main.go -o docs
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
        "/access/{trainingID}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Resolve whether the caller (or, for admins, any user) may access a training at an instant",
                "produces": ["application/json"],
                "tags": ["Access"],
                "summary": "Check training access",
                "parameters": [
                    {"type": "string", "description": "Training ID", "name": "trainingID", "in": "path", "required": true},
                    {"type": "string", "description": "User to check (admin only, defaults to the caller)", "name": "userId", "in": "query"},
                    {"type": "string", "description": "Instant to evaluate, RFC 3339 (defaults to now)", "name": "asOf", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Access decision", "schema": {"$ref": "#/definitions/dto.AccessDecisionDTO"}},
                    "400": {"description": "Invalid parameters", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "403": {"description": "Checking another user requires admin", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/me/trainings": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Access"],
                "summary": "List accessible trainings",
                "parameters": [
                    {"type": "string", "description": "Instant to evaluate, RFC 3339 (defaults to now)", "name": "asOf", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Accessible trainings", "schema": {"$ref": "#/definitions/dto.AccessibleTrainingsDTO"}}
                }
            }
        },
        "/trainings/{id}/content": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Access"],
                "summary": "Get training content",
                "parameters": [
                    {"type": "string", "description": "Training ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Content location", "schema": {"$ref": "#/definitions/dto.TrainingContentDTO"}},
                    "403": {"description": "No subscription grants this training", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "503": {"description": "Access could not be verified", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/plans": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Plans"],
                "summary": "List plans",
                "parameters": [
                    {"type": "boolean", "description": "Only active plans (default: true)", "name": "active", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Plans", "schema": {"type": "array", "items": {"$ref": "#/definitions/dto.PlanDTO"}}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Plans"],
                "summary": "Create plan",
                "parameters": [
                    {"description": "Plan details", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.CreatePlanRequest"}}
                ],
                "responses": {
                    "201": {"description": "Plan created", "schema": {"$ref": "#/definitions/dto.PlanDTO"}},
                    "400": {"description": "Invalid request or validation error", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/subscriptions": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Subscriptions"],
                "summary": "Create subscription",
                "parameters": [
                    {"description": "Subscription", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.CreateSubscriptionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Subscription created", "schema": {"$ref": "#/definitions/dto.SubscriptionDTO"}},
                    "404": {"description": "Account or active plan not found", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "409": {"description": "Account already has an active subscription", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/subscriptions/{id}/cancel": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Subscriptions"],
                "summary": "Cancel subscription",
                "parameters": [
                    {"type": "string", "description": "Subscription ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Subscription canceled", "schema": {"$ref": "#/definitions/utils.SuccessResponse"}},
                    "404": {"description": "Subscription not found", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "422": {"description": "Subscription is not ACTIVE", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/subscriptions/{id}/renew": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Subscriptions"],
                "summary": "Renew subscription",
                "parameters": [
                    {"type": "string", "description": "Subscription ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "201": {"description": "Renewal created", "schema": {"$ref": "#/definitions/dto.SubscriptionDTO"}},
                    "409": {"description": "Subscription is still in force", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/admin/sweeps": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Admin"],
                "summary": "List sweep runs",
                "parameters": [
                    {"type": "integer", "description": "Maximum runs (default: 20, max: 100)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Sweep runs", "schema": {"type": "array", "items": {"$ref": "#/definitions/dto.SweepRunDTO"}}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Admin"],
                "summary": "Trigger expiration sweep",
                "responses": {
                    "200": {"description": "Completed run", "schema": {"$ref": "#/definitions/dto.SweepRunDTO"}},
                    "500": {"description": "Sweep aborted", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "dto.AccessDecisionDTO": {
            "type": "object",
            "properties": {
                "userId": {"type": "string"},
                "trainingId": {"type": "string"},
                "granted": {"type": "boolean"},
                "via": {"type": "string"},
                "accountId": {"type": "string"},
                "organizationId": {"type": "string"},
                "subscriptionId": {"type": "string"},
                "asOf": {"type": "string"}
            }
        },
        "dto.AccessibleTrainingsDTO": {
            "type": "object",
            "properties": {
                "userId": {"type": "string"},
                "trainingIds": {"type": "array", "items": {"type": "string"}},
                "asOf": {"type": "string"}
            }
        },
        "dto.TrainingContentDTO": {
            "type": "object",
            "properties": {
                "trainingId": {"type": "string"},
                "streamUrl": {"type": "string"}
            }
        },
        "dto.PlanDTO": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "originalPriceCents": {"type": "integer"},
                "currentPriceCents": {"type": "integer"},
                "durationInDays": {"type": "integer"},
                "isActive": {"type": "boolean"},
                "trainingIds": {"type": "array", "items": {"type": "string"}},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "dto.CreatePlanRequest": {
            "type": "object",
            "required": ["name", "durationInDays"],
            "properties": {
                "name": {"type": "string", "maxLength": 255},
                "originalPriceCents": {"type": "integer", "minimum": 0},
                "currentPriceCents": {"type": "integer", "minimum": 0},
                "durationInDays": {"type": "integer"},
                "trainingIds": {"type": "array", "items": {"type": "string"}}
            }
        },
        "dto.SubscriptionDTO": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "accountId": {"type": "string"},
                "planId": {"type": "string"},
                "startDate": {"type": "string"},
                "endDate": {"type": "string"},
                "status": {"type": "string", "enum": ["ACTIVE", "EXPIRED", "CANCELED"]},
                "origin": {"type": "string", "enum": ["PURCHASE", "ADMIN_GRANT", "RENEWAL"]},
                "renewedFromId": {"type": "string"},
                "canceledAt": {"type": "string"},
                "expiredAt": {"type": "string"},
                "createdAt": {"type": "string"}
            }
        },
        "dto.CreateSubscriptionRequest": {
            "type": "object",
            "required": ["accountId", "planId"],
            "properties": {
                "accountId": {"type": "string"},
                "planId": {"type": "string"},
                "origin": {"type": "string", "enum": ["PURCHASE", "ADMIN_GRANT", "RENEWAL"]}
            }
        },
        "dto.SweepRunDTO": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "trigger": {"type": "string", "enum": ["SCHEDULED", "MANUAL"]},
                "status": {"type": "string", "enum": ["RUNNING", "COMPLETED", "FAILED"]},
                "startedAt": {"type": "string"},
                "completedAt": {"type": "string"},
                "durationMs": {"type": "integer"},
                "scanned": {"type": "integer"},
                "expired": {"type": "integer"},
                "skipped": {"type": "integer"},
                "failed": {"type": "integer"},
                "errorMessage": {"type": "string"}
            }
        },
        "utils.SuccessResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {},
                "message": {"type": "string"}
            }
        },
        "utils.ErrorResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "error": {
                    "type": "object",
                    "properties": {
                        "code": {"type": "string"},
                        "message": {"type": "string"},
                        "details": {}
                    }
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Identity assertion issued by the identity provider, as \"Bearer <token>\"",
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
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "TrainHub Entitlement API",
	Description:      "Training access decisions and subscription lifecycle.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
