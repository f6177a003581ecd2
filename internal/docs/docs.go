// Package docs registra la especificación OpenAPI que sirve /swagger/*.
// Regenerar con: swag init -g cmd/babylog/main.go -o internal/docs
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
        "/api/events": {
            "get": {
                "description": "Lista eventos decodificados, más reciente primero.",
                "produces": ["application/json"],
                "tags": ["events"],
                "summary": "Buscar eventos",
                "parameters": [
                    {"type": "integer", "description": "Máximo de eventos", "name": "limit", "in": "query"},
                    {"type": "string", "description": "Lista CSV de tipos (ej: Food,Sleep)", "name": "types", "in": "query"},
                    {"type": "string", "description": "Start mínimo (RFC3339)", "name": "from", "in": "query"},
                    {"type": "string", "description": "Start máximo (RFC3339)", "name": "to", "in": "query"},
                    {"type": "string", "description": "Texto libre en el comentario", "name": "q", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/events.EventResponse"}}},
                    "400": {"description": "Parámetros de filtro inválidos", "schema": {"type": "string"}},
                    "503": {"description": "store unavailable", "schema": {"type": "string"}}
                }
            },
            "post": {
                "description": "Agrega un evento al final del log.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["events"],
                "summary": "Registrar evento",
                "parameters": [
                    {"description": "Datos del formulario", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/events.CreateRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/events.EventResponse"}},
                    "400": {"description": "invalid json / reglas de negocio", "schema": {"type": "string"}},
                    "422": {"description": "schema mismatch", "schema": {"type": "string"}},
                    "503": {"description": "store unavailable", "schema": {"type": "string"}}
                }
            }
        },
        "/api/events/recent": {
            "get": {
                "produces": ["application/json"],
                "tags": ["events"],
                "summary": "Tabla de historial",
                "parameters": [
                    {"type": "integer", "description": "Cantidad de filas", "name": "n", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/events.ViewResponse"}},
                    "503": {"description": "store unavailable", "schema": {"type": "string"}}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["events"],
                "summary": "Aplicar ediciones de la tabla",
                "parameters": [
                    {"type": "integer", "description": "Tamaño de la vista", "name": "n", "in": "query"},
                    {"description": "Filas de la tabla", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/events.ReconcileRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/events.ReconcileResponse"}},
                    "400": {"description": "invalid json", "schema": {"type": "string"}},
                    "404": {"description": "record not found", "schema": {"type": "string"}},
                    "409": {"description": "ambiguous deletion", "schema": {"type": "string"}},
                    "422": {"description": "schema mismatch", "schema": {"type": "string"}},
                    "503": {"description": "store unavailable", "schema": {"type": "string"}}
                }
            }
        },
        "/api/events/ws": {
            "get": {
                "tags": ["events"],
                "summary": "Avisos de cambios",
                "responses": {
                    "101": {"description": "Switching Protocols", "schema": {"$ref": "#/definitions/hub.Message"}}
                }
            }
        },
        "/api/timeline": {
            "get": {
                "produces": ["application/json"],
                "tags": ["analytics"],
                "summary": "Timeline de los últimos días",
                "parameters": [
                    {"type": "integer", "description": "Días hacia atrás", "name": "days", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/timeline.DayResponse"}}},
                    "400": {"description": "malformed duration", "schema": {"type": "string"}},
                    "503": {"description": "store unavailable", "schema": {"type": "string"}}
                }
            }
        },
        "/api/summary": {
            "get": {
                "produces": ["application/json"],
                "tags": ["analytics"],
                "summary": "Resumen diario",
                "parameters": [
                    {"type": "integer", "description": "Días hacia atrás", "name": "days", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/events.DaySummaryResponse"}}}
                }
            }
        },
        "/api/now": {
            "get": {
                "produces": ["application/json"],
                "tags": ["events"],
                "summary": "Hora actual",
                "responses": {"200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}}
            }
        },
        "/api/schema": {
            "get": {
                "produces": ["application/json"],
                "tags": ["events"],
                "summary": "Columnas del store",
                "responses": {"200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "array", "items": {"type": "string"}}}}}
            }
        }
    },
    "definitions": {
        "events.CreateRequest": {
            "type": "object",
            "properties": {
                "kind": {"type": "string", "enum": ["Food", "Poo", "Pee", "Sleep"]},
                "start": {"type": "string"},
                "end": {"type": "string"},
                "source": {"type": "string", "enum": ["Left", "Right", "Bottle"]},
                "ounces": {"type": "number"},
                "size": {"type": "string", "enum": ["Small", "Normal", "Big"]},
                "quality": {"type": "string", "enum": ["Poor", "Normal", "Great"]},
                "comment": {"type": "string"}
            }
        },
        "events.EventResponse": {
            "type": "object",
            "properties": {
                "kind": {"type": "string"},
                "start": {"type": "string"},
                "duration": {"type": "string"},
                "source": {"type": "string"},
                "ounces": {"type": "number"},
                "size": {"type": "string"},
                "quality": {"type": "string"},
                "comment": {"type": "string"}
            }
        },
        "events.ViewResponse": {
            "type": "object",
            "properties": {
                "columns": {"type": "array", "items": {"type": "string"}},
                "rows": {"type": "array", "items": {"type": "object", "additionalProperties": {"type": "string"}}}
            }
        },
        "events.ReconcileRequest": {
            "type": "object",
            "properties": {
                "rows": {"type": "array", "items": {"type": "object", "additionalProperties": {"type": "string"}}}
            }
        },
        "events.ReconcileResponse": {
            "type": "object",
            "properties": {
                "action": {"type": "string", "enum": ["edited", "deleted"]},
                "deleted": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "events.DaySummaryResponse": {
            "type": "object",
            "properties": {
                "day": {"type": "string"},
                "feeds": {"type": "integer"},
                "bottle_ounces": {"type": "number"},
                "nursing_minutes": {"type": "integer"},
                "sleep_minutes": {"type": "integer"},
                "poos": {"type": "integer"},
                "pees": {"type": "integer"}
            }
        },
        "timeline.Interval": {
            "type": "object",
            "properties": {
                "kind": {"type": "string"},
                "category": {"type": "string", "enum": ["Feeding", "Potty", "Sleep"]},
                "day": {"type": "string"},
                "start": {"type": "string"},
                "end": {"type": "string"},
                "ref_start": {"type": "string"},
                "ref_end": {"type": "string"},
                "color": {"type": "string"},
                "tooltip": {"type": "string"},
                "comment": {"type": "string"}
            }
        },
        "timeline.DayResponse": {
            "type": "object",
            "properties": {
                "day": {"type": "string"},
                "intervals": {"type": "array", "items": {"$ref": "#/definitions/timeline.Interval"}}
            }
        },
        "hub.Message": {
            "type": "object",
            "properties": {
                "type": {"type": "string"},
                "reason": {"type": "string"},
                "at": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "babylog API",
	Description:      "Registro de tomas, pañales y sueño del bebé sobre un CSV.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
