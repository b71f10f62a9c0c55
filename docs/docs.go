// Package docs registers the OpenAPI description served under /swagger.
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
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["auth"], "summary": "Вход",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "input", "required": true, "schema": {"$ref": "#/definitions/models.Credentials"}}],
                "responses": {"200": {"description": "Токен и пользователь"}, "401": {"description": "Неверные учетные данные"}, "403": {"description": "Аккаунт заблокирован"}}
            }
        },
        "/tournaments": {
            "get": {"tags": ["tournaments"], "summary": "Список турниров", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}},
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["tournaments"], "summary": "Создать турнир",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "input", "required": true, "schema": {"$ref": "#/definitions/services.CreateTournamentInput"}}],
                "responses": {"201": {"description": "Турнир создан"}, "400": {"description": "Ошибка валидации"}, "403": {"description": "Нужны права администратора"}, "409": {"description": "Имя уже занято"}}
            }
        },
        "/tournaments/{name}": {
            "get": {"tags": ["tournaments"], "summary": "Турнир", "parameters": [{"$ref": "#/parameters/name"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Турнир не найден"}}}
        },
        "/tournaments/{name}/history": {
            "get": {"tags": ["tournaments"], "summary": "История турнира", "parameters": [{"$ref": "#/parameters/name"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Турнир не найден"}}}
        },
        "/tournaments/{name}/ledger": {
            "get": {"tags": ["ledger"], "summary": "Журнал выбываний", "parameters": [{"$ref": "#/parameters/name"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Турнир не найден"}}}
        },
        "/tournaments/{name}/remaining": {
            "get": {"tags": ["ledger"], "summary": "Оставшиеся игроки", "parameters": [{"$ref": "#/parameters/name"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Турнир не найден"}}}
        },
        "/tournaments/{name}/standings": {
            "get": {"tags": ["ledger"], "summary": "Текущая таблица", "parameters": [{"$ref": "#/parameters/name"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Турнир не найден"}}}
        },
        "/tournaments/{name}/eliminations": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["ledger"], "summary": "Записать выбывание игрока",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"$ref": "#/parameters/name"}, {"in": "body", "name": "input", "required": true, "schema": {"$ref": "#/definitions/services.EliminationInput"}}],
                "responses": {"201": {"description": "Заполненный слот"}, "400": {"description": "Неверное время"}, "404": {"description": "Турнир не найден"}, "409": {"description": "Игрок уже выбыл / журнал заполнен"}, "422": {"description": "Игрок не участвует в турнире"}}
            }
        },
        "/ranking": {
            "get": {"tags": ["ranking"], "summary": "Общий рейтинг", "responses": {"200": {"description": "OK"}}}
        },
        "/ranking/import": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["ranking"], "summary": "Импортировать общий рейтинг",
                "consumes": ["multipart/form-data"], "produces": ["application/json"],
                "parameters": [{"in": "formData", "name": "file", "type": "file", "required": true}, {"in": "query", "name": "preview", "type": "boolean"}],
                "responses": {"200": {"description": "Нормализованный рейтинг"}, "400": {"description": "Файл не передан"}, "422": {"description": "Нет обязательной колонки"}}
            }
        },
        "/users": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Аккаунты", "responses": {"200": {"description": "OK"}}},
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["users"], "summary": "Создать аккаунт",
                "parameters": [{"in": "body", "name": "input", "required": true, "schema": {"$ref": "#/definitions/services.CreateUserInput"}}],
                "responses": {"201": {"description": "Аккаунт создан"}, "409": {"description": "Логин занят"}}
            }
        },
        "/users/{username}/suspension": {
            "patch": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Заблокировать / разблокировать", "parameters": [{"$ref": "#/parameters/username"}], "responses": {"200": {"description": "OK"}, "403": {"description": "Нельзя менять свой аккаунт"}}}
        },
        "/users/{username}": {
            "delete": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Удалить аккаунт", "parameters": [{"$ref": "#/parameters/username"}], "responses": {"204": {"description": "Удалён"}, "404": {"description": "Не найден"}}}
        },
        "/admin/snapshots": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Выгрузить снапшот данных клуба", "responses": {"201": {"description": "Снапшот загружен"}, "503": {"description": "Хранилище не настроено"}}}
        }
    },
    "parameters": {
        "name": {"in": "path", "name": "name", "type": "string", "required": true, "description": "Tournament name"},
        "username": {"in": "path", "name": "username", "type": "string", "required": true}
    },
    "definitions": {
        "models.Credentials": {
            "type": "object",
            "properties": {"username": {"type": "string"}, "password": {"type": "string"}}
        },
        "services.CreateTournamentInput": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "num_players": {"type": "integer"},
                "participants": {"type": "array", "items": {"type": "string"}},
                "bounties": {"type": "array", "items": {"type": "string"}},
                "stack_size": {"type": "integer"},
                "comment": {"type": "string"},
                "earnings": {"type": "object", "additionalProperties": {"type": "number"}}
            }
        },
        "services.EliminationInput": {
            "type": "object",
            "properties": {"player": {"type": "string"}, "elimination_time": {"type": "string", "example": "20:10"}, "eliminated_by": {"type": "string"}}
        },
        "services.CreateUserInput": {
            "type": "object",
            "properties": {"username": {"type": "string"}, "password": {"type": "string"}, "is_admin": {"type": "boolean"}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Poker Club API",
	Description:      "Tournament registry, elimination ledger and general ranking of the club.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
