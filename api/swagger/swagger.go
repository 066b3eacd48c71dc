package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "RENOA API",
        "description": "Shift compliance grid, novedades and statistics for security posts.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http",
        "https"
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "tags": [
        {
            "name": "Grid",
            "description": "Compliance grid load and save"
        },
        {
            "name": "Records",
            "description": "Shift records, ratings and notes"
        },
        {
            "name": "Novedades",
            "description": "Incident reports and evidence"
        }
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": [
                    "Authentication"
                ],
                "summary": "Authenticate user",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/LoginRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": [
                    "Authentication"
                ],
                "summary": "Refresh access token",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/RefreshTokenRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": [
                    "Authentication"
                ],
                "summary": "Logout current session",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/RefreshTokenRequest"
                        }
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/auth/me": {
            "get": {
                "tags": [
                    "Authentication"
                ],
                "summary": "Get current user",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/business-units": {
            "get": {
                "tags": [
                    "BusinessUnits"
                ],
                "summary": "List business units",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/posts": {
            "get": {
                "tags": [
                    "Posts"
                ],
                "summary": "List posts",
                "parameters": [
                    {
                        "name": "businessId",
                        "in": "query",
                        "type": "integer",
                        "required": false
                    },
                    {
                        "name": "active",
                        "in": "query",
                        "type": "boolean",
                        "required": false
                    },
                    {
                        "name": "search",
                        "in": "query",
                        "type": "string",
                        "required": false
                    },
                    {
                        "name": "page",
                        "in": "query",
                        "type": "integer",
                        "required": false
                    },
                    {
                        "name": "pageSize",
                        "in": "query",
                        "type": "integer",
                        "required": false
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "post": {
                "tags": [
                    "Posts"
                ],
                "summary": "Create post",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/PostRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/posts/{id}": {
            "put": {
                "tags": [
                    "Posts"
                ],
                "summary": "Update post",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "integer",
                        "required": true
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/PostRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "delete": {
                "tags": [
                    "Posts"
                ],
                "summary": "Deactivate post",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "integer",
                        "required": true
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/configurations": {
            "get": {
                "tags": [
                    "Configuration"
                ],
                "summary": "List slot configurations",
                "parameters": [
                    {
                        "name": "businessId",
                        "in": "query",
                        "type": "integer",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "post": {
                "tags": [
                    "Configuration"
                ],
                "summary": "Create slot configuration",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CreateConfigurationRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/configurations/applicable": {
            "get": {
                "tags": [
                    "Configuration"
                ],
                "summary": "Configuration in effect on a date",
                "parameters": [
                    {
                        "name": "businessId",
                        "in": "query",
                        "type": "integer",
                        "required": true
                    },
                    {
                        "name": "date",
                        "in": "query",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/configurations/{id}": {
            "delete": {
                "tags": [
                    "Configuration"
                ],
                "summary": "Delete slot configuration",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "integer",
                        "required": true
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/records": {
            "get": {
                "tags": [
                    "Records"
                ],
                "summary": "List shift records of a day",
                "parameters": [
                    {
                        "name": "businessId",
                        "in": "query",
                        "type": "integer",
                        "required": true
                    },
                    {
                        "name": "date",
                        "in": "query",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "post": {
                "tags": [
                    "Records"
                ],
                "summary": "Create a shift record",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CreateRecordRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/records/{id}/ratings": {
            "post": {
                "tags": [
                    "Records"
                ],
                "summary": "Overwrite the ratings of a record",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "integer",
                        "required": true
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/UpdateRatingsRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/notes": {
            "post": {
                "tags": [
                    "Records"
                ],
                "summary": "Set or clear a cell note",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/NoteRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/grid": {
            "get": {
                "tags": [
                    "Grid"
                ],
                "summary": "Load the compliance grid",
                "parameters": [
                    {
                        "name": "businessId",
                        "in": "query",
                        "type": "integer",
                        "required": true
                    },
                    {
                        "name": "date",
                        "in": "query",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "view",
                        "in": "query",
                        "type": "string",
                        "required": false
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/grid/save": {
            "post": {
                "tags": [
                    "Grid"
                ],
                "summary": "Save pending grid edits",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/SaveGridRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Unbound columns or invalid ratings",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "502": {
                        "description": "Some records could not be saved; meta.results lists every outcome",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/export": {
            "post": {
                "tags": [
                    "Export"
                ],
                "summary": "Export compliance records",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/ExportRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Spreadsheet file",
                        "schema": {
                            "type": "file"
                        }
                    },
                    "404": {
                        "description": "No data",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
                    "text/csv"
                ]
            }
        },
        "/novedades": {
            "get": {
                "tags": [
                    "Novedades"
                ],
                "summary": "List novedades",
                "parameters": [
                    {
                        "name": "businessId",
                        "in": "query",
                        "type": "integer",
                        "required": false
                    },
                    {
                        "name": "postId",
                        "in": "query",
                        "type": "integer",
                        "required": false
                    },
                    {
                        "name": "type",
                        "in": "query",
                        "type": "string",
                        "required": false
                    },
                    {
                        "name": "from",
                        "in": "query",
                        "type": "string",
                        "required": false
                    },
                    {
                        "name": "to",
                        "in": "query",
                        "type": "string",
                        "required": false
                    },
                    {
                        "name": "page",
                        "in": "query",
                        "type": "integer",
                        "required": false
                    },
                    {
                        "name": "pageSize",
                        "in": "query",
                        "type": "integer",
                        "required": false
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "post": {
                "tags": [
                    "Novedades"
                ],
                "summary": "Report a novedad",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CreateNovedadRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/novedades/{id}": {
            "get": {
                "tags": [
                    "Novedades"
                ],
                "summary": "Get novedad with signed evidence links",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "delete": {
                "tags": [
                    "Novedades"
                ],
                "summary": "Delete a novedad and its evidence",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/novedades/{id}/evidence": {
            "post": {
                "tags": [
                    "Novedades"
                ],
                "summary": "Attach an evidence file",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "file",
                        "in": "formData",
                        "type": "file",
                        "required": true
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "consumes": [
                    "multipart/form-data"
                ]
            },
            "get": {
                "tags": [
                    "Novedades"
                ],
                "summary": "Download evidence via signed token",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "token",
                        "in": "query",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Evidence file",
                        "schema": {
                            "type": "file"
                        }
                    }
                }
            }
        },
        "/novedades/{id}/notify": {
            "post": {
                "tags": [
                    "Novedades"
                ],
                "summary": "Email a novedad report",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "schema": {
                            "$ref": "#/definitions/NotifyNovedadRequest"
                        }
                    }
                ],
                "responses": {
                    "202": {
                        "description": "Accepted",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/statistics/compliance": {
            "get": {
                "tags": [
                    "Statistics"
                ],
                "summary": "Compliance statistics",
                "parameters": [
                    {
                        "name": "businessId",
                        "in": "query",
                        "type": "integer",
                        "required": false
                    },
                    {
                        "name": "from",
                        "in": "query",
                        "type": "string",
                        "required": false
                    },
                    {
                        "name": "to",
                        "in": "query",
                        "type": "string",
                        "required": false
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/statistics/novedades": {
            "get": {
                "tags": [
                    "Statistics"
                ],
                "summary": "Novedad statistics",
                "parameters": [
                    {
                        "name": "businessId",
                        "in": "query",
                        "type": "integer",
                        "required": false
                    },
                    {
                        "name": "from",
                        "in": "query",
                        "type": "string",
                        "required": false
                    },
                    {
                        "name": "to",
                        "in": "query",
                        "type": "string",
                        "required": false
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/statistics/system": {
            "get": {
                "tags": [
                    "Statistics"
                ],
                "summary": "Process metrics snapshot",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        }
    },
    "definitions": {
        "Cell": {
            "type": "object",
            "properties": {
                "valor": {
                    "type": "integer",
                    "minimum": 0,
                    "maximum": 10,
                    "x-nullable": true
                },
                "nota": {
                    "type": "string",
                    "x-nullable": true
                }
            }
        },
        "Ratings": {
            "type": "object",
            "description": "slot label -> HH:MM -> cell",
            "additionalProperties": {
                "type": "object",
                "additionalProperties": {
                    "$ref": "#/definitions/Cell"
                }
            }
        },
        "LoginRequest": {
            "type": "object",
            "properties": {
                "login": {
                    "type": "string"
                },
                "password": {
                    "type": "string"
                }
            },
            "required": [
                "login",
                "password"
            ]
        },
        "RefreshTokenRequest": {
            "type": "object",
            "properties": {
                "refresh_token": {
                    "type": "string"
                }
            },
            "required": [
                "refresh_token"
            ]
        },
        "PostRequest": {
            "type": "object",
            "properties": {
                "name": {
                    "type": "string"
                },
                "businessUnitId": {
                    "type": "integer"
                },
                "active": {
                    "type": "boolean"
                },
                "startDate": {
                    "type": "string"
                }
            },
            "required": [
                "name",
                "businessUnitId"
            ]
        },
        "CreateConfigurationRequest": {
            "type": "object",
            "properties": {
                "businessUnitId": {
                    "type": "integer"
                },
                "startDate": {
                    "type": "string"
                },
                "day": {
                    "type": "integer"
                },
                "shiftB": {
                    "type": "integer"
                },
                "night": {
                    "type": "integer"
                }
            },
            "required": [
                "businessUnitId",
                "startDate"
            ]
        },
        "CreateRecordRequest": {
            "type": "object",
            "properties": {
                "postId": {
                    "type": "integer"
                },
                "date": {
                    "type": "string"
                },
                "shiftCategoryId": {
                    "type": "integer"
                },
                "collaboratorName": {
                    "type": "string"
                },
                "ratings": {
                    "$ref": "#/definitions/Ratings"
                }
            },
            "required": [
                "postId",
                "date",
                "shiftCategoryId"
            ]
        },
        "UpdateRatingsRequest": {
            "type": "object",
            "properties": {
                "ratings": {
                    "$ref": "#/definitions/Ratings"
                },
                "collaboratorName": {
                    "type": "string"
                }
            },
            "required": [
                "ratings"
            ]
        },
        "NoteRequest": {
            "type": "object",
            "properties": {
                "recordId": {
                    "type": "integer"
                },
                "slot": {
                    "type": "string"
                },
                "time": {
                    "type": "string"
                },
                "note": {
                    "type": "string",
                    "x-nullable": true
                }
            },
            "required": [
                "recordId",
                "slot",
                "time"
            ]
        },
        "ColumnBinding": {
            "type": "object",
            "properties": {
                "key": {
                    "type": "string"
                },
                "time": {
                    "type": "string"
                }
            },
            "required": [
                "key"
            ]
        },
        "PendingChange": {
            "type": "object",
            "properties": {
                "postId": {
                    "type": "integer"
                },
                "collaborators": {
                    "type": "object",
                    "properties": {
                        "day": {
                            "type": "string"
                        },
                        "shiftB": {
                            "type": "string"
                        },
                        "night": {
                            "type": "string"
                        }
                    }
                },
                "ratings": {
                    "$ref": "#/definitions/Ratings"
                }
            },
            "required": [
                "postId"
            ]
        },
        "SaveGridRequest": {
            "type": "object",
            "properties": {
                "businessId": {
                    "type": "integer"
                },
                "date": {
                    "type": "string"
                },
                "columns": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/ColumnBinding"
                    }
                },
                "changes": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/PendingChange"
                    }
                }
            },
            "required": [
                "businessId",
                "date",
                "changes"
            ]
        },
        "ExportRequest": {
            "type": "object",
            "properties": {
                "businessId": {
                    "type": "integer"
                },
                "mode": {
                    "type": "string",
                    "enum": [
                        "day",
                        "range"
                    ]
                },
                "date": {
                    "type": "string"
                },
                "from": {
                    "type": "string"
                },
                "to": {
                    "type": "string"
                },
                "format": {
                    "type": "string",
                    "enum": [
                        "xlsx",
                        "csv"
                    ]
                }
            },
            "required": [
                "businessId",
                "mode"
            ]
        },
        "CreateNovedadRequest": {
            "type": "object",
            "properties": {
                "businessUnitId": {
                    "type": "integer"
                },
                "postId": {
                    "type": "integer"
                },
                "occurredAt": {
                    "type": "string"
                },
                "type": {
                    "type": "string",
                    "enum": [
                        "INTRUSION",
                        "ABSENCE",
                        "INCIDENT",
                        "MAINTENANCE",
                        "OTHER"
                    ]
                },
                "description": {
                    "type": "string"
                },
                "notify": {
                    "type": "boolean"
                }
            },
            "required": [
                "businessUnitId",
                "occurredAt",
                "type",
                "description"
            ]
        },
        "NotifyNovedadRequest": {
            "type": "object",
            "properties": {
                "recipients": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                }
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {
                    "type": "integer"
                },
                "page_size": {
                    "type": "integer"
                },
                "total_count": {
                    "type": "integer"
                }
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                },
                "status": {
                    "type": "integer"
                }
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {
                    "type": "object"
                },
                "error": {
                    "$ref": "#/definitions/APIError"
                },
                "pagination": {
                    "$ref": "#/definitions/Pagination"
                },
                "meta": {
                    "type": "object"
                }
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
