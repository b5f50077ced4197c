// Package docs registers the OpenAPI description served under /swagger.
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
        "/tournaments": {
            "get": {
                "tags": [
                    "tournaments"
                ],
                "summary": "List tournaments",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "Tournaments",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "400": {
                        "description": "Invalid query parameter",
                        "schema": {
                            "type": "object"
                        }
                    }
                },
                "parameters": [
                    {
                        "type": "string",
                        "description": "registration, active or completed",
                        "name": "status",
                        "in": "query"
                    },
                    {
                        "type": "integer",
                        "description": "Page size (default 20, max 100)",
                        "name": "limit",
                        "in": "query"
                    },
                    {
                        "type": "integer",
                        "description": "Offset",
                        "name": "offset",
                        "in": "query"
                    }
                ]
            },
            "post": {
                "tags": [
                    "tournaments"
                ],
                "summary": "Create a tournament",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Tournament definition",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/services.CreateTournamentInput"
                        }
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Tournament created",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "400": {
                        "description": "Validation error",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "403": {
                        "description": "Not an organizer",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/tournaments/{tournamentID}": {
            "get": {
                "tags": [
                    "tournaments"
                ],
                "summary": "Get a tournament with its roster",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Tournament ID (UUID)",
                        "name": "tournamentID",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Tournament",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "400": {
                        "description": "Invalid ID",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "404": {
                        "description": "Tournament not found",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/tournaments/{tournamentID}/participants": {
            "post": {
                "tags": [
                    "participants"
                ],
                "summary": "Register a participant",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Tournament ID (UUID)",
                        "name": "tournamentID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Participant id and display name",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/models.Participant"
                        }
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Registration created",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "403": {
                        "description": "Registration closed",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "404": {
                        "description": "Tournament not found",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "409": {
                        "description": "Already registered",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/tournaments/{tournamentID}/participants/{participantID}": {
            "patch": {
                "tags": [
                    "participants"
                ],
                "summary": "Confirm or withdraw a participant",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Tournament ID (UUID)",
                        "name": "tournamentID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "Participant ID",
                        "name": "participantID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "{\"status\": \"pending|confirmed|withdrawn\"}",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Status updated",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "400": {
                        "description": "Unknown status",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "404": {
                        "description": "Tournament or participant not found",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/tournaments/{tournamentID}/bracket": {
            "get": {
                "tags": [
                    "bracket"
                ],
                "summary": "Get the bracket document",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Tournament ID (UUID)",
                        "name": "tournamentID",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Bracket",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "404": {
                        "description": "Tournament not found",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "409": {
                        "description": "Bracket not generated yet",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            },
            "post": {
                "tags": [
                    "bracket"
                ],
                "summary": "Generate the bracket",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Tournament ID (UUID)",
                        "name": "tournamentID",
                        "in": "path",
                        "required": true
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Tournament with its bracket",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "400": {
                        "description": "Not enough confirmed participants",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "409": {
                        "description": "Bracket already generated",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/tournaments/{tournamentID}/bracket/current": {
            "get": {
                "tags": [
                    "bracket"
                ],
                "summary": "List matches that can be played now",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Tournament ID (UUID)",
                        "name": "tournamentID",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Pending matches and byes",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "409": {
                        "description": "Bracket not generated yet",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/tournaments/{tournamentID}/standings": {
            "get": {
                "tags": [
                    "bracket"
                ],
                "summary": "Get standings",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Tournament ID (UUID)",
                        "name": "tournamentID",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Participants ordered by standing",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "409": {
                        "description": "Bracket not generated yet",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/tournaments/{tournamentID}/matches/{matchID}/result": {
            "post": {
                "tags": [
                    "matches"
                ],
                "summary": "Report a match result",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Tournament ID (UUID)",
                        "name": "tournamentID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "Match ID, e.g. WB_R1M1",
                        "name": "matchID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Optional round_number and the winner_id",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handlers.reportResultInput"
                        }
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Updated tournament",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "400": {
                        "description": "Winner is not in the match",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "404": {
                        "description": "Tournament or match not found",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "409": {
                        "description": "Match not ready, already completed, or concurrent update",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "429": {
                        "description": "Too many requests",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/tournaments/{tournamentID}/matches/{matchID}/bye": {
            "post": {
                "tags": [
                    "matches"
                ],
                "summary": "Advance a bye",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Tournament ID (UUID)",
                        "name": "tournamentID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "Match ID, e.g. WB_R1M1",
                        "name": "matchID",
                        "in": "path",
                        "required": true
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Updated tournament",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "404": {
                        "description": "Tournament or match not found",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "409": {
                        "description": "Match is not a bye",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "services.CreateTournamentInput": {
            "type": "object",
            "properties": {
                "name": {
                    "type": "string"
                },
                "format": {
                    "type": "string",
                    "enum": [
                        "single_elimination",
                        "double_elimination",
                        "round_robin",
                        "swiss"
                    ]
                },
                "min_participants": {
                    "type": "integer"
                },
                "settings": {
                    "$ref": "#/definitions/models.FormatSettings"
                }
            }
        },
        "models.FormatSettings": {
            "type": "object",
            "properties": {
                "points_for_win": {
                    "type": "integer"
                },
                "points_for_draw": {
                    "type": "integer"
                },
                "legs": {
                    "type": "integer"
                },
                "round_robin_schedule": {
                    "type": "string",
                    "enum": [
                        "circle",
                        "sequential"
                    ]
                },
                "swiss_pairing": {
                    "type": "string",
                    "enum": [
                        "rematch_avoiding",
                        "standings"
                    ]
                }
            }
        },
        "models.Participant": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "display_name": {
                    "type": "string"
                }
            }
        },
        "handlers.reportResultInput": {
            "type": "object",
            "properties": {
                "round_number": {
                    "type": "integer"
                },
                "winner_id": {
                    "type": "string"
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
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
	Schemes:          []string{},
	Title:            "Tournament Brackets API",
	Description:      "Bracket generation and match progression for single elimination, double elimination, round robin and Swiss tournaments.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
