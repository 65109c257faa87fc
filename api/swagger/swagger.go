package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Campus Timetable API",
        "description": "Weekly academic timetable generation: a student-centric placement phase, a greedy faculty assignment phase, and an independent validator.",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {
                        "description": "Ready"
                    }
                }
            }
        },
        "/api/v1/timetable/generate": {
            "post": {
                "summary": "Generate a weekly timetable from master data",
                "description": "Runs the scheduling pipeline and returns assignments, per-student and per-faculty timetables, and any constraint violations.",
                "responses": {
                    "200": {
                        "description": "Generated timetable with violations list"
                    },
                    "400": {
                        "description": "Malformed request body"
                    },
                    "422": {
                        "description": "No feasible student timetable found"
                    }
                }
            }
        },
        "/api/v1/timetable/generate/batch": {
            "post": {
                "summary": "Generate timetables for several master-data variants",
                "responses": {
                    "200": {
                        "description": "Per-variant results in input order"
                    }
                }
            }
        },
        "/api/v1/timetable/save": {
            "post": {
                "summary": "Persist a generated timetable as the next version for its request key",
                "responses": {
                    "201": {
                        "description": "Stored schedule identity"
                    }
                }
            }
        },
        "/api/v1/timetable/{id}": {
            "get": {
                "summary": "Fetch a stored timetable with its placements",
                "responses": {
                    "200": {
                        "description": "Stored schedule detail"
                    },
                    "404": {
                        "description": "Not found"
                    }
                }
            }
        },
        "/api/v1/export": {
            "post": {
                "summary": "Render a timetable view as CSV or PDF",
                "responses": {
                    "200": {
                        "description": "Signed download reference"
                    }
                }
            }
        },
        "/api/v1/export/{token}": {
            "get": {
                "summary": "Download a rendered export behind its signed token",
                "responses": {
                    "200": {
                        "description": "File stream"
                    },
                    "404": {
                        "description": "Unknown or expired token"
                    }
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
