package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Conference Scheduling API",
        "description": "Meeting session placement, badness scoring and agenda publishing",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Meetings", "description": "Meetings, rooms and the timeslot grid"},
        {"name": "Sessions", "description": "Session requests and their lifecycle"},
        {"name": "Constraints", "description": "Scheduling constraints between groups"},
        {"name": "Schedules", "description": "Named assignments of sessions to timeslots"},
        {"name": "Scoring", "description": "Badness scoring and the placement optimizer"},
        {"name": "Agenda", "description": "Agenda views and exports"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check (database and redis)",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "Degraded"}
                }
            }
        },
        "/meetings": {
            "get": {
                "tags": ["Meetings"],
                "summary": "List meetings",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Meetings"],
                "summary": "Create meeting",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateMeetingRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/meetings/{id}": {
            "get": {
                "tags": ["Meetings"],
                "summary": "Get meeting",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/meetings/{id}/rooms": {
            "get": {
                "tags": ["Meetings"],
                "summary": "List meeting rooms",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Meetings"],
                "summary": "Add room to meeting venue",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateRoomRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/meetings/{id}/timeslots": {
            "get": {
                "tags": ["Meetings"],
                "summary": "List meeting timeslots",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Meetings"],
                "summary": "Add a timeslot to the meeting grid",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateTimeSlotRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/meetings/{id}/timeslots/generate": {
            "post": {
                "tags": ["Meetings"],
                "summary": "Generate the session timeslot grid",
                "description": "Expands rooms x daily periods x meeting days into timeslots.",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GenerateTimeSlotsRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/meetings/{id}/sessions": {
            "get": {
                "tags": ["Sessions"],
                "summary": "List session requests",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Sessions"],
                "summary": "File a session request",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateSessionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sessions/{id}": {
            "get": {
                "tags": ["Sessions"],
                "summary": "Get session",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sessions/{id}/status": {
            "put": {
                "tags": ["Sessions"],
                "summary": "Move a session through its lifecycle",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateSessionStatusRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "Illegal transition", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/meetings/{id}/constraints": {
            "get": {
                "tags": ["Constraints"],
                "summary": "List meeting constraints",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Constraints"],
                "summary": "Declare a scheduling constraint",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateConstraintRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/constraints/{id}": {
            "delete": {
                "tags": ["Constraints"],
                "summary": "Delete a constraint",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/meetings/{id}/schedules": {
            "get": {
                "tags": ["Schedules"],
                "summary": "List meeting schedules",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Schedules"],
                "summary": "Create schedule",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateScheduleRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedules/{id}": {
            "get": {
                "tags": ["Schedules"],
                "summary": "Get schedule",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Schedules"],
                "summary": "Delete schedule",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "owner", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "412": {"description": "Schedule is the official agenda", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedules/{id}/copy": {
            "post": {
                "tags": ["Schedules"],
                "summary": "Copy schedule",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CopyScheduleRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedules/{id}/assignments": {
            "get": {
                "tags": ["Schedules"],
                "summary": "List schedule assignment rows",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedules/{id}/place": {
            "put": {
                "tags": ["Schedules"],
                "summary": "Place a session into a timeslot",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PlaceSessionRequest"}}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/schedules/{id}/clear": {
            "put": {
                "tags": ["Schedules"],
                "summary": "Empty a timeslot",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ClearSlotRequest"}}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/schedules/{id}/backfill": {
            "post": {
                "tags": ["Schedules"],
                "summary": "Backfill missing timeslot rows",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/meetings/{id}/agenda": {
            "get": {
                "tags": ["Agenda"],
                "summary": "Render the meeting's official agenda",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Schedules"],
                "summary": "Designate the official agenda",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SetAgendaRequest"}}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "412": {"description": "Schedule is not visible and public", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedules/{id}/badness": {
            "get": {
                "tags": ["Scoring"],
                "summary": "Score a schedule",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "force", "in": "query", "type": "boolean"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedules/{id}/whatif": {
            "post": {
                "tags": ["Scoring"],
                "summary": "Probe one hypothetical placement",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/WhatIfRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedules/{id}/rescore": {
            "post": {
                "tags": ["Scoring"],
                "summary": "Queue an async full rescore",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedules/{id}/optimize": {
            "post": {
                "tags": ["Scoring"],
                "summary": "Run the placement optimizer",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/OptimizeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedules/{id}/agenda": {
            "get": {
                "tags": ["Agenda"],
                "summary": "Render a schedule as an agenda",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedules/{id}/agenda/export": {
            "get": {
                "tags": ["Agenda"],
                "summary": "Export an agenda as CSV or PDF",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        }
    },
    "definitions": {
        "CreateMeetingRequest": {
            "type": "object",
            "properties": {
                "number": {"type": "string"},
                "city": {"type": "string"},
                "country": {"type": "string"},
                "start_date": {"type": "string", "format": "date-time"},
                "days": {"type": "integer"},
                "time_zone": {"type": "string"}
            },
            "required": ["number", "start_date", "days", "time_zone"]
        },
        "CreateRoomRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "capacity": {"type": "integer"},
                "session_types": {"type": "array", "items": {"type": "string"}}
            },
            "required": ["name"]
        },
        "CreateTimeSlotRequest": {
            "type": "object",
            "properties": {
                "room_id": {"type": "string"},
                "type": {"type": "string"},
                "name": {"type": "string"},
                "start_time": {"type": "string", "format": "date-time"},
                "duration_min": {"type": "integer"}
            },
            "required": ["type", "start_time", "duration_min"]
        },
        "GenerateTimeSlotsRequest": {
            "type": "object",
            "properties": {
                "room_ids": {"type": "array", "items": {"type": "string"}},
                "periods": {"type": "array", "items": {"$ref": "#/definitions/TimeSlotPeriod"}},
                "type": {"type": "string"}
            },
            "required": ["room_ids", "periods"]
        },
        "TimeSlotPeriod": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "start_hour": {"type": "integer"},
                "start_minute": {"type": "integer"},
                "duration_min": {"type": "integer"}
            },
            "required": ["name", "duration_min"]
        },
        "CreateSessionRequest": {
            "type": "object",
            "properties": {
                "group": {"type": "string"},
                "attendees": {"type": "integer"},
                "requested_min": {"type": "integer"},
                "comments": {"type": "string"}
            },
            "required": ["group", "requested_min"]
        },
        "UpdateSessionStatusRequest": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "enum": ["apprw", "appr", "schedw", "scheda", "canceled"]}
            },
            "required": ["status"]
        },
        "CreateConstraintRequest": {
            "type": "object",
            "properties": {
                "source_group": {"type": "string"},
                "name": {"type": "string", "enum": ["conflict", "conflic2", "conflic3", "bethere", "avoid_day"]},
                "target_group": {"type": "string"},
                "target_person": {"type": "string"},
                "target_day": {"type": "integer"}
            },
            "required": ["source_group", "name"]
        },
        "CreateScheduleRequest": {
            "type": "object",
            "properties": {
                "owner": {"type": "string"},
                "name": {"type": "string"},
                "visible": {"type": "boolean"},
                "public": {"type": "boolean"}
            },
            "required": ["owner", "name"]
        },
        "CopyScheduleRequest": {
            "type": "object",
            "properties": {
                "owner": {"type": "string"},
                "name": {"type": "string"}
            },
            "required": ["owner", "name"]
        },
        "SetAgendaRequest": {
            "type": "object",
            "properties": {
                "schedule_id": {"type": "string"}
            }
        },
        "PlaceSessionRequest": {
            "type": "object",
            "properties": {
                "owner": {"type": "string"},
                "session_id": {"type": "string"},
                "timeslot_id": {"type": "string"},
                "pinned": {"type": "boolean"}
            },
            "required": ["owner", "session_id", "timeslot_id"]
        },
        "ClearSlotRequest": {
            "type": "object",
            "properties": {
                "owner": {"type": "string"},
                "timeslot_id": {"type": "string"}
            },
            "required": ["owner", "timeslot_id"]
        },
        "WhatIfRequest": {
            "type": "object",
            "properties": {
                "session_id": {"type": "string"},
                "timeslot_id": {"type": "string"}
            },
            "required": ["session_id"]
        },
        "OptimizeRequest": {
            "type": "object",
            "properties": {
                "owner": {"type": "string"},
                "max_evaluations": {"type": "integer"},
                "dry_run": {"type": "boolean"}
            },
            "required": ["owner"]
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"type": "object"},
                "meta": {"type": "object"}
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
