package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "SIA Rendimiento API",
        "description": "School performance backend: grades, attendance, evaluations and risk dashboards",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": ["http"],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/auth/login": {
            "post": {"tags": ["Auth"], "summary": "Login with username or e-mail", "produces": ["application/json"], "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthenticated", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/auth/refresh": {
            "post": {"tags": ["Auth"], "summary": "Rotate refresh token", "produces": ["application/json"], "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RefreshTokenRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthenticated", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/auth/logout": {
            "post": {"tags": ["Auth"], "summary": "Revoke refresh token", "produces": ["application/json"], "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RefreshTokenRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/auth/change-password": {
            "post": {"tags": ["Auth"], "summary": "Change password", "produces": ["application/json"], "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ChangePasswordRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/auth/me": {
            "get": {"tags": ["Auth"], "summary": "Current user", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/users/teachers": {
            "post": {"tags": ["Users"], "summary": "Register teacher", "produces": ["application/json"], "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterUserRequest"}}], "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/users/students": {
            "post": {"tags": ["Users"], "summary": "Register student", "produces": ["application/json"], "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterUserRequest"}}], "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]},
            "get": {"tags": ["Users"], "summary": "List students", "produces": ["application/json"], "parameters": [{"name": "search", "in": "query", "type": "string", "required": false}, {"name": "page", "in": "query", "type": "integer", "required": false}, {"name": "page_size", "in": "query", "type": "integer", "required": false}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/users/tutors": {
            "post": {"tags": ["Users"], "summary": "Register tutor", "produces": ["application/json"], "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterUserRequest"}}], "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/users/me/device-token": {
            "put": {"tags": ["Users"], "summary": "Store push device token", "produces": ["application/json"], "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DeviceTokenRequest"}}], "responses": {"204": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/terms": {
            "get": {"tags": ["Academic"], "summary": "List terms", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]},
            "post": {"tags": ["Academic"], "summary": "Create term", "produces": ["application/json"], "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateTermRequest"}}], "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/terms/latest": {
            "get": {"tags": ["Academic"], "summary": "Latest term", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/subjects": {
            "get": {"tags": ["Academic"], "summary": "List subjects", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]},
            "post": {"tags": ["Academic"], "summary": "Create subject", "produces": ["application/json"], "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateSubjectRequest"}}], "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/classes": {
            "get": {"tags": ["Academic"], "summary": "List classes of a term", "produces": ["application/json"], "parameters": [{"name": "gestion_id", "in": "query", "type": "string", "required": false}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]},
            "post": {"tags": ["Academic"], "summary": "Create class (201 created, 200 existing)", "produces": ["application/json"], "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateClassRequest"}}], "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/teacher-subjects": {
            "post": {"tags": ["Schedules"], "summary": "Assign subject to teacher (201 created, 200 existing)", "produces": ["application/json"], "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AssignSubjectRequest"}}], "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/schedules": {
            "post": {"tags": ["Schedules"], "summary": "Create schedule slot (201 created, 200 existing)", "produces": ["application/json"], "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AssignScheduleRequest"}}], "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/enrollments": {
            "post": {"tags": ["Enrollments"], "summary": "Enroll student (201 created, 200 existing)", "produces": ["application/json"], "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/EnrollStudentRequest"}}], "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/tutorships": {
            "post": {"tags": ["Enrollments"], "summary": "Link tutor and student", "produces": ["application/json"], "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateTutorshipRequest"}}], "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/teachers/me/students": {
            "get": {"tags": ["Enrollments"], "summary": "Students of the calling teacher", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/teachers/me/schedules": {
            "get": {"tags": ["Schedules"], "summary": "Slots of the calling teacher", "produces": ["application/json"], "parameters": [{"name": "gestion_id", "in": "query", "type": "string", "required": false}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/teachers/me/subject-students": {
            "get": {"tags": ["Schedules"], "summary": "Students of a subject", "produces": ["application/json"], "parameters": [{"name": "materia_id", "in": "query", "type": "string", "required": true}, {"name": "gestion_id", "in": "query", "type": "string", "required": false}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/schedules/{id}/students": {
            "get": {"tags": ["Schedules"], "summary": "Students of a slot", "produces": ["application/json"], "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/schedules/{id}/grades": {
            "get": {"tags": ["Grades"], "summary": "Grade sheet of a slot", "produces": ["application/json"], "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]},
            "post": {"tags": ["Grades"], "summary": "Record subject grades", "produces": ["application/json"], "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BulkSubjectGradeRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/schedules/{id}/attendance": {
            "post": {"tags": ["Attendance"], "summary": "Record attendance", "produces": ["application/json"], "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RecordAttendanceRequest"}}], "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/schedules/{id}/assignments": {
            "post": {"tags": ["Evaluations"], "summary": "Create assignment", "produces": ["application/json"], "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateAssignmentRequest"}}], "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/schedules/{id}/exams": {
            "post": {"tags": ["Evaluations"], "summary": "Create exam", "produces": ["application/json"], "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateExamRequest"}}], "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/enrollments/{id}/scores": {
            "put": {"tags": ["Grades"], "summary": "Patch enrollment sub-scores", "produces": ["application/json"], "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/attendance/{id}/participation": {
            "put": {"tags": ["Attendance"], "summary": "Participation remark", "produces": ["application/json"], "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ParticipationRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/assignments/{id}/submissions": {
            "post": {"tags": ["Evaluations"], "summary": "Submit assignment", "produces": ["application/json"], "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitAssignmentRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/submissions/{id}/grade": {
            "put": {"tags": ["Evaluations"], "summary": "Grade submission", "produces": ["application/json"], "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GradeSubmissionRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/exams/{id}/results": {
            "post": {"tags": ["Evaluations"], "summary": "Record exam results", "produces": ["application/json"], "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RecordExamResultsRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/students/me/classes": {
            "get": {"tags": ["Students"], "summary": "Classes of the calling student", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/students/me/schedules": {
            "get": {"tags": ["Schedules"], "summary": "Slots of the calling student", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/students/me/enrollment-scores": {
            "get": {"tags": ["Grades"], "summary": "Enrollment scores of the calling student", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/students/me/report-card": {
            "get": {"tags": ["Reports"], "summary": "Report card of the calling student", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/students/{id}/enrollment-scores": {
            "get": {"tags": ["Grades"], "summary": "Enrollment scores of a student", "produces": ["application/json"], "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/students/{id}/profile": {
            "get": {"tags": ["Students"], "summary": "Performance profile", "produces": ["application/json"], "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "503": {"description": "Classifier unavailable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/students/{id}/predictions": {
            "get": {"tags": ["Students"], "summary": "Stored prediction snapshots", "produces": ["application/json"], "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/students/{id}/report-card/export": {
            "get": {"tags": ["Reports"], "summary": "Export report card", "produces": ["application/json"], "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}, {"name": "format", "in": "query", "type": "string", "required": false}], "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/exports/{token}": {
            "get": {"tags": ["Reports"], "summary": "Download exported file", "produces": ["application/json"], "parameters": [{"name": "token", "in": "path", "type": "string", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/dashboard/teacher": {
            "get": {"tags": ["Dashboard"], "summary": "Teacher risk dashboard", "produces": ["application/json"], "parameters": [{"name": "gestion_id", "in": "query", "type": "string", "required": false}, {"name": "trimestre", "in": "query", "type": "integer", "required": false}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "503": {"description": "Classifier unavailable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/dashboard/student": {
            "get": {"tags": ["Dashboard"], "summary": "Student risk dashboard", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "503": {"description": "Classifier unavailable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/dashboard/tutor": {
            "get": {"tags": ["Dashboard"], "summary": "Tutor risk dashboard", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "503": {"description": "Classifier unavailable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/metrics/summary": {
            "get": {"tags": ["System"], "summary": "Instrumentation snapshot", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {"username": {"type": "string"}, "password": {"type": "string"}},
            "required": ["username", "password"]
        },
        "RefreshTokenRequest": {
            "type": "object",
            "properties": {"refresh_token": {"type": "string"}},
            "required": ["refresh_token"]
        },
        "ChangePasswordRequest": {
            "type": "object",
            "properties": {"old_password": {"type": "string"}, "new_password": {"type": "string"}},
            "required": ["old_password", "new_password"]
        },
        "RegisterUserRequest": {
            "type": "object",
            "properties": {"username": {"type": "string"}, "email": {"type": "string"}, "password": {"type": "string"}, "first_name": {"type": "string"}, "last_name": {"type": "string"}, "telefono": {"type": "string"}, "especialidad": {"type": "string"}},
            "required": ["username", "password", "first_name", "last_name"]
        },
        "DeviceTokenRequest": {
            "type": "object",
            "properties": {"device_token": {"type": "string"}},
            "required": ["device_token"]
        },
        "CreateTermRequest": {
            "type": "object",
            "properties": {"anio": {"type": "integer"}, "trimestre": {"type": "integer"}},
            "required": ["anio", "trimestre"]
        },
        "CreateSubjectRequest": {
            "type": "object",
            "properties": {"nombre": {"type": "string"}},
            "required": ["nombre"]
        },
        "CreateClassRequest": {
            "type": "object",
            "properties": {"curso": {"type": "integer"}, "gestion_id": {"type": "string"}, "paralelo": {"type": "string"}},
            "required": ["curso", "gestion_id", "paralelo"]
        },
        "AssignSubjectRequest": {
            "type": "object",
            "properties": {"profesor_id": {"type": "string"}, "materia_id": {"type": "string"}},
            "required": ["profesor_id", "materia_id"]
        },
        "AssignScheduleRequest": {
            "type": "object",
            "properties": {"clase_id": {"type": "string"}, "profesor_materia_id": {"type": "string"}, "dias": {"type": "array", "items": {"type": "string"}}, "periodos": {"type": "array", "items": {"type": "object", "properties": {"numero": {"type": "integer"}, "hora_inicio": {"type": "string"}, "hora_fin": {"type": "string"}}}}},
            "required": ["clase_id", "profesor_materia_id"]
        },
        "EnrollStudentRequest": {
            "type": "object",
            "properties": {"alumno_id": {"type": "string"}, "clase_id": {"type": "string"}},
            "required": ["alumno_id", "clase_id"]
        },
        "CreateTutorshipRequest": {
            "type": "object",
            "properties": {"tutor_id": {"type": "string"}, "alumno_id": {"type": "string"}},
            "required": ["tutor_id", "alumno_id"]
        },
        "RecordAttendanceRequest": {
            "type": "object",
            "properties": {"fecha": {"type": "string"}, "asistencias": {"type": "array", "items": {"type": "object", "properties": {"alumno": {"type": "string"}, "estado": {"type": "string"}}}}},
            "required": ["asistencias"]
        },
        "ParticipationRequest": {
            "type": "object",
            "properties": {"observacion": {"type": "string"}},
            "required": ["observacion"]
        },
        "BulkSubjectGradeRequest": {
            "type": "object",
            "properties": {"notas": {"type": "array", "items": {"type": "object", "properties": {"alumno": {"type": "string"}, "nota_ser": {"type": "number"}, "nota_saber": {"type": "number"}, "nota_hacer": {"type": "number"}, "nota_decidir": {"type": "number"}}}}},
            "required": ["notas"]
        },
        "CreateAssignmentRequest": {
            "type": "object",
            "properties": {"titulo": {"type": "string"}, "descripcion": {"type": "string"}, "fecha_entrega": {"type": "string"}, "fecha_limite": {"type": "string"}},
            "required": ["titulo", "fecha_entrega"]
        },
        "CreateExamRequest": {
            "type": "object",
            "properties": {"titulo": {"type": "string"}, "descripcion": {"type": "string"}, "fecha": {"type": "string"}},
            "required": ["titulo", "fecha"]
        },
        "SubmitAssignmentRequest": {
            "type": "object",
            "properties": {"archivo": {"type": "string"}},
            "required": ["archivo"]
        },
        "GradeSubmissionRequest": {
            "type": "object",
            "properties": {"nota": {"type": "number"}, "observacion": {"type": "string"}},
            "required": ["nota"]
        },
        "RecordExamResultsRequest": {
            "type": "object",
            "properties": {"resultados": {"type": "array", "items": {"type": "object", "properties": {"alumno": {"type": "string"}, "nota": {"type": "number"}, "observacion": {"type": "string"}}}}},
            "required": ["resultados"]
        },
        "Pagination": {
            "type": "object",
            "properties": {"page": {"type": "integer"}, "page_size": {"type": "integer"}, "total_count": {"type": "integer"}}
        },
        "APIError": {
            "type": "object",
            "properties": {"code": {"type": "string"}, "message": {"type": "string"}, "status": {"type": "integer"}}
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {"data": {"type": "object"}, "error": {"$ref": "#/definitions/APIError"}, "detail": {"type": "string"}, "pagination": {"$ref": "#/definitions/Pagination"}, "meta": {"type": "object"}}
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
