package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger serves the OpenAPI description of the catalog's HTTP surface.
// - GET /swagger/index.html  -> Swagger UI loading the JSON below
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg gin.IRoutes) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>catalog-web - Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "catalog-web", "version": "v0.1.0" },
  "paths": {
    "/": {
      "get": {
        "summary": "Render the session's catalog page",
        "parameters": [ { "name": "reload", "in": "query", "schema": { "type": "string", "enum": ["1"] }, "description": "re-run the baseline loads" } ],
        "responses": { "200": { "description": "HTML page" } }
      }
    },
    "/events/{event}": {
      "post": {
        "summary": "Dispatch a UI event",
        "parameters": [ { "name": "event", "in": "path", "required": true, "schema": { "type": "string", "enum": ["addStudent","updateStudent","editStudent","addCourse","updateCourse","editCourse","cancelEdit","enrollStudent","unenrollStudent","searchStudentById","searchStudentByName","searchCourseByName"] } } ],
        "requestBody": { "content": { "application/x-www-form-urlencoded": { "schema": { "type": "object", "additionalProperties": { "type": "string" } } } } },
        "responses": { "303": { "description": "redirect back to the page" }, "404": { "description": "unknown event" }, "429": { "description": "rate limited" } }
      }
    },
    "/static/catalog.js": { "get": { "summary": "Browser event shim", "responses": { "200": { "description": "JavaScript" } } } },
    "/metrics": { "get": { "summary": "Prometheus metrics", "responses": { "200": { "description": "metrics" } } } },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
