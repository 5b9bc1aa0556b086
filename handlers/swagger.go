package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the blog API.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
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
    <title>blog-api Swagger</title>
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

// Every response uses the envelope {success, statusCode, data, message}.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "blog-api", "version": "v1.0.0" },
  "components": {
    "securitySchemes": { "bearer": { "type": "http", "scheme": "bearer", "bearerFormat": "JWT" } }
  },
  "paths": {
    "/api/v1/users/register": {
      "post": {
        "summary": "Register a user (multipart: fullName, email, username, password, avatar)",
        "responses": { "201": { "description": "user created" }, "400": { "description": "missing field or avatar" }, "409": { "description": "username or email taken" } }
      }
    },
    "/api/v1/users/login": {
      "post": {
        "summary": "Login with username or email",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"login":{"type":"string"},"password":{"type":"string"}}}}}},
        "responses": { "200": { "description": "accessToken, refreshToken, user" }, "401": { "description": "invalid credentials" } }
      }
    },
    "/api/v1/users/refresh": {
      "post": { "summary": "Rotate refresh token", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"refreshToken":{"type":"string"}}}}}}, "responses": { "200": { "description": "new token pair" }, "401": { "description": "invalid refresh" } } }
    },
    "/api/v1/users/logout": {
      "post": { "summary": "Logout, revoke access token and refresh session", "security": [{"bearer": []}], "responses": { "200": { "description": "logged out" } } }
    },
    "/api/v1/users/me": {
      "get": { "summary": "Current user", "security": [{"bearer": []}], "responses": { "200": { "description": "user profile" }, "401": { "description": "unauthenticated" } } }
    },
    "/api/v1/posts": {
      "get": {
        "summary": "List posts",
        "parameters": [
          {"name":"search","in":"query","schema":{"type":"string"}},
          {"name":"author","in":"query","schema":{"type":"string"},"description":"username"},
          {"name":"sortBy","in":"query","schema":{"type":"string","enum":["newest","oldest"]}},
          {"name":"page","in":"query","schema":{"type":"integer","minimum":1,"default":1}},
          {"name":"limit","in":"query","schema":{"type":"integer","minimum":1,"default":6}}
        ],
        "responses": { "200": { "description": "posts, totalPosts, currentPage, totalPages" }, "404": { "description": "author not found or no posts" } }
      },
      "post": { "summary": "Create post (multipart: title, content, image)", "security": [{"bearer": []}], "responses": { "201": { "description": "created" }, "400": { "description": "title and content required" } } }
    },
    "/api/v1/posts/{postId}": {
      "get": { "summary": "Get post", "responses": { "200": { "description": "post" }, "404": { "description": "not found" } } },
      "put": { "summary": "Update own post", "security": [{"bearer": []}], "responses": { "200": { "description": "updated" }, "403": { "description": "not the author" }, "404": { "description": "not found" } } },
      "delete": { "summary": "Delete own post and its comments", "security": [{"bearer": []}], "responses": { "200": { "description": "deleted" }, "403": { "description": "not the author" }, "404": { "description": "not found" } } }
    },
    "/api/v1/comments/{postId}/comments": {
      "get": { "summary": "Comments of a post, newest first", "responses": { "200": { "description": "comments (possibly empty)" } } },
      "post": { "summary": "Add comment", "security": [{"bearer": []}], "responses": { "201": { "description": "created" }, "400": { "description": "content required" }, "404": { "description": "post not found" } } }
    },
    "/api/v1/likes/{postId}/like": {
      "post": { "summary": "Toggle like", "security": [{"bearer": []}], "responses": { "200": { "description": "likes, liked" }, "404": { "description": "post not found" } } }
    },
    "/health": { "get": { "summary": "Liveness", "responses": { "200": { "description": "ok" } } } },
    "/ready": { "get": { "summary": "Readiness (MongoDB, Redis)", "responses": { "200": { "description": "ready" }, "503": { "description": "dependency down" } } } },
    "/metrics": { "get": { "summary": "Prometheus metrics", "responses": { "200": { "description": "metrics" } } } }
  }
}`
