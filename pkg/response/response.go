// Package response writes the JSON envelope shared by every API endpoint.
package response

import (
	"github.com/gin-gonic/gin"
)

// Envelope is the body of every successful response.
type Envelope struct {
	Success    bool        `json:"success"`
	StatusCode int         `json:"statusCode"`
	Data       interface{} `json:"data"`
	Message    string      `json:"message"`
}

// ErrorBody is the body of every failed response.
type ErrorBody struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

func OK(c *gin.Context, status int, data interface{}, msg string) {
	c.JSON(status, Envelope{Success: status < 400, StatusCode: status, Data: data, Message: msg})
}

func Error(c *gin.Context, status int, msg string) {
	c.JSON(status, ErrorBody{StatusCode: status, Message: msg})
}

// Abort writes an error envelope and stops the handler chain.
func Abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, ErrorBody{StatusCode: status, Message: msg})
}
