package app

import "github.com/gin-gonic/gin"

// Module defines the contract for a self-registering business module.
// public carries no authentication; secured requires a valid bearer token.
type Module interface {
	RegisterRoutes(public *gin.RouterGroup, secured *gin.RouterGroup)
}
