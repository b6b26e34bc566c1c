package main

import (
	"os"

	"slot-reservation-engine/cmd/cli"

	"github.com/gin-gonic/gin"
)

func init() {
	// release mode unless GIN_MODE says otherwise, so debug routes never leak by accident
	gin.SetMode(gin.ReleaseMode)

	if mode := os.Getenv("GIN_MODE"); mode != "" {
		gin.SetMode(mode)
	}
}

// @title           slot-reservation-engine
// @version         1.0
// @description     Slot checkout, payment reconciliation and availability for bookable parking resources.

// @BasePath  /api
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cli.Execute()
}
