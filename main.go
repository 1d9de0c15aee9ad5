package main

import (
	_ "github.com/joho/godotenv/autoload" // Autoload .env file.

	"github.com/hanbit-bazaar/tickets-api/cmd/app"
)

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer token issued by POST /auth/admin
func main() {
	if err := app.Start(); err != nil {
		panic(err)
	}
}
