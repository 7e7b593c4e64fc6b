package main

import (
	_ "github.com/joho/godotenv/autoload" // Autoload .env file.

	"github.com/storefront/merchant-admin/cmd/app"
)

// @title           Merchant Admin API
// @version         1.0
// @description     Authenticated proxy in front of the store backend.
//
// @BasePath  /api/v1
//
// @externalDocs.description  OpenAPI
// @externalDocs.url          https://swagger.io/resources/open-api/
func main() {
	if err := app.Start(); err != nil {
		panic(err)
	}
}
