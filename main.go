package main

import (
	_ "github.com/joho/godotenv/autoload" // Autoload .env file.

	"github.com/yizeng/gab/gin/gorm/inventory/cmd/app"
)

// @title          Inventory API
// @version        1.0
// @description    CRUD over inventory items, rendered as HTML or JSON.
//
// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html
//
// @BasePath  /
func main() {
	if err := app.Start(); err != nil {
		panic(err)
	}
}
