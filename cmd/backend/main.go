// @title Solar Projects API
// @version 1.0
// @description Solar installation project management backend

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"backend/internal/api"
	"log"
)

func main() {
	log.Println("App start")
	api.StartServer()
	log.Println("App terminated")
}
