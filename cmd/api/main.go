package main

// @title InternHub API
// @version 1.0
// @description Internship workflow: applications, supervisor assignment and task tracking

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	Execute()
}
