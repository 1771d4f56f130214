package main

import (
	"flag"
	"fmt"
	"os"

	types "mpesa-gateway/internal/common/type"
	"mpesa-gateway/internal/pkg/jwt"
	"mpesa-gateway/internal/pkg/logger"
	"mpesa-gateway/internal/pkg/validation"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// token issues a bearer token for a system that calls the initiation routes.
func main() {
	logger.Setup()
	defer logger.Sync()

	_ = godotenv.Load()

	name := flag.String("name", "", "client name")
	shortCode := flag.String("shortcode", "", "short code the client transacts on")
	flag.Parse()

	client := types.ApiClient{
		ID:        uuid.New(),
		Name:      *name,
		ShortCode: *shortCode,
	}
	if err := validation.Validate(client); err != nil {
		logger.Error.Println("Invalid client", err)
		os.Exit(1)
	}

	token, exp, err := jwt.GenerateToken(client)
	if err != nil {
		logger.Error.Println("Error generating token", err)
		os.Exit(1)
	}

	logger.Info.Printf("Issued token for %s (%s), expires %s", client.Name, client.ID, exp.Format("2006-01-02 15:04:05"))
	fmt.Println(token)
}
