package jwt

import (
	"encoding/json"
	"fmt"
	"time"

	types "mpesa-gateway/internal/common/type"
	"mpesa-gateway/internal/pkg/helper"
	"mpesa-gateway/internal/pkg/logger"
	"mpesa-gateway/internal/pkg/validation"

	"github.com/golang-jwt/jwt/v5"
)

const (
	ClientDataKey = "client_data"
	tokenDuration = 24 * time.Hour
)

func getJWTSecret() []byte {
	secret := helper.GetEnv("JWT_SECRET")
	if secret == "" {
		logger.Warning.Println("JWT_SECRET not found, using default secret")
		secret = "$d3f4uIt_s3cr3t_key#"
	}
	return []byte(secret)
}

func GenerateToken(client types.ApiClient) (string, *time.Time, error) {
	exp := time.Now().Add(tokenDuration)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp":         exp.Unix(),
		"sub":         client.ID.String(),
		ClientDataKey: client,
	})

	signed, err := token.SignedString(getJWTSecret())
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, &exp, nil
}

func ValidateToken(raw string) (*types.ApiClient, error) {
	token, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return getJWTSecret(), nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims[ClientDataKey] == nil {
		return nil, fmt.Errorf("client data not found in token claims")
	}

	data, err := json.Marshal(claims[ClientDataKey])
	if err != nil {
		return nil, fmt.Errorf("error marshalling client data: %w", err)
	}

	var client types.ApiClient
	if err := json.Unmarshal(data, &client); err != nil {
		return nil, fmt.Errorf("error unmarshalling client data: %w", err)
	}
	if err := validation.Validate(client); err != nil {
		return nil, err
	}

	return &client, nil
}
