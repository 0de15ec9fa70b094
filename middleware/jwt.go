package middleware

import (
	"fmt"
	"strings"
	"time"

	"sab/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

// GenerateJWT generates a JWT token for the user
func GenerateJWT(userID uint, firstName, lastName, role, email string) (string, error) {
	claims := jwt.MapClaims{
		"userId":    userID,
		"firstName": firstName,
		"lastName":  lastName,
		"role":      role,
		"email":     email,
		"iat":       time.Now().Unix(),
		"exp":       time.Now().Add(7 * 24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	jwtSecret := []byte(config.AppConfig.JWTKey)

	return token.SignedString(jwtSecret)
}

// parseBearerToken extracts and validates the bearer token from the
// Authorization header, returning the user ID claim.
func parseBearerToken(c *fiber.Ctx) (uint, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return 0, fmt.Errorf("missing Authorization header")
	}

	if !strings.HasPrefix(authHeader, "Bearer ") {
		return 0, fmt.Errorf("invalid Authorization header format")
	}

	tokenString := authHeader[len("Bearer "):]

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(config.AppConfig.JWTKey), nil
	})
	if err != nil || !token.Valid {
		return 0, fmt.Errorf("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["userId"] == nil {
		return 0, fmt.Errorf("invalid token payload")
	}

	userID, ok := claims["userId"].(float64) // numeric JWT claims decode as float64
	if !ok {
		return 0, fmt.Errorf("invalid token payload")
	}

	return uint(userID), nil
}

// JWTMiddleware is a middleware to check for valid JWT token in the request
func JWTMiddleware(c *fiber.Ctx) error {
	userID, err := parseBearerToken(c)
	if err != nil {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid or missing token!", nil)
	}

	c.Locals("userId", userID)
	return c.Next()
}

// OptionalJWTMiddleware resolves the requester's identity when a valid
// bearer token is present and proceeds anonymously otherwise. Handlers
// behind it must treat a missing "userId" local as an anonymous viewer.
func OptionalJWTMiddleware(c *fiber.Ctx) error {
	if userID, err := parseBearerToken(c); err == nil {
		c.Locals("userId", userID)
	}
	return c.Next()
}

func JsonResponse(c *fiber.Ctx, statusCode int, status bool, message string, data interface{}) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"data":    data,
	})
}

func ValidationErrorResponse(c *fiber.Ctx, errors map[string]string) error {
	return JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Validation failed!", errors)
}
