package utils

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rifas-el-negro/raffle-backend/internal/config"
)

// FormatNumber renders a raffle number value as its canonical
// zero-padded three-digit string ("7" is stored as "007").
func FormatNumber(value int) string {
	return fmt.Sprintf("%03d", value)
}

// ParseNumber validates a raffle number string and returns its numeric
// value. Accepts "7", "07" and "007"; rejects anything outside 0-999.
func ParseNumber(number string) (int, error) {
	value, err := strconv.Atoi(number)
	if err != nil {
		return 0, fmt.Errorf("invalid raffle number %q", number)
	}
	if value < 0 || value > 999 {
		return 0, fmt.Errorf("raffle number %q out of range 000-999", number)
	}
	return value, nil
}

// GenerateJWT generates a signed token carrying the caller identity.
func GenerateJWT(userID, email, role string, cfg *config.Config) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)

	claims := token.Claims.(jwt.MapClaims)
	claims["sub"] = userID
	claims["email"] = email
	claims["role"] = role
	claims["exp"] = time.Now().Add(time.Second * time.Duration(cfg.JWT.ExpiresIn)).Unix()

	tokenString, err := token.SignedString([]byte(cfg.JWT.Secret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ValidateJWT validates a token and returns its claims.
func ValidateJWT(tokenString string, cfg *config.Config) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(cfg.JWT.Secret), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

// GenerateRandomString generates a random string of the specified length
func GenerateRandomString(length int) (string, error) {
	b := make([]byte, length)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b)[:length], nil
}
