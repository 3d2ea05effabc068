package solarweb

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// TokenExpiry returns the expiry of a Solar.web JWT without verifying its signature.
func TokenExpiry(rawToken string) (time.Time, error) {
	token, err := parseUnverified(rawToken)
	if err != nil {
		return time.Time{}, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return time.Time{}, fmt.Errorf("invalid or missing claims")
	}
	unixTs, ok := claims["exp"].(float64)
	if !ok {
		return time.Time{}, fmt.Errorf("invalid or missing 'exp' claim: %+v", claims)
	}
	return time.Unix(int64(unixTs), 0), nil
}

func parseUnverified(rawToken string) (*jwt.Token, error) {
	token, _, err := new(jwt.Parser).ParseUnverified(rawToken, jwt.MapClaims{})
	return token, err
}
