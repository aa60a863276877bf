package controllers

import (
	"encoding/json"
	"fmt"
	"log"
	"strconv"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

// UserMiddleware reads the user id from the token subject. Accounts live in
// the identity service, so nothing is loaded here.
func UserMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		userRaw := c.Get("user")
		if userRaw == nil {
			return echo.ErrUnauthorized
		}
		user, ok := userRaw.(*jwt.Token)
		if !ok {
			return echo.ErrUnauthorized
		}
		claims, ok := user.Claims.(jwt.MapClaims)
		if !ok {
			return echo.ErrUnauthorized
		}
		userId := subjectString(claims["sub"])
		if userId == "" {
			log.Println("Error while getting the token information!")
			return echo.ErrUnauthorized
		}
		id, err := strconv.ParseUint(userId, 10, 64)
		if err != nil || id == 0 {
			log.Printf("Malformed token subject %q", userId)
			return echo.ErrUnauthorized
		}
		c.Set("currentUserID", uint(id))
		return next(c)
	}
}

// subjectString renders the sub claim. JSON numbers decode as float64 and
// must not come out in exponent form.
func subjectString(sub interface{}) string {
	switch v := sub.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func currentUserID(c echo.Context) (uint, bool) {
	id, ok := c.Get("currentUserID").(uint)
	return id, ok && id != 0
}
