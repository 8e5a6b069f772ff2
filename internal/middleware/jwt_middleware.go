package middleware

import (
	"log"
	"strings"

	"chatorder/internal/services"

	"github.com/gofiber/fiber/v2"
)

// Locals keys set for authenticated staff requests.
const (
	LocalStaffID  = "staff_id"
	LocalUsername = "username"
)

// StaffOnly guards kitchen and back-office routes. The request must carry a
// staff token issued by /staff/login as "Authorization: Bearer <token>".
func StaffOnly(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return denyStaff(c, "A staff token is required")
		}

		claims, err := authService.ValidateToken(token)
		if err != nil {
			log.Printf("Rejected staff token from %s: %v", c.IP(), err)
			return denyStaff(c, "Staff token is invalid or expired")
		}

		c.Locals(LocalStaffID, claims["staff_id"])
		c.Locals(LocalUsername, claims["username"])
		return c.Next()
	}
}

// StaffUsername returns the username StaffOnly stored for the request.
func StaffUsername(c *fiber.Ctx) string {
	username, _ := c.Locals(LocalUsername).(string)
	return username
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || scheme != "Bearer" || token == "" {
		return "", false
	}
	return token, true
}

func denyStaff(c *fiber.Ctx, message string) error {
	c.Set(fiber.HeaderWWWAuthenticate, `Bearer realm="staff"`)
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"message": message,
	})
}
