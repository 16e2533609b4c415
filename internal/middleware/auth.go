// Package middleware contains HTTP middleware functions for the PROOF API.
// Middleware sits between the HTTP server and route handlers: it runs on every
// request that passes through it, which makes it the right place for
// cross-cutting concerns like authentication and role checks.
package middleware

import (
	"errors"
	"fmt"
	"strings"
	"time"

	// fiber is the HTTP framework; fiber.Handler is the function signature for middleware
	"github.com/gofiber/fiber/v2"
	// jwt signs and verifies the JSON Web Tokens that carry a player's session
	"github.com/golang-jwt/jwt/v5"
)

// Roles. Organizers can reset the trip, edit the schedule and reveal the capsule.
const (
	RolePlayer    = "player"
	RoleOrganizer = "organizer"
)

// Keys under which Auth stores the session in c.Locals.
const (
	LocalPlayerID   = "playerID"
	LocalPlayerRole = "playerRole"
)

// issuer is written into every token and checked on the way back in.
const issuer = "proof"

// Claims is the payload of a session token. There are no accounts on this
// app: a session is "I am seat N on this trip", signed by the server so that
// other phones can't post as somebody else.
//
//	sub:  the player id ("player-3")
//	role: "player" or "organizer"
type Claims struct {
	jwt.RegisteredClaims        // Standard JWT fields: Subject, ExpiresAt, IssuedAt, etc.
	Role                 string `json:"role"`
}

// IssueToken signs a session for playerID that expires after ttl.
func IssueToken(secret, playerID, role string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expires := now.Add(ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   playerID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		Role: role,
	}
	// HS256 is HMAC-SHA256: the same secret signs and verifies.
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session token: %w", err)
	}
	return signed, expires, nil
}

// ParseToken verifies the signature, expiry and issuer of a session token and
// returns its claims.
func ParseToken(secret, tokenStr string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims,
		func(t *jwt.Token) (any, error) {
			return []byte(secret), nil
		},
		// Only accept HS256, so a token can't pick a weaker algorithm (or "none").
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	if claims.Subject == "" {
		return nil, errors.New("token missing subject")
	}
	return claims, nil
}

// Auth returns a Fiber middleware handler that:
//  1. Reads the token from the "Authorization: Bearer <token>" header, or from
//     the "token" query parameter (EventSource can't set headers, so the
//     stream endpoint passes it in the URL)
//  2. Verifies it with the server's secret
//  3. Stores the player id and role in c.Locals for the handlers
//
// isPlayer is consulted so a token for a seat that no longer exists is refused.
func Auth(secret string, isPlayer func(id string) bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenStr := ""
		if h := c.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
			tokenStr = strings.TrimPrefix(h, "Bearer ")
		} else {
			tokenStr = c.Query("token")
		}
		if tokenStr == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing or invalid authorization header",
			})
		}

		claims, err := ParseToken(secret, tokenStr)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid token",
			})
		}
		if isPlayer != nil && !isPlayer(claims.Subject) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "unknown player",
			})
		}

		// c.Locals is a key-value store scoped to this single request.
		c.Locals(LocalPlayerID, claims.Subject)
		c.Locals(LocalPlayerRole, roleFromClaim(claims.Role))

		return c.Next()
	}
}

// PlayerID returns the authenticated player, or "" outside Auth.
func PlayerID(c *fiber.Ctx) string {
	id, _ := c.Locals(LocalPlayerID).(string)
	return id
}

// roleFromClaim defaults anything unrecognised to the least privileged role.
func roleFromClaim(s string) string {
	if s == RoleOrganizer {
		return RoleOrganizer
	}
	return RolePlayer
}
