package web

import (
	"strings"
	"time"

	"github.com/dmitrijs2005/filereview/internal/common"
	"github.com/dmitrijs2005/filereview/internal/logging"
	"github.com/dmitrijs2005/filereview/internal/server/auth"
	"github.com/dmitrijs2005/filereview/internal/server/session"
	"github.com/gofiber/fiber/v2"
)

const (
	localsSession = "session"
	localsClaims  = "claims"
)

// reqLogger returns the server logger tagged with the request id.
func (s *Server) reqLogger(c *fiber.Ctx) logging.Logger {
	if id, ok := c.Locals("requestid").(string); ok {
		return s.logger.With("request_id", id)
	}
	return s.logger
}

func (s *Server) accessLog(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	status := c.Response().StatusCode()
	if err != nil {
		status = statusFor(err)
	}

	s.reqLogger(c).Info(c.UserContext(), "request",
		"method", c.Method(),
		"path", c.Path(),
		"status", status,
		"duration", time.Since(start).String(),
	)
	return err
}

// requireSession loads the browser session; anonymous visitors get the
// review page with a login warning.
func (s *Server) requireSession(c *fiber.Ctx) error {
	info, err := s.sessions.Load(c)
	if err != nil {
		return err
	}
	if !info.State.IsAuthenticated() {
		return s.renderLoginWarning(c)
	}
	c.Locals(localsSession, info)
	return c.Next()
}

func sessionInfo(c *fiber.Ctx) *session.Info {
	info, _ := c.Locals(localsSession).(*session.Info)
	return info
}

// requireToken checks the bearer access token of API calls.
func (s *Server) requireToken(c *fiber.Ctx) error {
	h := c.Get(common.AuthorizationHeaderName)
	if !strings.HasPrefix(h, common.BearerPrefix) {
		return s.apiError(c, common.ErrInvalidToken)
	}

	claims, err := s.users.ParseAccessToken(strings.TrimPrefix(h, common.BearerPrefix))
	if err != nil {
		return s.apiError(c, err)
	}

	c.Locals(localsClaims, claims)
	return c.Next()
}

func tokenClaims(c *fiber.Ctx) *auth.Claims {
	claims, _ := c.Locals(localsClaims).(*auth.Claims)
	return claims
}
