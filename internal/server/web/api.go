package web

import (
	"github.com/dmitrijs2005/filereview/internal/server/services"
	"github.com/gofiber/fiber/v2"
)

type signupRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type tableResponse struct {
	Kind      string     `json:"kind"`
	Columns   []string   `json:"columns"`
	Rows      [][]string `json:"rows"`
	Truncated bool       `json:"truncated"`
}

func (s *Server) apiError(c *fiber.Ctx, err error) error {
	code := statusFor(err)
	if code == fiber.StatusInternalServerError {
		s.reqLogger(c).Error(c.UserContext(), "api request failed", "path", c.Path(), "error", err)
	}
	return c.Status(code).JSON(fiber.Map{"error": messageFor(err)})
}

func (s *Server) apiSignup(c *fiber.Ctx) error {
	var req signupRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "malformed request body")
	}

	user, err := s.users.SignUp(c.UserContext(), services.SignUpRequest{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		return s.apiError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": user.ID, "username": user.UserName})
}

func (s *Server) apiLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "malformed request body")
	}

	token, user, err := s.users.Login(c.UserContext(), req.Identifier, req.Password)
	if err != nil {
		return s.apiError(c, err)
	}

	return c.JSON(fiber.Map{"access_token": token, "username": user.UserName})
}

// apiListFiles returns the distinct filenames; ?all=true keeps repeats.
func (s *Server) apiListFiles(c *fiber.Ctx) error {
	claims := tokenClaims(c)

	names, err := s.retrieval.ListFiles(c.UserContext(), claims.UserID)
	if err != nil {
		return s.apiError(c, err)
	}
	if !c.QueryBool("all") {
		names = services.UniqueFilenames(names)
	}

	return c.JSON(fiber.Map{"files": names})
}

func (s *Server) apiUpload(c *fiber.Ctx) error {
	claims := tokenClaims(c)

	up, err := readUpload(c)
	if err != nil {
		return s.apiError(c, err)
	}

	rec, err := s.uploads.Ingest(c.UserContext(), claims.Username, *up)
	if err != nil {
		return s.apiError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":       rec.ID,
		"filename": rec.Filename,
		"size":     len(up.Data),
	})
}

func (s *Server) apiPreview(c *fiber.Ctx) error {
	claims := tokenClaims(c)

	tbl, err := s.retrieval.Preview(c.UserContext(), claims.Username, c.Query("name"))
	if err != nil {
		return s.apiError(c, err)
	}

	rows := tbl.Rows
	if rows == nil {
		rows = [][]string{}
	}
	return c.JSON(tableResponse{
		Kind:      tbl.Kind.String(),
		Columns:   tbl.Columns,
		Rows:      rows,
		Truncated: tbl.Truncated,
	})
}

func (s *Server) apiDownload(c *fiber.Ctx) error {
	claims := tokenClaims(c)

	p, err := s.retrieval.Download(c.UserContext(), claims.Username, c.Query("name"))
	if err != nil {
		return s.apiError(c, err)
	}
	return sendPayload(c, p.Filename, p.ContentType, p.Data)
}
