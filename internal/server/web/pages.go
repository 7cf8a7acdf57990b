package web

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"

	"github.com/dmitrijs2005/filereview/internal/common"
	"github.com/dmitrijs2005/filereview/internal/server/models"
	"github.com/dmitrijs2005/filereview/internal/server/preview"
	"github.com/dmitrijs2005/filereview/internal/server/services"
	"github.com/dmitrijs2005/filereview/internal/server/session"
	"github.com/gofiber/fiber/v2"
)

const (
	viewUpload = "upload"
	viewFiles  = "files"
)

// page is the data every template receives.
type page struct {
	Title   string
	Session *session.Info
	Error   string
	Success string
	Warning string

	// review page
	View     string
	Files    []string
	Uploaded *uploadDetails
	Selected string
	Table    *preview.Table
}

type uploadDetails struct {
	Name string
	Type string
	Size int
}

func (s *Server) newPage(c *fiber.Ctx, title string) *page {
	p := &page{Title: title, Session: &session.Info{State: session.Anonymous}}
	if info := sessionInfo(c); info != nil {
		p.Session = info
	} else if info, err := s.sessions.Load(c); err == nil {
		p.Session = info
	}
	return p
}

func (s *Server) homePage(c *fiber.Ctx) error {
	return c.Render("home", s.newPage(c, "Home"))
}

func (s *Server) signupPage(c *fiber.Ctx) error {
	return c.Render("signup", s.newPage(c, "Sign Up"))
}

func (s *Server) signupSubmit(c *fiber.Ctx) error {
	p := s.newPage(c, "Sign Up")

	_, err := s.users.SignUp(c.UserContext(), services.SignUpRequest{
		Username:        c.FormValue("username"),
		Email:           c.FormValue("email"),
		Password:        c.FormValue("password"),
		ConfirmPassword: c.FormValue("confirm_password"),
	})
	if err != nil {
		return s.renderError(c, "signup", p, err)
	}

	p.Success = "Account created successfully! Please login."
	return c.Render("signup", p)
}

func (s *Server) loginPage(c *fiber.Ctx) error {
	return c.Render("login", s.newPage(c, "Login"))
}

func (s *Server) loginSubmit(c *fiber.Ctx) error {
	p := s.newPage(c, "Login")

	user, err := s.users.Authenticate(c.UserContext(), c.FormValue("identifier"), c.FormValue("password"))
	if err != nil {
		return s.renderError(c, "login", p, err)
	}

	if _, err := s.sessions.Login(c, user.ID, user.UserName); err != nil {
		return err
	}

	s.reqLogger(c).Info(c.UserContext(), "user logged in", "username", user.UserName)
	return c.Redirect("/review", fiber.StatusSeeOther)
}

func (s *Server) logout(c *fiber.Ctx) error {
	// logging out an anonymous session is harmless
	if err := s.sessions.Logout(c); err != nil && !errors.Is(err, common.ErrInvalidTransition) {
		return err
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

func (s *Server) renderLoginWarning(c *fiber.Ctx) error {
	p := s.newPage(c, "Review Analysis")
	p.Warning = "Please log in to access the review analysis."
	return c.Status(fiber.StatusUnauthorized).Render("review", p)
}

func (s *Server) renderError(c *fiber.Ctx, view string, p *page, err error) error {
	code := statusFor(err)
	if code == fiber.StatusInternalServerError {
		s.reqLogger(c).Error(c.UserContext(), "request failed", "path", c.Path(), "error", err)
	}
	p.Error = messageFor(err)
	return c.Status(code).Render(view, p)
}

// reviewPage shows the upload panel or the file list of the logged-in user.
func (s *Server) reviewPage(c *fiber.Ctx) error {
	info, err := s.sessions.Load(c)
	if err != nil {
		return err
	}
	if !info.State.IsAuthenticated() {
		return s.renderLoginWarning(c)
	}
	c.Locals(localsSession, info)

	switch c.Query("view", viewUpload) {
	case viewFiles:
		return s.renderFiles(c, "", nil)
	case viewUpload:
		return s.renderUpload(c, nil, nil)
	default:
		return s.renderError(c, "review", s.newPage(c, "Review Analysis"),
			fmt.Errorf("%w: unknown view %q", common.ErrorValidation, c.Query("view")))
	}
}

func (s *Server) selectView(c *fiber.Ctx, ev session.Event) (*page, error) {
	info, err := s.sessions.Apply(c, ev)
	if err != nil {
		return nil, err
	}
	c.Locals(localsSession, info)

	p := s.newPage(c, "Review Analysis")
	p.View = viewUpload
	if ev == session.EventSelectFiles {
		p.View = viewFiles
	}
	return p, nil
}

func (s *Server) renderUpload(c *fiber.Ctx, up *models.Upload, ingestErr error) error {
	p, err := s.selectView(c, session.EventSelectUpload)
	if err != nil {
		return err
	}
	if ingestErr != nil {
		return s.renderError(c, "review", p, ingestErr)
	}
	if up == nil {
		return c.Render("review", p)
	}

	p.Success = "File uploaded."
	p.Uploaded = &uploadDetails{Name: up.Name, Type: up.ContentType, Size: len(up.Data)}

	tbl, err := s.retrieval.PreviewUpload(*up)
	if err != nil {
		// the upload itself succeeded
		p.Error = messageFor(err)
	}
	p.Table = tbl
	return c.Render("review", p)
}

func (s *Server) renderFiles(c *fiber.Ctx, selected string, previewErr error) error {
	p, err := s.selectView(c, session.EventSelectFiles)
	if err != nil {
		return err
	}
	info := sessionInfo(c)

	names, err := s.retrieval.ListFiles(c.UserContext(), info.UserID)
	if err != nil {
		return err
	}
	p.Files = services.UniqueFilenames(names)
	p.Selected = selected

	if previewErr != nil {
		return s.renderError(c, "review", p, previewErr)
	}
	if selected != "" {
		tbl, err := s.retrieval.Preview(c.UserContext(), info.Username, selected)
		if err != nil {
			return s.renderError(c, "review", p, err)
		}
		p.Table = tbl
	}
	return c.Render("review", p)
}

func (s *Server) reviewUpload(c *fiber.Ctx) error {
	info := sessionInfo(c)

	up, err := readUpload(c)
	if err != nil {
		return s.renderUpload(c, nil, err)
	}

	if _, err := s.uploads.Ingest(c.UserContext(), info.Username, *up); err != nil {
		return s.renderUpload(c, nil, err)
	}
	return s.renderUpload(c, up, nil)
}

func (s *Server) reviewPreview(c *fiber.Ctx) error {
	name := c.Query("name")
	if name == "" {
		return s.renderFiles(c, "", fmt.Errorf("%w: name is required", common.ErrorValidation))
	}
	return s.renderFiles(c, name, nil)
}

func (s *Server) reviewDownload(c *fiber.Ctx) error {
	info := sessionInfo(c)

	p, err := s.retrieval.Download(c.UserContext(), info.Username, c.Query("name"))
	if err != nil {
		return s.renderFiles(c, "", err)
	}
	return sendPayload(c, p.Filename, p.ContentType, p.Data)
}

// readUpload reads the multipart field "file" into memory.
func readUpload(c *fiber.Ctx) (*models.Upload, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, fmt.Errorf("%w: no file in field \"file\"", common.ErrorValidation)
	}
	data, err := readFormFile(fh)
	if err != nil {
		return nil, err
	}
	return &models.Upload{
		Name:        fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Data:        data,
	}, nil
}

func readFormFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// contentDisposition builds an RFC 6266 attachment header; non-ASCII names
// go out as filename* (RFC 2231).
func contentDisposition(filename string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": filename}); v != "" {
		return v
	}
	return "attachment"
}

func sendPayload(c *fiber.Ctx, filename, contentType string, data []byte) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, contentDisposition(filename))
	return c.Send(data)
}
