package services

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/yigit/internhub/internal/app/models"
	"github.com/yigit/internhub/internal/app/repositories"
	"github.com/yigit/internhub/internal/app/repositories/gormstore"
	"github.com/yigit/internhub/internal/db"
	"github.com/yigit/internhub/internal/domain/workflow"
	"github.com/yigit/internhub/internal/pkg/auth"
	"github.com/yigit/internhub/internal/pkg/email"
	"github.com/yigit/internhub/internal/pkg/filestorage"
	"github.com/yigit/internhub/internal/pkg/notify"
)

type recordingPublisher struct {
	mu  sync.Mutex
	got []notify.Notification
}

func (p *recordingPublisher) Publish(n notify.Notification) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.got = append(p.got, n)
}

func (p *recordingPublisher) events() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.got))
	for _, n := range p.got {
		out = append(out, n.Event)
	}
	return out
}

type mailbox struct {
	mu   sync.Mutex
	sent []email.Message
}

func (m *mailbox) Send(_ context.Context, msg email.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

type env struct {
	ctx   context.Context
	repos *repositories.Repositories
	svc   *Services
	pub   *recordingPublisher
	mail  *mailbox
	files *filestorage.LocalStorage
	admin workflow.Actor
}

func setup(t *testing.T) *env {
	t.Helper()
	auth.BcryptCost = bcrypt.MinCost

	sqlite, err := db.NewMemorySQLite(t.Name())
	require.NoError(t, err)
	t.Cleanup(sqlite.Close)

	files, err := filestorage.NewLocalStorage(t.TempDir(), "http://localhost:8080", 0)
	require.NoError(t, err)

	e := &env{
		ctx:   context.Background(),
		repos: gormstore.NewRepositories(sqlite.Gorm),
		pub:   &recordingPublisher{},
		mail:  &mailbox{},
		files: files,
	}
	e.svc = NewServices(Deps{
		Repos: e.repos,
		JWT: auth.NewJWTService(auth.JWTConfig{
			SecretKey:       "test-secret",
			AccessTokenExp:  time.Hour,
			RefreshTokenExp: 24 * time.Hour,
			TokenIssuer:     "internhub.test",
		}),
		Files:     files,
		Publisher: e.pub,
		Mailer:    e.mail,
		Logger:    zerolog.Nop(),
	})

	admin := e.user(t, "admin@uni.dz", models.RoleAdmin)
	e.admin = workflow.Actor{ID: admin.ID, Role: models.RoleAdmin}
	return e
}

func (e *env) user(t *testing.T, addr string, role models.Role) *models.User {
	t.Helper()
	u := &models.User{Email: addr, Password: "x", FirstName: "Test", LastName: string(role), Role: role, IsActive: true}
	require.NoError(t, e.repos.Users.Create(e.ctx, u))
	return u
}

func actorOf(u *models.User) workflow.Actor {
	return workflow.Actor{ID: u.ID, Role: u.Role}
}

func upload(t *testing.T, filename, body string) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(body))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["file"][0]
}

// signup registers a student and returns the account and application
func (e *env) signup(t *testing.T, addr, number string) (*models.User, *models.Application) {
	t.Helper()
	u, app, err := e.svc.Auth.Signup(e.ctx, SignupInput{
		FirstName:        "Amina",
		LastName:         "Benali",
		Email:            addr,
		Password:         "secret123",
		StudentNumber:    number,
		CV:               upload(t, "cv.pdf", "cv"),
		MotivationLetter: upload(t, "letter.pdf", "letter"),
	})
	require.NoError(t, err)
	return u, app
}

// readyStudent walks a new student to ready_for_assignment
func (e *env) readyStudent(t *testing.T, addr, number string) (*models.User, *models.Application) {
	t.Helper()
	student, app := e.signup(t, addr, number)
	_, err := e.svc.Applications.Approve(e.ctx, e.admin, app.ID, 0)
	require.NoError(t, err)
	view, err := e.svc.Applications.SubmitDocuments(e.ctx, actorOf(student), map[models.DocumentKind]*multipart.FileHeader{
		models.DocumentTranscript:     upload(t, "transcript.pdf", "grades"),
		models.DocumentRecommendation: upload(t, "reco.pdf", "reco"),
	}, 0)
	require.NoError(t, err)
	return student, view.Application
}

// assignedStudent walks a new student to approved under supervisor
func (e *env) assignedStudent(t *testing.T, addr, number string, supervisor *models.User) (*models.User, *models.Application) {
	t.Helper()
	student, app := e.readyStudent(t, addr, number)
	view, err := e.svc.Applications.Assign(e.ctx, e.admin, app.ID, supervisor.ID, 0)
	require.NoError(t, err)
	return student, view.Application
}
