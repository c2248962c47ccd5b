package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/team-izakaya/menugraph-backend/internal/platform/logger"
	"github.com/team-izakaya/menugraph-backend/internal/repos"
	"github.com/team-izakaya/menugraph-backend/internal/types"
)

type fakeGraphWriter struct {
	created []string
	err     error
}

func (f *fakeGraphWriter) CreateUser(ctx context.Context, userID uint, username string, age int, gender string) error {
	f.created = append(f.created, username)
	return f.err
}

func testAuthService(t *testing.T, graph *fakeGraphWriter) AuthService {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "auth.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&types.User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return NewAuthService(db, log, repos.NewUserRepo(db, log), graph, "test-secret", time.Hour)
}

func TestRegisterAndLoginRoundTrip(t *testing.T) {
	graph := &fakeGraphWriter{}
	svc := testAuthService(t, graph)
	ctx := context.Background()

	user, err := svc.Register(ctx, "  Kim ", "secret123", 29, "male")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Username != "kim" {
		t.Fatalf("username not normalized: got=%q", user.Username)
	}
	if user.PasswordHash == "secret123" {
		t.Fatalf("password stored in plain text")
	}
	if len(graph.created) != 1 || graph.created[0] != "kim" {
		t.Fatalf("graph mirror: got=%v", graph.created)
	}

	token, loggedIn, err := svc.Login(ctx, "kim", "secret123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if loggedIn.ID != user.ID {
		t.Fatalf("login user id: want=%d got=%d", user.ID, loggedIn.ID)
	}

	uid, username, err := svc.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if uid != user.ID || username != "kim" {
		t.Fatalf("token claims: uid=%d username=%q", uid, username)
	}
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	svc := testAuthService(t, &fakeGraphWriter{})
	ctx := context.Background()

	if _, err := svc.Register(ctx, "kim", "secret123", 29, "male"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := svc.Register(ctx, "KIM", "other456", 31, "female"); err == nil {
		t.Fatalf("expected duplicate username error")
	}
}

func TestRegisterSurvivesGraphMirrorFailure(t *testing.T) {
	graph := &fakeGraphWriter{err: context.DeadlineExceeded}
	svc := testAuthService(t, graph)

	user, err := svc.Register(context.Background(), "kim", "secret123", 29, "male")
	if err != nil {
		t.Fatalf("Register must not fail on mirror error: %v", err)
	}
	if user.ID == 0 {
		t.Fatalf("user not persisted")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := testAuthService(t, &fakeGraphWriter{})
	ctx := context.Background()

	if _, err := svc.Register(ctx, "kim", "secret123", 29, "male"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, _, err := svc.Login(ctx, "kim", "wrong"); err == nil {
		t.Fatalf("expected login failure")
	}
}

func TestParseTokenRejectsForgedToken(t *testing.T) {
	svc := testAuthService(t, &fakeGraphWriter{})

	if _, _, err := svc.ParseToken("not-a-token"); err == nil {
		t.Fatalf("expected parse failure")
	}
}
