package services

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/team-izakaya/menugraph-backend/internal/normalization"
	"github.com/team-izakaya/menugraph-backend/internal/platform/logger"
	"github.com/team-izakaya/menugraph-backend/internal/repos"
	"github.com/team-izakaya/menugraph-backend/internal/types"
)

// GraphUserWriter mirrors new accounts into the graph store.
type GraphUserWriter interface {
	CreateUser(ctx context.Context, userID uint, username string, age int, gender string) error
}

type AuthService interface {
	Register(ctx context.Context, username, password string, age int, gender string) (*types.User, error)
	Login(ctx context.Context, username, password string) (string, *types.User, error)
	ParseToken(tokenString string) (uint, string, error)
	GetAccessTTL() time.Duration
}

type authService struct {
	db           *gorm.DB
	log          *logger.Logger
	userRepo     repos.UserRepo
	graph        GraphUserWriter
	jwtSecretKey string
	accessTTL    time.Duration
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	graph GraphUserWriter,
	jwtSecretKey string,
	accessTTL time.Duration,
) AuthService {
	return &authService{
		db:           db,
		log:          log.With("service", "AuthService"),
		userRepo:     userRepo,
		graph:        graph,
		jwtSecretKey: jwtSecretKey,
		accessTTL:    accessTTL,
	}
}

func (as *authService) Register(ctx context.Context, username, password string, age int, gender string) (*types.User, error) {
	username = normalization.ParseInputString(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("username and password required")
	}

	exists, err := as.userRepo.UsernameExists(ctx, nil, username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("username already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &types.User{
		Username:     username,
		PasswordHash: string(hash),
		Age:          age,
		Gender:       gender,
	}
	if _, err := as.userRepo.Create(ctx, nil, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	// The graph node is what the recommendation traversals anchor on. A
	// failed mirror is logged, not rolled back; the node gets merged on the
	// next signup attempt with the same name.
	if err := as.graph.CreateUser(ctx, user.ID, user.Username, user.Age, user.Gender); err != nil {
		as.log.Warn("Graph user mirror failed", "username", user.Username, "error", err)
	}

	return user, nil
}

func (as *authService) Login(ctx context.Context, username, password string) (string, *types.User, error) {
	username = normalization.ParseInputString(username)

	user, err := as.userRepo.GetByUsername(ctx, nil, username)
	if err != nil {
		return "", nil, fmt.Errorf("look up user: %w", err)
	}
	if user == nil {
		return "", nil, fmt.Errorf("invalid username or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, fmt.Errorf("invalid username or password")
	}

	token, err := as.generateAccessToken(user)
	if err != nil {
		return "", nil, fmt.Errorf("generate access token: %w", err)
	}
	return token, user, nil
}

func (as *authService) generateAccessToken(user *types.User) (string, error) {
	claims := jwt.MapClaims{
		"sub": user.Username,
		"uid": user.ID,
		"exp": time.Now().Add(as.accessTTL).Unix(),
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}

// ParseToken validates the bearer token and returns the embedded user id and
// username.
func (as *authService) ParseToken(tokenString string) (uint, string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(as.jwtSecretKey), nil
	})
	if err != nil || !token.Valid {
		return 0, "", fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", fmt.Errorf("invalid token claims")
	}
	username, _ := claims["sub"].(string)
	uidRaw, _ := claims["uid"].(float64)
	if username == "" || uidRaw <= 0 {
		return 0, "", fmt.Errorf("token missing identity claims")
	}
	return uint(uidRaw), username, nil
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}
