package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	minioClient "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/dtereshkin/studykit/internal/config"
	"github.com/dtereshkin/studykit/internal/logger"
	"github.com/dtereshkin/studykit/internal/model"
	repo "github.com/dtereshkin/studykit/internal/repository/kv"
	"github.com/dtereshkin/studykit/internal/service"
	fileStorage "github.com/dtereshkin/studykit/internal/storage/file"
	minioStorage "github.com/dtereshkin/studykit/internal/storage/minio"
	"github.com/dtereshkin/studykit/internal/token"
)

// app bundles the wired services for one command invocation.
type app struct {
	identity *service.Identity
	content  *service.Content
	logger   *logger.Logger
}

// newApp wires config, storage, repositories and services, then restores
// any persisted session.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	log := logger.New(cfg.LogLevel)

	store, err := newKV(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	userRepo := repo.NewUserRepository(store)
	sessionRepo := repo.NewSessionRepository(store)
	flashcardRepo := repo.NewFlashcardRepository(store)
	quizRepo := repo.NewQuizRepository(store)
	tokenManager := token.NewJWT(cfg.Session.Secret, time.Duration(cfg.Session.TTLHours)*time.Hour)

	identity := service.NewIdentity(userRepo, sessionRepo, tokenManager, log, cfg.Auth.BcryptCost)
	content := service.NewContent(flashcardRepo, quizRepo, identity, log)

	if _, err := identity.RestoreSession(ctx); err != nil && !errors.Is(err, model.ErrNotFound) {
		return nil, fmt.Errorf("failed to restore session: %w", err)
	}

	return &app{identity: identity, content: content, logger: log}, nil
}

func newKV(ctx context.Context, cfg *config.Config) (model.KV, error) {
	switch cfg.Storage.Backend {
	case "file":
		dir := cfg.Storage.DataDir
		if dir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("failed to resolve home directory: %w", err)
			}
			dir = filepath.Join(home, ".studykit")
		}
		return fileStorage.NewStore(dir)
	case "minio":
		client, err := minioClient.New(cfg.Minio.Endpoint, &minioClient.Options{
			Creds:  credentials.NewStaticV4(cfg.Minio.AccessKey, cfg.Minio.SecretKey, ""),
			Secure: cfg.Minio.UseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create minio client: %w", err)
		}
		return minioStorage.NewStore(ctx, client, cfg.Minio.Bucket)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// requireUser returns the current session user or an actionable error.
func (a *app) requireUser() (model.UserView, error) {
	user, ok := a.identity.CurrentUser()
	if !ok {
		return model.UserView{}, errors.New("not logged in, run `studyctl login` first")
	}
	return user, nil
}
