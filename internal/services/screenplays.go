package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/njorogek/screenplay-ingest-api/internal/config"
	"github.com/njorogek/screenplay-ingest-api/internal/extraction"
	"github.com/njorogek/screenplay-ingest-api/internal/gemini"
	"github.com/njorogek/screenplay-ingest-api/internal/models"
	"github.com/njorogek/screenplay-ingest-api/internal/repository"
	"github.com/njorogek/screenplay-ingest-api/internal/screenplay"
	"github.com/njorogek/screenplay-ingest-api/internal/storage"
	"github.com/njorogek/screenplay-ingest-api/internal/utils"
)

type ScreenplayService interface {
	UploadScreenplay(ctx context.Context, req *models.UploadRequest) (*models.UploadResponse, error)
	ProcessScreenplay(ctx context.Context, id string) (*models.ProcessResponse, error)
	GetScreenplay(ctx context.Context, id string) (*models.Screenplay, error)
	ListScenes(ctx context.Context, id string) ([]models.Scene, error)
}

type screenplayService struct {
	repo         repository.Repository
	storage      storage.Storage
	orchestrator *extraction.Orchestrator
	logger       *utils.Logger
}

func NewService(ctx context.Context, repo repository.Repository, cfg *config.Config, logger *utils.Logger) ScreenplayService {
	s3Storage, err := storage.NewS3Storage(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize S3 storage", "error", err)
	}

	// The remote stage is wired with a nil backend when no project is
	// configured; it then reports the backend as unavailable and the
	// pipeline degrades to local-only extraction.
	var backend extraction.Backend
	if cfg.GeminiProjectID != "" {
		client, err := gemini.NewClient(ctx, gemini.Config{
			ProjectID: cfg.GeminiProjectID,
			Region:    cfg.GeminiRegion,
			Model:     cfg.GeminiModel,
		})
		if err != nil {
			logger.Fatal("Failed to initialize gemini client", "error", err)
		}
		backend = client
	} else {
		logger.Warn("No gemini project configured, remote extraction disabled")
	}

	orchestrator := extraction.NewOrchestrator(logger,
		extraction.NewLocalStrategy(cfg.LocalMinChars),
		extraction.NewRemoteStrategy(backend, extraction.RemoteConfig{
			MinChars:        cfg.RemoteMinChars,
			SegmentMinChars: cfg.SegmentMinChars,
			MaxConcurrent:   cfg.MaxConcurrentSegments,
			BatchPause:      cfg.SegmentBatchPause,
			MaxOutputTokens: cfg.MaxOutputTokens,
			BytesPerPage:    cfg.BytesPerPage,
		}, logger),
	)

	return &screenplayService{
		repo:         repo,
		storage:      s3Storage,
		orchestrator: orchestrator,
		logger:       logger,
	}
}

func (s *screenplayService) UploadScreenplay(ctx context.Context, req *models.UploadRequest) (*models.UploadResponse, error) {
	spID := utils.GenerateID()

	doc := models.Document{
		Data:        req.File,
		ContentType: req.ContentType,
		Size:        int64(len(req.File)),
	}

	result, err := s.orchestrator.Extract(ctx, doc)
	if err != nil {
		s.logger.Error("Extraction failed", "error", err, "filename", req.Filename)
		return nil, extractionError(err)
	}

	s3Key := fmt.Sprintf("screenplays/%s/%s", spID, req.Filename)
	if err := s.storage.Upload(ctx, s3Key, req.File, req.ContentType); err != nil {
		s.logger.Error("Failed to upload to S3", "error", err, "s3_key", s3Key)
		return nil, utils.NewInternalError("Failed to store screenplay")
	}

	now := time.Now()
	sp := &models.Screenplay{
		ID:               spID,
		Filename:         req.Filename,
		FileSize:         int64(len(req.File)),
		ContentType:      req.ContentType,
		S3Key:            s3Key,
		ExtractedText:    result.Text,
		ExtractionMethod: result.Method,
		CharCount:        result.CharCount,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repo.CreateScreenplay(ctx, sp); err != nil {
		s.logger.Error("Failed to save screenplay to database", "error", err, "id", spID)
		_ = s.storage.Delete(ctx, s3Key)
		return nil, utils.NewInternalError("Failed to save screenplay metadata")
	}

	s.logger.Info("Screenplay uploaded",
		"id", spID,
		"filename", req.Filename,
		"method", result.Method,
		"char_count", result.CharCount)

	return &models.UploadResponse{
		ID:               spID,
		Filename:         req.Filename,
		FileSize:         sp.FileSize,
		ContentType:      sp.ContentType,
		ExtractionMethod: result.Method,
		CharCount:        result.CharCount,
		CreatedAt:        now,
		Message:          "Screenplay uploaded. Use /screenplays/{id}/process to segment it into scenes.",
	}, nil
}

func (s *screenplayService) ProcessScreenplay(ctx context.Context, id string) (*models.ProcessResponse, error) {
	sp, err := s.repo.GetScreenplayByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get screenplay", "error", err, "id", id)
		return nil, utils.NewInternalError("Failed to retrieve screenplay")
	}
	if sp == nil {
		return nil, utils.NewNotFoundError("Screenplay not found")
	}

	if sp.ProcessedAt != nil {
		s.logger.Info("Screenplay already processed, returning stored scenes", "id", id)
		scenes, err := s.repo.ListScenes(ctx, id)
		if err != nil {
			s.logger.Error("Failed to list scenes", "error", err, "id", id)
			return nil, utils.NewInternalError("Failed to retrieve scenes")
		}
		return &models.ProcessResponse{
			ID:          id,
			SceneCount:  len(scenes),
			Scenes:      scenes,
			ProcessedAt: *sp.ProcessedAt,
		}, nil
	}

	scenes := screenplay.Segment(sp.ExtractedText)
	scenes = screenplay.Classify(scenes)
	for i := range scenes {
		scenes[i].ID = utils.GenerateID()
	}

	if err := s.repo.ReplaceScenes(ctx, id, scenes); err != nil {
		s.logger.Error("Failed to save scenes", "error", err, "id", id)
		return nil, utils.NewInternalError("Failed to save scenes")
	}

	processedAt := time.Now()
	if err := s.repo.MarkProcessed(ctx, id, processedAt); err != nil {
		s.logger.Error("Failed to mark screenplay processed", "error", err, "id", id)
		return nil, utils.NewInternalError("Failed to update screenplay")
	}

	s.logger.Info("Screenplay processed", "id", id, "scene_count", len(scenes))

	return &models.ProcessResponse{
		ID:          id,
		SceneCount:  len(scenes),
		Scenes:      scenes,
		ProcessedAt: processedAt,
	}, nil
}

func (s *screenplayService) GetScreenplay(ctx context.Context, id string) (*models.Screenplay, error) {
	sp, err := s.repo.GetScreenplayByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get screenplay", "error", err, "id", id)
		return nil, utils.NewInternalError("Failed to retrieve screenplay")
	}
	if sp == nil {
		return nil, utils.NewNotFoundError("Screenplay not found")
	}

	return sp, nil
}

func (s *screenplayService) ListScenes(ctx context.Context, id string) ([]models.Scene, error) {
	sp, err := s.repo.GetScreenplayByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get screenplay", "error", err, "id", id)
		return nil, utils.NewInternalError("Failed to retrieve screenplay")
	}
	if sp == nil {
		return nil, utils.NewNotFoundError("Screenplay not found")
	}
	if sp.ProcessedAt == nil {
		return nil, utils.NewBadRequestError("Screenplay has not been processed yet")
	}

	scenes, err := s.repo.ListScenes(ctx, id)
	if err != nil {
		s.logger.Error("Failed to list scenes", "error", err, "id", id)
		return nil, utils.NewInternalError("Failed to retrieve scenes")
	}
	if scenes == nil {
		scenes = []models.Scene{}
	}
	return scenes, nil
}

// extractionError maps a pipeline failure onto the HTTP error surface.
func extractionError(err error) error {
	var extErr *extraction.ExtractionError
	if !errors.As(err, &extErr) {
		return utils.NewInternalError("Failed to extract text from screenplay")
	}

	switch extErr.Kind {
	case extraction.FailureBackendUnavailable:
		return utils.NewServiceUnavailableError("Text extraction backend is unavailable, try again later")
	case extraction.FailureDocumentUnreadable:
		return utils.NewUnprocessableError("No text could be extracted from the document. The file may be scanned, empty, or corrupted")
	default:
		return utils.NewUnprocessableError(fmt.Sprintf("Extracted text is too short to be a screenplay: %v", extErr))
	}
}
