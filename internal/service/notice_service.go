package service

import (
	"context"
	"errors"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/avenues-school/site-api/internal/models"
	appErrors "github.com/avenues-school/site-api/pkg/errors"
	"github.com/avenues-school/site-api/pkg/media"
)

type noticeRepository interface {
	List(ctx context.Context) ([]models.Notice, error)
	Get(ctx context.Context, id string) (*models.Notice, error)
	Create(ctx context.Context, notice models.Notice) (*models.Notice, error)
	Update(ctx context.Context, id string, notice models.Notice) error
	Delete(ctx context.Context, id string) error
}

type mediaUploader interface {
	Upload(ctx context.Context, filename string, file io.Reader) (*media.UploadResult, error)
}

const noticesFeedKey = "feed:notices"

// NoticeSubmission carries one create-or-edit request from the board form.
// File is optional; when nil on an edit, the existing attachment survives.
type NoticeSubmission struct {
	ID          string
	Title       string
	Description string
	FileName    string
	File        io.Reader
}

// NoticeService handles board reads and the publish flow.
type NoticeService struct {
	repo     noticeRepository
	uploader mediaUploader
	cache    *CacheService
	metrics  *MetricsService
	logger   *zap.Logger
}

// NewNoticeService constructs the notice service.
func NewNoticeService(repo noticeRepository, uploader mediaUploader, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *NoticeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NoticeService{repo: repo, uploader: uploader, cache: cache, metrics: metrics, logger: logger}
}

// List returns the full board, newest first.
func (s *NoticeService) List(ctx context.Context) ([]models.Notice, error) {
	var cached []models.Notice
	if hit, _ := s.cache.Get(ctx, noticesFeedKey, &cached); hit {
		return cached, nil
	}

	notices, err := s.repo.List(ctx)
	if err != nil {
		return nil, listError(err, "failed to list notices")
	}

	_ = s.cache.Set(ctx, noticesFeedKey, notices, 0)
	return notices, nil
}

// Submit publishes a notice. The attachment is uploaded first and a failed
// upload aborts the whole submission, so a notice never points at a file
// that was never stored. Edits without a new file keep the old attachment.
func (s *NoticeService) Submit(ctx context.Context, sub NoticeSubmission) (*models.Notice, error) {
	title := strings.TrimSpace(sub.Title)
	if title == "" {
		return nil, appErrors.WithFields(map[string]string{"title": "Title is required"})
	}

	notice := models.Notice{
		Title:       title,
		Description: strings.TrimSpace(sub.Description),
	}

	if sub.File != nil {
		if s.uploader == nil {
			return nil, appErrors.Clone(appErrors.ErrUnavailable, "file uploads are not configured")
		}
		result, err := s.uploader.Upload(ctx, sub.FileName, sub.File)
		if err != nil {
			s.metrics.RecordUpload(uploadOutcome(err))
			return nil, err
		}
		s.metrics.RecordUpload("success")
		notice.FileURL = result.URL
		notice.FileName = result.DisplayName
		notice.FileType = result.MimeCategory
	}

	if sub.ID == "" {
		created, err := s.repo.Create(ctx, notice)
		if err != nil {
			return nil, listError(err, "failed to create notice")
		}
		_ = s.cache.Invalidate(ctx, noticesFeedKey)
		s.logger.Info("notice published", zap.String("id", created.ID), zap.Bool("attachment", created.FileURL != ""))
		return created, nil
	}

	existing, err := s.repo.Get(ctx, sub.ID)
	if err != nil {
		if errors.Is(err, appErrors.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "notice not found")
		}
		return nil, listError(err, "failed to load notice")
	}
	if sub.File == nil {
		notice.FileURL = existing.FileURL
		notice.FileName = existing.FileName
		notice.FileType = existing.FileType
	}
	if err := s.repo.Update(ctx, sub.ID, notice); err != nil {
		return nil, listError(err, "failed to update notice")
	}
	_ = s.cache.Invalidate(ctx, noticesFeedKey)

	notice.ID = sub.ID
	notice.CreatedAt = existing.CreatedAt
	s.logger.Info("notice updated", zap.String("id", sub.ID))
	return &notice, nil
}

// Delete removes a notice. An already-absent notice counts as success.
func (s *NoticeService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil && !errors.Is(err, appErrors.ErrNotFound) {
		return listError(err, "failed to delete notice")
	}
	_ = s.cache.Invalidate(ctx, noticesFeedKey)
	return nil
}

// uploadOutcome labels a failed upload for the metrics counter.
func uploadOutcome(err error) string {
	switch appErrors.FromError(err).Code {
	case appErrors.ErrUploadRejected.Code:
		return "rejected"
	case appErrors.ErrUnavailable.Code:
		return "unavailable"
	default:
		return "error"
	}
}
