package service

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/avenues-school/site-api/internal/models"
	appErrors "github.com/avenues-school/site-api/pkg/errors"
	"github.com/avenues-school/site-api/pkg/media"
)

type mockNoticeRepo struct {
	notices   map[string]models.Notice
	created   int
	updated   int
	listCalls int
}

func newMockNoticeRepo() *mockNoticeRepo {
	return &mockNoticeRepo{notices: make(map[string]models.Notice)}
}

func (m *mockNoticeRepo) List(ctx context.Context) ([]models.Notice, error) {
	m.listCalls++
	out := make([]models.Notice, 0, len(m.notices))
	for _, n := range m.notices {
		out = append(out, n)
	}
	return out, nil
}

func (m *mockNoticeRepo) Get(ctx context.Context, id string) (*models.Notice, error) {
	if n, ok := m.notices[id]; ok {
		return &n, nil
	}
	return nil, appErrors.ErrNotFound
}

func (m *mockNoticeRepo) Create(ctx context.Context, notice models.Notice) (*models.Notice, error) {
	notice.ID = "notice-1"
	notice.CreatedAt = time.Now().UTC()
	m.notices[notice.ID] = notice
	m.created++
	return &notice, nil
}

func (m *mockNoticeRepo) Update(ctx context.Context, id string, notice models.Notice) error {
	existing, ok := m.notices[id]
	if !ok {
		return appErrors.ErrNotFound
	}
	notice.ID = id
	notice.CreatedAt = existing.CreatedAt
	m.notices[id] = notice
	m.updated++
	return nil
}

func (m *mockNoticeRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.notices[id]; !ok {
		return appErrors.ErrNotFound
	}
	delete(m.notices, id)
	return nil
}

type mockUploader struct {
	result *media.UploadResult
	err    error
	calls  int
}

func (m *mockUploader) Upload(ctx context.Context, filename string, file io.Reader) (*media.UploadResult, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func TestNoticeServiceSubmitCreateWithAttachment(t *testing.T) {
	repo := newMockNoticeRepo()
	uploader := &mockUploader{result: &media.UploadResult{
		URL:          "https://cdn.example.com/circular.pdf",
		DisplayName:  "circular.pdf",
		MimeCategory: "raw/pdf",
	}}
	svc := NewNoticeService(repo, uploader, nil, nil, zap.NewNop())

	notice, err := svc.Submit(context.Background(), NoticeSubmission{
		Title:    "Holiday circular",
		FileName: "circular.pdf",
		File:     strings.NewReader("%PDF-1.4"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, uploader.calls)
	assert.Equal(t, "https://cdn.example.com/circular.pdf", notice.FileURL)
	assert.Equal(t, "circular.pdf", notice.FileName)
	assert.Equal(t, "raw/pdf", notice.FileType)
	assert.Equal(t, 1, repo.created)
}

func TestNoticeServiceSubmitUploadFailureAborts(t *testing.T) {
	repo := newMockNoticeRepo()
	uploader := &mockUploader{err: appErrors.Clone(appErrors.ErrUploadRejected, "Invalid upload preset")}
	svc := NewNoticeService(repo, uploader, nil, nil, zap.NewNop())

	_, err := svc.Submit(context.Background(), NoticeSubmission{
		Title:    "Holiday circular",
		FileName: "circular.pdf",
		File:     strings.NewReader("%PDF-1.4"),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUploadRejected.Code, appErrors.FromError(err).Code)
	assert.Zero(t, repo.created, "a failed upload must not leave a notice behind")
}

func TestNoticeServiceSubmitEditKeepsAttachment(t *testing.T) {
	repo := newMockNoticeRepo()
	repo.notices["notice-1"] = models.Notice{
		ID:        "notice-1",
		Title:     "Old title",
		FileURL:   "https://cdn.example.com/old.pdf",
		FileName:  "old.pdf",
		FileType:  "raw/pdf",
		CreatedAt: time.Date(2024, time.January, 5, 8, 0, 0, 0, time.UTC),
	}
	uploader := &mockUploader{}
	svc := NewNoticeService(repo, uploader, nil, nil, zap.NewNop())

	notice, err := svc.Submit(context.Background(), NoticeSubmission{
		ID:    "notice-1",
		Title: "New title",
	})
	require.NoError(t, err)
	assert.Zero(t, uploader.calls, "no new file means no upload")
	assert.Equal(t, "New title", notice.Title)
	assert.Equal(t, "https://cdn.example.com/old.pdf", notice.FileURL, "existing attachment survives the edit")
	assert.Equal(t, time.Date(2024, time.January, 5, 8, 0, 0, 0, time.UTC), notice.CreatedAt)
	assert.Equal(t, 1, repo.updated)
}

func TestNoticeServiceSubmitRequiresTitle(t *testing.T) {
	svc := NewNoticeService(newMockNoticeRepo(), &mockUploader{}, nil, nil, zap.NewNop())

	_, err := svc.Submit(context.Background(), NoticeSubmission{Title: "   "})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, "Title is required", appErr.Fields["title"])
}

func TestNoticeServiceDeleteSwallowsMissing(t *testing.T) {
	repo := newMockNoticeRepo()
	svc := NewNoticeService(repo, nil, nil, nil, zap.NewNop())

	require.NoError(t, svc.Delete(context.Background(), "ghost"))
}

type spyCacheRepo struct {
	store   map[string][]byte
	deleted []string
}

func newSpyCacheRepo() *spyCacheRepo {
	return &spyCacheRepo{store: make(map[string][]byte)}
}

func (s *spyCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := s.store[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (s *spyCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.store[key] = raw
	return nil
}

func (s *spyCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	s.deleted = append(s.deleted, pattern)
	delete(s.store, pattern)
	return nil
}

func TestNoticeServiceListReadsThroughCache(t *testing.T) {
	repo := newMockNoticeRepo()
	repo.notices["notice-1"] = models.Notice{ID: "notice-1", Title: "Cached"}
	cacheRepo := newSpyCacheRepo()
	cache := NewCacheService(cacheRepo, nil, time.Minute, zap.NewNop(), true)
	svc := NewNoticeService(repo, nil, cache, nil, zap.NewNop())

	first, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 1, repo.listCalls)

	second, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.listCalls, "second read is served from cache")
}

func TestNoticeServiceWritesInvalidateCache(t *testing.T) {
	repo := newMockNoticeRepo()
	cacheRepo := newSpyCacheRepo()
	cache := NewCacheService(cacheRepo, nil, time.Minute, zap.NewNop(), true)
	svc := NewNoticeService(repo, nil, cache, nil, zap.NewNop())

	_, err := svc.List(context.Background())
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), NoticeSubmission{Title: "Fresh"})
	require.NoError(t, err)
	assert.Contains(t, cacheRepo.deleted, "feed:notices")

	_, err = svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, repo.listCalls, "the stale board entry is gone after a write")

	require.NoError(t, svc.Delete(context.Background(), "notice-1"))
	assert.Len(t, cacheRepo.deleted, 2)
}

func TestNoticeServiceSubmitCountsUploadOutcomes(t *testing.T) {
	metrics := NewMetricsService()

	okUploader := &mockUploader{result: &media.UploadResult{URL: "https://cdn.example.com/a.png"}}
	svc := NewNoticeService(newMockNoticeRepo(), okUploader, nil, metrics, zap.NewNop())
	_, err := svc.Submit(context.Background(), NoticeSubmission{
		Title: "With file", FileName: "a.png", File: strings.NewReader("png"),
	})
	require.NoError(t, err)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.uploadTotal.WithLabelValues("success")))

	badUploader := &mockUploader{err: appErrors.Clone(appErrors.ErrUploadRejected, "Invalid upload preset")}
	svc = NewNoticeService(newMockNoticeRepo(), badUploader, nil, metrics, zap.NewNop())
	_, err = svc.Submit(context.Background(), NoticeSubmission{
		Title: "Broken", FileName: "b.png", File: strings.NewReader("png"),
	})
	require.Error(t, err)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.uploadTotal.WithLabelValues("rejected")))

	downUploader := &mockUploader{err: appErrors.Clone(appErrors.ErrUnavailable, "media provider unavailable")}
	svc = NewNoticeService(newMockNoticeRepo(), downUploader, nil, metrics, zap.NewNop())
	_, err = svc.Submit(context.Background(), NoticeSubmission{
		Title: "Down", FileName: "c.png", File: strings.NewReader("png"),
	})
	require.Error(t, err)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.uploadTotal.WithLabelValues("unavailable")))
}
