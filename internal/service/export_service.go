package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/avenues-school/site-api/pkg/errors"
	"github.com/avenues-school/site-api/pkg/export"
)

type datasetSource interface {
	ExportDataset(ctx context.Context) (*export.Dataset, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportFile is a rendered download ready to stream to the client.
type ExportFile struct {
	Content     []byte
	ContentType string
	Filename    string
}

// ExportService renders the admissions grid into downloadable files.
type ExportService struct {
	source datasetSource
	csv    csvRenderer
	pdf    pdfRenderer
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService constructs the export service.
func NewExportService(source datasetSource, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ExportService {
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{source: source, csv: csv, pdf: pdf, logger: logger, now: time.Now}
}

// Generate renders every application in the requested format.
func (s *ExportService) Generate(ctx context.Context, format string) (*ExportFile, error) {
	dataset, err := s.source.ExportDataset(ctx)
	if err != nil {
		return nil, err
	}

	stamp := s.now().UTC().Format("2006-01-02")
	switch format {
	case "csv", "":
		content, err := s.csv.Render(*dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
		}
		return &ExportFile{
			Content:     content,
			ContentType: "text/csv",
			Filename:    fmt.Sprintf("admissions-%s.csv", stamp),
		}, nil
	case "pdf":
		content, err := s.pdf.Render(*dataset, "Admission Applications")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
		}
		return &ExportFile{
			Content:     content,
			ContentType: "application/pdf",
			Filename:    fmt.Sprintf("admissions-%s.pdf", stamp),
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}
