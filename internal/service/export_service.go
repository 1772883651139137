package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Bhavikk35/SERVICES-MARKETPLACES/internal/models"
	appErrors "github.com/Bhavikk35/SERVICES-MARKETPLACES/pkg/errors"
	"github.com/Bhavikk35/SERVICES-MARKETPLACES/pkg/export"
)

type eventLister interface {
	ListEventsInRange(ctx context.Context, providerID int64, from, to time.Time) ([]models.CalendarEventDetail, error)
}

// Export formats.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

// ExportFile is a rendered schedule export.
type ExportFile struct {
	Content     []byte
	ContentType string
	Filename    string
}

// ExportService renders a provider's schedule as a downloadable document.
type ExportService struct {
	store  eventLister
	csv    *export.CSVExporter
	pdf    *export.PDFExporter
	logger *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(store eventLister, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		store:  store,
		csv:    export.NewCSVExporter(),
		pdf:    export.NewPDFExporter(),
		logger: logger,
	}
}

// RenderSchedule exports the provider's events in [from, to] as CSV or PDF.
func (s *ExportService) RenderSchedule(ctx context.Context, providerID int64, from, to time.Time, format string) (*ExportFile, error) {
	if format != ExportFormatCSV && format != ExportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
	if !from.Before(to) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "range start must be before range end")
	}

	events, err := s.store.ListEventsInRange(ctx, providerID, from, to)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch calendar events")
	}

	dataset := export.Dataset{
		Headers: []string{"Start", "End", "Title", "Status", "Customer"},
		Rows:    make([]map[string]string, 0, len(events)),
	}
	for _, e := range events {
		customer := ""
		if e.CustomerName != nil {
			customer = *e.CustomerName
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Start":    e.StartTime.Format(time.RFC3339),
			"End":      e.EndTime.Format(time.RFC3339),
			"Title":    e.Title,
			"Status":   string(e.Status),
			"Customer": customer,
		})
	}

	stamp := time.Now().UTC().Format("20060102")
	switch format {
	case ExportFormatCSV:
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
		}
		return &ExportFile{
			Content:     content,
			ContentType: "text/csv",
			Filename:    fmt.Sprintf("schedule-%d-%s.csv", providerID, stamp),
		}, nil
	default:
		content, err := s.pdf.Render(dataset, "Provider Schedule")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
		}
		return &ExportFile{
			Content:     content,
			ContentType: "application/pdf",
			Filename:    fmt.Sprintf("schedule-%d-%s.pdf", providerID, stamp),
		}, nil
	}
}
