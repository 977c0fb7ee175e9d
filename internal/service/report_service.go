package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/csmentors/scheduler-api/internal/models"
	appErrors "github.com/csmentors/scheduler-api/pkg/errors"
	"github.com/csmentors/scheduler-api/pkg/export"
	"github.com/csmentors/scheduler-api/pkg/jobs"
	"github.com/csmentors/scheduler-api/pkg/storage"
)

type reportAttendanceRepo interface {
	ListBySection(ctx context.Context, sectionID string) ([]models.AttendanceRecord, error)
}

type reportSectionRepo interface {
	FindDetailByID(ctx context.Context, id string, now time.Time) (*models.SectionDetail, error)
}

// ReportService renders attendance sheets asynchronously. Reports are
// tracked in memory only; a restart forgets pending requests, which is
// acceptable since exports are cheap to re-request.
type ReportService struct {
	attendances reportAttendanceRepo
	sections    reportSectionRepo
	csv         *export.CSVExporter
	pdf         *export.PDFExporter
	store       *storage.LocalStorage
	signer      *storage.SignedURLSigner
	queue       *jobs.Queue
	logger      *zap.Logger
	now         func() time.Time

	mu      sync.RWMutex
	reports map[string]*models.AttendanceReport
}

// NewReportService constructs the report service and its worker queue.
func NewReportService(
	attendances reportAttendanceRepo,
	sections reportSectionRepo,
	store *storage.LocalStorage,
	signer *storage.SignedURLSigner,
	queueCfg jobs.QueueConfig,
	logger *zap.Logger,
) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &ReportService{
		attendances: attendances,
		sections:    sections,
		csv:         export.NewCSVExporter(),
		pdf:         export.NewPDFExporter(),
		store:       store,
		signer:      signer,
		logger:      logger,
		now:         time.Now,
		reports:     make(map[string]*models.AttendanceReport),
	}
	s.queue = jobs.NewQueue("attendance-reports", s.process, queueCfg)
	return s
}

// Start launches the report workers and sweeps exports left over from
// before the last restart; their download links are orphaned anyway.
func (s *ReportService) Start(ctx context.Context) {
	if removed, err := s.store.CleanupOlderThan(0); err != nil {
		s.logger.Warn("failed to sweep stale exports", zap.Error(err))
	} else if len(removed) > 0 {
		s.logger.Info("swept stale exports", zap.Int("count", len(removed)))
	}
	s.queue.Start(ctx)
}

// Stop drains the report workers.
func (s *ReportService) Stop() { s.queue.Stop() }

// Request registers a new export and enqueues its rendering.
func (s *ReportService) Request(ctx context.Context, user *models.User, sectionID string, format models.ReportFormat) (*models.AttendanceReport, error) {
	if !format.Valid() {
		return nil, appErrors.Wrap(nil, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unsupported report format")
	}

	section, err := s.sections.FindDetailByID(ctx, sectionID, s.now())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up section")
	}
	if section == nil {
		return nil, appErrors.ErrNotFound
	}

	report := &models.AttendanceReport{
		ID:          uuid.New().String(),
		SectionID:   sectionID,
		Format:      format,
		Status:      models.ReportStatusPending,
		RequestedBy: user.ID,
		CreatedAt:   s.now(),
	}

	s.mu.Lock()
	s.reports[report.ID] = report
	s.mu.Unlock()

	if err := s.queue.Enqueue(jobs.Job{ID: report.ID, Type: "attendance-report", Payload: report.ID}); err != nil {
		s.fail(report.ID, err)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "report queue is full")
	}

	snapshot := *report
	return &snapshot, nil
}

// Get returns a report's current state.
func (s *ReportService) Get(ctx context.Context, reportID string) (*models.AttendanceReport, error) {
	s.mu.RLock()
	report, ok := s.reports[reportID]
	var snapshot models.AttendanceReport
	if ok {
		snapshot = *report
	}
	s.mu.RUnlock()

	if !ok {
		return nil, appErrors.ErrNotFound
	}
	return &snapshot, nil
}

// ResolveDownload validates a signed token and returns the on-disk path.
func (s *ReportService) ResolveDownload(token string) (string, error) {
	reportID, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid or expired download link")
	}

	s.mu.RLock()
	report, ok := s.reports[reportID]
	var snapshot models.AttendanceReport
	if ok {
		snapshot = *report
	}
	s.mu.RUnlock()
	if !ok || snapshot.Status != models.ReportStatusCompleted || snapshot.FilePath != relPath {
		return "", appErrors.ErrNotFound
	}
	path := s.store.Path(relPath)
	if path == "" {
		return "", appErrors.ErrNotFound
	}
	return path, nil
}

func (s *ReportService) process(ctx context.Context, job jobs.Job) error {
	reportID, _ := job.Payload.(string)

	s.mu.RLock()
	report, ok := s.reports[reportID]
	var sectionID string
	var format models.ReportFormat
	if ok {
		sectionID = report.SectionID
		format = report.Format
	}
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("report %s not registered", reportID)
	}

	section, err := s.sections.FindDetailByID(ctx, sectionID, s.now())
	if err != nil || section == nil {
		s.fail(reportID, fmt.Errorf("section lookup: %w", err))
		return err
	}

	records, err := s.attendances.ListBySection(ctx, sectionID)
	if err != nil {
		s.fail(reportID, err)
		return err
	}

	dataset := buildAttendanceDataset(records)
	var payload []byte
	switch format {
	case models.ReportFormatPDF:
		title := fmt.Sprintf("%s attendance (%s)", section.CourseName, section.MentorName)
		payload, err = s.pdf.Render(dataset, title)
	default:
		payload, err = s.csv.Render(dataset)
	}
	if err != nil {
		s.fail(reportID, err)
		return err
	}

	filename := fmt.Sprintf("%s.%s", reportID, format)
	relPath, err := s.store.Save(filename, payload)
	if err != nil {
		s.fail(reportID, err)
		return err
	}

	token, expiresAt, err := s.signer.Generate(reportID, relPath)
	if err != nil {
		s.fail(reportID, err)
		return err
	}
	url := "/downloads?token=" + token

	completed := s.now()
	s.mu.Lock()
	report.Status = models.ReportStatusCompleted
	report.FilePath = relPath
	report.DownloadURL = url
	report.ExpiresAt = &expiresAt
	report.CompletedAt = &completed
	s.mu.Unlock()

	s.logger.Info("attendance report rendered",
		zap.String("report_id", reportID),
		zap.String("section_id", sectionID),
		zap.String("format", string(format)),
		zap.Int("rows", len(records)))
	return nil
}

func (s *ReportService) fail(reportID string, cause error) {
	s.mu.Lock()
	if report, ok := s.reports[reportID]; ok {
		report.Status = models.ReportStatusFailed
		if cause != nil {
			report.Error = cause.Error()
		}
	}
	s.mu.Unlock()
	s.logger.Error("attendance report failed", zap.String("report_id", reportID), zap.Error(cause))
}

func buildAttendanceDataset(records []models.AttendanceRecord) export.Dataset {
	rows := make([]map[string]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, map[string]string{
			"Student":    r.StudentName,
			"Week Start": models.WeekStart(r.Date).Format("2006-01-02"),
			"Date":       r.Date.Format("2006-01-02"),
			"Presence":   r.Presence,
		})
	}
	return export.Dataset{
		Headers: []string{"Student", "Week Start", "Date", "Presence"},
		Rows:    rows,
	}
}
