package service

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-timetable/internal/models"
	"github.com/noah-isme/campus-timetable/pkg/export"
	"github.com/noah-isme/campus-timetable/pkg/storage"
)

// ExportKind selects which view of a generated Result to render.
type ExportKind string

const (
	ExportKindAssignments ExportKind = "assignments"
	ExportKindStudent     ExportKind = "student"
	ExportKindFaculty     ExportKind = "faculty"
)

// ExportFormat selects the rendered file format.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportRequest describes one timetable rendering job.
type ExportRequest struct {
	Kind     ExportKind
	Format   ExportFormat
	TargetID string
	Result   *models.Result
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	Format       ExportFormat
	ExpiresAt    time.Time
}

// ExportService builds printable/machine-readable timetable exports and
// persists the rendered file behind a signed download token: either the
// full assignments grid or a single student's/faculty member's weekly
// timetable, as CSV or PDF.
type ExportService struct {
	storage fileStorage
	csv     csvRenderer
	pdf     pdfRenderer
	signer  *storage.SignedURLSigner
	logger  *zap.Logger
	cfg     ExportConfig
}

// NewExportService constructs an ExportService.
func NewExportService(fs fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		storage: fs,
		csv:     csv,
		pdf:     pdf,
		signer:  signer,
		logger:  logger,
		cfg:     cfg,
	}
}

// Generate renders req's dataset and stores it, returning a signed
// download reference.
func (s *ExportService) Generate(req ExportRequest) (*ExportResult, error) {
	if req.Result == nil {
		return nil, fmt.Errorf("export request missing result")
	}

	dataset, title, err := s.buildDataset(req)
	if err != nil {
		return nil, err
	}

	var payload []byte
	switch req.Format {
	case ExportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case ExportFormatPDF:
		payload, err = s.pdf.Render(dataset, title)
	default:
		err = fmt.Errorf("unsupported export format %s", req.Format)
	}
	if err != nil {
		return nil, err
	}

	filename := s.buildFilename(req)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, err
	}

	jobID := fmt.Sprintf("%s-%s", req.Kind, req.TargetID)
	token, expiresAt, err := s.signer.Generate(jobID, relPath)
	if err != nil {
		return nil, err
	}
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}

	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          fmt.Sprintf("%s/export/%s", prefix, token),
		Format:       req.Format,
		ExpiresAt:    expiresAt,
	}, nil
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (jobID, relPath string, expiresAt time.Time, err error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Delete removes a stored export file.
func (s *ExportService) Delete(relPath string) error {
	return s.storage.Delete(relPath)
}

// Cleanup removes files older than ttl (defaults to configured ResultTTL when ttl <= 0).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

func (s *ExportService) buildFilename(req ExportRequest) string {
	timestamp := time.Now().UTC().Format("20060102_150405")
	target := sanitizeFilename(req.TargetID)
	return fmt.Sprintf("%s_%s_%s.%s", req.Kind, target, timestamp, req.Format)
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "all"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}

func (s *ExportService) buildDataset(req ExportRequest) (export.Dataset, string, error) {
	switch req.Kind {
	case ExportKindAssignments:
		return s.buildAssignmentsDataset(req.Result)
	case ExportKindStudent:
		return s.buildTimetableDataset(req.Result.StudentTimetables, req.TargetID, "Student")
	case ExportKindFaculty:
		return s.buildTimetableDataset(req.Result.FacultyTimetables, req.TargetID, "Faculty")
	default:
		return export.Dataset{}, "", fmt.Errorf("unsupported export kind %s", req.Kind)
	}
}

func (s *ExportService) buildAssignmentsDataset(result *models.Result) (export.Dataset, string, error) {
	rows := make([]map[string]string, 0)
	for _, slot := range result.Assignments.OccupiedSlots() {
		for _, p := range result.Assignments.BySlot[slot] {
			faculty := "-"
			if p.FacultyID != nil {
				faculty = *p.FacultyID
			}
			rows = append(rows, map[string]string{
				"Slot":        string(slot),
				"Course Code": p.CourseCode,
				"Course Name": p.CourseName,
				"Room":        p.RoomID,
				"Faculty":     faculty,
			})
		}
	}
	dataset := export.Dataset{
		Headers: []string{"Slot", "Course Code", "Course Name", "Room", "Faculty"},
		Rows:    rows,
	}
	return dataset, "Weekly Timetable", nil
}

func (s *ExportService) buildTimetableDataset(timetables map[string]models.Timetable, targetID, label string) (export.Dataset, string, error) {
	tt, ok := timetables[targetID]
	if !ok {
		return export.Dataset{}, "", fmt.Errorf("%s %s has no timetable in this result", label, targetID)
	}

	slots := make([]models.TimeSlot, 0, len(tt))
	for slot := range tt {
		slots = append(slots, slot)
	}
	sortTimeSlots(slots)

	rows := make([]map[string]string, 0, len(slots))
	for _, slot := range slots {
		rows = append(rows, map[string]string{
			"Slot":        string(slot),
			"Course Code": tt[slot],
		})
	}

	dataset := export.Dataset{
		Headers: []string{"Slot", "Course Code"},
		Rows:    rows,
	}
	title := fmt.Sprintf("%s Timetable %s", label, targetID)
	return dataset, title, nil
}

func sortTimeSlots(slots []models.TimeSlot) {
	for i := 1; i < len(slots); i++ {
		for j := i; j > 0 && slots[j-1] > slots[j]; j-- {
			slots[j-1], slots[j] = slots[j], slots[j-1]
		}
	}
}
