package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sia-rendimiento-api/internal/models"
	appErrors "github.com/noah-isme/sia-rendimiento-api/pkg/errors"
	"github.com/noah-isme/sia-rendimiento-api/pkg/export"
	"github.com/noah-isme/sia-rendimiento-api/pkg/storage"
)

type reportCardReader interface {
	ReportCard(ctx context.Context, studentID, termID string) ([]models.ReportCardEntry, error)
}

type fileStorage interface {
	Save(name string, data []byte) (string, error)
	Open(name string) (*os.File, error)
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type urlSigner interface {
	Generate(owner, relPath string) (string, time.Time, error)
	Parse(token string) (owner, relPath string, err error)
}

// ReportConfig tunes report exports.
type ReportConfig struct {
	APIPrefix string
	Retention time.Duration
}

// ReportServiceParams groups constructor dependencies.
type ReportServiceParams struct {
	Grades reportCardReader
	Users  userFinder
	Terms  termReader
	Files  fileStorage
	Signer urlSigner
	Config ReportConfig
	Logger *zap.Logger
}

// ReportService builds report cards and renders them for download.
type ReportService struct {
	grades reportCardReader
	users  userFinder
	terms  termReader
	files  fileStorage
	signer urlSigner
	cfg    ReportConfig
	logger *zap.Logger
	now    func() time.Time
}

// ReportDownload is a resolved export ready to stream.
type ReportDownload struct {
	File        *os.File
	Filename    string
	ContentType string
}

// NewReportService constructs a ReportService.
func NewReportService(p ReportServiceParams) *ReportService {
	if p.Logger == nil {
		p.Logger = zap.NewNop()
	}
	if p.Config.Retention <= 0 {
		p.Config.Retention = 24 * time.Hour
	}
	if p.Config.APIPrefix == "" {
		p.Config.APIPrefix = "/api/v1"
	}
	return &ReportService{
		grades: p.Grades,
		users:  p.Users,
		terms:  p.Terms,
		files:  p.Files,
		signer: p.Signer,
		cfg:    p.Config,
		logger: p.Logger,
		now:    time.Now,
	}
}

// ReportCard returns the weighted subject grades of a student in the latest term.
func (s *ReportService) ReportCard(ctx context.Context, studentID string) (*models.ReportCard, error) {
	user, err := s.users.FindByID(ctx, studentID)
	if err != nil {
		return nil, notFoundOr(err, "Alumno no encontrado.", "failed to load student")
	}
	if user.Role != models.RoleStudent {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Alumno no encontrado.")
	}
	term, err := resolveTerm(ctx, s.terms, "")
	if err != nil {
		return nil, err
	}
	entries, err := s.grades.ReportCard(ctx, studentID, term.ID)
	if err != nil {
		return nil, internalError(err, "failed to load report card")
	}

	var sum float64
	var count int
	for i := range entries {
		if entries[i].Average == nil {
			entries[i].Average = entryScores(entries[i]).AveragePtr(AveragingWeighted)
		}
		if entries[i].Average != nil {
			sum += *entries[i].Average
			count++
		}
	}
	card := &models.ReportCard{
		Student: models.Person{ID: user.ID, Username: user.Username, FirstName: user.FirstName, LastName: user.LastName, Email: user.Email},
		Term:    *term,
		Entries: nonNil(entries),
	}
	if count > 0 {
		avg := round2(sum / float64(count))
		card.Average = &avg
	}
	return card, nil
}

// Export renders a student's report card as pdf or csv and returns a signed
// download URL bound to the requesting user.
func (s *ReportService) Export(ctx context.Context, studentID, format, actorID string) (*models.ExportResult, error) {
	renderer, err := export.ForFormat(strings.ToLower(format))
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Formato no soportado.")
	}
	card, err := s.ReportCard(ctx, studentID)
	if err != nil {
		return nil, err
	}

	payload, err := renderer.Render(reportCardDataset(card))
	if err != nil {
		return nil, internalError(err, "failed to render report card")
	}
	name := fmt.Sprintf("boletin_%s_%s_%s.%s",
		sanitizeFilename(card.Student.Username),
		sanitizeFilename(card.Term.Label()),
		s.now().UTC().Format("20060102_150405"),
		renderer.Extension())
	relPath, err := s.files.Save(name, payload)
	if err != nil {
		return nil, internalError(err, "failed to store report card")
	}
	token, expiresAt, err := s.signer.Generate(actorID, relPath)
	if err != nil {
		return nil, internalError(err, "failed to sign download url")
	}

	s.logger.Info("report card exported",
		zap.String("student_id", studentID),
		zap.String("format", renderer.Extension()),
		zap.String("file", relPath))
	return &models.ExportResult{
		URL:       fmt.Sprintf("%s/exports/%s", strings.TrimRight(s.cfg.APIPrefix, "/"), token),
		Format:    renderer.Extension(),
		ExpiresAt: expiresAt,
	}, nil
}

// Download resolves a signed token into an open file.
func (s *ReportService) Download(token string) (*ReportDownload, error) {
	_, relPath, err := s.signer.Parse(token)
	if err != nil {
		if errors.Is(err, storage.ErrTokenExpired) || errors.Is(err, storage.ErrInvalidToken) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Enlace de descarga inválido o expirado.")
		}
		return nil, internalError(err, "failed to parse download token")
	}
	file, err := s.files.Open(relPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) || errors.Is(err, storage.ErrInvalidPath) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Archivo no encontrado.")
		}
		return nil, internalError(err, "failed to open export")
	}
	contentType := "text/csv; charset=utf-8"
	if strings.HasSuffix(relPath, ".pdf") {
		contentType = "application/pdf"
	}
	return &ReportDownload{File: file, Filename: path.Base(relPath), ContentType: contentType}, nil
}

// Cleanup removes exports older than the retention window.
func (s *ReportService) Cleanup(context.Context) (int, error) {
	deleted, err := s.files.CleanupOlderThan(s.cfg.Retention)
	if err != nil {
		return 0, err
	}
	if len(deleted) > 0 {
		s.logger.Info("expired exports removed", zap.Int("count", len(deleted)))
	}
	return len(deleted), nil
}

func reportCardDataset(card *models.ReportCard) export.Dataset {
	headers := []string{"Materia", "Ser", "Saber", "Hacer", "Decidir", "Promedio"}
	rows := make([]map[string]string, 0, len(card.Entries))
	for _, e := range card.Entries {
		rows = append(rows, map[string]string{
			"Materia":  e.SubjectName,
			"Ser":      formatScore(e.Ser),
			"Saber":    formatScore(e.Saber),
			"Hacer":    formatScore(e.Hacer),
			"Decidir":  formatScore(e.Decidir),
			"Promedio": formatScore(e.Average),
		})
	}
	return export.Dataset{
		Title: fmt.Sprintf("Boletín de calificaciones %s", card.Term.Label()),
		Notes: []string{
			fmt.Sprintf("Alumno: %s", card.Student.FullName()),
			fmt.Sprintf("Promedio general: %s", formatScore(card.Average)),
		},
		Headers: headers,
		Rows:    rows,
	}
}

func formatScore(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *v)
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}

