package service

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sia-rendimiento-api/internal/models"
	appErrors "github.com/noah-isme/sia-rendimiento-api/pkg/errors"
	"github.com/noah-isme/sia-rendimiento-api/pkg/storage"
)

func newReportFixture(t *testing.T) (*ReportService, *dashTerms) {
	t.Helper()
	files, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	term := models.Term{ID: "g1", Year: 2024, Trimester: 2}
	terms := &dashTerms{latest: &term}
	grades := &dashGrades{cards: map[string][]models.ReportCardEntry{
		"s1": {
			{SubjectID: "m1", SubjectName: "Matemáticas", Saber: f64(80), Hacer: f64(60), Average: f64(70)},
			{SubjectID: "m2", SubjectName: "Lenguaje", Saber: f64(90)},
			{SubjectID: "m3", SubjectName: "Música"},
		},
	}}
	svc := NewReportService(ReportServiceParams{
		Grades: grades,
		Users: dashUsers{
			"s1": {ID: "s1", Username: "lmamani", FirstName: "Lucía", LastName: "Mamani", Role: models.RoleStudent},
			"t1": {ID: "t1", Role: models.RoleTeacher},
		},
		Terms:  terms,
		Files:  files,
		Signer: storage.NewSignedURLSigner("secret", time.Hour),
	})
	svc.now = func() time.Time { return time.Date(2024, 6, 12, 10, 0, 0, 0, time.UTC) }
	return svc, terms
}

func TestReportCardAverages(t *testing.T) {
	svc, _ := newReportFixture(t)

	card, err := svc.ReportCard(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, card.Entries, 3)
	assert.Equal(t, 90.0, *card.Entries[1].Average)
	assert.Nil(t, card.Entries[2].Average)
	require.NotNil(t, card.Average)
	assert.Equal(t, 80.0, *card.Average)
	assert.Equal(t, "Lucía", card.Student.FirstName)
}

func TestReportCardErrors(t *testing.T) {
	svc, terms := newReportFixture(t)

	_, err := svc.ReportCard(context.Background(), "t1")
	assert.Equal(t, "Alumno no encontrado.", appErrors.FromError(err).Message)

	_, err = svc.ReportCard(context.Background(), "nobody")
	assert.Equal(t, 404, appErrors.FromError(err).Status)

	terms.latest = nil
	_, err = svc.ReportCard(context.Background(), "s1")
	assert.Equal(t, "No hay gestiones registradas.", appErrors.FromError(err).Message)
}

func TestReportExportAndDownload(t *testing.T) {
	svc, _ := newReportFixture(t)

	result, err := svc.Export(context.Background(), "s1", "CSV", "admin-1")
	require.NoError(t, err)
	assert.Equal(t, "csv", result.Format)
	require.True(t, strings.HasPrefix(result.URL, "/api/v1/exports/"))

	token := strings.TrimPrefix(result.URL, "/api/v1/exports/")
	download, err := svc.Download(token)
	require.NoError(t, err)
	defer download.File.Close()
	assert.Equal(t, "boletin_lmamani_2024-T2_20240612_100000.csv", download.Filename)
	assert.Equal(t, "text/csv; charset=utf-8", download.ContentType)

	body, err := io.ReadAll(download.File)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Matemáticas")
	assert.Contains(t, string(body), "70.00")
}

func TestReportExportPDF(t *testing.T) {
	svc, _ := newReportFixture(t)

	result, err := svc.Export(context.Background(), "s1", "pdf", "admin-1")
	require.NoError(t, err)
	download, err := svc.Download(strings.TrimPrefix(result.URL, "/api/v1/exports/"))
	require.NoError(t, err)
	defer download.File.Close()
	assert.Equal(t, "application/pdf", download.ContentType)
}

func TestReportExportRejectsFormat(t *testing.T) {
	svc, _ := newReportFixture(t)

	_, err := svc.Export(context.Background(), "s1", "xlsx", "admin-1")
	assert.Equal(t, "Formato no soportado.", appErrors.FromError(err).Message)
}

func TestReportDownloadInvalidToken(t *testing.T) {
	svc, _ := newReportFixture(t)

	_, err := svc.Download("not.a.valid.token")
	assert.Equal(t, 404, appErrors.FromError(err).Status)
}

func TestReportCleanup(t *testing.T) {
	svc, _ := newReportFixture(t)
	_, err := svc.Export(context.Background(), "s1", "csv", "admin-1")
	require.NoError(t, err)

	svc.cfg.Retention = time.Hour
	removed, err := svc.Cleanup(context.Background())
	require.NoError(t, err)
	assert.Zero(t, removed)

	svc.cfg.Retention = time.Nanosecond
	time.Sleep(5 * time.Millisecond)
	removed, err = svc.Cleanup(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
}
