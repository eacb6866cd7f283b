package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sia-rendimiento-api/internal/models"
)

type fakeGradeSrv struct {
	patch        models.ScorePatch
	enrollmentID string
	teacherID    string
	called       bool
}

func (f *fakeGradeSrv) UpdateEnrollmentScores(_ context.Context, teacherID, enrollmentID string, patch models.ScorePatch) (*models.Enrollment, error) {
	f.called = true
	f.teacherID, f.enrollmentID, f.patch = teacherID, enrollmentID, patch
	return &models.Enrollment{ID: enrollmentID, Ser: patch.Ser}, nil
}

func (f *fakeGradeSrv) ListEnrollmentScores(context.Context, string) ([]models.EnrollmentScores, error) {
	return []models.EnrollmentScores{}, nil
}

func (f *fakeGradeSrv) UpsertSubjectGrades(context.Context, string, string, models.BulkSubjectGradeRequest) ([]models.SubjectGrade, error) {
	return nil, nil
}

func (f *fakeGradeSrv) ListSubjectGrades(context.Context, string, string) ([]models.SubjectGradeRow, error) {
	return nil, nil
}

func withBody(t *testing.T, method, target, body string, claims *models.JWTClaims) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	c, rec := newTestContext(method, target, claims)
	c.Request = httptest.NewRequest(method, target, bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, rec
}

func TestGradeHandlerUpdateScoresPartial(t *testing.T) {
	srv := &fakeGradeSrv{}
	handler := NewGradeHandler(srv)
	c, rec := withBody(t, http.MethodPut, "/enrollments/enr-1/scores", `{"nota_ser": 80, "nota_hacer": null, "otro": "x"}`, &models.JWTClaims{UserID: "teacher-1"})
	c.AddParam("id", "enr-1")

	handler.UpdateEnrollmentScores(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "teacher-1", srv.teacherID)
	assert.Equal(t, "enr-1", srv.enrollmentID)
	require.NotNil(t, srv.patch.Ser)
	assert.Equal(t, 80.0, *srv.patch.Ser)
	assert.Nil(t, srv.patch.Saber)
	assert.Nil(t, srv.patch.Hacer)
	assert.Nil(t, srv.patch.Decidir)
}

func TestGradeHandlerUpdateScoresNonNumeric(t *testing.T) {
	srv := &fakeGradeSrv{}
	handler := NewGradeHandler(srv)
	c, rec := withBody(t, http.MethodPut, "/enrollments/enr-1/scores", `{"nota_saber": "alto"}`, &models.JWTClaims{UserID: "teacher-1"})
	c.AddParam("id", "enr-1")

	handler.UpdateEnrollmentScores(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Valor inválido para nota_saber", decodeEnvelope(t, rec).Detail)
	assert.False(t, srv.called)
}

func TestGradeHandlerUpdateScoresMalformedBody(t *testing.T) {
	handler := NewGradeHandler(&fakeGradeSrv{})
	c, rec := withBody(t, http.MethodPut, "/enrollments/enr-1/scores", `{`, &models.JWTClaims{UserID: "teacher-1"})

	handler.UpdateEnrollmentScores(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, msgMissingData, decodeEnvelope(t, rec).Detail)
}
