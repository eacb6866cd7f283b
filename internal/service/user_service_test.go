package service

import (
	"context"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/sia-rendimiento-api/internal/models"
	appErrors "github.com/noah-isme/sia-rendimiento-api/pkg/errors"
)

type mockUserRepo struct {
	taken     map[string]bool
	created   []models.User
	profiles  []*models.TeacherProfile
	listUsers []models.User
	listCount int
	listErr   error
	lastList  models.UserFilter
	tokens    map[string]string
	auditLogs []*models.AuditLog
}

func (m *mockUserRepo) List(_ context.Context, filter models.UserFilter) ([]models.User, int, error) {
	m.lastList = filter
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	return m.listUsers, m.listCount, nil
}

func (m *mockUserRepo) CreateWithProfile(_ context.Context, user *models.User, profile *models.TeacherProfile) error {
	user.ID = "u-new"
	m.created = append(m.created, *user)
	m.profiles = append(m.profiles, profile)
	return nil
}

func (m *mockUserRepo) UsernameExists(_ context.Context, username string) (bool, error) {
	return m.taken[username], nil
}

func (m *mockUserRepo) UpdateDeviceToken(_ context.Context, id, token string) error {
	if m.tokens == nil {
		m.tokens = make(map[string]string)
	}
	m.tokens[id] = token
	return nil
}

func (m *mockUserRepo) CreateAuditLog(_ context.Context, log *models.AuditLog) error {
	m.auditLogs = append(m.auditLogs, log)
	return nil
}

func newUserFixture() (*UserService, *mockUserRepo) {
	repo := &mockUserRepo{taken: map[string]bool{"ana": true}}
	svc := NewUserService(repo, validator.New(), zap.NewNop())
	svc.cost = bcrypt.MinCost
	return svc, repo
}

func TestUserServiceRegisterTeacher(t *testing.T) {
	svc, repo := newUserFixture()
	specialty := "Física"

	user, err := svc.Register(context.Background(), models.RoleTeacher, models.RegisterUserRequest{
		Username:  "jperez",
		Email:     "JPerez@Colegio.BO",
		Password:  "secreto1",
		FirstName: "Juan",
		LastName:  "Pérez",
		Specialty: &specialty,
	}, "admin-1", models.LoginRequest{IP: "10.0.0.1"})
	require.NoError(t, err)
	assert.Equal(t, "u-new", user.ID)
	assert.Equal(t, "jperez@colegio.bo", user.Email)
	assert.True(t, user.Active)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secreto1")))
	require.NotNil(t, repo.profiles[0])
	assert.Equal(t, "Física", *repo.profiles[0].Specialty)

	require.Len(t, repo.auditLogs, 1)
	assert.Equal(t, models.AuditActionUserRegister, repo.auditLogs[0].Action)
	assert.Equal(t, "admin-1", *repo.auditLogs[0].UserID)
	assert.Contains(t, repo.auditLogs[0].NewValues, `"role":"TEACHER"`)
}

func TestUserServiceRegisterStudentHasNoProfile(t *testing.T) {
	svc, repo := newUserFixture()

	_, err := svc.Register(context.Background(), models.RoleStudent, models.RegisterUserRequest{
		Username: "lucia", Password: "secreto1", FirstName: "Lucía", LastName: "Mamani",
	}, "admin-1", models.LoginRequest{})
	require.NoError(t, err)
	assert.Nil(t, repo.profiles[0])
}

func TestUserServiceRegisterErrors(t *testing.T) {
	svc, _ := newUserFixture()
	valid := models.RegisterUserRequest{Username: "ana", Password: "secreto1", FirstName: "Ana", LastName: "Rojas"}

	_, err := svc.Register(context.Background(), models.RoleStudent, valid, "", models.LoginRequest{})
	assert.Equal(t, 409, appErrors.FromError(err).Status)

	_, err = svc.Register(context.Background(), models.RoleAdmin, valid, "", models.LoginRequest{})
	assert.Equal(t, 400, appErrors.FromError(err).Status)

	_, err = svc.Register(context.Background(), models.RoleTutor, models.RegisterUserRequest{Username: "x"}, "", models.LoginRequest{})
	assert.Equal(t, msgMissingData, appErrors.FromError(err).Message)
}

func TestUserServiceListStudents(t *testing.T) {
	svc, repo := newUserFixture()
	repo.listUsers = []models.User{{ID: "s1", Role: models.RoleStudent}}
	repo.listCount = 41

	users, pagination, err := svc.ListStudents(context.Background(), " mam ", 3, 0)
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, models.RoleStudent, *repo.lastList.Role)
	assert.Equal(t, "mam", repo.lastList.Search)
	assert.Equal(t, &models.Pagination{Page: 3, PageSize: 20, TotalCount: 41}, pagination)

	repo.listErr = errors.New("db down")
	_, _, err = svc.ListStudents(context.Background(), "", 1, 10)
	assert.Equal(t, 500, appErrors.FromError(err).Status)
}

func TestUserServiceUpdateDeviceToken(t *testing.T) {
	svc, repo := newUserFixture()

	require.NoError(t, svc.UpdateDeviceToken(context.Background(), "s1", models.DeviceTokenRequest{Token: " fcm-abc "}))
	assert.Equal(t, "fcm-abc", repo.tokens["s1"])

	err := svc.UpdateDeviceToken(context.Background(), "s1", models.DeviceTokenRequest{Token: "  "})
	assert.Equal(t, 400, appErrors.FromError(err).Status)
}
