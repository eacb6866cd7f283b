package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/sia-rendimiento-api/internal/models"
	appErrors "github.com/noah-isme/sia-rendimiento-api/pkg/errors"
)

type userRepository interface {
	List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error)
	CreateWithProfile(ctx context.Context, user *models.User, profile *models.TeacherProfile) error
	UsernameExists(ctx context.Context, username string) (bool, error)
	UpdateDeviceToken(ctx context.Context, id, token string) error
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// UserService handles account registration and profile housekeeping.
type UserService struct {
	repo      userRepository
	validator *validator.Validate
	logger    *zap.Logger
	cost      int
}

// NewUserService creates an instance of UserService.
func NewUserService(repo userRepository, validate *validator.Validate, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &UserService{repo: repo, validator: validate, logger: logger, cost: bcrypt.DefaultCost}
}

// Register creates a teacher, student or tutor account. Teachers also get a
// profile row in the same transaction.
func (s *UserService) Register(ctx context.Context, role models.UserRole, req models.RegisterUserRequest, actorID string, meta models.LoginRequest) (*models.User, error) {
	if role != models.RoleTeacher && role != models.RoleStudent && role != models.RoleTutor {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Rol inválido.")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, msgMissingData)
	}

	username := strings.TrimSpace(req.Username)
	exists, err := s.repo.UsernameExists(ctx, username)
	if err != nil {
		return nil, internalError(err, "failed to check username")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "El nombre de usuario ya existe.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, internalError(err, "failed to hash password")
	}

	user := &models.User{
		Username:     username,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Phone:        req.Phone,
		Role:         role,
		Active:       true,
	}
	var profile *models.TeacherProfile
	if role == models.RoleTeacher {
		profile = &models.TeacherProfile{Specialty: req.Specialty}
	}
	if err := s.repo.CreateWithProfile(ctx, user, profile); err != nil {
		if isUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "El nombre de usuario ya existe.")
		}
		return nil, internalError(err, "failed to create user")
	}

	payload, _ := json.Marshal(map[string]interface{}{"id": user.ID, "username": user.Username, "role": user.Role})
	entry := &models.AuditLog{
		Action:     models.AuditActionUserRegister,
		Resource:   "users",
		ResourceID: &user.ID,
		NewValues:  string(payload),
		IPAddress:  meta.IP,
		UserAgent:  meta.UserAgent,
	}
	if actorID != "" {
		entry.UserID = &actorID
	}
	if err := s.repo.CreateAuditLog(ctx, entry); err != nil {
		s.logger.Warn("failed to record user register audit log", zap.Error(err))
	}

	return user, nil
}

// ListStudents returns a page of student accounts and its pagination metadata.
func (s *UserService) ListStudents(ctx context.Context, search string, page, pageSize int) ([]models.User, *models.Pagination, error) {
	role := models.RoleStudent
	filter := models.UserFilter{Role: &role, Search: strings.TrimSpace(search), Page: page, PageSize: pageSize}
	users, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, internalError(err, "failed to list users")
	}

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return nonNil(users), &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// UpdateDeviceToken stores the caller's push notification token.
func (s *UserService) UpdateDeviceToken(ctx context.Context, userID string, req models.DeviceTokenRequest) error {
	req.Token = strings.TrimSpace(req.Token)
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, msgMissingData)
	}
	if err := s.repo.UpdateDeviceToken(ctx, userID, req.Token); err != nil {
		return internalError(err, "failed to update device token")
	}
	return nil
}
