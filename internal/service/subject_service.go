package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/mlvisio/track-api/internal/models"
	appErrors "github.com/mlvisio/track-api/pkg/errors"
)

type subjectRepository interface {
	List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, error)
	ExistsByCode(ctx context.Context, code string, excludeID string) (bool, error)
	Create(ctx context.Context, subject *models.Subject) error
}

// CreateSubjectRequest captures fields for creating subjects.
type CreateSubjectRequest struct {
	CourseCode   string `json:"courseCode" validate:"required"`
	CourseName   string `json:"courseName" validate:"required"`
	Department   string `json:"department" validate:"required,department"`
	Semester     string `json:"semester" validate:"required"`
	Credits      int    `json:"credits" validate:"min=0"`
	LecturerName string `json:"lecturerName"`
}

// SubjectService handles subject listing and management.
type SubjectService struct {
	repo      subjectRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSubjectService creates a new subject service.
func NewSubjectService(repo subjectRepository, validate *validator.Validate, logger *zap.Logger) *SubjectService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &SubjectService{repo: repo, validator: validate, logger: logger}
	registerDomainValidations(svc.validator)
	return svc
}

// List returns active subjects, optionally scoped by department.
func (s *SubjectService) List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, error) {
	subjects, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subjects")
	}
	return subjects, nil
}

// Create registers a new subject.
func (s *SubjectService) Create(ctx context.Context, req CreateSubjectRequest) (*models.Subject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}

	if exists, err := s.repo.ExistsByCode(ctx, req.CourseCode, ""); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check course code")
	} else if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "course code already exists")
	}

	subject := &models.Subject{
		CourseCode: strings.ToUpper(strings.TrimSpace(req.CourseCode)),
		CourseName: strings.TrimSpace(req.CourseName),
		Department: models.Department(req.Department),
		Semester:   req.Semester,
		Credits:    req.Credits,
		Active:     true,
	}
	if req.LecturerName != "" {
		name := req.LecturerName
		subject.LecturerName = &name
	}

	if err := s.repo.Create(ctx, subject); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create subject")
	}
	return subject, nil
}
