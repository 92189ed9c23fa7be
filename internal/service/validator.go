package service

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mlvisio/track-api/internal/models"
)

// registerDomainValidations installs the custom tags used across request
// DTOs. Registration is idempotent, so every service constructor calls it on
// whatever validator it was handed.
func registerDomainValidations(v *validator.Validate) {
	_ = v.RegisterValidation("user_role", func(fl validator.FieldLevel) bool {
		switch models.UserRole(strings.ToLower(fl.Field().String())) {
		case models.RoleAdmin, models.RoleLecturer, models.RoleStudent:
			return true
		default:
			return false
		}
	})
	_ = v.RegisterValidation("department", func(fl validator.FieldLevel) bool {
		return models.Department(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("study_year", func(fl validator.FieldLevel) bool {
		return models.Year(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("study_type", func(fl validator.FieldLevel) bool {
		return models.StudyType(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("attendance_status", func(fl validator.FieldLevel) bool {
		_, ok := models.ParseStatus(fl.Field().String())
		return ok
	})
}
