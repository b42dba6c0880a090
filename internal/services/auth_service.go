package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/agridata/farmtrack/internal/auth"
	"github.com/agridata/farmtrack/internal/models"
)

var (
	// ErrDuplicateEmail covers both the fast-path existence check and the
	// storage-level uniqueness constraint.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrFarmIDRequired is returned for manager signups without a farm.
	ErrFarmIDRequired = errors.New("farm id required for managers")

	// ErrInvalidCredentials is returned for unknown emails and wrong
	// passwords alike; the two cases are indistinguishable to callers.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrNotFound is the generic scoped-lookup miss.
	ErrNotFound = errors.New("not found")
)

// SignupInput carries the validated signup fields.
type SignupInput struct {
	Name     string
	Email    string
	Password string
	Role     models.Role
	FarmID   *uint
}

// Signup creates a user, creating a fresh farm first when the role is
// owner. Managers must name an existing farm; other roles pass the farm id
// through as given.
func Signup(db *gorm.DB, in SignupInput) (*models.User, error) {
	var existing models.User
	err := db.Where("email = ?", in.Email).First(&existing).Error
	if err == nil {
		return nil, ErrDuplicateEmail
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	farmID := in.FarmID
	switch in.Role {
	case models.RoleOwner:
		// Owners always get a fresh tenant, never join an existing one.
		farm := models.Farm{Name: in.Name}
		if err := db.Create(&farm).Error; err != nil {
			return nil, err
		}
		farmID = &farm.ID
	case models.RoleManager:
		if farmID == nil {
			return nil, ErrFarmIDRequired
		}
	}

	hashed, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username:     in.Name,
		Email:        in.Email,
		PasswordHash: hashed,
		Role:         in.Role,
		FarmID:       farmID,
	}
	if err := db.Create(&user).Error; err != nil {
		// A signup that raced past the fast-path check still maps to the
		// same error; the unique index is the authoritative guard.
		if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	return &user, nil
}

// Login authenticates by email and password.
func Login(db *gorm.DB, email, password string) (*models.User, error) {
	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := auth.CheckPassword(password, user.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}

// GetUser fetches a user by id.
func GetUser(db *gorm.DB, id uint) (*models.User, error) {
	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// isUniqueViolation catches constraint errors from dialects that predate
// GORM's error translation (postgres code 23505, mysql 1062, sqlite 2067).
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") ||
		strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "23505")
}
