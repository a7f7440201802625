package auth

import (
	"time"

	"github.com/wiliammelo/empoweru/clients"
	"github.com/wiliammelo/empoweru/model"
	"github.com/wiliammelo/empoweru/services"
	"github.com/wiliammelo/empoweru/utils/auth"
	"github.com/wiliammelo/empoweru/utils/middleware"
	"github.com/wiliammelo/empoweru/utils/validation"
	"gorm.io/gorm"
)

// AuthHandler handles registration, login and token lifecycle
type AuthHandler struct {
	db                   *gorm.DB
	validator            *validation.Validator
	jwtManager           *auth.JWTManager
	blacklistService     *auth.BlacklistService
	bruteForceProtection *middleware.BruteForceProtection
	userService          *services.UserService
	dispatcher           *clients.Dispatcher
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(db *gorm.DB, jwtManager *auth.JWTManager, bruteForce *middleware.BruteForceProtection, dispatcher *clients.Dispatcher) *AuthHandler {
	return &AuthHandler{
		db:                   db,
		validator:            validation.NewValidator(),
		jwtManager:           jwtManager,
		blacklistService:     auth.NewBlacklistService(db),
		bruteForceProtection: bruteForce,
		userService:          services.NewUserService(db),
		dispatcher:           dispatcher,
	}
}

// UserResponse is the account shape returned by auth endpoints
type UserResponse struct {
	ID        uint       `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	Gender    string     `json:"gender,omitempty"`
	Role      model.Role `json:"role"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func newUserResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Gender:    user.Gender,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
