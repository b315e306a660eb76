package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/skillforge/skillforge-backend/internal/data/repos"
	"github.com/skillforge/skillforge-backend/internal/domain"
	"github.com/skillforge/skillforge-backend/internal/platform/logger"
)

type UserService interface {
	GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, firstName, lastName string) (*domain.User, error)
	UpdateInterests(ctx context.Context, userID uuid.UUID, interests []string) (*domain.User, error)
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo) UserService {
	return &userService{
		db:       db,
		log:      log.With("service", "UserService"),
		userRepo: userRepo,
	}
}

func (us *userService) GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	users, err := us.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return users[0], nil
}

func (us *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, firstName, lastName string) (*domain.User, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if firstName == "" || lastName == "" {
		return nil, fmt.Errorf("first and last name are required")
	}

	user, err := us.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.FirstName = firstName
	user.LastName = lastName

	err = us.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return us.userRepo.Update(ctx, tx, user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (us *userService) UpdateInterests(ctx context.Context, userID uuid.UUID, interests []string) (*domain.User, error) {
	cleaned := make([]string, 0, len(interests))
	for _, it := range interests {
		if it = strings.TrimSpace(it); it != "" {
			cleaned = append(cleaned, it)
		}
	}
	raw, err := json.Marshal(cleaned)
	if err != nil {
		return nil, fmt.Errorf("encode interests: %w", err)
	}

	user, err := us.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Interests = datatypes.JSON(raw)

	err = us.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return us.userRepo.Update(ctx, tx, user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}
