package postgres

import (
	"context"
	"easyShop/domain"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

type ProfileRepository struct {
	DB *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{
		DB: db,
	}
}

func (r *ProfileRepository) Create(ctx context.Context, profile *domain.Profile) error {
	if err := conn(ctx, r.DB).Create(profile).Error; err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}

	return nil
}

func (r *ProfileRepository) FindByUserID(ctx context.Context, userID uint) (domain.Profile, error) {
	var profile domain.Profile

	err := conn(ctx, r.DB).Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Profile{}, domain.NotFound("profile not found")
		}
		return domain.Profile{}, fmt.Errorf("failed to find profile: %w", err)
	}

	return profile, nil
}

// Update overwrites every column of the user's profile row.
func (r *ProfileRepository) Update(ctx context.Context, profile *domain.Profile) error {
	updateData := map[string]interface{}{
		"first_name": profile.FirstName,
		"last_name":  profile.LastName,
		"phone":      profile.Phone,
		"email":      profile.Email,
		"address":    profile.Address,
		"city":       profile.City,
		"state":      profile.State,
		"zip":        profile.Zip,
	}

	result := conn(ctx, r.DB).Model(&domain.Profile{}).Where("user_id = ?", profile.UserID).Updates(updateData)
	if result.Error != nil {
		return fmt.Errorf("failed to update profile: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NotFound("profile not found")
	}

	return nil
}
