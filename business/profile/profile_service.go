package profile

import (
	"context"
	"easyShop/domain"
	"easyShop/pkg/logger"
)

type CallerResolver interface {
	ResolveUserID(ctx context.Context, username string) (uint, error)
}

type ProfileRepository interface {
	FindByUserID(ctx context.Context, userID uint) (domain.Profile, error)
	Update(ctx context.Context, profile *domain.Profile) error
}

type ProfileService struct {
	callers     CallerResolver
	profileRepo ProfileRepository
}

func NewProfileService(callers CallerResolver, profileRepo ProfileRepository) *ProfileService {
	return &ProfileService{
		callers:     callers,
		profileRepo: profileRepo,
	}
}

func (s *ProfileService) GetProfile(ctx context.Context, username string) (domain.Profile, error) {
	userID, err := s.callers.ResolveUserID(ctx, username)
	if err != nil {
		return domain.Profile{}, err
	}

	profile, err := s.profileRepo.FindByUserID(ctx, userID)
	if err != nil {
		if domain.KindOf(err) != domain.KindNotFound {
			logger.Error("Failed to get profile", "user_id", userID, "error", err)
		}
		return domain.Profile{}, err
	}

	return profile, nil
}

// UpdateProfile overwrites the caller's profile and returns the stored row.
// Whatever userId the client sent is ignored.
func (s *ProfileService) UpdateProfile(ctx context.Context, username string, profile domain.Profile) (domain.Profile, error) {
	userID, err := s.callers.ResolveUserID(ctx, username)
	if err != nil {
		return domain.Profile{}, err
	}

	profile.UserID = userID
	if err := s.profileRepo.Update(ctx, &profile); err != nil {
		if domain.KindOf(err) != domain.KindNotFound {
			logger.Error("Failed to update profile", "user_id", userID, "error", err)
		}
		return domain.Profile{}, err
	}

	return s.profileRepo.FindByUserID(ctx, userID)
}
