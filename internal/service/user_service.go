package service

import (
	"context"
	"doe_backend/internal/model"
	"doe_backend/internal/repository"
	"io"
	"time"
)

type UserService struct {
	UserRepo   *repository.UserRepository
	RewardRepo *repository.RewardRepository
	Storage    *StorageService
}

func NewUserService(userRepo *repository.UserRepository, rewardRepo *repository.RewardRepository, storage *StorageService) *UserService {
	return &UserService{
		UserRepo:   userRepo,
		RewardRepo: rewardRepo,
		Storage:    storage,
	}
}

// ProfileUpdate 只更新非空字段
type ProfileUpdate struct {
	Name          *string    `json:"name" binding:"omitempty,max=150"`
	PhoneNumber   *string    `json:"phoneNumber" binding:"omitempty,max=15"`
	DateOfBirth   *time.Time `json:"dateOfBirth"`
	FocusOfStudy  *string    `json:"focusOfStudy" binding:"omitempty,max=255"`
	Interests     *string    `json:"interests" binding:"omitempty,max=255"`
	Hobbies       *string    `json:"hobbies" binding:"omitempty,max=255"`
	Languages     *string    `json:"languages" binding:"omitempty,max=70"`
	Motivation    *string    `json:"motivation" binding:"omitempty,max=255"`
	Cities        *string    `json:"cities" binding:"omitempty,max=150"`
	CurrentFocus  *string    `json:"currentFocus"`
	FavoriteMedia *string    `json:"favoriteMedia"`
}

func (u ProfileUpdate) fields() map[string]interface{} {
	fields := make(map[string]interface{})
	set := func(column string, v *string) {
		if v != nil {
			fields[column] = *v
		}
	}
	set("name", u.Name)
	set("phone_number", u.PhoneNumber)
	set("focus_of_study", u.FocusOfStudy)
	set("interests", u.Interests)
	set("hobbies", u.Hobbies)
	set("languages", u.Languages)
	set("motivation", u.Motivation)
	set("cities", u.Cities)
	set("current_focus", u.CurrentFocus)
	set("favorite_media", u.FavoriteMedia)
	if u.DateOfBirth != nil {
		fields["date_of_birth"] = *u.DateOfBirth
	}
	return fields
}

type Profile struct {
	User    *model.User        `json:"user"`
	Rewards []model.UserReward `json:"rewards"`
}

func (s *UserService) Profile(ctx context.Context, userID uint) (*Profile, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	rewards, err := s.RewardRepo.ListUserRewards(userID)
	if err != nil {
		return nil, err
	}
	return &Profile{User: user, Rewards: rewards}, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uint, update ProfileUpdate) (*model.User, error) {
	if fields := update.fields(); len(fields) > 0 {
		if err := s.UserRepo.UpdateFields(userID, fields); err != nil {
			return nil, err
		}
	}
	return s.UserRepo.FindByID(userID)
}

func (s *UserService) UploadAvatar(ctx context.Context, userID uint, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	url, err := s.Storage.Upload(ctx, "avatars", filename, reader, size, contentType)
	if err != nil {
		return "", err
	}
	if err := s.UserRepo.UpdateFields(userID, map[string]interface{}{"avatar": url}); err != nil {
		return "", err
	}
	return url, nil
}

func (s *UserService) Points(ctx context.Context, userID uint) (int, error) {
	return s.UserRepo.Points(userID)
}
