package service

import (
	"context"
	"doe_backend/internal/config"
	"doe_backend/internal/model"
	"doe_backend/internal/repository"
	"doe_backend/internal/util"
	"fmt"
	"strings"
)

type InviteService struct {
	UserRepo *repository.UserRepository
	Mailer   Mailer
	Cfg      *config.Config
}

func NewInviteService(userRepo *repository.UserRepository, mailer Mailer, cfg *config.Config) *InviteService {
	return &InviteService{UserRepo: userRepo, Mailer: mailer, Cfg: cfg}
}

type InviteRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

// Invite 对方已注册时直接返回提示，不发信；发信失败作为错误返回
func (s *InviteService) Invite(ctx context.Context, inviterID uint, req InviteRequest) (string, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	exists, err := s.UserRepo.ExistsByEmail(email)
	if err != nil {
		return "", err
	}
	if exists {
		return "This user is already using Doe", nil
	}

	inviter, err := s.UserRepo.FindByID(inviterID)
	if err != nil {
		return "", err
	}
	if inviter.Email == "" {
		return "", util.Wrap(util.ErrValidation, "User email not found")
	}

	body := fmt.Sprintf("%s, congrats! You've been invited to Doe by %s!\nJoin us here: %s",
		req.Name, inviter.Email, s.Cfg.Server.BaseURL)
	if err := s.Mailer.Send(ctx, "Invitation to Doe", body, inviter.Email, []string{email}); err != nil {
		return "", err
	}

	if err := s.UserRepo.CreateInvitation(&model.Invitation{InviterID: inviterID, InviteeEmail: email}); err != nil {
		return "", err
	}
	return "Invitation sent", nil
}
