package service

import (
	"context"
	"doe_backend/internal/config"
	"doe_backend/internal/model"
	"doe_backend/internal/repository"
	"doe_backend/internal/util"
	"doe_backend/pkg/logger"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	DB       *gorm.DB
	UserRepo *repository.UserRepository
	Mailer   Mailer
	Cfg      *config.Config
}

func NewAuthService(db *gorm.DB, userRepo *repository.UserRepository, mailer Mailer, cfg *config.Config) *AuthService {
	return &AuthService{
		DB:       db,
		UserRepo: userRepo,
		Mailer:   mailer,
		Cfg:      cfg,
	}
}

// Register 创建账号。邮箱存在待接受的邀请时，在同一事务内接受邀请并给双方加分，
// 提交后通知管理员；通知失败只记录日志，账号已经创建
func (s *AuthService) Register(ctx context.Context, user *model.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	exists, err := s.UserRepo.ExistsByEmail(user.Email)
	if err != nil {
		return err
	}
	if exists {
		return util.ErrEmailRegistered
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashedPassword)
	if user.Role == "" {
		user.Role = model.Student
	}

	var inviter *model.User
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.UserRepo.WithTx(tx)
		if err := repo.Create(user); err != nil {
			return err
		}

		inv, err := repo.AcceptInvitation(user.Email)
		if err != nil || inv == nil {
			return err
		}
		if err := repo.AddPoints(user.ID, util.InviteeBonusPoints); err != nil {
			return err
		}
		user.Points += util.InviteeBonusPoints

		inviter, err = repo.FindByID(inv.InviterID)
		if errors.Is(err, util.ErrNotFound) {
			inviter = nil
			return nil
		}
		if err != nil {
			return err
		}
		return repo.AddPoints(inviter.ID, util.InviterBonusPoints)
	})
	if err != nil {
		return err
	}

	if inviter != nil {
		logger.Log.Info("Invitation accepted",
			zap.Uint("userID", user.ID),
			zap.Uint("inviterID", inviter.ID))
		s.notifyInvitationAccepted(ctx, inviter.Email, user.Email)
	}
	return nil
}

func (s *AuthService) notifyInvitationAccepted(ctx context.Context, inviterEmail, userEmail string) {
	if s.Mailer == nil || s.Cfg.Mail.AdminAddress == "" {
		return
	}
	body := fmt.Sprintf("%s invited %s to Doe, and the invitee has signed up!", inviterEmail, userEmail)
	if err := s.Mailer.Send(ctx, "User has registered", body, s.Cfg.Mail.From, []string{s.Cfg.Mail.AdminAddress}); err != nil {
		logger.Log.Warn("Invitation notification failed", zap.String("email", userEmail), zap.Error(err))
	}
}

// Login 成功返回 JWT，邮箱不存在与密码错误返回同一错误
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.UserRepo.FindByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return "", nil, util.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, util.ErrInvalidCredentials
	}

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return "", nil, err
	}

	if err := s.UserRepo.TouchLastLogin(user.ID); err != nil {
		logger.Log.Warn("Failed to update last login", zap.Uint("userID", user.ID), zap.Error(err))
	}
	return token, user, nil
}
