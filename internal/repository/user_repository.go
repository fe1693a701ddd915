package repository

import (
	"errors"

	"doe_backend/internal/model"
	"doe_backend/internal/util"
	"time"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{DB: tx}
}

func (r *UserRepository) Create(user *model.User) error {
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = now
	}
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	if err := r.DB.First(&user, id).Error; err != nil {
		return nil, translate(err, util.ErrUserNotFound)
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	if err := r.DB.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err, util.ErrUserNotFound)
	}
	return &user, nil
}

func (r *UserRepository) ExistsByEmail(email string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) Update(user *model.User) error {
	return r.DB.Save(user).Error
}

func (r *UserRepository) UpdateFields(userID uint, fields map[string]interface{}) error {
	return r.DB.Model(&model.User{}).Where("id = ?", userID).Updates(fields).Error
}

func (r *UserRepository) TouchLastLogin(userID uint) error {
	return r.DB.Model(&model.User{}).Where("id = ?", userID).Update("last_login", time.Now()).Error
}

// AddPoints 原子增加积分
func (r *UserRepository) AddPoints(userID uint, points int) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Update("points", gorm.Expr("points + ?", points)).
		Error
}

// SpendPoints 余额足够时原子扣减，返回是否扣减成功
func (r *UserRepository) SpendPoints(userID uint, points int) (bool, error) {
	res := r.DB.Model(&model.User{}).
		Where("id = ? AND points >= ?", userID, points).
		Update("points", gorm.Expr("points - ?", points))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *UserRepository) Points(userID uint) (int, error) {
	var user model.User
	if err := r.DB.Select("id", "points").First(&user, userID).Error; err != nil {
		return 0, translate(err, util.ErrUserNotFound)
	}
	return user.Points, nil
}

func (r *UserRepository) CreateInvitation(inv *model.Invitation) error {
	return r.DB.Create(inv).Error
}

// AcceptInvitation 把该邮箱最早一条未接受的邀请标记为已接受，没有待接受邀请时返回 (nil, nil)。
// 条件更新保证同一邀请只被接受一次
func (r *UserRepository) AcceptInvitation(email string) (*model.Invitation, error) {
	var inv model.Invitation
	err := r.DB.Where("invitee_email = ? AND accepted = ?", email, false).Order("id").First(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	res := r.DB.Model(&model.Invitation{}).
		Where("id = ? AND accepted = ?", inv.ID, false).
		Update("accepted", true)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	inv.Accepted = true
	return &inv, nil
}
