package repository

import (
	"doe_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CompletionRepository 用户已完成内容集合
type CompletionRepository struct {
	DB *gorm.DB
}

func NewCompletionRepository(db *gorm.DB) *CompletionRepository {
	return &CompletionRepository{DB: db}
}

func (r *CompletionRepository) WithTx(tx *gorm.DB) *CompletionRepository {
	return &CompletionRepository{DB: tx}
}

// Award 把 (user, kind, content) 加入完成集合；只有本次真正插入了新行才给用户加分。
// 唯一索引充当 compare-and-set，调用方需在同一事务中使用以保证原子性。
func (r *CompletionRepository) Award(userID uint, kind model.ContentKind, contentID uint, points int) (bool, error) {
	completion := &model.UserCompletion{
		UserID:    userID,
		Kind:      kind,
		ContentID: contentID,
		Points:    points,
	}
	res := r.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(completion)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}

	if points != 0 {
		err := r.DB.Model(&model.User{}).
			Where("id = ?", userID).
			Update("points", gorm.Expr("points + ?", points)).
			Error
		if err != nil {
			return false, err
		}
	}
	return true, nil
}

func (r *CompletionRepository) IsCompleted(userID uint, kind model.ContentKind, contentID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.UserCompletion{}).
		Where("user_id = ? AND kind = ? AND content_id = ?", userID, kind, contentID).
		Count(&count).Error
	return count > 0, err
}

// CompletedSet 返回用户在某类内容中已完成的 content id 集合
func (r *CompletionRepository) CompletedSet(userID uint, kind model.ContentKind) (map[uint]bool, error) {
	var ids []uint
	err := r.DB.Model(&model.UserCompletion{}).
		Where("user_id = ? AND kind = ?", userID, kind).
		Pluck("content_id", &ids).Error
	if err != nil {
		return nil, err
	}

	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}
