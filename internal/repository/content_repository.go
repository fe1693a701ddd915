package repository

import (
	"doe_backend/internal/model"
	"doe_backend/internal/util"

	"gorm.io/gorm"
)

type ContentRepository struct {
	DB *gorm.DB
}

func NewContentRepository(db *gorm.DB) *ContentRepository {
	return &ContentRepository{DB: db}
}

func (r *ContentRepository) WithTx(tx *gorm.DB) *ContentRepository {
	return &ContentRepository{DB: tx}
}

// ListPage 按顺序返回页面上的内容槽位，并预加载各自的条目
func (r *ContentRepository) ListPage(page model.Page) ([]model.Content, error) {
	var contents []model.Content
	err := r.DB.
		Preload("Video").
		Preload("FunFact").
		Preload("Challenge").
		Preload("ChitChat").
		Preload("Quiz.Questions").
		Where("page = ?", page).
		Scopes(byOrder).
		Find(&contents).Error
	return contents, err
}

func (r *ContentRepository) CreateContent(content *model.Content) error {
	return r.DB.Create(content).Error
}

func (r *ContentRepository) CreateVideo(video *model.Video) error {
	return r.DB.Create(video).Error
}

func (r *ContentRepository) FindVideo(id uint) (*model.Video, error) {
	var video model.Video
	if err := r.DB.First(&video, id).Error; err != nil {
		return nil, translate(err, util.Wrap(util.ErrNotFound, "video not found"))
	}
	return &video, nil
}

func (r *ContentRepository) CreateFunFact(fact *model.FunFact) error {
	return r.DB.Create(fact).Error
}

func (r *ContentRepository) FindFunFact(id uint) (*model.FunFact, error) {
	var fact model.FunFact
	if err := r.DB.First(&fact, id).Error; err != nil {
		return nil, translate(err, util.Wrap(util.ErrNotFound, "fun fact not found"))
	}
	return &fact, nil
}
