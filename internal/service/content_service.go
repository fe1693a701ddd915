package service

import (
	"context"
	"doe_backend/internal/model"
	"doe_backend/internal/repository"
	"doe_backend/internal/util"
	"doe_backend/pkg/logger"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

type ContentService struct {
	ContentRepo    *repository.ContentRepository
	CompletionRepo *repository.CompletionRepository
	Settlement     *SettlementService
	Storage        *StorageService
}

func NewContentService(contentRepo *repository.ContentRepository, completionRepo *repository.CompletionRepository, settlement *SettlementService, storage *StorageService) *ContentService {
	return &ContentService{
		ContentRepo:    contentRepo,
		CompletionRepo: completionRepo,
		Settlement:     settlement,
		Storage:        storage,
	}
}

type ContentSlot struct {
	ID        uint              `json:"id"`
	Kind      model.ContentKind `json:"kind"`
	Order     int               `json:"order"`
	Item      model.ContentItem `json:"item"`
	Points    int               `json:"points"`
	Completed bool              `json:"completed"`
}

type PageView struct {
	Page  model.Page    `json:"page"`
	Slots []ContentSlot `json:"slots"`
}

// Page 返回页面上的内容槽位及当前用户的完成状态，条目缺失的槽位被跳过
func (s *ContentService) Page(ctx context.Context, userID uint, page model.Page) (*PageView, error) {
	if !page.Valid() {
		return nil, util.ErrInvalidPage
	}
	contents, err := s.ContentRepo.ListPage(page)
	if err != nil {
		return nil, err
	}

	completed := make(map[model.ContentKind]map[uint]bool)
	view := &PageView{Page: page, Slots: make([]ContentSlot, 0, len(contents))}
	for i := range contents {
		item := contents[i].Item()
		if item == nil {
			continue
		}
		set, ok := completed[item.Kind()]
		if !ok {
			set, err = s.CompletionRepo.CompletedSet(userID, item.Kind())
			if err != nil {
				return nil, err
			}
			completed[item.Kind()] = set
		}
		view.Slots = append(view.Slots, ContentSlot{
			ID:        contents[i].ID,
			Kind:      item.Kind(),
			Order:     contents[i].Order,
			Item:      item,
			Points:    item.RewardPoints(),
			Completed: set[item.ItemID()],
		})
	}
	return view, nil
}

func (s *ContentService) CompleteVideo(ctx context.Context, userID, videoID uint) (SettleResult, error) {
	video, err := s.ContentRepo.FindVideo(videoID)
	if err != nil {
		return SettleResult{}, err
	}
	return s.Settlement.SettleItem(ctx, userID, video)
}

func (s *ContentService) CompleteFunFact(ctx context.Context, userID, factID uint) (SettleResult, error) {
	fact, err := s.ContentRepo.FindFunFact(factID)
	if err != nil {
		return SettleResult{}, err
	}
	return s.Settlement.SettleItem(ctx, userID, fact)
}

// VideoUpload 管理员上传视频的输入
type VideoUpload struct {
	Title       string
	Description string
	Points      int
	Page        model.Page
	Order       int
	Filename    string
	Reader      io.Reader
	Size        int64
	ContentType string
}

// CreateVideo 先落地临时文件以便 ffprobe 读取时长并截取封面，再上传到对象存储
func (s *ContentService) CreateVideo(ctx context.Context, in VideoUpload) (*model.Video, error) {
	ext := strings.ToLower(filepath.Ext(in.Filename))
	if !allowedVideoExt(ext) {
		return nil, util.Wrap(util.ErrValidation, "unsupported video format: "+ext)
	}
	if in.Page != "" && !in.Page.Valid() {
		return nil, util.ErrInvalidPage
	}

	tmp, err := os.CreateTemp("", "doe-video-*"+ext)
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, in.Reader); err != nil {
		tmp.Close()
		return nil, err
	}
	tmp.Close()

	video := &model.Video{Title: in.Title, Description: in.Description, Points: in.Points}
	if info, err := util.GetVideoInfo(tmp.Name()); err != nil {
		logger.Log.Warn("ffprobe failed, duration unknown", zap.String("file", in.Filename), zap.Error(err))
	} else {
		video.Duration = info.Duration
	}

	video.VideoURL, err = s.Storage.UploadFile(ctx, "videos", in.Filename, tmp.Name(), in.ContentType)
	if err != nil {
		return nil, err
	}

	poster := tmp.Name() + ".jpg"
	if err := util.GenerateThumbnail(tmp.Name(), poster, "00:00:01"); err != nil {
		logger.Log.Warn("Poster generation failed", zap.String("file", in.Filename), zap.Error(err))
	} else {
		defer os.Remove(poster)
		if url, err := s.Storage.UploadFile(ctx, "posters", poster, poster, "image/jpeg"); err == nil {
			video.PosterURL = url
		}
	}

	if err := s.ContentRepo.CreateVideo(video); err != nil {
		return nil, err
	}
	if in.Page != "" {
		slot := &model.Content{Page: in.Page, Order: in.Order}
		slot.SetItem(video)
		if err := s.ContentRepo.CreateContent(slot); err != nil {
			return nil, fmt.Errorf("attach video to page: %w", err)
		}
	}
	return video, nil
}

func allowedVideoExt(ext string) bool {
	for _, e := range util.AllowedVideoExtensions {
		if e == ext {
			return true
		}
	}
	return false
}
