package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

type FlashLevel string

const (
	FlashSuccess FlashLevel = "success"
	FlashError   FlashLevel = "error"
	FlashInfo    FlashLevel = "info"
)

type FlashMessage struct {
	Level   FlashLevel `json:"level"`
	Message string     `json:"message"`
}

// FlashService 非 AJAX 请求跳转前写入的一次性提示，下一次页面读取时取出并清空
type FlashService struct {
	Redis *redis.Client
	TTL   time.Duration
}

func NewFlashService(rdb *redis.Client, ttl time.Duration) *FlashService {
	return &FlashService{Redis: rdb, TTL: ttl}
}

func flashKey(userID uint) string {
	return fmt.Sprintf("flash:user:%d", userID)
}

func (s *FlashService) Push(ctx context.Context, userID uint, level FlashLevel, message string) error {
	data, err := json.Marshal(FlashMessage{Level: level, Message: message})
	if err != nil {
		return err
	}

	key := flashKey(userID)
	_, err = s.Redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, data)
		pipe.Expire(ctx, key, s.TTL)
		return nil
	})
	return err
}

// Pop 取出全部提示并删除，没有提示时返回空切片
func (s *FlashService) Pop(ctx context.Context, userID uint) ([]FlashMessage, error) {
	key := flashKey(userID)

	var rng *redis.StringSliceCmd
	_, err := s.Redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		rng = pipe.LRange(ctx, key, 0, -1)
		pipe.Del(ctx, key)
		return nil
	})
	if err != nil {
		return nil, err
	}

	messages := make([]FlashMessage, 0, len(rng.Val()))
	for _, raw := range rng.Val() {
		var m FlashMessage
		if err := json.Unmarshal([]byte(raw), &m); err != nil {
			continue
		}
		messages = append(messages, m)
	}
	return messages, nil
}
