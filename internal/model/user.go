package model

import (
	"time"
)

type UserRole string

const (
	Student UserRole = "student"
	Admin   UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	Name          string     `gorm:"size:150;not null" json:"name"`
	Email         string     `gorm:"size:191;uniqueIndex;not null" json:"email"`
	Password      string     `gorm:"size:100;not null" json:"-"`
	Role          UserRole   `gorm:"size:20;default:'student'" json:"role"`
	Points        int        `gorm:"default:0" json:"points"`
	Level         string     `gorm:"size:20;default:'Trailblazer'" json:"level"`
	Avatar        string     `gorm:"size:255" json:"avatar"`
	PhoneNumber   string     `gorm:"size:15" json:"phoneNumber"`
	DateOfBirth   *time.Time `json:"dateOfBirth,omitempty"`
	FocusOfStudy  string     `gorm:"size:255" json:"focusOfStudy"`
	Interests     string     `gorm:"size:255" json:"interests"`
	Hobbies       string     `gorm:"size:255" json:"hobbies"`
	Languages     string     `gorm:"size:70" json:"languages"`
	Motivation    string     `gorm:"size:255" json:"motivation"`
	Cities        string     `gorm:"size:150" json:"cities"`
	CurrentFocus  string     `gorm:"type:text" json:"currentFocus"`
	FavoriteMedia string     `gorm:"type:text" json:"favoriteMedia"`
	LastLogin     *time.Time `json:"lastLogin,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// UserCompletion 用户已完成内容集合，(user, kind, content) 唯一，是发放积分幂等性的唯一依据
type UserCompletion struct {
	HardBase
	UserID    uint        `gorm:"uniqueIndex:idx_user_content;not null" json:"userId"`
	Kind      ContentKind `gorm:"uniqueIndex:idx_user_content;size:20;not null" json:"kind"`
	ContentID uint        `gorm:"uniqueIndex:idx_user_content;not null" json:"contentId"`
	Points    int         `json:"points"`
}

func (UserCompletion) TableName() string {
	return "user_completions"
}

type Invitation struct {
	BaseModel
	InviterID    uint   `gorm:"index;not null" json:"inviterId"`
	InviteeEmail string `gorm:"size:191;not null" json:"inviteeEmail"`
	Accepted     bool   `gorm:"default:false" json:"accepted"`
}

func (Invitation) TableName() string {
	return "invitations"
}
