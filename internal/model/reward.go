package model

import "time"

// swagger:model Reward
type Reward struct {
	BaseModel
	Title        string `gorm:"size:50;not null" json:"title"`
	Description  string `gorm:"size:255" json:"description"`
	PointsNeeded int    `gorm:"not null" json:"pointsNeeded"`
}

func (Reward) TableName() string {
	return "rewards"
}

type UserReward struct {
	HardBase
	UserID      uint      `gorm:"index;not null" json:"userId"`
	RewardID    uint      `gorm:"index;not null" json:"rewardId"`
	PointsSpent int       `json:"pointsSpent"`
	RedeemedAt  time.Time `json:"redeemedAt"`
	Reward      Reward    `gorm:"foreignKey:RewardID" json:"reward"`
}

func (UserReward) TableName() string {
	return "user_rewards"
}
