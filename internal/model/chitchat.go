package model

// ChitChat 二选一投票（"Would you rather?"）
type ChitChat struct {
	BaseModel
	Title   string           `gorm:"size:500;default:'Would you rather?'" json:"title"`
	Points  int              `gorm:"default:0" json:"points"`
	Options []ChitChatOption `gorm:"constraint:OnDelete:CASCADE" json:"options,omitempty"`
}

func (ChitChat) TableName() string { return "chit_chats" }
func (c *ChitChat) Kind() ContentKind { return KindChitChat }
func (c *ChitChat) ItemID() uint { return c.ID }
func (c *ChitChat) RewardPoints() int { return c.Points }

type ChitChatOption struct {
	BaseModel
	ChitChatID uint   `gorm:"index;not null" json:"chitChatId"`
	Option1    string `gorm:"column:option_1;size:200" json:"option1"`
	Option2    string `gorm:"column:option_2;size:200" json:"option2"`
}

func (ChitChatOption) TableName() string { return "chit_chat_options" }

type ChitChatUserChoice struct {
	BaseModel
	UserID     uint             `gorm:"uniqueIndex:idx_chitchat_user;not null" json:"userId"`
	ChitChatID uint             `gorm:"uniqueIndex:idx_chitchat_user;not null" json:"chitChatId"`
	Answers    []ChitChatAnswer `gorm:"foreignKey:UserChoiceID;constraint:OnDelete:CASCADE" json:"answers,omitempty"`
}

func (ChitChatUserChoice) TableName() string { return "chit_chat_user_choices" }

type ChitChatAnswer struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	UserChoiceID uint   `gorm:"index;not null" json:"userChoiceId"`
	OptionID     uint   `gorm:"not null" json:"optionId"`
	Answer       string `gorm:"size:200" json:"answer"`
}

func (ChitChatAnswer) TableName() string { return "chit_chat_answers" }
