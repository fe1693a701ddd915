package model

import (
	"time"

	"gorm.io/datatypes"
)

type ElementKind string

const (
	ElementInput     ElementKind = "input"
	ElementMultiline ElementKind = "multiline"
	ElementRadio     ElementKind = "radio"
	ElementDate      ElementKind = "date"
)

type ValueType string

const (
	ValueText  ValueType = "text"
	ValueInt   ValueType = "int"
	ValueFloat ValueType = "float"
	ValueDate  ValueType = "date"
)

type DisplayMode string

const (
	DisplayText  DisplayMode = "text"
	DisplayTable DisplayMode = "table"
)

// swagger:model Challenge
type Challenge struct {
	BaseModel
	Title              string `gorm:"size:255;not null" json:"title"`
	PictureURL         string `gorm:"size:500" json:"pictureUrl"`
	Instructions       string `gorm:"type:text" json:"instructions"`
	Points             int    `gorm:"default:0" json:"points"`
	ButtonAddName      string `gorm:"size:50" json:"buttonAddName"`
	ButtonViewName     string `gorm:"size:50" json:"buttonViewName"`
	MinAnswersRequired int    `gorm:"default:1" json:"minAnswersRequired"`

	Elements        []ChallengeElement        `gorm:"constraint:OnDelete:CASCADE" json:"elements,omitempty"`
	DisplaySettings *ChallengeDisplaySettings `gorm:"constraint:OnDelete:CASCADE" json:"displaySettings,omitempty"`
}

func (Challenge) TableName() string { return "challenges" }
func (c *Challenge) Kind() ContentKind { return KindChallenge }
func (c *Challenge) ItemID() uint { return c.ID }
func (c *Challenge) RewardPoints() int { return c.Points }

// ChallengeElement 挑战表单字段，RawOptionSpec 仅对单选有意义，形如 "Yes (#FF0000), No"
type ChallengeElement struct {
	BaseModel
	ChallengeID      uint        `gorm:"index;not null" json:"challengeId"`
	Order            int         `gorm:"column:order;default:0" json:"order"`
	Name             string      `gorm:"size:255;not null" json:"name"`
	Kind             ElementKind `gorm:"size:20;not null" json:"kind"`
	ValueType        ValueType   `gorm:"size:10;default:'text'" json:"valueType"`
	RawOptionSpec    string      `gorm:"type:text" json:"rawOptionSpec"`
	ShowAfterConfirm bool        `gorm:"default:false" json:"showAfterConfirm"`
}

func (ChallengeElement) TableName() string { return "challenge_elements" }

type ChallengeDisplaySettings struct {
	BaseModel
	ChallengeID      uint        `gorm:"uniqueIndex;not null" json:"challengeId"`
	DisplayMode      DisplayMode `gorm:"size:10;default:'text'" json:"displayMode"`
	AutoAdjustTable  bool        `gorm:"default:true" json:"autoAdjustTable"`
	CancelEditDelete bool        `gorm:"default:false" json:"cancelEditDelete"`

	TextFields   []TextFieldOrder `gorm:"foreignKey:SettingsID;constraint:OnDelete:CASCADE" json:"textFields,omitempty"`
	TableColumns []TableColumn    `gorm:"foreignKey:SettingsID;constraint:OnDelete:CASCADE" json:"tableColumns,omitempty"`
}

func (ChallengeDisplaySettings) TableName() string { return "challenge_display_settings" }

type TextFieldOrder struct {
	BaseModel
	SettingsID uint             `gorm:"index;not null" json:"settingsId"`
	ElementID  uint             `gorm:"not null" json:"elementId"`
	Order      int              `gorm:"column:order;default:0" json:"order"`
	Element    ChallengeElement `gorm:"foreignKey:ElementID" json:"element"`
}

func (TextFieldOrder) TableName() string { return "challenge_text_fields" }

// TableColumn ElementID 为空表示静态列，只用于展示
type TableColumn struct {
	BaseModel
	SettingsID       uint                        `gorm:"index;not null" json:"settingsId"`
	Order            int                         `gorm:"column:order;default:0" json:"order"`
	Title            string                      `gorm:"size:255;not null" json:"title"`
	ElementID        *uint                       `json:"elementId,omitempty"`
	CancelEditDelete bool                        `gorm:"default:false" json:"cancelEditDelete"`
	CustomValues     datatypes.JSONSlice[string] `json:"customValues,omitempty"`
	Element          *ChallengeElement           `gorm:"foreignKey:ElementID" json:"element,omitempty"`
}

func (TableColumn) TableName() string { return "challenge_table_columns" }

// ChallengeUserChoice 用户参与某个挑战的记录，(user, challenge) 唯一
type ChallengeUserChoice struct {
	HardBase
	UserID      uint               `gorm:"uniqueIndex:idx_choice_user_challenge;not null" json:"userId"`
	ChallengeID uint               `gorm:"uniqueIndex:idx_choice_user_challenge;not null" json:"challengeId"`
	Attempts    []ChallengeAttempt `gorm:"foreignKey:ChoiceID;constraint:OnDelete:CASCADE" json:"attempts,omitempty"`
}

func (ChallengeUserChoice) TableName() string { return "challenge_user_choices" }

// ChallengeAttempt 一次提交。编辑历史通过克隆追加，ClonedFromID 指向被克隆的原记录
type ChallengeAttempt struct {
	ID           uint              `gorm:"primaryKey;autoIncrement" json:"id"`
	ChoiceID     uint              `gorm:"index;not null" json:"choiceId"`
	SubmittedAt  time.Time         `gorm:"autoCreateTime" json:"submittedAt"`
	IsDone       bool              `gorm:"default:false" json:"isDone"`
	IsSecondary  bool              `gorm:"default:false" json:"isSecondary"`
	ClonedFromID *uint             `gorm:"index" json:"clonedFromId,omitempty"`
	Answers      []ChallengeAnswer `gorm:"foreignKey:AttemptID;constraint:OnDelete:CASCADE" json:"answers,omitempty"`
}

func (ChallengeAttempt) TableName() string { return "challenge_attempts" }

type ChallengeAnswer struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	AttemptID uint   `gorm:"uniqueIndex:idx_answer_attempt_element;not null" json:"attemptId"`
	ElementID uint   `gorm:"uniqueIndex:idx_answer_attempt_element;not null" json:"elementId"`
	Value     string `gorm:"type:text" json:"value"`
}

func (ChallengeAnswer) TableName() string { return "challenge_answers" }
