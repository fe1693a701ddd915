package model

type ContentKind string

const (
	KindVideo     ContentKind = "video"
	KindFunFact   ContentKind = "fun_fact"
	KindChallenge ContentKind = "challenge"
	KindChitChat  ContentKind = "chit_chat"
	KindQuiz      ContentKind = "quiz"
)

type Page string

const (
	PageItsTime   Page = "its_time"
	PageRichGirl  Page = "rich_girl"
	PageYouDoYou  Page = "you_do_you"
	PageLevers    Page = "levers"
	PagePortfolio Page = "portfolio"
)

var Pages = []Page{PageItsTime, PageRichGirl, PageYouDoYou, PageLevers, PagePortfolio}

func (p Page) Valid() bool {
	for _, v := range Pages {
		if v == p {
			return true
		}
	}
	return false
}

// ContentItem 内容槽位可承载的具体条目（Video / FunFact / Challenge / ChitChat / Quiz）
type ContentItem interface {
	Kind() ContentKind
	ItemID() uint
	RewardPoints() int
}

// Content 页面上的一个内容槽位。每个 Kind 对应一个真实外键，只有与 Kind 匹配的外键非空
// swagger:model Content
type Content struct {
	BaseModel
	Page        Page        `gorm:"size:50;index;default:'its_time'" json:"page"`
	Kind        ContentKind `gorm:"size:20;not null" json:"kind"`
	Order       int         `gorm:"column:order;default:0" json:"order"`
	VideoID     *uint       `gorm:"index" json:"videoId,omitempty"`
	FunFactID   *uint       `gorm:"index" json:"funFactId,omitempty"`
	ChallengeID *uint       `gorm:"index" json:"challengeId,omitempty"`
	ChitChatID  *uint       `gorm:"index" json:"chitChatId,omitempty"`
	QuizID      *uint       `gorm:"index" json:"quizId,omitempty"`

	Video     *Video     `json:"video,omitempty"`
	FunFact   *FunFact   `json:"funFact,omitempty"`
	Challenge *Challenge `json:"challenge,omitempty"`
	ChitChat  *ChitChat  `json:"chitChat,omitempty"`
	Quiz      *Quiz      `json:"quiz,omitempty"`
}

func (Content) TableName() string {
	return "contents"
}

// Item 返回与 Kind 匹配的已预加载条目，未预加载或外键缺失时返回 nil
func (c *Content) Item() ContentItem {
	switch c.Kind {
	case KindVideo:
		if c.Video != nil {
			return c.Video
		}
	case KindFunFact:
		if c.FunFact != nil {
			return c.FunFact
		}
	case KindChallenge:
		if c.Challenge != nil {
			return c.Challenge
		}
	case KindChitChat:
		if c.ChitChat != nil {
			return c.ChitChat
		}
	case KindQuiz:
		if c.Quiz != nil {
			return c.Quiz
		}
	}
	return nil
}

// SetItem 根据条目类型写入 Kind 与对应外键，其余外键清空
func (c *Content) SetItem(item ContentItem) {
	c.VideoID, c.FunFactID, c.ChallengeID, c.ChitChatID, c.QuizID = nil, nil, nil, nil, nil
	id := item.ItemID()
	c.Kind = item.Kind()
	switch item.Kind() {
	case KindVideo:
		c.VideoID = &id
	case KindFunFact:
		c.FunFactID = &id
	case KindChallenge:
		c.ChallengeID = &id
	case KindChitChat:
		c.ChitChatID = &id
	case KindQuiz:
		c.QuizID = &id
	}
}

// swagger:model Video
type Video struct {
	BaseModel
	Title       string  `gorm:"size:255;not null" json:"title"`
	Description string  `gorm:"type:text" json:"description"`
	VideoURL    string  `gorm:"size:500" json:"videoUrl"`
	PosterURL   string  `gorm:"size:500" json:"posterUrl"`
	Duration    float64 `json:"duration"` // 秒
	Points      int     `gorm:"default:0" json:"points"`
}

func (Video) TableName() string { return "videos" }
func (v *Video) Kind() ContentKind { return KindVideo }
func (v *Video) ItemID() uint { return v.ID }
func (v *Video) RewardPoints() int { return v.Points }

type FunFact struct {
	BaseModel
	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	PhotoURL    string `gorm:"size:500" json:"photoUrl"`
	Points      int    `gorm:"default:0" json:"points"`
}

func (FunFact) TableName() string { return "fun_facts" }
func (f *FunFact) Kind() ContentKind { return KindFunFact }
func (f *FunFact) ItemID() uint { return f.ID }
func (f *FunFact) RewardPoints() int { return f.Points }
