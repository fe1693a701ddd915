package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

// 文件上传相关常量
const (
	MimeVideo = "video/"
	MimeImage = "image/"

	MaxAvatarSize = 5 << 20
	MaxVideoSize  = 500 << 20
)

var (
	AllowedVideoExtensions = []string{".mp4", ".mov", ".avi", ".mkv", ".wmv", ".flv", ".webm"}
)

// 挑战表单字段前缀
const (
	ChallengeFieldPrefix = "field_"
	ChitChatFieldPrefix  = "pair-"
)

// 通过邀请注册的奖励积分
const (
	InviteeBonusPoints = 100
	InviterBonusPoints = 150
)
