package entity

import "time"

// Report 生成后的日报，创建后不再修改
type Report struct {
	ID             uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	RoomID         uint64    `json:"room_id" gorm:"index;not null"`
	UserID         uint64    `json:"user_id" gorm:"index;not null"`
	SummaryContent string    `json:"summary_content" gorm:"type:text;not null"`
	CreatedAt      time.Time `json:"created_at" gorm:"autoCreateTime;index"`
}

func (Report) TableName() string {
	return "reports"
}

func NewReport(roomID, userID uint64, body string) *Report {
	return &Report{RoomID: roomID, UserID: userID, SummaryContent: body, CreatedAt: time.Now()}
}
