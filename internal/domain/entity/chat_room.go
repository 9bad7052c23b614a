package entity

import (
	"fmt"
	"time"
)

// ChatRoom 对话房间
type ChatRoom struct {
	ID        uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    uint64    `json:"user_id" gorm:"index;not null"`
	Title     string    `json:"title" gorm:"type:varchar(255);not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (ChatRoom) TableName() string {
	return "chat_rooms"
}

// NewChatRoom 创建房间，标题为空时按创建时间生成
func NewChatRoom(userID uint64, title string, now time.Time) *ChatRoom {
	if title == "" {
		title = DefaultRoomTitle(now)
	}
	return &ChatRoom{UserID: userID, Title: title, CreatedAt: now, UpdatedAt: now}
}

// DefaultRoomTitle 默认房间标题
func DefaultRoomTitle(t time.Time) string {
	return fmt.Sprintf("대화 %s", t.Format("2006-01-02 15:04"))
}
