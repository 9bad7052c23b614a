package entity

import "time"

// Sender 消息发送方
type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

// Message 房间消息，按自增 ID 排序
type Message struct {
	ID        uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	RoomID    uint64    `json:"room_id" gorm:"index;not null"`
	Sender    Sender    `json:"sender" gorm:"type:varchar(8);not null"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (Message) TableName() string {
	return "messages"
}

func NewMessage(roomID uint64, sender Sender, content string) *Message {
	return &Message{RoomID: roomID, Sender: sender, Content: content, CreatedAt: time.Now()}
}
