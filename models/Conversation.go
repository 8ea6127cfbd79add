package models

import (
	"time"

	"gorm.io/gorm"
)

// Conversation is a guest-host message thread. At most one exists per
// guest/host pair; the unique index is the backstop against two confirmation
// attempts racing to create it.
type Conversation struct {
	gorm.Model
	GuestID uint `json:"guestID" gorm:"not null;index;uniqueIndex:idx_conversation_pair"`
	HostID  uint `json:"hostID" gorm:"not null;index;uniqueIndex:idx_conversation_pair"`

	Guest    *User     `json:"guest,omitempty" gorm:"foreignKey:GuestID"`
	Host     *User     `json:"host,omitempty" gorm:"foreignKey:HostID"`
	Messages []Message `json:"messages,omitempty"`
}

type Message struct {
	gorm.Model
	ConversationID uint   `json:"conversationID" gorm:"index"`
	SenderID       uint   `json:"senderID"`
	ReceiverID     uint   `json:"receiverID"`
	Text           string `json:"text"`
	// Optional typed payload for rich messages (e.g., booking card)
	Type         string `json:"type" gorm:"size:32"` // text | booking_card
	PreviewTitle string `json:"previewTitle" gorm:"size:256"`
	RefType      string `json:"refType" gorm:"size:32"` // booking
	RefID        *uint  `json:"refID" gorm:"index"`
	// Delivery state
	State       string     `json:"state" gorm:"size:16;index"` // sent|delivered|seen
	DeliveredAt *time.Time `json:"deliveredAt"`
	SeenAt      *time.Time `json:"seenAt"`
}
