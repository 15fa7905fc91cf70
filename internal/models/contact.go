package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ContactStatus string

const (
	ContactNew     ContactStatus = "new"
	ContactRead    ContactStatus = "read"
	ContactReplied ContactStatus = "replied"
	ContactClosed  ContactStatus = "closed"
)

func ValidContactStatus(status string) bool {
	switch ContactStatus(status) {
	case ContactNew, ContactRead, ContactReplied, ContactClosed:
		return true
	}
	return false
}

type ContactMetadata struct {
	IPAddress string `bson:"ipAddress,omitempty" json:"ipAddress,omitempty"`
	UserAgent string `bson:"userAgent,omitempty" json:"userAgent,omitempty"`
}

type Contact struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name          string              `bson:"name" json:"name"`
	Email         string              `bson:"email" json:"email"`
	Phone         string              `bson:"phone,omitempty" json:"phone,omitempty"`
	Subject       string              `bson:"subject" json:"subject"`
	Message       string              `bson:"message" json:"message"`
	Status        ContactStatus       `bson:"status" json:"status"`
	AdminResponse string              `bson:"adminResponse,omitempty" json:"adminResponse,omitempty"`
	RespondedBy   *primitive.ObjectID `bson:"respondedBy,omitempty" json:"respondedBy,omitempty"`
	RespondedAt   *time.Time          `bson:"respondedAt,omitempty" json:"respondedAt,omitempty"`
	Metadata      *ContactMetadata    `bson:"metadata,omitempty" json:"metadata,omitempty"`
	CreatedAt     time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time           `bson:"updatedAt" json:"updatedAt"`
}

type NotificationChannel string

const (
	ChannelEmail NotificationChannel = "email"
	ChannelSMS   NotificationChannel = "sms"
	ChannelInApp NotificationChannel = "inapp"
)

type Notification struct {
	ID        primitive.ObjectID     `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID     `bson:"userId,omitempty" json:"userId,omitempty"`
	Channel   NotificationChannel    `bson:"channel" json:"channel"`
	Title     string                 `bson:"title,omitempty" json:"title,omitempty"`
	Body      string                 `bson:"body,omitempty" json:"body,omitempty"`
	Meta      map[string]interface{} `bson:"meta,omitempty" json:"meta,omitempty"`
	Read      bool                   `bson:"read" json:"read"`
	CreatedAt time.Time              `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time              `bson:"updatedAt" json:"updatedAt"`
}
