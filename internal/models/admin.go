package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AdminSession is one active admin panel login
type AdminSession struct {
	Token      string    `bson:"token" json:"-"`
	IP         string    `bson:"ip" json:"ip"`
	UserAgent  string    `bson:"userAgent" json:"userAgent"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
	LastActive time.Time `bson:"lastActive" json:"lastActive"`
}

// AdminUser represents an admin panel user
type AdminUser struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Username       string             `bson:"username" json:"username"`
	PasswordHash   string             `bson:"passwordHash" json:"-"`
	Role           string             `bson:"role" json:"role"` // "admin" or "developer"
	ActiveSessions []AdminSession     `bson:"activeSessions" json:"-"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}
