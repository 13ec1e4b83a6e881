package model

import "time"

// ListedSession is the stored announcement row (GORM). Rows are never hard
// deleted here: unlisting is a terminal soft delete, and expiry is a
// read-time predicate on last_active.
type ListedSession struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	Host       string    `gorm:"size:253;not null;index:idx_sessions_triple,priority:1"`
	Port       int       `gorm:"not null;index:idx_sessions_triple,priority:2"`
	SessionID  string    `gorm:"size:64;not null;index:idx_sessions_triple,priority:3"`
	Protocol   string    `gorm:"size:64;not null"`
	Title      string    `gorm:"not null;default:''"`
	Owner      string    `gorm:"not null;default:''"`
	Users      int       `gorm:"not null;default:0"`
	Password   bool      `gorm:"not null;default:false"`
	Nsfm       bool      `gorm:"not null;default:false"`
	UpdateKey  string    `gorm:"size:32;not null"`
	ClientIP   string    `gorm:"size:45;not null;index"`
	Unlisted   bool      `gorm:"not null;default:false"`
	Started    time.Time `gorm:"not null"`
	LastActive time.Time `gorm:"not null;index"`
}

func (ListedSession) TableName() string { return "drawpile_sessions" }

// Listing converts the row to its public view.
func (s *ListedSession) Listing() Session {
	return Session{
		Host:     s.Host,
		Port:     s.Port,
		ID:       s.SessionID,
		Protocol: s.Protocol,
		Title:    s.Title,
		Users:    s.Users,
		Password: s.Password,
		Nsfm:     s.Nsfm,
		Owner:    s.Owner,
		Started:  s.Started.UTC().Format("2006-01-02 15:04:05"),
	}
}
