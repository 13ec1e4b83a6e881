package service

import (
	"crypto/rand"
	"errors"
	"strings"
	"time"

	"github.com/callaa/drawpile-listing/internal/config"
	"github.com/callaa/drawpile-listing/internal/errs"
	"github.com/callaa/drawpile-listing/internal/model"
	"github.com/callaa/drawpile-listing/internal/validate"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefaultPort is the Drawpile server port assumed when an announcement
// doesn't name one.
const DefaultPort = 27750

const updateKeyLength = 32

// Registry is the session directory core: announce, list, refresh, unlist.
// It is stateless between requests; all durable state lives in the store.
type Registry struct {
	db   *gorm.DB
	cfg  *config.Config
	feed *FeedHub
	log  *zap.Logger
}

// NewRegistry creates a session registry. feed may be nil when no watch
// subscribers are served.
func NewRegistry(db *gorm.DB, cfg *config.Config, feed *FeedHub, log *zap.Logger) *Registry {
	return &Registry{db: db, cfg: cfg, feed: feed, log: log}
}

// live narrows a query to rows that count as alive: not unlisted and
// refreshed within the liveness window. Expiry is this predicate, nothing
// else; aged-out rows stay in the table for external cleanup.
func (r *Registry) live(tx *gorm.DB) *gorm.DB {
	cutoff := time.Now().Add(-r.cfg.SessionTimeout())
	return tx.Where("unlisted = ? AND last_active >= ?", false, cutoff)
}

// List returns the public view of all live sessions matching the filter,
// ordered by title.
func (r *Registry) List(filter model.ListFilter) ([]model.Session, error) {
	q := r.live(r.db).Model(&model.ListedSession{})

	if filter.Title != "" {
		// Strip wildcards from the user-supplied pattern.
		title := strings.ReplaceAll(filter.Title, "%", "")
		q = q.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(title)+"%")
	}
	if filter.Protocol != "" {
		q = q.Where("protocol = ?", filter.Protocol)
	}
	if !filter.Nsfm {
		q = q.Where("nsfm = ?", false)
	}

	var rows []model.ListedSession
	if err := q.Order("title ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	sessions := make([]model.Session, 0, len(rows))
	for i := range rows {
		sessions = append(sessions, rows[i].Listing())
	}
	return sessions, nil
}

// Announce validates and stores a new session announcement. The returned
// update key is shown to the announcer exactly once.
func (r *Registry) Announce(req model.AnnounceRequest, clientIP string) (*model.AnnounceResponse, error) {
	sessionID, err := requiredString(req.ID, "id")
	if err != nil {
		return nil, err
	}
	protocol, err := requiredString(req.Protocol, "protocol")
	if err != nil {
		return nil, err
	}
	title, err := requiredString(req.Title, "title")
	if err != nil {
		return nil, err
	}
	owner, err := requiredString(req.Owner, "owner")
	if err != nil {
		return nil, err
	}

	host := clientIP
	if req.Host != nil && strings.TrimSpace(*req.Host) != "" {
		host = strings.TrimSpace(*req.Host)
	}
	port := DefaultPort
	if req.Port != nil {
		port = *req.Port
	}
	users := 0
	if req.Users != nil {
		users = *req.Users
	}
	if users < 0 {
		return nil, errs.BadData("Invalid user count")
	}
	password := req.Password != nil && *req.Password
	nsfm := (req.Nsfm != nil && *req.Nsfm) || r.isNsfmTitle(title)

	if err := validate.Hostname(host, r.cfg.AllowPrivateIP, r.cfg.CheckHostname); err != nil {
		return nil, err
	}
	if err := validate.SessionID(sessionID); err != nil {
		return nil, err
	}
	if err := validate.Port(port); err != nil {
		return nil, err
	}

	key, err := newUpdateKey()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	row := &model.ListedSession{
		Host:       host,
		Port:       port,
		SessionID:  sessionID,
		Protocol:   protocol,
		Title:      title,
		Owner:      owner,
		Users:      users,
		Password:   password,
		Nsfm:       nsfm,
		UpdateKey:  key,
		ClientIP:   clientIP,
		Started:    now,
		LastActive: now,
	}

	// Rate check, duplicate check and insert run in one transaction so a
	// concurrent announce can't slip between the counts and the insert.
	err = r.db.Transaction(func(tx *gorm.DB) error {
		cutoff := now.Add(-r.cfg.SessionTimeout())

		var announced int64
		if err := tx.Model(&model.ListedSession{}).
			Where("client_ip = ? AND last_active >= ?", clientIP, cutoff).
			Count(&announced).Error; err != nil {
			return err
		}
		if announced >= int64(r.cfg.RateLimit) {
			return errs.RateLimit("You have announced too many sessions too quickly!")
		}

		var listed int64
		if err := r.live(tx).Model(&model.ListedSession{}).
			Where("host = ? AND port = ? AND session_id = ?", host, port, sessionID).
			Count(&listed).Error; err != nil {
			return err
		}
		if listed > 0 {
			return errs.Duplicate("Session already listed")
		}

		return tx.Create(row).Error
	})
	if err != nil {
		return nil, err
	}

	r.log.Info("session announced",
		zap.Int64("id", row.ID),
		zap.String("session_id", sessionID),
		zap.String("host", host),
		zap.Int("port", port))
	r.feed.Broadcast(EventAnnounced, row.Listing())

	return &model.AnnounceResponse{ID: row.ID, Key: key}, nil
}

// Refresh applies a partial update to a live session and renews its
// liveness. last_active advances even when the patch is empty; that is how
// announcers keep a session listed.
func (r *Registry) Refresh(id int64, key string, patch model.RefreshRequest) error {
	set := map[string]interface{}{"last_active": time.Now()}
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		set["title"] = title
		if r.isNsfmTitle(title) {
			set["nsfm"] = true
		}
	}
	if patch.Users != nil {
		if *patch.Users < 0 {
			return errs.BadData("Invalid user count")
		}
		set["users"] = *patch.Users
	}
	if patch.Owner != nil {
		set["owner"] = strings.TrimSpace(*patch.Owner)
	}
	if patch.Password != nil {
		set["password"] = *patch.Password
	}
	// The NSFM tag is sticky: it can be set here but never cleared.
	if patch.Nsfm != nil && *patch.Nsfm {
		set["nsfm"] = true
	}

	var row model.ListedSession
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := r.checkUpdateKey(tx, id, key); err != nil {
			return err
		}
		if err := tx.Model(&model.ListedSession{}).Where("id = ?", id).Updates(set).Error; err != nil {
			return err
		}
		return tx.First(&row, id).Error
	})
	if err != nil {
		return err
	}

	r.feed.Broadcast(EventRefreshed, row.Listing())
	return nil
}

// Unlist permanently removes a session from listings. The row stays in the
// store; a second unlist finds no live row and fails the key lookup.
func (r *Registry) Unlist(id int64, key string) error {
	var row model.ListedSession
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := r.checkUpdateKey(tx, id, key); err != nil {
			return err
		}
		if err := tx.First(&row, id).Error; err != nil {
			return err
		}
		return tx.Model(&model.ListedSession{}).Where("id = ?", id).
			Update("unlisted", true).Error
	})
	if err != nil {
		return err
	}

	r.log.Info("session unlisted", zap.Int64("id", id))
	r.feed.Broadcast(EventUnlisted, row.Listing())
	return nil
}

// checkUpdateKey authorizes a mutating operation. The lookup only sees live
// listed rows, so expired, unlisted and never-existing ids all come back as
// NOTFOUND; only a present row with a different key is BADKEY.
func (r *Registry) checkUpdateKey(tx *gorm.DB, id int64, key string) error {
	var row model.ListedSession
	err := r.live(tx).Select("update_key").
		Where("id = ?", id).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NotFound("Session ID not found")
	}
	if err != nil {
		return err
	}
	if row.UpdateKey != key {
		return errs.BadKey("Incorrect session key")
	}
	return nil
}

func (r *Registry) isNsfmTitle(title string) bool {
	title = strings.ToLower(title)
	for _, word := range r.cfg.NsfmWords {
		if strings.Contains(title, word) {
			return true
		}
	}
	return false
}

func requiredString(field *string, name string) (string, error) {
	if field == nil {
		return "", errs.MissingProperty(name)
	}
	return strings.TrimSpace(*field), nil
}

const keyChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// newUpdateKey generates the per-session bearer secret. The key gates all
// mutating operations, so it comes from crypto/rand.
func newUpdateKey() (string, error) {
	buf := make([]byte, updateKeyLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = keyChars[int(b)%len(keyChars)]
	}
	return string(buf), nil
}
