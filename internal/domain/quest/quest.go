package quest

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MaxTitleLength   = 40
	CompletionEnergy = 5
	DefaultIconPath  = "/quest.webp"
)

var (
	ErrEmptyTitle   = errors.New("quest title is empty")
	ErrTitleTooLong = errors.New("quest title is too long")
	ErrUnknownIcon  = errors.New("unknown quest icon")
)

var IconPaths = []string{
	DefaultIconPath,
	"/study.webp",
	"/exercise.webp",
	"/work.webp",
}

type Quest struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Energy    int       `json:"energy"`
	IconPath  string    `json:"icon_path"`
	CreatedAt time.Time `json:"created_at"`
}

// New validates the user-supplied fields and builds a quest worth the
// standard completion energy.
func New(id, userID, title, iconPath string, now time.Time) (Quest, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Quest{}, ErrEmptyTitle
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return Quest{}, ErrTitleTooLong
	}
	iconPath = strings.TrimSpace(iconPath)
	if iconPath == "" {
		iconPath = DefaultIconPath
	}
	if !isKnownIcon(iconPath) {
		return Quest{}, ErrUnknownIcon
	}
	return Quest{
		ID:        id,
		UserID:    userID,
		Title:     title,
		Energy:    CompletionEnergy,
		IconPath:  iconPath,
		CreatedAt: now,
	}, nil
}

func isKnownIcon(path string) bool {
	for _, p := range IconPaths {
		if p == path {
			return true
		}
	}
	return false
}
