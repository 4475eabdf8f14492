package identity

import (
	"Insider/models/postgres"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"
)

var (
	ErrInvalidName   = errors.New("name must be between 2 and 20 characters")
	ErrNameTaken     = errors.New("name already in use")
	ErrInvalidColor  = errors.New("color must be a #rrggbb value")
	ErrUnknownPlayer = errors.New("unknown player")
)

var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Service owns the persistent player identities.
type Service struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Service {
	return &Service{db: db}
}

// ValidateName checks the display-name constraints shared by create and
// rename.
func ValidateName(name string) error {
	n := utf8.RuneCountInString(name)
	if n < 2 || n > 20 {
		return ErrInvalidName
	}
	return nil
}

// ValidateColor accepts lowercase or uppercase #rrggbb values.
func ValidateColor(color string) error {
	if !colorPattern.MatchString(color) {
		return ErrInvalidColor
	}
	return nil
}

// CreateOrGet returns the existing player for the id, or registers a
// new one. A blank name gets a derived default; a taken name gets a
// numeric suffix rather than failing the connection handshake.
func (s *Service) CreateOrGet(id, name, color string) (*postgres.Player, error) {
	var p postgres.Player
	err := s.db.Preload("Stats").First(&p, "id = ?", id).Error
	if err == nil {
		return &p, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" || ValidateName(name) != nil {
		name = defaultName(id)
	}
	name, err = s.dedupeName(name)
	if err != nil {
		return nil, err
	}
	if ValidateColor(color) != nil {
		color = "#e0e0e0"
	}

	p = postgres.Player{
		ID:       id,
		Name:     name,
		Color:    color,
		LastSeen: time.Now(),
		Stats:    postgres.PlayerStats{PlayerID: id},
	}
	if err := s.db.Create(&p).Error; err != nil {
		return nil, err
	}
	log.Printf("[IDENTITY] registered player %s (%s)", p.Name, p.ID)
	return &p, nil
}

// Get fetches one player with their stats row.
func (s *Service) Get(id string) (*postgres.Player, error) {
	var p postgres.Player
	err := s.db.Preload("Stats").First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUnknownPlayer
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateName renames a player, enforcing length and uniqueness.
func (s *Service) UpdateName(id, name string) (*postgres.Player, error) {
	name = strings.TrimSpace(name)
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	var count int64
	if err := s.db.Model(&postgres.Player{}).
		Where("name = ? AND id <> ?", name, id).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrNameTaken
	}
	return s.update(id, map[string]interface{}{"name": name})
}

// UpdateColor changes a player's display color.
func (s *Service) UpdateColor(id, color string) (*postgres.Player, error) {
	if err := ValidateColor(color); err != nil {
		return nil, err
	}
	return s.update(id, map[string]interface{}{"color": color})
}

// Touch refreshes the last-seen timestamp on connect and disconnect.
func (s *Service) Touch(id string) {
	if err := s.db.Model(&postgres.Player{}).
		Where("id = ?", id).Update("last_seen", time.Now()).Error; err != nil {
		log.Printf("[IDENTITY] failed to touch player %s: %v", id, err)
	}
}

// Delete removes a player and, through the FK cascade, their stats.
func (s *Service) Delete(id string) error {
	res := s.db.Delete(&postgres.Player{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUnknownPlayer
	}
	return nil
}

// All lists every registered player, newest first.
func (s *Service) All() ([]postgres.Player, error) {
	var players []postgres.Player
	err := s.db.Order("created_at DESC").Find(&players).Error
	return players, err
}

func (s *Service) update(id string, fields map[string]interface{}) (*postgres.Player, error) {
	res := s.db.Model(&postgres.Player{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrUnknownPlayer
	}
	return s.Get(id)
}

// dedupeName appends a numeric suffix until the name is free.
func (s *Service) dedupeName(name string) (string, error) {
	candidate := name
	for i := 2; ; i++ {
		var count int64
		if err := s.db.Model(&postgres.Player{}).
			Where("name = ?", candidate).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", name, i)
	}
}

func defaultName(id string) string {
	suffix := id
	if len(suffix) > 4 {
		suffix = suffix[:4]
	}
	return "player-" + suffix
}
