package specification

import (
	"time"

	"gorm.io/gorm"
)

// InactiveSince matches conversations idle past the cutoff. Any turn stamps
// last_activity, so a recent conversation can never match.
type InactiveSince struct {
	Cutoff time.Time
}

func (s InactiveSince) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("last_activity < ?", s.Cutoff)
}

// ActiveIs filters on the is_active flag. The reaper marks idle conversations
// inactive on one sweep and only deletes the ones still flagged inactive (and
// still idle) on a later sweep.
type ActiveIs struct {
	Active bool
}

func (s ActiveIs) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", s.Active)
}
