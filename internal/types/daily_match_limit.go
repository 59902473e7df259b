package types

import (
  "time"
  "github.com/google/uuid"
  "gorm.io/datatypes"
)

// DailyMatchLimit tracks how many matches a user has been shown on a given
// calendar day. MatchDate is a date-only string (YYYY-MM-DD) in server time,
// unique per user, so each day starts from a fresh row.
type DailyMatchLimit struct {
  ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
  UserID       uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:ux_daily_limit_user_date;column:user_id" json:"user_id"`
  User         *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
  MatchDate    string         `gorm:"not null;uniqueIndex:ux_daily_limit_user_date;column:match_date" json:"match_date"`
  MatchesShown int            `gorm:"not null;default:0;column:matches_shown" json:"matches_shown"`
  MatchLimit   int            `gorm:"not null;column:match_limit" json:"match_limit"`
  ShownUserIDs datatypes.JSON `gorm:"column:shown_user_ids" json:"shown_user_ids,omitempty"`
  CreatedAt    time.Time      `json:"created_at"`
  UpdatedAt    time.Time      `json:"updated_at"`
}

func (DailyMatchLimit) TableName() string {
  return "daily_match_limit"
}

func (l *DailyMatchLimit) Remaining() int {
  r := l.MatchLimit - l.MatchesShown
  if r < 0 {
    return 0
  }
  return r
}
