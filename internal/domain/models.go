package domain

import (
	"time"
)

type Boss struct {
	BossKey    string
	BossName   string
	CurrentHP  int64
	MaxHP      int64
	Defeated   bool
	SpawnedAt  time.Time
	DefeatedAt *time.Time
}

type Participant struct {
	UserID        int64
	UserName      string
	ActionCount   int64
	TotalDamage   int64
	FirstAttackAt time.Time
	LastAttackAt  time.Time
	AverageDamage float64 // total damage / action count, 0 when no actions
}

type RankingEntry struct {
	Rank               int
	UserID             int64
	UserName           string
	TotalDamage        int64
	TotalActions       int64
	BossesParticipated int64
}

type UserStats struct {
	UserID              int64
	BossesParticipated  int64
	TotalDamage         int64
	TotalActions        int64
	MaxSingleBossDamage int64
}

type DefeatRecord struct {
	ID               int64
	BossKey          string
	BossName         string
	DefeatedAt       time.Time
	TotalDamage      int64
	DurationSeconds  int64
	ParticipantCount int64
}
