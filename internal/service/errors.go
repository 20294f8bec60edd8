package service

import (
	"errors"
	"regexp"
)

var (
	// ErrNotFound means the requested entity does not exist in the
	// bot's data set.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput means the request was rejected before any
	// database access.
	ErrInvalidInput = errors.New("invalid input")
)

var bossKeyPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

const maxBossKeyLen = 64

func validateBossKey(bossKey string) error {
	if bossKey == "" || len(bossKey) > maxBossKeyLen || !bossKeyPattern.MatchString(bossKey) {
		return ErrInvalidInput
	}
	return nil
}

func validateUserID(userID int64) error {
	if userID <= 0 {
		return ErrInvalidInput
	}
	return nil
}
