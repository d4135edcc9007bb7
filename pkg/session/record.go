package session

import (
	"encoding/json"
	"errors"
)

// Record is the persisted form of a session.
type Record struct {
	User        UserProfile `json:"user"`
	AccessToken string      `json:"accessToken"`
}

// Validate reports whether r can be adopted as a session.
func (r Record) Validate() error {
	if r.AccessToken == "" {
		return errors.New("empty access token")
	}
	if r.User.ID == 0 {
		return errors.New("missing user id")
	}
	return nil
}

// EncodeRecord serializes r.
func EncodeRecord(r Record) ([]byte, error) {
	return json.Marshal(r)
}

// DecodeRecord parses and validates a persisted record. Any failure wraps
// ErrCorruptSession.
func DecodeRecord(data []byte) (Record, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return Record{}, errors.Join(ErrCorruptSession, err)
	}
	if err := r.Validate(); err != nil {
		return Record{}, errors.Join(ErrCorruptSession, err)
	}
	return r, nil
}
