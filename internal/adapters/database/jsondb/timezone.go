package jsondb

import (
	"context"
	"fmt"

	"github.com/remyhq/remy-bot/internal/domain/common/errorz"
	"github.com/remyhq/remy-bot/internal/domain/entity"
)

const timezoneTable = "timezones"

type TimezoneStorage struct {
	table *Table
}

func NewTimezoneStorage(db *DB) *TimezoneStorage {
	return &TimezoneStorage{
		table: db.Table(timezoneTable),
	}
}

// Get is a function that gets a user's timezone preference.
func (s *TimezoneStorage) Get(_ context.Context, ownerID int64) (*entity.TimezonePreference, error) {
	record, ok := s.table.Get(func(doc Document) bool {
		id, okID := asInt64(doc["user_id"])
		return okID && id == ownerID
	})
	if !ok {
		return nil, errorz.ErrNotFound
	}
	return decodeTimezone(record)
}

// Upsert is a function that sets a user's timezone preference, updating the
// existing record in place when one exists. A user never has more than one.
func (s *TimezoneStorage) Upsert(_ context.Context, ownerID int64, code string) (*entity.TimezonePreference, error) {
	id, err := s.table.Upsert(func(doc Document) bool {
		docID, okID := asInt64(doc["user_id"])
		return okID && docID == ownerID
	}, Document{
		"user_id":  ownerID,
		"timezone": code,
	})
	if err != nil {
		return nil, err
	}
	return &entity.TimezonePreference{ID: id, OwnerID: ownerID, Code: code}, nil
}

func decodeTimezone(record Record) (*entity.TimezonePreference, error) {
	ownerID, ok := asInt64(record.Fields["user_id"])
	if !ok {
		return nil, fmt.Errorf("%w: timezone %d has no user_id", errorz.ErrMalformedRecord, record.ID)
	}
	code, ok := record.Fields["timezone"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: timezone %d has no timezone code", errorz.ErrMalformedRecord, record.ID)
	}
	return &entity.TimezonePreference{ID: record.ID, OwnerID: ownerID, Code: code}, nil
}
