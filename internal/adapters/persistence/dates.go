package persistence

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/example/stargate/internal/core/duty"
)

func parseStoredDate(s string) (time.Time, error) {
	t, err := time.Parse(duty.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid stored date %q: %w", s, err)
	}
	return t, nil
}

func parseNullDate(ns sql.NullString) (*time.Time, error) {
	if !ns.Valid {
		return nil, nil
	}
	t, err := parseStoredDate(ns.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func nullDate(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: duty.FormatDate(*t), Valid: true}
}
