package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// StringSlice is a custom type for storing string arrays as JSON text.
type StringSlice []string

// Value implements the driver.Valuer interface
func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	jsonData, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil
}

// Scan implements the sql.Scanner interface
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = StringSlice{}
		return nil
	}

	var bytesToParse []byte
	switch v := value.(type) {
	case []byte:
		bytesToParse = v
	case string:
		bytesToParse = []byte(v)
	default:
		return errors.New("StringSlice Scan: unsupported type " + fmt.Sprintf("%T", value))
	}

	if len(bytesToParse) == 0 || string(bytesToParse) == "null" {
		*s = StringSlice{}
		return nil
	}

	return json.Unmarshal(bytesToParse, s)
}

// SavedTerm is the saved_terms row model.
type SavedTerm struct {
	ID          string      `db:"id"`
	UserID      int64       `db:"user_id"`
	Term        string      `db:"term"`
	Explanation string      `db:"explanation"`
	Examples    StringSlice `db:"examples_json"`
	CreatedAt   time.Time   `db:"created_at"`
}

// QuizAttempt is the quiz_attempts row model.
type QuizAttempt struct {
	ID        string    `db:"id"`
	UserID    int64     `db:"user_id"`
	Term      string    `db:"term"`
	Chosen    int       `db:"chosen"`
	Correct   int       `db:"correct"`
	CreatedAt time.Time `db:"created_at"`
}
