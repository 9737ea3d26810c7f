package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Pagination represents common pagination parameters
type Pagination struct {
	Page     int `json:"page" form:"page"`
	PageSize int `json:"page_size" form:"page_size"`
}

func (p Pagination) Limit() int {
	if p.PageSize <= 0 {
		return 20
	}
	return p.PageSize
}

func (p Pagination) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit()
}

// JSONMap represents a generic JSON object stored in a jsonb column
type JSONMap map[string]interface{}

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *JSONMap) Scan(src interface{}) error {
	if src == nil {
		*m = nil
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("unsupported jsonb source type %T", src)
	}
	return json.Unmarshal(b, m)
}

// Ref is a weak polymorphic reference to another record. It never owns the
// referenced row; resolution happens at render time and the target may be
// gone by then.
type Ref struct {
	Type string    `json:"type"`
	ID   uuid.UUID `json:"id"`
}

const (
	RefTypePost    = "post"
	RefTypeComment = "comment"
	RefTypeUser    = "user"
)

func (r Ref) IsZero() bool {
	return r.Type == "" || r.ID == uuid.Nil
}
