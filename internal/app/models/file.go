package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// FileRef is the handle returned by file storage for an uploaded file.
// Only the handle is persisted, never the bytes.
type FileRef struct {
	Name       string    `json:"name" example:"transcript.pdf"`
	Path       string    `json:"path" example:"documents/7f1c9a0e.pdf"`
	Size       int64     `json:"size" example:"204800"`
	MimeType   string    `json:"mimeType" example:"application/pdf"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// IsZero reports whether no file is referenced.
func (f FileRef) IsZero() bool {
	return f.Path == ""
}

// Value stores the handle as JSON, or NULL when empty.
func (f FileRef) Value() (driver.Value, error) {
	if f.IsZero() {
		return nil, nil
	}
	b, err := json.Marshal(f)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan reads a JSON handle written by Value.
func (f *FileRef) Scan(src interface{}) error {
	*f = FileRef{}
	data, err := jsonBytes(src)
	if err != nil || len(data) == 0 {
		return err
	}
	return json.Unmarshal(data, f)
}

// GormDataType tells gorm which column type to create.
func (FileRef) GormDataType() string {
	return "text"
}

func jsonBytes(src interface{}) ([]byte, error) {
	switch v := src.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("unsupported json source type %T", src)
	}
}
