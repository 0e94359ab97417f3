package model

import (
	"encoding/json"
	"errors"
)

// Kind identifies which variant a Survey holds.
type Kind int

const (
	KindTask Kind = iota + 1
	KindRecord
)

func (k Kind) String() string {
	switch k {
	case KindTask:
		return "task"
	case KindRecord:
		return "record"
	default:
		return "unknown"
	}
}

// ErrEmptySurvey is returned when marshaling a Survey that holds no variant.
var ErrEmptySurvey = errors.New("survey holds neither a task nor a record")

// Task is a survey assignment published by the server.
type Task struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Date        string `json:"date"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status"`
	ItemCount   int    `json:"item_count"`
	Cancelled   bool   `json:"cancelled,omitempty"`
	Message     string `json:"message,omitempty"`
}

// Record is a completed survey submission for one task item.
type Record struct {
	ID           int      `json:"id,omitempty"`
	ItemID       int      `json:"item_id"`
	SurveyorID   int      `json:"surveyor_id"`
	StoreName    string   `json:"store_name"`
	StoreAddress string   `json:"store_address,omitempty"`
	Date         string   `json:"date,omitempty"`
	Description  string   `json:"description,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	Images       []string `json:"images,omitempty"`
}

// recordOnlyKeys are wire keys that only a Record carries.
var recordOnlyKeys = []string{
	"store_name", "store_address", "surveyor_id", "item_id", "latitude", "longitude", "images",
}

// Survey holds either a Task or a Record. The zero value holds neither.
type Survey struct {
	kind   Kind
	task   Task
	record Record
}

// NewTaskSurvey wraps a task.
func NewTaskSurvey(t Task) Survey {
	return Survey{kind: KindTask, task: t}
}

// NewRecordSurvey wraps a record.
func NewRecordSurvey(r Record) Survey {
	return Survey{kind: KindRecord, record: r}
}

// Kind reports the held variant, or 0 for the zero Survey.
func (s Survey) Kind() Kind { return s.kind }

// ID returns the id shared by both variants.
func (s Survey) ID() int {
	switch s.kind {
	case KindTask:
		return s.task.ID
	case KindRecord:
		return s.record.ID
	default:
		return 0
	}
}

// Task returns the task variant and whether the survey holds one.
func (s Survey) Task() (Task, bool) {
	return s.task, s.kind == KindTask
}

// Record returns the record variant and whether the survey holds one.
func (s Survey) Record() (Record, bool) {
	return s.record, s.kind == KindRecord
}

// MarshalJSON encodes only the fields of the held variant.
func (s Survey) MarshalJSON() ([]byte, error) {
	switch s.kind {
	case KindTask:
		return json.Marshal(s.task)
	case KindRecord:
		return json.Marshal(s.record)
	default:
		return nil, ErrEmptySurvey
	}
}

// UnmarshalJSON decodes a record when any record-only key is present, and a task otherwise.
func (s *Survey) UnmarshalJSON(data []byte) error {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}

	for _, k := range recordOnlyKeys {
		if _, ok := keys[k]; ok {
			var r Record
			if err := json.Unmarshal(data, &r); err != nil {
				return err
			}
			*s = NewRecordSurvey(r)
			return nil
		}
	}

	var t Task
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}
	*s = NewTaskSurvey(t)
	return nil
}

// CreateTaskRequest represents an admin request to publish a task.
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Date        string `json:"date"`
	Description string `json:"description"`
	ItemCount   int    `json:"item_count"`
}

// CreateRecordResponse is returned after a record is stored.
type CreateRecordResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	RecordID int    `json:"record_id"`
}
