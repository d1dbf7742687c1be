package evaluation

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bukra-xhamxhiu/master-arbeit-bxh/pipeline"
)

// JSONMap is stored as a JSON column.
type JSONMap map[string]interface{}

func (j JSONMap) Value() (driver.Value, error) {
	if j == nil {
		return json.Marshal(map[string]interface{}{})
	}
	return json.Marshal(j)
}

func (j *JSONMap) Scan(value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		*j = make(JSONMap)
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("failed to scan JSONMap: unsupported column type")
	}

	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*j = m
	return nil
}

// Score is the complexity index set of one application within a run.
type Score struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	RunID     uuid.UUID `json:"run_id" gorm:"type:char(36);not null;index:idx_scores_run"`
	AppID     string    `json:"app_id" gorm:"type:varchar(255);not null;index:idx_scores_app"`
	SUCI      float64   `json:"suci" gorm:"column:suci;not null"`
	IFCI      float64   `json:"ifci" gorm:"column:ifci;not null"`
	TRCI      float64   `json:"trci" gorm:"column:trci;not null"`
	ADI       float64   `json:"adi" gorm:"column:adi;not null"`
	WCS       float64   `json:"wcs" gorm:"column:wcs;not null"`
	AppLevel  JSONMap   `json:"app_level" gorm:"type:json"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName pins the table name used by the migrations.
func (Score) TableName() string {
	return "evaluation_scores"
}

// BeforeCreate generates the score id.
func (s *Score) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Validate checks if the score has valid required fields.
func (s *Score) Validate() error {
	if s.RunID == uuid.Nil || s.AppID == "" {
		return ErrInvalidScore
	}
	return nil
}

// NewScore builds the stored score for one pipeline result.
func NewScore(runID uuid.UUID, r pipeline.Result) (*Score, error) {
	level, err := toJSONMap(r.AppLevel)
	if err != nil {
		return nil, err
	}
	return &Score{
		RunID:    runID,
		AppID:    r.AppID,
		SUCI:     r.Indices.SUCI,
		IFCI:     r.Indices.IFCI,
		TRCI:     r.Indices.TRCI,
		ADI:      r.Indices.ADI,
		WCS:      r.Indices.WCS,
		AppLevel: level,
	}, nil
}

func toJSONMap(v any) (JSONMap, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m JSONMap
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}
