package model

import "time"

const TableNameGameEvent = "game_events"

type GameEvent struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement:true" json:"id"`
	EventID    string    `gorm:"column:event_id;not null" json:"event_id"`
	SessionID  string    `gorm:"column:session_id;not null" json:"session_id"`
	Type       string    `gorm:"column:type;not null" json:"type"`
	Tick       int64     `gorm:"column:tick;not null" json:"tick"`
	OccurredAt time.Time `gorm:"column:occurred_at;not null" json:"occurred_at"`
	Payload    []byte    `gorm:"column:payload;type:jsonb" json:"payload"`
}

func (*GameEvent) TableName() string {
	return TableNameGameEvent
}
