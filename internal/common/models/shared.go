package models

import (
	"time"
)

type ContextKey string

const (
	RequestIDKey ContextKey = "request_id"
)

// Log is one application log line persisted to the "logs" collection.
type Log struct {
	AppId        string                 `bson:"app_id" json:"app_id"`
	Message      string                 `bson:"message" json:"message"`
	IpAddress    string                 `bson:"ip_address,omitempty" json:"ip_address,omitempty"`
	UserId       string                 `bson:"user_id,omitempty" json:"user_id,omitempty"`
	Caller       string                 `bson:"caller,omitempty" json:"caller,omitempty"`
	Fields       map[string]interface{} `bson:"fields,omitempty" json:"fields,omitempty"`
	LogLevelId   int                    `bson:"log_level_id" json:"log_level_id"`
	CreatedOnUtc time.Time              `bson:"created_on_utc" json:"created_on_utc"`
}
