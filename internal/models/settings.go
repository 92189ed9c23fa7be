package models

import "time"

// Setting is a key/value configuration row editable by admins.
type Setting struct {
	Key       string    `db:"key" json:"key"`
	Value     string    `db:"value" json:"value"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Well-known setting keys.
const (
	SettingAttendanceGoal     = "attendance.goal_percent"
	SettingDefaultArrivalTime = "attendance.default_arrival_time"
	SettingDefaultLocation    = "attendance.default_location"
)

// AttendanceSettings is the typed view over the attendance setting keys.
type AttendanceSettings struct {
	GoalPercent        int    `json:"requiredPercentage"`
	DefaultArrivalTime string `json:"defaultArrivalTime"`
	DefaultLocation    string `json:"defaultLocation"`
}
