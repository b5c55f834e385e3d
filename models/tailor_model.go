package models

import "gorm.io/gorm"

// TailorAbility rates one tailor for one task type. Proficiency is a 1-5
// integer scale; 3 and above counts as qualified for auto-assignment.
type TailorAbility struct {
	gorm.Model
	UserId      uint     `json:"user_id" gorm:"index:idx_ability_user_task,unique"`
	TaskType    TaskType `json:"task_type" gorm:"index:idx_ability_user_task,unique"`
	Proficiency int      `json:"proficiency"`
	CreatedBy   int
	UpdatedBy   int

	User *User `gorm:"foreignKey:UserId" json:"user,omitempty"`
}

// TailorSchedule is one weekly shift window. DayOfWeek follows time.Weekday
// (0 = Sunday). Times are stored as HH:MM strings; "24:00" marks an end time
// of exactly midnight.
type TailorSchedule struct {
	gorm.Model
	UserId    uint   `json:"user_id" gorm:"index:idx_schedule_user_day,unique"`
	DayOfWeek int    `json:"day_of_week" gorm:"index:idx_schedule_user_day,unique"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	CreatedBy int
	UpdatedBy int

	User *User `gorm:"foreignKey:UserId" json:"user,omitempty"`
}

// TaskTypeDefault holds the default estimated minutes per task type, used by
// auto-assignment when a part has no estimate of its own.
type TaskTypeDefault struct {
	gorm.Model
	TaskType       TaskType `json:"task_type" gorm:"unique"`
	DefaultMinutes int      `json:"default_minutes"`
}
