package model

import "time"

// Leave types
const (
	LeaveAnnual    = "annual"
	LeaveSick      = "sick"
	LeaveCasual    = "casual"
	LeaveMaternity = "maternity"
	LeavePaternity = "paternity"
	LeaveUnpaid    = "unpaid"
)

// Leave statuses
const (
	LeavePending   = "pending"
	LeaveApproved  = "approved"
	LeaveRejected  = "rejected"
	LeaveCancelled = "cancelled"
)

// UnlimitedLeave marks a leave type without an annual cap.
const UnlimitedLeave = -1

// LeaveTypes in display order.
var LeaveTypes = []string{LeaveAnnual, LeaveSick, LeaveCasual, LeaveMaternity, LeavePaternity, LeaveUnpaid}

// DefaultLeaveLimits apply when a department has not configured a type.
var DefaultLeaveLimits = map[string]int{
	LeaveAnnual:    18,
	LeaveSick:      10,
	LeaveCasual:    7,
	LeaveMaternity: 180,
	LeavePaternity: 15,
	LeaveUnpaid:    UnlimitedLeave,
}

// ValidLeaveType reports whether t is a known leave type.
func ValidLeaveType(t string) bool {
	_, ok := DefaultLeaveLimits[t]
	return ok
}

// Leave leave request (leaves)
type Leave struct {
	LeaveID      string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"leave_id"`
	ProfileID    string     `gorm:"type:uuid;not null"                             json:"profile_id"`
	LeaveType    string     `gorm:"type:varchar(20);not null"                      json:"leave_type"`
	StartDate    time.Time  `gorm:"type:date;not null"                             json:"start_date"`
	EndDate      time.Time  `gorm:"type:date;not null"                             json:"end_date"`
	Days         int        `gorm:"not null"                                       json:"days"`
	Reason       string     `gorm:"type:text"                                      json:"reason,omitempty"`
	Status       string     `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"`
	ApproverID   *string    `gorm:"type:uuid"                                      json:"approver_id,omitempty"`
	DecidedAt    *time.Time `                                                      json:"decided_at,omitempty"`
	DecisionNote string     `gorm:"type:text"                                      json:"decision_note,omitempty"`
	VersionedModel

	Profile  *Profile `gorm:"foreignKey:ProfileID;references:ProfileID"  json:"profile,omitempty"`
	Approver *Profile `gorm:"foreignKey:ApproverID;references:ProfileID" json:"approver,omitempty"`
}

// TableName table name
func (Leave) TableName() string { return "leaves" }

// Covers reports whether the leave includes date d.
func (l *Leave) Covers(d time.Time) bool {
	return !d.Before(l.StartDate) && !d.After(l.EndDate)
}
