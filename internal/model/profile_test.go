package model

import (
	"reflect"
	"testing"
)

func strPtr(s string) *string { return &s }

func TestProfile_EffectiveSchedule(t *testing.T) {
	dept := &Department{
		WorkStartTime:    "10:00",
		WorkEndTime:      "19:00",
		LateGraceMinutes: 10,
		HalfDayHours:     4.5,
		WorkDays:         IntArray{1, 2, 3, 4, 5, 6},
	}

	t.Run("inherits department", func(t *testing.T) {
		p := &Profile{}
		s := p.EffectiveSchedule(dept)
		if s.Start != "10:00" || s.End != "19:00" || s.GraceMinutes != 10 || s.HalfDayHours != 4.5 {
			t.Errorf("unexpected schedule %+v", s)
		}
		if !reflect.DeepEqual(s.Days, []int{1, 2, 3, 4, 5, 6}) {
			t.Errorf("unexpected days %v", s.Days)
		}
	})

	t.Run("profile overrides win per field", func(t *testing.T) {
		p := &Profile{WorkStartTime: strPtr("08:00"), WorkDays: IntArray{0, 6}}
		s := p.EffectiveSchedule(dept)
		if s.Start != "08:00" {
			t.Errorf("expected start override, got %s", s.Start)
		}
		if s.End != "19:00" {
			t.Errorf("expected inherited end, got %s", s.End)
		}
		if !reflect.DeepEqual(s.Days, []int{0, 6}) {
			t.Errorf("expected day override, got %v", s.Days)
		}
	})

	t.Run("no department uses defaults", func(t *testing.T) {
		s := (&Profile{}).EffectiveSchedule(nil)
		if s.Start != "09:00" || s.End != "18:00" || len(s.Days) != 5 {
			t.Errorf("unexpected default schedule %+v", s)
		}
	})
}

func TestProfile_DeptID(t *testing.T) {
	if (&Profile{}).DeptID() != "" {
		t.Error("expected empty department id")
	}
	if (&Profile{DepartmentID: strPtr("d1")}).DeptID() != "d1" {
		t.Error("expected d1")
	}
}
