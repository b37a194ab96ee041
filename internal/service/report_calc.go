package service

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/rahultripathi17/TimeDesk-sub001/internal/dto"
	"github.com/rahultripathi17/TimeDesk-sub001/internal/model"
	"github.com/rahultripathi17/TimeDesk-sub001/pkg/workday"
)

// Violation points used by the compliance score.
const (
	pointsLate            = 1
	pointsHalfDay         = 1
	pointsMissingCheckout = 1
	pointsAbsence         = 3
)

// ── leave usage ──

type leaveUsage struct {
	Used    int
	Pending int
}

// tallyLeaves sums leave days per type for leaves starting inside [from, to].
// A leave never spans two leave years, so its start decides the year it counts against.
func tallyLeaves(leaves []model.Leave, from, to time.Time, excludeID string) map[string]leaveUsage {
	usage := make(map[string]leaveUsage)
	for _, l := range leaves {
		if l.LeaveID == excludeID && excludeID != "" {
			continue
		}
		if l.StartDate.Before(from) || l.StartDate.After(to) {
			continue
		}
		u := usage[l.LeaveType]
		switch l.Status {
		case model.LeaveApproved:
			u.Used += l.Days
		case model.LeavePending:
			u.Pending += l.Days
		default:
			continue
		}
		usage[l.LeaveType] = u
	}
	return usage
}

// buildBalances lists every leave type in display order.
func buildBalances(limits map[string]int, usage map[string]leaveUsage) []dto.LeaveTypeBalance {
	result := make([]dto.LeaveTypeBalance, 0, len(model.LeaveTypes))
	for _, t := range model.LeaveTypes {
		limit, ok := limits[t]
		if !ok {
			limit = model.DefaultLeaveLimits[t]
		}
		u := usage[t]
		remaining := model.UnlimitedLeave
		if limit != model.UnlimitedLeave {
			remaining = limit - u.Used - u.Pending
			if remaining < 0 {
				remaining = 0
			}
		}
		result = append(result, dto.LeaveTypeBalance{
			LeaveType: t,
			Limit:     limit,
			Used:      u.Used,
			Pending:   u.Pending,
			Remaining: remaining,
		})
	}
	return result
}

// ── per-day index ──

type dayKey struct {
	profileID string
	date      string
}

// reportInput holds everything the aggregations read; built once per report.
type reportInput struct {
	from, to time.Time
	today    time.Time
	records  map[dayKey]*model.Attendance
	leaves   map[string][]model.Leave // approved, by profile
}

func newReportInput(from, to, today time.Time, records []model.Attendance, leaves []model.Leave) *reportInput {
	in := &reportInput{
		from:    from,
		to:      to,
		today:   today,
		records: make(map[dayKey]*model.Attendance, len(records)),
		leaves:  make(map[string][]model.Leave),
	}
	for i := range records {
		r := &records[i]
		in.records[dayKey{r.ProfileID, workday.FormatDate(r.WorkDate)}] = r
	}
	for _, l := range leaves {
		if l.Status == model.LeaveApproved {
			in.leaves[l.ProfileID] = append(in.leaves[l.ProfileID], l)
		}
	}
	return in
}

func (in *reportInput) record(profileID string, d time.Time) *model.Attendance {
	return in.records[dayKey{profileID, workday.FormatDate(d)}]
}

func (in *reportInput) onLeave(profileID string, d time.Time) bool {
	for i := range in.leaves[profileID] {
		if in.leaves[profileID][i].Covers(d) {
			return true
		}
	}
	return false
}

// dayOutcome classifies one profile-day. counted is false for days the
// reports ignore: non-working days unless the profile worked them, days
// before the profile joined, future days, and today while nothing has been
// recorded.
type dayOutcome struct {
	counted bool
	rec     *model.Attendance
	onLeave bool
	absent  bool
}

func (in *reportInput) outcome(p *model.Profile, sched workday.Schedule, d time.Time) dayOutcome {
	if p.JoinedOn != nil && d.Before(workday.DateOf(*p.JoinedOn, time.UTC)) {
		return dayOutcome{}
	}
	if d.After(in.today) {
		return dayOutcome{}
	}

	rec := in.record(p.ProfileID, d)
	if rec != nil && !sched.IsWorkday(d) && !rec.Worked() {
		return dayOutcome{}
	}
	if rec != nil {
		if rec.Status == model.AttendanceAbsent && in.onLeave(p.ProfileID, d) {
			return dayOutcome{counted: true, onLeave: true}
		}
		return dayOutcome{counted: true, rec: rec, absent: rec.Status == model.AttendanceAbsent}
	}
	if !sched.IsWorkday(d) {
		return dayOutcome{}
	}
	if in.onLeave(p.ProfileID, d) {
		return dayOutcome{counted: true, onLeave: true}
	}
	if d.Equal(in.today) {
		return dayOutcome{}
	}
	return dayOutcome{counted: true, absent: true}
}

// ── analytics ──

func computeAnalytics(profiles []model.Profile, in *reportInput) ([]dto.UserAnalytics, dto.AnalyticsTotals) {
	users := make([]dto.UserAnalytics, 0, len(profiles))
	var totals dto.AnalyticsTotals

	for i := range profiles {
		p := &profiles[i]
		sched := p.EffectiveSchedule(p.Department)
		row := dto.UserAnalytics{
			ProfileID:    p.ProfileID,
			FullName:     p.FullName,
			EmployeeCode: p.EmployeeCode,
			Department:   departmentName(p),
		}

		workedDays, workedMinutes := 0, 0
		workday.EachDay(in.from, in.to, func(d time.Time) {
			o := in.outcome(p, sched, d)
			if !o.counted {
				return
			}
			// a worked non-working day joins the denominator
			row.WorkingDays++
			switch {
			case o.onLeave:
				row.OnLeave++
			case o.absent:
				row.Absent++
			case o.rec != nil:
				switch o.rec.Status {
				case model.AttendancePresent:
					row.Present++
				case model.AttendanceLate:
					row.Late++
				case model.AttendanceHalfDay:
					row.HalfDay++
				case model.AttendanceOnLeave:
					row.OnLeave++
				}
				if o.rec.WorkMinutes > 0 {
					workedDays++
					workedMinutes += o.rec.WorkMinutes
				}
			}
		})

		row.AttendanceRate = percent(row.Present+row.Late+row.HalfDay, row.WorkingDays)
		if workedDays > 0 {
			row.AvgWorkHours = round2(float64(workedMinutes) / float64(workedDays) / 60)
		}

		totals.Employees++
		totals.WorkingDays += row.WorkingDays
		totals.Present += row.Present
		totals.Late += row.Late
		totals.HalfDay += row.HalfDay
		totals.Absent += row.Absent
		totals.OnLeave += row.OnLeave
		users = append(users, row)
	}

	totals.AttendanceRate = percent(totals.Present+totals.Late+totals.HalfDay, totals.WorkingDays)
	return users, totals
}

// ── compliance ──

func computeCompliance(profiles []model.Profile, in *reportInput, threshold int) []dto.UserCompliance {
	users := make([]dto.UserCompliance, 0, len(profiles))

	for i := range profiles {
		p := &profiles[i]
		sched := p.EffectiveSchedule(p.Department)
		row := dto.UserCompliance{
			ProfileID:    p.ProfileID,
			FullName:     p.FullName,
			EmployeeCode: p.EmployeeCode,
			Department:   departmentName(p),
		}

		workday.EachDay(in.from, in.to, func(d time.Time) {
			o := in.outcome(p, sched, d)
			if !o.counted || o.onLeave {
				return
			}
			if o.absent {
				row.UnexcusedAbsences++
				return
			}
			switch o.rec.Status {
			case model.AttendanceLate:
				row.LateArrivals++
			case model.AttendanceHalfDay:
				row.HalfDays++
			}
			// today's open check-in is still in progress
			if o.rec.CheckInAt != nil && o.rec.CheckOutAt == nil && d.Before(in.today) {
				row.MissingCheckouts++
			}
		})

		row.Score = row.LateArrivals*pointsLate +
			row.HalfDays*pointsHalfDay +
			row.MissingCheckouts*pointsMissingCheckout +
			row.UnexcusedAbsences*pointsAbsence
		row.Flagged = row.Score >= threshold
		users = append(users, row)
	}

	sort.SliceStable(users, func(i, j int) bool {
		if users[i].Score != users[j].Score {
			return users[i].Score > users[j].Score
		}
		return strings.ToLower(users[i].FullName) < strings.ToLower(users[j].FullName)
	})
	return users
}

// ── helpers ──

func departmentName(p *model.Profile) string {
	if p.Department == nil {
		return ""
	}
	return p.Department.Name
}

func percent(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return round2(math.Min(float64(n)*100/float64(d), 100))
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
