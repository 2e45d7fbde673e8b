package service

import (
	"time"

	"pesantren_backend/internals/features/school/attendances/model"
)

type AttendanceSummary struct {
	Present    int     `json:"present"`
	Absent     int     `json:"absent"`
	Late       int     `json:"late"`
	Sick       int     `json:"sick"`
	Excused    int     `json:"excused"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

type MonthlyAttendance struct {
	MonthLabel string `json:"month_label"` // "Jan 2006"
	Month      string `json:"month"`       // "2006-01"
	Total      int    `json:"total"`
	Present    int    `json:"present"`
	Absent     int    `json:"absent"`
	Late       int    `json:"late"`
}

// DateWindow inklusif di kedua ujung, dibandingkan per tanggal kalender.
type DateWindow struct {
	From time.Time
	To   time.Time
}

func DayWindow(t time.Time) DateWindow {
	return DateWindow{From: t, To: t}
}

func MonthWindow(t time.Time) DateWindow {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	last := first.AddDate(0, 1, -1)
	return DateWindow{From: first, To: last}
}

// dayKey: YYYYMMDD dari tanggal kalender di lokasi t sendiri.
// Kolom date dari Postgres kembali sebagai UTC midnight, jadi tidak dikonversi.
func dayKey(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}

func (w DateWindow) Contains(t time.Time) bool {
	k := dayKey(t)
	return k >= dayKey(w.From) && k <= dayKey(w.To)
}

// Summarize menghitung per status & persentase hadir.
// percentage = present/total*100, tepat 0 saat total = 0.
func Summarize(records []model.StudentAttendanceModel, window *DateWindow) AttendanceSummary {
	var s AttendanceSummary
	for i := range records {
		r := &records[i]
		if window != nil && !window.Contains(r.StudentAttendanceDate) {
			continue
		}
		switch r.StudentAttendanceStatus {
		case model.AttendancePresent:
			s.Present++
		case model.AttendanceAbsent:
			s.Absent++
		case model.AttendanceLate:
			s.Late++
		case model.AttendanceSick:
			s.Sick++
		case model.AttendanceExcused:
			s.Excused++
		default:
			continue
		}
		s.Total++
	}
	if s.Total > 0 {
		s.Percentage = float64(s.Present) / float64(s.Total) * 100
	}
	return s
}

// MonthlySummary: N bulan terakhir termasuk bulan berjalan, urut dari yang terlama.
func MonthlySummary(records []model.StudentAttendanceModel, now time.Time, months int) []MonthlyAttendance {
	if months <= 0 {
		return []MonthlyAttendance{}
	}
	anchor := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	out := make([]MonthlyAttendance, 0, months)
	for i := months - 1; i >= 0; i-- {
		m := anchor.AddDate(0, -i, 0)
		w := MonthWindow(m)
		sum := Summarize(records, &w)
		out = append(out, MonthlyAttendance{
			MonthLabel: m.Format("Jan 2006"),
			Month:      m.Format("2006-01"),
			Total:      sum.Total,
			Present:    sum.Present,
			Absent:     sum.Absent,
			Late:       sum.Late,
		})
	}
	return out
}

// MonthlyRange: jendela tanggal yang dicakup MonthlySummary (untuk query DB).
func MonthlyRange(now time.Time, months int) DateWindow {
	if months <= 0 {
		months = 1
	}
	anchor := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return DateWindow{
		From: anchor.AddDate(0, -(months - 1), 0),
		To:   MonthWindow(anchor).To,
	}
}
