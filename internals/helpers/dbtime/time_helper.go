package dbtime

import (
	"fmt"
	"strings"
	"time"

	"pesantren_backend/internals/configs"
)

const DateLayout = "2006-01-02"

// Location: timezone aplikasi (APP_TIMEZONE), fallback Asia/Jakarta lalu UTC.
func Location() *time.Location {
	if configs.AppLocation != nil {
		return configs.AppLocation
	}
	if loc, err := time.LoadLocation("Asia/Jakarta"); err == nil {
		return loc
	}
	return time.UTC
}

// Now: waktu sekarang di timezone aplikasi.
func Now() time.Time {
	return time.Now().In(Location())
}

// ParseDate "YYYY-MM-DD" → tengah malam di timezone aplikasi.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	t, err := time.ParseInLocation(DateLayout, s, Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("tanggal %q harus format %s", s, DateLayout)
	}
	return t, nil
}

// ParseDatePtr: string kosong → nil.
func ParseDatePtr(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// DateOnly memotong jam, mempertahankan tanggal kalender di lokasi t.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
