// Package dostime packs timestamps into the 16-bit MS-DOS date and
// time words used by PKZIP headers.
package dostime

import "time"

// The DOS calendar runs from 1980-01-01 00:00:00 to 2107-12-31 23:59:58
// (seconds have 2-second granularity). Timestamps outside that range
// are pinned to the nearest end.
var (
	epoch = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)
	limit = time.Date(2107, time.December, 31, 23, 59, 58, 0, time.UTC)
)

// Encode converts t to packed DOS date and time words.
//
// The broken-down fields are taken in UTC so the encoded bytes do not
// depend on the machine's zone database.
func Encode(t time.Time) (date, tod uint16) {
	t = t.UTC()
	if t.Before(epoch) {
		t = epoch
	} else if t.After(limit) {
		t = limit
	}

	year, month, day := t.Date()
	date = (uint16(year-1980)&0x7F)<<9 | (uint16(month)&0x0F)<<5 | uint16(day)&0x1F
	tod = (uint16(t.Hour())&0x1F)<<11 | (uint16(t.Minute())&0x3F)<<5 | uint16(t.Second()/2)&0x1F
	return date, tod
}
