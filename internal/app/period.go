/**
 * @description
 * Calendar-month period helpers for pledge reporting. A period is identified by
 * any instant inside it; MonthRange widens that instant to the inclusive
 * [first-second, last-second] bounds of its calendar month in UTC.
 */

package app

import "time"

// MonthRange returns the first and last second of t's calendar month in UTC.
// The end bound is inclusive at second precision (23:59:59 on the last day),
// matching the BETWEEN semantics of the period sum query.
func MonthRange(t time.Time) (time.Time, time.Time) {
	t = t.UTC()
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-time.Second)
	return start, end
}
