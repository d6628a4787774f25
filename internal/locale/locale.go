// Package locale formats dates the way Thai users read them: Asia/Bangkok
// wall clock and Buddhist era years.
package locale

import (
	"fmt"
	"time"
)

// Bangkok is fixed at UTC+7; Thailand observes no daylight saving.
var Bangkok = time.FixedZone("ICT", 7*60*60)

// BuddhistEraOffset converts a Gregorian year to the Thai solar calendar.
const BuddhistEraOffset = 543

var weekdays = [...]string{
	"อาทิตย์", "จันทร์", "อังคาร", "พุธ", "พฤหัสบดี", "ศุกร์", "เสาร์",
}

var months = [...]string{
	"มกราคม", "กุมภาพันธ์", "มีนาคม", "เมษายน", "พฤษภาคม", "มิถุนายน",
	"กรกฎาคม", "สิงหาคม", "กันยายน", "ตุลาคม", "พฤศจิกายน", "ธันวาคม",
}

// Date renders t as e.g. "วันพุธที่ 5 มิถุนายน พ.ศ. 2567".
func Date(t time.Time) string {
	t = t.In(Bangkok)
	return fmt.Sprintf("วัน%sที่ %d %s พ.ศ. %d",
		weekdays[t.Weekday()], t.Day(), months[t.Month()-1], t.Year()+BuddhistEraOffset)
}

// ShortDate renders t as e.g. "5 มิถุนายน 2567".
func ShortDate(t time.Time) string {
	t = t.In(Bangkok)
	return fmt.Sprintf("%d %s %d", t.Day(), months[t.Month()-1], t.Year()+BuddhistEraOffset)
}

// DateTime renders t as e.g. "วันพุธที่ 5 มิถุนายน พ.ศ. 2567 เวลา 15:30 น.".
func DateTime(t time.Time) string {
	local := t.In(Bangkok)
	return fmt.Sprintf("%s เวลา %02d:%02d น.", Date(local), local.Hour(), local.Minute())
}
