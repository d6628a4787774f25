package weather

// Band is one US AQI severity band.
type Band struct {
	// Max is the inclusive upper bound; the last band has no bound.
	Max         int
	Description string
	Guidance    string
}

// Bands are ordered by ascending severity.
var Bands = []Band{
	{Max: 50, Description: "ดี", Guidance: "คุณภาพอากาศดีมาก เหมาะสำหรับการทำกิจกรรมกลางแจ้ง"},
	{Max: 100, Description: "ปานกลาง", Guidance: "คุณภาพอากาศปานกลาง ควรระมัดระวังสำหรับผู้ที่มีความไวต่อมลพิษทางอากาศ"},
	{Max: 150, Description: "มีผลกระทบต่อกลุ่มเสี่ยง", Guidance: "คุณภาพอากาศเริ่มมีผลกระทบต่อสุขภาพ ผู้ป่วยโรคหัวใจและระบบทางเดินหายใจควรหลีกเลี่ยงการทำกิจกรรมกลางแจ้ง"},
	{Max: 200, Description: "ไม่ดีต่อสุขภาพ", Guidance: "คุณภาพอากาศไม่ดีต่อสุขภาพ ควรลดระยะเวลาการทำกิจกรรมกลางแจ้ง"},
	{Max: 300, Description: "แย่มาก", Guidance: "คุณภาพอากาศแย่มาก หลีกเลี่ยงการทำกิจกรรมกลางแจ้ง"},
	{Max: -1, Description: "อันตราย", Guidance: "คุณภาพอากาศอันตราย งดการทำกิจกรรมกลางแจ้ง"},
}

// Classify returns the band for aqi.
func Classify(aqi int) Band {
	for _, b := range Bands {
		if b.Max >= 0 && aqi <= b.Max {
			return b
		}
	}
	return Bands[len(Bands)-1]
}
