package weather

import (
	"fmt"
	"strconv"
	"strings"
)

// Place is where the user shared their location.
type Place struct {
	Address   string
	Latitude  float64
	Longitude float64
}

// Report renders the composite weather and air-quality text.
func Report(p Place, c Conditions) string {
	band := Classify(c.AQI)
	address := p.Address
	if address == "" {
		address = strings.TrimSpace(c.City + " " + c.Country)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📍 สถานที่: %s\n", address)
	fmt.Fprintf(&b, "🌏 พิกัด: %s, %s\n", num(p.Latitude), num(p.Longitude))
	fmt.Fprintf(&b, "☁️ สภาพอากาศ: %s\n", c.IconCode)
	fmt.Fprintf(&b, "🌡️ อุณหภูมิ: %s°C\n", num(c.Temperature))
	fmt.Fprintf(&b, "💧 ความชื้น: %s%%\n", num(c.Humidity))
	fmt.Fprintf(&b, "💨 ความเร็วลม: %s m/s\n", num(c.WindSpeed))
	fmt.Fprintf(&b, "🌀 ความกดอากาศ: %s hPa\n\n", num(c.Pressure))
	b.WriteString("🍃 คุณภาพอากาศ:\n")
	fmt.Fprintf(&b, "AQI: %d (%s)\n", c.AQI, band.Description)
	fmt.Fprintf(&b, "มลพิษทางอากาศหลัก: %s\n", c.MainPollutant)
	b.WriteString("\nข้อมูลเพิ่มเติมเกี่ยวกับ AQI:\n")
	fmt.Fprintf(&b, "- %s\n", band.Guidance)
	return b.String()
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
