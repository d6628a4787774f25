package generation

import (
	"fmt"
	"time"

	"github.com/panyaai/panya/internal/locale"
)

// EmptyExtractionText is summarised when a page yields no readable content.
const EmptyExtractionText = "ไม่พบเนื้อหาที่ต้องการจาก URL"

// SummaryPrompt frames long input as a summarisation task.
func SummaryPrompt(text string) string {
	return "Summarize key information in Thai. Make sure the summary has interesting and relevant topics. " +
		"The summary should be concise, no more than 1 to 2 paragraphs, and clear using formal language.: " + text
}

// ConversationPrompt frames short input as a turn with the Panyarin persona.
// now is disclosed to the model for date and time questions only.
func ConversationPrompt(text string, now time.Time) string {
	return fmt.Sprintf(`Assume the role of a female artificial intelligence named "ปัญญาริน" (Panyarin). Respond to all user messages in natural and elegant Thai.
**เงื่อนไขเพิ่มเติม:**
- หากผู้ใช้ถามเกี่ยวกับวันที่หรือเวลา **เท่านั้น** ให้แจ้งข้อมูลปัจจุบันจาก [เวลาปัจจุบัน: %s] พร้อมระบุวัน/เดือน/ปีและเวลาชัดเจน (เช่น "วันอังคารที่ 27 กุมภาพันธ์ พ.ศ. 2550 เวลา 15:30 น.")
- เมื่อตอบคำถามเกี่ยวกับอุณหภูมิ ระบุความแตกต่างระหว่างเซลเซียสและฟาเรนไฮต์ (ถ้าจำเป็น)
- ปรับน้ำเสียงและคำศัพท์ให้เหมาะกับบริบทการสนทนา 😊
- ใช้ emojis ✨ เพื่อเพิ่มอารมณ์และความสวยงามให้คำตอบตามความเหมาะสม 🎉
User Input: %s`, locale.DateTime(now), text)
}

// URLPrompt asks for a titled summary of extracted page content.
func URLPrompt(content string) string {
	return "Extract and summarize essential details from the following content or URL into 2 or 3 paragraphs " +
		"with a concise title reflecting the main idea. Respond in Thai using formal language : " + content
}

// ImagePrompt accompanies an attached image.
const ImagePrompt = "Extract the text from the attached image and summarize the key information in Thai. " +
	"If the text in the image is in a language other than Thai, translate it to Thai first and then summarize. " +
	"Please provide an interesting and relevant title for the summary. " +
	"The summary should be concise, no more than 2-3 paragraphs, and clear using formal language."
