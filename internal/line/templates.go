package line

import "strings"

const (
	WelcomeStickerPackage = "11539"
	WelcomeStickerID      = "52114114"
	DefaultProfilePicture = "https://i.postimg.cc/brr7Fmw9/user.png"
	UnknownDisplayName    = "Unknown User"
)

const (
	welcomeGroupText  = "สวัสดีคุณ✨ {user1}! ยินดีต้อนรับ \n ทุกคน {everyone} 💕 มีเพื่อนใหม่เข้ามา อย่าลืมทักทายกันนะ🙌"
	mentionAckText    = "ว่ายังไงคะ😊 ถามได้เลยนะ😉 {user1}"
	welcomeBackText   = "ยินดีต้อนรับกลับมาอีกครั้ง! 😁"
	welcomeAltText    = "สวัสดีค่ะ 🙌 ฉันชื่อ Panya AI ฉันพร้อมช่วยสรุปเนื้อหาให้อ่านง่ายและรวดเร็ว เพียงส่ง ลิงก์, รูปภาพ หรือข้อความมาได้เลยค่ะ 😊"
	welcomeBodyText   = "สวัสดีค่ะ ฉันชื่อ Panya AI ฉันสามารถช่วยคุณสรุปเนื้อหาให้อ่านง่ายและรวดเร็วค่ะ 😊"
	systemStatusTitle = "ข้อมูลระบบเซิร์ฟเวอร์ 🖥️"
	manualTitle       = "วิธีการใช้งานแชทบอท AI 📚"
)

// DefaultQuickReply is the menu attached to every content reply.
func DefaultQuickReply() *QuickReply {
	return &QuickReply{Items: []QuickReplyItem{
		{Type: "action", Action: Action{Type: "message", Label: "สวัสดี 🙌", Text: "สวัสดี 😁"}},
		{Type: "action", Action: Action{Type: "message", Label: "วันนี้วันที่เท่าไหร่? 📅", Text: "วันนี้วันที่เท่าไหร่"}},
		{Type: "action", Action: Action{Type: "cameraRoll", Label: "เลือกรูปภาพ 🖼️"}},
		{Type: "action", Action: Action{Type: "location", Label: "คุณภาพอากาศและอุณหภูมิ 🌡️"}},
		{Type: "action", Action: Action{Type: "camera", Label: "ถ่ายรูป 📸"}},
		{Type: "action", Action: Action{Type: "message", Label: "ประโยคให้กำลังใจ 💕", Text: "ขอประโยคให้กำลังใจในวันที่แย่หรือเหนื่อย,หมดกำลังใจ"}},
	}}
}

// GroupWelcome greets a user who joined a group, mentioning everyone.
func GroupWelcome(userID string) Message {
	return TextV2Message(welcomeGroupText, "", map[string]Substitution{
		"user1":    MentionUser(userID),
		"everyone": MentionAll(),
	})
}

// MentionAck answers a mention of the bot, mentioning the sender back.
func MentionAck(userID, quoteToken string) Message {
	return TextV2Message(mentionAckText, quoteToken, map[string]Substitution{
		"user1": MentionUser(userID),
	})
}

// ProfileCard is the welcome card sent on follow. date is preformatted.
func ProfileCard(p Profile, isUnblocked bool, date string) Message {
	picture := p.PictureURL
	if picture == "" {
		picture = DefaultProfilePicture
	}
	name := p.DisplayName
	if name == "" {
		name = UnknownDisplayName
	}
	alt, greeting := welcomeAltText, welcomeBodyText
	if isUnblocked {
		alt, greeting = welcomeBackText, welcomeBackText
	}

	return FlexMessage(alt, map[string]any{
		"type": "bubble",
		"size": "mega",
		"hero": map[string]any{
			"type":        "image",
			"url":         picture,
			"size":        "full",
			"aspectRatio": "20:13",
			"aspectMode":  "cover",
		},
		"body": map[string]any{
			"type":   "box",
			"layout": "vertical",
			"contents": []any{
				centered("ชื่อผู้ใช้ 🪴 : "+name, map[string]any{"weight": "bold", "size": "lg", "margin": "md"}),
				centered(greeting, map[string]any{"wrap": true, "size": "md", "margin": "lg"}),
				centered("วันที่ 📅 : "+date, map[string]any{"size": "md", "margin": "lg"}),
			},
		},
		"styles": map[string]any{"body": map[string]any{"backgroundColor": "#484c6c"}},
	})
}

func centered(text string, extra map[string]any) map[string]any {
	node := map[string]any{"type": "text", "text": text, "align": "center", "color": "#F5F7F8"}
	for k, v := range extra {
		node[k] = v
	}
	return node
}

func WelcomeSticker() Message {
	return StickerMessage(WelcomeStickerPackage, WelcomeStickerID)
}

// SystemStatusCard renders preformatted "Label: value" rows.
func SystemStatusCard(rows []string) Message {
	lines := make([]any, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, map[string]any{"type": "text", "text": r, "color": "#ffffff", "wrap": true})
	}
	return FlexMessage(systemStatusTitle, map[string]any{
		"type": "bubble",
		"size": "mega",
		"body": map[string]any{
			"type":   "box",
			"layout": "vertical",
			"contents": []any{
				map[string]any{"type": "text", "text": systemStatusTitle, "weight": "bold", "size": "xl", "align": "center", "margin": "md", "color": "#ffffff"},
				map[string]any{"type": "separator", "margin": "md"},
				map[string]any{"type": "box", "layout": "vertical", "margin": "lg", "spacing": "sm", "contents": lines},
			},
		},
		"styles": map[string]any{"body": map[string]any{"backgroundColor": "#2e3b55"}},
	})
}

var manualSections = [][2]string{
	{"1. ตอบคำถามและค้นหาข้อมูล🔎 :", `พิมพ์คำถามหรือข้อมูลที่ต้องการทราบ เช่น "ระบบสุริยะมีกี่ดาวเคราะห์?" แชทบอทจะตอบคำถามหรือให้ข้อมูลเพิ่มเติมทันที`},
	{"2. สรุปเนื้อหาจากไฟล์รูปภาพ🖼️ :", `อัปโหลดรูปภาพที่มีข้อความหรือข้อมูลสำคัญโดยคลิกปุ่ม "อัปโหลดรูปภาพ" จากนั้นแชทบอทจะวิเคราะห์และสรุปข้อความในภาพให้`},
	{"3. สรุปเนื้อหาจาก URL หรือเว็บไซต์🌏 :", "คัดลอก URL เว็บไซต์ที่ต้องการพร้อมวางลิงก์ในแชท แชทบอทจะดึงข้อมูลและสรุปให้"},
	{"4. สรุปเนื้อหาจากข้อความ💬 :", "วางข้อความยาวที่ต้องการให้สรุปลงในแชท แชทบอทจะช่วยย่อข้อความและสรุปประเด็นสำคัญ"},
	{"5. ตอบโต้ด้วยข้อความเสียง🎙️ :", `คลิกปุ่ม "ส่งข้อความเสียง" หรือ "อัปโหลดไฟล์เสียง" แล้วพูดหรือส่งไฟล์เสียงที่มีคำถามหรือเนื้อหา ระบบจะถอดข้อความเสียงและให้คำตอบหรือสรุปข้อมูลให้`},
}

// ManualCard explains what the bot can do.
func ManualCard() Message {
	items := make([]any, 0, 2*len(manualSections))
	for _, s := range manualSections {
		items = append(items,
			map[string]any{"type": "box", "layout": "baseline", "contents": []any{
				map[string]any{"type": "text", "text": s[0], "weight": "bold", "flex": 0},
			}},
			map[string]any{"type": "text", "text": s[1], "wrap": true, "margin": "sm"},
		)
	}
	return FlexMessage(manualTitle, map[string]any{
		"type": "bubble",
		"header": map[string]any{
			"type":   "box",
			"layout": "vertical",
			"contents": []any{
				map[string]any{"type": "text", "text": manualTitle, "align": "center", "weight": "bold", "size": "lg", "color": "#FFFFFF"},
			},
			"backgroundColor": "#7E5CAD",
		},
		"body": map[string]any{
			"type":   "box",
			"layout": "vertical",
			"contents": []any{
				map[string]any{"type": "text", "text": "แชทบอทนี้สามารถตอบสนองต่อความต้องการที่หลากหลายผ่านฟังก์ชันการทำงานดังนี้ :", "wrap": true, "margin": "md"},
				map[string]any{"type": "box", "layout": "vertical", "margin": "lg", "spacing": "sm", "contents": items},
			},
		},
	})
}

// Truncate clips text to LINE's 5000 character limit for text messages.
func Truncate(text string) string {
	const limit = 5000
	r := []rune(text)
	if len(r) <= limit {
		return text
	}
	return strings.TrimSpace(string(r[:limit-1])) + "…"
}
