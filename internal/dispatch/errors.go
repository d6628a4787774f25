package dispatch

import "errors"

var (
	// ErrInvalidInput marks a malformed event or reference, rejected before
	// any I/O.
	ErrInvalidInput = errors.New("invalid input")

	errNoImage = errors.New("image content is empty")
)

// Reply texts for failures, per branch.
const (
	GenericFailureText  = "เกิดข้อผิดพลาดลองใหม่อีกครั้งในภายหลัง"
	TextFailureText     = "เกิดข้อผิดพลาดในการประมวลผลข้อความ"
	ImageFailureText    = "เกิดข้อผิดพลาดในการประมวลผลรูปภาพ"
	ImageMissingText    = "ไม่สามารถรับรูปภาพได้"
	AudioFailureText    = "เกิดข้อผิดพลาดในการประมวลผลไฟล์เสียง"
	AirQualityErrorText = "ขออภัย เกิดข้อผิดพลาดในการดึงข้อมูลคุณภาพอากาศ"
	LocationFailureText = "ขออภัย เกิดข้อผิดพลาดในการประมวลผล"
)

// Command keywords matched against the trimmed message text.
const (
	CommandSystemStatus = "ข้อมูลระบบ"
	CommandManual       = "คู่มือการใช้งาน"
)
