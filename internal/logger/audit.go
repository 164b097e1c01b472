package logger

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
)

// AuditAction log một hành động audit
type AuditAction struct {
	Action    string                 `json:"action"`     // Tên hành động (ví dụ: "sales_upload")
	IP        string                 `json:"ip"`         // IP address
	UserAgent string                 `json:"user_agent"` // User agent
	Details   map[string]interface{} `json:"details"`    // Chi tiết bổ sung
	Timestamp time.Time              `json:"timestamp"`  // Thời gian
}

// LogAction log một hành động audit
func LogAction(action string, c fiber.Ctx, details map[string]interface{}) {
	auditLogger := GetAuditLogger()

	if details == nil {
		details = make(map[string]interface{})
	}

	audit := AuditAction{
		Action:    action,
		IP:        c.IP(),
		UserAgent: c.Get("User-Agent"),
		Details:   details,
		Timestamp: time.Now(),
	}

	// Lấy request ID
	if requestID := c.Get("X-Request-ID"); requestID != "" {
		audit.Details["request_id"] = requestID
	}

	auditLogger.WithFields(logrus.Fields{
		"action":     audit.Action,
		"ip":         audit.IP,
		"user_agent": audit.UserAgent,
		"details":    audit.Details,
		"timestamp":  audit.Timestamp,
	}).Info("Audit log")
}

// LogIngest log một lần nhập dữ liệu (upload file thay thế toàn bộ bộ dữ liệu)
func LogIngest(filename string, saved int, dropped int, coerced int, c fiber.Ctx) {
	LogAction("sales_upload", c, map[string]interface{}{
		"filename":      filename,
		"rows_saved":    saved,
		"rows_dropped":  dropped,
		"cells_coerced": coerced,
	})
}
