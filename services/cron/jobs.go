package cron

import (
	"log"
	"time"

	"github.com/wiliammelo/empoweru/model"
)

// PurgeExpiredBlacklistTokens deletes blacklist rows whose tokens have
// expired on their own. Keeping the table small keeps the auth middleware
// lookup fast.
func (m *CronManager) PurgeExpiredBlacklistTokens() {
	result := m.db.
		Where("expires_at < ?", time.Now()).
		Delete(&model.JWTTokenBlacklist{})
	if result.Error != nil {
		log.Printf("[CRON] purge_token_blacklist failed: %v", result.Error)
		return
	}
	log.Printf("[CRON] purge_token_blacklist removed %d rows", result.RowsAffected)
}

// ReportEnrollmentStats logs headline numbers for operators
func (m *CronManager) ReportEnrollmentStats() {
	var courses, students, enrollments int64

	if err := m.db.Model(&model.Course{}).Count(&courses).Error; err != nil {
		log.Printf("[CRON] report_enrollment_stats failed: %v", err)
		return
	}
	if err := m.db.Model(&model.Student{}).Count(&students).Error; err != nil {
		log.Printf("[CRON] report_enrollment_stats failed: %v", err)
		return
	}
	if err := m.db.Model(&model.Enrollment{}).Count(&enrollments).Error; err != nil {
		log.Printf("[CRON] report_enrollment_stats failed: %v", err)
		return
	}

	log.Printf("[CRON] report_enrollment_stats courses=%d students=%d enrollments=%d",
		courses, students, enrollments)
}
