package utils

import (
	"log"
	"time"

	"sab/database"
	"sab/models"

	"github.com/robfig/cron/v3"
)

// InitializeSubscriptionScheduler sets up the daily subscription expiry check
func InitializeSubscriptionScheduler() {
	log.Println("[SUBSCRIPTION-SCHEDULER] Initializing subscription scheduler...")

	c := cron.New()

	// Run daily at 9 AM to downgrade expired subscriptions
	c.AddFunc("0 9 * * *", func() {
		log.Println("[SUBSCRIPTION-SCHEDULER] Running daily subscription check...")
		ExpireSubscriptions()
	})

	c.Start()
	log.Println("[SUBSCRIPTION-SCHEDULER] Subscription scheduler started - runs daily at 9 AM")
}

// ExpireSubscriptions downgrades premium/pro users whose expiry date has
// passed back to the free tier.
func ExpireSubscriptions() {
	db := database.Database.Db
	now := time.Now()

	result := db.Model(&models.User{}).
		Where("subscription_type != ? AND is_deleted = false", models.SubscriptionFree).
		Where("subscription_expiry IS NOT NULL AND subscription_expiry < ?", now).
		Updates(map[string]interface{}{
			"subscription_type":   models.SubscriptionFree,
			"subscription_expiry": nil,
		})

	if result.Error != nil {
		log.Printf("[SUBSCRIPTION-SCHEDULER] Error expiring subscriptions: %v", result.Error)
		return
	}

	if result.RowsAffected > 0 {
		log.Printf("[SUBSCRIPTION-SCHEDULER] Downgraded %d expired subscriptions", result.RowsAffected)
	}
}
