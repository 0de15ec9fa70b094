package paymentController

import (
	"log"
	"time"

	"sab/config"
	"sab/database"
	"sab/middleware"
	"sab/models"
	"sab/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StartPayment opens an INITIATED transaction and hands back the gateway
// payload the client forwards to bKash or SSLCommerz.
func StartPayment(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedStartPayment").(*struct {
		CourseID      uint    `json:"courseId"`
		Amount        float64 `json:"amount"`
		Currency      string  `json:"currency"`
		PaymentMethod string  `json:"paymentMethod"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var course models.Course
	if err := db.Where("id = ? AND is_active = ?", reqData.CourseID, true).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	expected := course.PriceAmount
	if course.DiscountPrice > 0 && course.DiscountPrice < course.PriceAmount {
		expected = course.DiscountPrice
	}
	if reqData.Amount != expected {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Payment amount does not match course price!", nil)
	}

	var purchased models.PurchasedCourse
	if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, reqData.CourseID, false).
		First(&purchased).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course already purchased!", nil)
	}

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	transactionID := uuid.New().String()

	gateway := models.GatewayBkash
	if reqData.PaymentMethod == "sslcommerz" {
		gateway = models.GatewaySSLCommerz
	}

	transaction := models.PaymentTransaction{
		TransactionID:   transactionID,
		UserID:          userID,
		CourseID:        reqData.CourseID,
		Gateway:         gateway,
		Amount:          reqData.Amount,
		Currency:        reqData.Currency,
		Status:          models.PaymentInitiated,
		PaymentMethod:   reqData.PaymentMethod,
		TransactionDate: time.Now(),
	}
	if err := db.Create(&transaction).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to initiate payment!", nil)
	}

	var payload map[string]interface{}
	var paymentURL string
	if transaction.Gateway == models.GatewaySSLCommerz {
		payload = utils.BuildSSLCommerzPayload(transactionID, reqData.Amount, reqData.Currency,
			user.FirstName+" "+user.LastName, user.Email, user.Phone, course.Title, course.Category)
		paymentURL = utils.SSLCommerzPaymentURL()
	} else {
		payload = utils.BuildBkashPayload(transactionID, reqData.Amount, reqData.Currency)
		paymentURL = utils.BkashPaymentURL()
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment initiated successfully!", fiber.Map{
		"transactionId": transactionID,
		"paymentUrl":    paymentURL,
		"payload":       payload,
	})
}

// completePurchase grants course access inside one transaction. The unique
// index on (user_id, course_id) catches concurrent verifications.
func completePurchase(transaction *models.PaymentTransaction, rawResponse string) error {
	tx := database.Database.Db.Begin()

	purchase := models.PurchasedCourse{
		UserID:          transaction.UserID,
		CourseID:        transaction.CourseID,
		PurchaseDate:    time.Now(),
		CompletedVideos: []byte("[]"),
	}
	if err := tx.Create(&purchase).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Model(&models.Course{}).Where("id = ?", transaction.CourseID).
		Update("enrollment_count", gorm.Expr("enrollment_count + 1")).Error; err != nil {
		tx.Rollback()
		return err
	}

	transaction.Status = models.PaymentCompleted
	transaction.PaymentResponseRaw = rawResponse
	transaction.TransactionDate = time.Now()
	if err := tx.Save(transaction).Error; err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

// VerifyPayment checks the gateway's own record of the transaction before
// granting access. Replaying an already-completed transaction returns 409.
func VerifyPayment(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedVerifyPayment").(*struct {
		TransactionID string            `json:"transactionId"`
		CourseID      uint              `json:"courseId"`
		PaymentData   map[string]string `json:"paymentData"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var transaction models.PaymentTransaction
	if err := db.Where("transaction_id = ? AND user_id = ?", reqData.TransactionID, userID).
		First(&transaction).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Transaction not found!", nil)
	}

	if transaction.Status == models.PaymentCompleted {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Transaction already completed!", nil)
	}
	if transaction.CourseID != reqData.CourseID {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Transaction does not match course!", nil)
	}

	var verified bool
	var rawResponse string
	if transaction.Gateway == models.GatewaySSLCommerz {
		verified = utils.VerifySSLCommerzSignature(reqData.PaymentData, config.AppConfig.SSLCommerzStorePassword) &&
			reqData.PaymentData["status"] == "VALID"
		rawResponse = reqData.PaymentData["verify_sign"]
	} else {
		var err error
		verified, rawResponse, err = utils.CheckBkashPaymentStatus(reqData.TransactionID)
		if err != nil {
			log.Printf("bKash verification error: %v", err)
			return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Payment gateway unavailable!", nil)
		}
	}

	if !verified {
		transaction.Status = models.PaymentFailed
		transaction.PaymentResponseRaw = rawResponse
		db.Save(&transaction)
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Payment verification failed!", nil)
	}

	if err := completePurchase(&transaction, rawResponse); err != nil {
		log.Printf("Error completing purchase: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to complete purchase!", nil)
	}

	var course models.Course
	db.First(&course, transaction.CourseID)

	var user models.User
	if err := db.First(&user, userID).Error; err == nil {
		go utils.SendPurchaseEmail(user.Email, user.FirstName, course.Title)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment verified successfully!", fiber.Map{
		"transactionId": transaction.TransactionID,
		"courseId":      transaction.CourseID,
		"status":        transaction.Status,
	})
}

// SSLCommerzSuccess handles the gateway's server-side success callback and
// redirects the browser back to the frontend.
func SSLCommerzSuccess(c *fiber.Ctx) error {
	payload := make(map[string]string)
	c.Request().PostArgs().VisitAll(func(key, value []byte) {
		payload[string(key)] = string(value)
	})

	tranID := payload["tran_id"]
	if tranID == "" {
		tranID = c.Query("tran_id")
	}

	if payload["status"] != "VALID" ||
		!utils.VerifySSLCommerzSignature(payload, config.AppConfig.SSLCommerzStorePassword) {
		return c.Redirect(config.AppConfig.FrontendURL + "/payment/failure?tran_id=" + tranID)
	}

	db := database.Database.Db
	var transaction models.PaymentTransaction
	if err := db.Where("transaction_id = ?", tranID).First(&transaction).Error; err != nil {
		return c.Redirect(config.AppConfig.FrontendURL + "/payment/failure?tran_id=" + tranID)
	}

	if transaction.Status != models.PaymentCompleted {
		if err := completePurchase(&transaction, payload["verify_sign"]); err != nil {
			log.Printf("Error completing purchase from callback: %v", err)
			return c.Redirect(config.AppConfig.FrontendURL + "/payment/failure?tran_id=" + tranID)
		}

		var course models.Course
		db.First(&course, transaction.CourseID)
		var user models.User
		if err := db.First(&user, transaction.UserID).Error; err == nil {
			go utils.SendPurchaseEmail(user.Email, user.FirstName, course.Title)
		}
	}

	return c.Redirect(config.AppConfig.FrontendURL + "/payment/success?tran_id=" + tranID)
}

// SSLCommerzFail marks the transaction failed and redirects
func SSLCommerzFail(c *fiber.Ctx) error {
	tranID := string(c.Request().PostArgs().Peek("tran_id"))
	if tranID == "" {
		tranID = c.Query("tran_id")
	}

	if tranID != "" {
		database.Database.Db.Model(&models.PaymentTransaction{}).
			Where("transaction_id = ? AND status = ?", tranID, models.PaymentInitiated).
			Update("status", models.PaymentFailed)
	}

	return c.Redirect(config.AppConfig.FrontendURL + "/payment/failure?tran_id=" + tranID)
}

// SSLCommerzCancel handles user-cancelled sessions
func SSLCommerzCancel(c *fiber.Ctx) error {
	tranID := string(c.Request().PostArgs().Peek("tran_id"))
	if tranID == "" {
		tranID = c.Query("tran_id")
	}

	if tranID != "" {
		database.Database.Db.Model(&models.PaymentTransaction{}).
			Where("transaction_id = ? AND status = ?", tranID, models.PaymentInitiated).
			Update("status", models.PaymentFailed)
	}

	return c.Redirect(config.AppConfig.FrontendURL + "/payment/cancelled?tran_id=" + tranID)
}

// GetPaymentHistory lists the user's transactions newest first
func GetPaymentHistory(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db

	var transactions []models.PaymentTransaction
	if err := db.Preload("Course").Where("user_id = ?", userID).
		Order("created_at desc").Find(&transactions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch payment history!", nil)
	}

	var totalSpent float64
	db.Model(&models.PaymentTransaction{}).
		Where("user_id = ? AND status = ?", userID, models.PaymentCompleted).
		Select("COALESCE(SUM(amount), 0)").Scan(&totalSpent)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment history fetched successfully!", fiber.Map{
		"transactions": transactions,
		"totalSpent":   totalSpent,
	})
}
