package paymentController

import (
	"bytes"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"sab/config"
	"sab/database"
	"sab/middleware"
	"sab/models"
	paymentValidator "sab/validators/payment"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testStorePassword = "test-store-passwd"

var (
	setupOnce sync.Once
	testApp   *fiber.App
)

func setupTest() *fiber.App {
	setupOnce.Do(func() {
		config.AppConfig = &config.Config{
			JWTKey:                  "test-secret",
			FrontendURL:             "http://localhost:4200",
			BackendURL:              "http://localhost:3000",
			SSLCommerzStorePassword: testStorePassword,
		}
		database.ConnectTestDb()

		testApp = fiber.New()
		group := testApp.Group("/api/payment")
		group.Post("/start", middleware.JWTMiddleware, paymentValidator.StartPayment(), StartPayment)
		group.Post("/verify", middleware.JWTMiddleware, paymentValidator.VerifyPayment(), VerifyPayment)
		group.Get("/history", middleware.JWTMiddleware, GetPaymentHistory)
	})
	return testApp
}

func seedUser(t *testing.T, email string) (models.User, string) {
	user := models.User{
		FirstName: "Pay",
		LastName:  "Er",
		Email:     email,
		Password:  "hashed",
		Role:      models.RoleStudent,
	}
	require.NoError(t, database.Database.Db.Create(&user).Error)

	token, err := middleware.GenerateJWT(user.ID, user.FirstName, user.LastName, string(user.Role), user.Email)
	require.NoError(t, err)
	return user, token
}

func seedCourse(t *testing.T, price, discount float64) models.Course {
	course := models.Course{
		Title:         "Scholarship Hunting",
		Description:   "Finding and winning scholarships",
		Category:      "scholarship",
		PriceAmount:   price,
		DiscountPrice: discount,
		IsActive:      true,
		CreatedBy:     1,
	}
	require.NoError(t, database.Database.Db.Create(&course).Error)
	return course
}

func postJSON(t *testing.T, app *fiber.App, token, path string, payload interface{}) (map[string]interface{}, int) {
	t.Helper()
	raw, _ := json.Marshal(payload)
	req := httptest.NewRequest("POST", path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)

	body := make(map[string]interface{})
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body, resp.StatusCode
}

// signedCallback builds an SSLCommerz payload carrying a correct verify_sign
func signedCallback(tranID string, fields map[string]string) map[string]string {
	payload := map[string]string{"tran_id": tranID, "status": "VALID"}
	for k, v := range fields {
		payload[k] = v
	}

	verifyKeys := make([]string, 0, len(payload))
	for k := range payload {
		verifyKeys = append(verifyKeys, k)
	}
	sort.Strings(verifyKeys)
	payload["verify_key"] = strings.Join(verifyKeys, ",")

	params := make(map[string]string, len(payload))
	for _, k := range verifyKeys {
		params[k] = payload[k]
	}
	params["store_passwd"] = fmt.Sprintf("%x", md5.Sum([]byte(testStorePassword)))

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}
	payload["verify_sign"] = fmt.Sprintf("%x", md5.Sum([]byte(strings.Join(pairs, "&"))))

	return payload
}

func TestStartPaymentRejectsWrongAmount(t *testing.T) {
	app := setupTest()
	course := seedCourse(t, 2000, 0)
	_, token := seedUser(t, "cheap@example.com")

	_, status := postJSON(t, app, token, "/api/payment/start", fiber.Map{
		"courseId":      course.ID,
		"amount":        1.0,
		"paymentMethod": "bkash",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestStartPaymentUsesDiscountPrice(t *testing.T) {
	app := setupTest()
	course := seedCourse(t, 2000, 1500)
	_, token := seedUser(t, "discount@example.com")

	// the full price is no longer the expected amount once a discount exists
	_, status := postJSON(t, app, token, "/api/payment/start", fiber.Map{
		"courseId":      course.ID,
		"amount":        2000.0,
		"paymentMethod": "bkash",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)

	body, status := postJSON(t, app, token, "/api/payment/start", fiber.Map{
		"courseId":      course.ID,
		"amount":        1500.0,
		"paymentMethod": "bkash",
	})
	assert.Equal(t, fiber.StatusOK, status)

	data := body["data"].(map[string]interface{})
	assert.NotEmpty(t, data["transactionId"])
	assert.NotEmpty(t, data["paymentUrl"])
}

func TestStartPaymentRejectsRepurchase(t *testing.T) {
	app := setupTest()
	course := seedCourse(t, 1000, 0)
	user, token := seedUser(t, "repeat@example.com")

	purchase := models.PurchasedCourse{
		UserID:          user.ID,
		CourseID:        course.ID,
		PurchaseDate:    time.Now(),
		CompletedVideos: []byte("[]"),
	}
	require.NoError(t, database.Database.Db.Create(&purchase).Error)

	_, status := postJSON(t, app, token, "/api/payment/start", fiber.Map{
		"courseId":      course.ID,
		"amount":        1000.0,
		"paymentMethod": "sslcommerz",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestVerifyPaymentGrantsAccessOnce(t *testing.T) {
	app := setupTest()
	course := seedCourse(t, 1200, 0)
	user, token := seedUser(t, "verifier@example.com")

	tranID := uuid.New().String()
	transaction := models.PaymentTransaction{
		TransactionID:   tranID,
		UserID:          user.ID,
		CourseID:        course.ID,
		Gateway:         models.GatewaySSLCommerz,
		Amount:          1200,
		Currency:        "BDT",
		Status:          models.PaymentInitiated,
		PaymentMethod:   "sslcommerz",
		TransactionDate: time.Now(),
	}
	require.NoError(t, database.Database.Db.Create(&transaction).Error)

	callback := signedCallback(tranID, map[string]string{"amount": "1200.00"})

	_, status := postJSON(t, app, token, "/api/payment/verify", fiber.Map{
		"transactionId": tranID,
		"courseId":      course.ID,
		"paymentData":   callback,
	})
	assert.Equal(t, fiber.StatusOK, status)

	var purchase models.PurchasedCourse
	require.NoError(t, database.Database.Db.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&purchase).Error)

	var updated models.PaymentTransaction
	require.NoError(t, database.Database.Db.Where("transaction_id = ?", tranID).First(&updated).Error)
	assert.Equal(t, models.PaymentCompleted, updated.Status)

	var refreshed models.Course
	require.NoError(t, database.Database.Db.First(&refreshed, course.ID).Error)
	assert.Equal(t, 1, refreshed.EnrollmentCount)

	// replaying the same transaction cannot grant a second purchase
	_, status = postJSON(t, app, token, "/api/payment/verify", fiber.Map{
		"transactionId": tranID,
		"courseId":      course.ID,
		"paymentData":   callback,
	})
	assert.Equal(t, fiber.StatusConflict, status)

	var purchaseCount int64
	database.Database.Db.Model(&models.PurchasedCourse{}).
		Where("user_id = ? AND course_id = ?", user.ID, course.ID).Count(&purchaseCount)
	assert.Equal(t, int64(1), purchaseCount)
}

func TestVerifyPaymentRejectsForgedSignature(t *testing.T) {
	app := setupTest()
	course := seedCourse(t, 900, 0)
	user, token := seedUser(t, "forger@example.com")

	tranID := uuid.New().String()
	transaction := models.PaymentTransaction{
		TransactionID:   tranID,
		UserID:          user.ID,
		CourseID:        course.ID,
		Gateway:         models.GatewaySSLCommerz,
		Amount:          900,
		Currency:        "BDT",
		Status:          models.PaymentInitiated,
		PaymentMethod:   "sslcommerz",
		TransactionDate: time.Now(),
	}
	require.NoError(t, database.Database.Db.Create(&transaction).Error)

	callback := signedCallback(tranID, map[string]string{"amount": "900.00"})
	callback["verify_sign"] = "0123456789abcdef0123456789abcdef"

	_, status := postJSON(t, app, token, "/api/payment/verify", fiber.Map{
		"transactionId": tranID,
		"courseId":      course.ID,
		"paymentData":   callback,
	})
	assert.Equal(t, fiber.StatusBadRequest, status)

	var updated models.PaymentTransaction
	require.NoError(t, database.Database.Db.Where("transaction_id = ?", tranID).First(&updated).Error)
	assert.Equal(t, models.PaymentFailed, updated.Status)

	var purchaseCount int64
	database.Database.Db.Model(&models.PurchasedCourse{}).
		Where("user_id = ? AND course_id = ?", user.ID, course.ID).Count(&purchaseCount)
	assert.Equal(t, int64(0), purchaseCount)
}

func TestPaymentHistoryTotals(t *testing.T) {
	app := setupTest()
	course := seedCourse(t, 500, 0)
	user, token := seedUser(t, "history@example.com")

	for i, status := range []models.PaymentStatus{models.PaymentCompleted, models.PaymentCompleted, models.PaymentFailed} {
		tx := models.PaymentTransaction{
			TransactionID:   fmt.Sprintf("hist-%d-%d", user.ID, i),
			UserID:          user.ID,
			CourseID:        course.ID,
			Gateway:         models.GatewayBkash,
			Amount:          500,
			Currency:        "BDT",
			Status:          status,
			PaymentMethod:   "bkash",
			TransactionDate: time.Now(),
		}
		require.NoError(t, database.Database.Db.Create(&tx).Error)
	}

	req := httptest.NewRequest("GET", "/api/payment/history", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Data struct {
			Transactions []json.RawMessage `json:"transactions"`
			TotalSpent   float64           `json:"totalSpent"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Len(t, body.Data.Transactions, 3)
	assert.Equal(t, 1000.0, body.Data.TotalSpent)
}
