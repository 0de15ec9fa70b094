package utils

import (
	"crypto/md5"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"sab/config"

	"github.com/go-resty/resty/v2"
)

// BuildBkashPayload fabricates the bKash tokenized-checkout create payload
// the frontend forwards to the gateway.
func BuildBkashPayload(transactionID string, amount float64, currency string) map[string]interface{} {
	return map[string]interface{}{
		"paymentID":             transactionID,
		"amount":                fmt.Sprintf("%.2f", amount),
		"currency":              currency,
		"intent":                "sale",
		"merchantInvoiceNumber": fmt.Sprintf("INV-%d", time.Now().UnixMilli()),
		"callbackURL":           config.AppConfig.FrontendURL + "/payment/callback",
		"successCallbackURL":    config.AppConfig.FrontendURL + "/payment/success",
		"failureCallbackURL":    config.AppConfig.FrontendURL + "/payment/failure",
		"cancelledCallbackURL":  config.AppConfig.FrontendURL + "/payment/cancelled",
	}
}

// BkashPaymentURL is the sandbox checkout endpoint the client redirects to
func BkashPaymentURL() string {
	return config.AppConfig.BkashBaseURL + "/tokenized/checkout/create"
}

// BuildSSLCommerzPayload fabricates the SSLCommerz session payload
func BuildSSLCommerzPayload(transactionID string, amount float64, currency, customerName, customerEmail, customerPhone, productName, productCategory string) map[string]interface{} {
	if customerPhone == "" {
		customerPhone = "01700000000"
	}
	return map[string]interface{}{
		"store_id":         config.AppConfig.SSLCommerzStoreID,
		"total_amount":     amount,
		"currency":         currency,
		"tran_id":          transactionID,
		"success_url":      config.AppConfig.BackendURL + "/api/payment/sslcommerz-success",
		"fail_url":         config.AppConfig.BackendURL + "/api/payment/sslcommerz-fail",
		"cancel_url":       config.AppConfig.BackendURL + "/api/payment/sslcommerz-cancel",
		"cus_name":         customerName,
		"cus_email":        customerEmail,
		"cus_phone":        customerPhone,
		"cus_add1":         "Dhaka, Bangladesh",
		"cus_city":         "Dhaka",
		"cus_country":      "Bangladesh",
		"product_name":     productName,
		"product_category": productCategory,
		"product_profile":  "digital-goods",
	}
}

// SSLCommerzPaymentURL is the sandbox gateway-process endpoint
func SSLCommerzPaymentURL() string {
	return config.AppConfig.SSLCommerzBaseURL + "/gwprocess/v4/api.php"
}

// VerifySSLCommerzSignature validates the verify_sign field of an
// SSLCommerz callback payload. The gateway signs the fields listed in
// verify_key plus the MD5 of the store password, sorted by key.
func VerifySSLCommerzSignature(payload map[string]string, storePassword string) bool {
	verifySign := payload["verify_sign"]
	verifyKey := payload["verify_key"]
	if verifySign == "" || verifyKey == "" {
		return false
	}

	keys := strings.Split(verifyKey, ",")
	keys = append(keys, "store_passwd")

	params := make(map[string]string, len(keys))
	for _, k := range keys {
		if k == "store_passwd" {
			params[k] = fmt.Sprintf("%x", md5.Sum([]byte(storePassword)))
			continue
		}
		params[k] = payload[k]
	}

	sorted := make([]string, 0, len(params))
	for k := range params {
		sorted = append(sorted, k)
	}
	sort.Strings(sorted)

	pairs := make([]string, 0, len(sorted))
	for _, k := range sorted {
		pairs = append(pairs, k+"="+params[k])
	}

	computed := fmt.Sprintf("%x", md5.Sum([]byte(strings.Join(pairs, "&"))))
	return computed == strings.ToLower(verifySign)
}

// CheckBkashPaymentStatus asks the gateway for the current state of a
// tokenized payment. Only a "Completed" transactionStatus counts as paid.
func CheckBkashPaymentStatus(paymentID string) (bool, string, error) {
	client := resty.New().SetTimeout(30 * time.Second)
	resp, err := client.R().
		SetHeader("Content-Type", "application/json").
		SetHeader("X-App-Key", config.AppConfig.BkashAppKey).
		SetBody(map[string]string{"paymentID": paymentID}).
		Post(config.AppConfig.BkashBaseURL + "/tokenized/checkout/payment/status")
	if err != nil {
		log.Printf("bKash status request error: %v", err)
		return false, "", err
	}

	var statusResp struct {
		PaymentID         string `json:"paymentID"`
		TransactionStatus string `json:"transactionStatus"`
		StatusMessage     string `json:"statusMessage"`
	}
	if err := json.Unmarshal(resp.Body(), &statusResp); err != nil {
		return false, "", fmt.Errorf("invalid bKash status response: %v", err)
	}

	if resp.StatusCode() != 200 {
		return false, string(resp.Body()), fmt.Errorf("bKash status API returned %d", resp.StatusCode())
	}

	return statusResp.TransactionStatus == "Completed", string(resp.Body()), nil
}
