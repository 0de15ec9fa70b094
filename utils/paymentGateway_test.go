package utils

import (
	"crypto/md5"
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const testStorePassword = "test-store-passwd"

// signPayload reproduces the gateway's signing: the fields listed in
// verify_key plus md5(store password), sorted by key, joined as a query
// string and hashed.
func signPayload(payload map[string]string, verifyKeys []string) string {
	params := make(map[string]string, len(verifyKeys)+1)
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

	return fmt.Sprintf("%x", md5.Sum([]byte(strings.Join(pairs, "&"))))
}

func TestVerifySSLCommerzSignature(t *testing.T) {
	payload := map[string]string{
		"amount":     "1500.00",
		"bank_tran_id": "2608291234567",
		"status":     "VALID",
		"tran_id":    "9c5f1e2a-0000-4000-8000-000000000000",
		"verify_key": "amount,bank_tran_id,status,tran_id",
	}
	payload["verify_sign"] = signPayload(payload, []string{"amount", "bank_tran_id", "status", "tran_id"})

	assert.True(t, VerifySSLCommerzSignature(payload, testStorePassword))
}

func TestVerifySSLCommerzSignatureTampered(t *testing.T) {
	payload := map[string]string{
		"amount":     "1500.00",
		"status":     "VALID",
		"tran_id":    "abc-123",
		"verify_key": "amount,status,tran_id",
	}
	payload["verify_sign"] = signPayload(payload, []string{"amount", "status", "tran_id"})

	payload["amount"] = "1.00"
	assert.False(t, VerifySSLCommerzSignature(payload, testStorePassword))
}

func TestVerifySSLCommerzSignatureWrongPassword(t *testing.T) {
	payload := map[string]string{
		"amount":     "100.00",
		"status":     "VALID",
		"tran_id":    "abc-123",
		"verify_key": "amount,status,tran_id",
	}
	payload["verify_sign"] = signPayload(payload, []string{"amount", "status", "tran_id"})

	assert.False(t, VerifySSLCommerzSignature(payload, "another-password"))
}

func TestVerifySSLCommerzSignatureMissingFields(t *testing.T) {
	assert.False(t, VerifySSLCommerzSignature(map[string]string{}, testStorePassword))
	assert.False(t, VerifySSLCommerzSignature(map[string]string{
		"verify_sign": "deadbeef",
	}, testStorePassword))
	assert.False(t, VerifySSLCommerzSignature(map[string]string{
		"verify_key": "amount",
		"amount":     "1.00",
	}, testStorePassword))
}
