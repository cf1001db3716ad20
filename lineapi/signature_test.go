package lineapi

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"testing"
)

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestValidateSignature(t *testing.T) {
	secret := "test-channel-secret"
	body := []byte(`{"events":[]}`)

	if !ValidateSignature(secret, sign(secret, body), body) {
		t.Error("valid signature rejected")
	}
	if ValidateSignature(secret, sign(secret, body), []byte(`{"events":[{}]}`)) {
		t.Error("signature accepted for a different body")
	}
	if ValidateSignature("other-secret", sign(secret, body), body) {
		t.Error("signature accepted with the wrong secret")
	}
	if ValidateSignature(secret, "not base64 !!!", body) {
		t.Error("malformed signature accepted")
	}
	if ValidateSignature(secret, "", body) {
		t.Error("empty signature accepted")
	}
}
