package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CreateNonce issues an action-bound anti-forgery token: an HMAC over the
// action name and issue time, carrying the timestamp so verification can
// enforce the lifetime window.
func CreateNonce(secret, action string, now time.Time) string {
	ts := strconv.FormatInt(now.UTC().Unix(), 10)
	return ts + "." + nonceMAC(secret, action, ts)
}

// VerifyNonce checks a nonce against an action and lifetime. A nonce issued
// for another action, tampered with, or older than the lifetime fails.
func VerifyNonce(secret, action, nonce string, lifetime time.Duration, now time.Time) error {
	parts := strings.SplitN(nonce, ".", 2)
	if len(parts) != 2 {
		return fmt.Errorf("malformed nonce")
	}

	ts, mac := parts[0], parts[1]
	expected := nonceMAC(secret, action, ts)
	if !hmac.Equal([]byte(mac), []byte(expected)) {
		return fmt.Errorf("nonce verification failed")
	}

	issued, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return fmt.Errorf("malformed nonce timestamp")
	}

	age := now.UTC().Sub(time.Unix(issued, 0).UTC())
	if age < 0 || age > lifetime {
		return fmt.Errorf("nonce expired")
	}
	return nil
}

func nonceMAC(secret, action, ts string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(action))
	h.Write([]byte{'|'})
	h.Write([]byte(ts))
	return hex.EncodeToString(h.Sum(nil))
}
