package utils

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"
)

//
// ===========================================================
//  ENV UTILITIES
// ===========================================================
//

// EnvOrDefault returns ENV value or fallback default.
func EnvOrDefault(key, def string) string {
	v := os.Getenv(key)
	if strings.TrimSpace(v) == "" {
		return def
	}
	return strings.TrimSpace(v)
}

func EnvBool(key string, def bool) bool {
	v, err := strconv.ParseBool(EnvOrDefault(key, ""))
	if err != nil {
		return def
	}
	return v
}

func EnvDuration(key string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(EnvOrDefault(key, ""))
	if err != nil {
		return def
	}
	return v
}

// EnvList splits a comma separated variable, dropping blanks.
func EnvList(key string, def []string) []string {
	raw := EnvOrDefault(key, "")
	if raw == "" {
		return def
	}
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

//
// ===========================================================
//  TOKEN & CODE GENERATORS
// ===========================================================
//

const AccessCodeLength = 6

var accessCodeMax = big.NewInt(1_000_000)

// TokenID returns a random 128-bit hex id for a signed token (its jti).
func TokenID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("token id: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// GenerateAccessCode returns a zero padded six digit code, e.g. "048213".
// crypto/rand + math/big avoids modulo bias.
func GenerateAccessCode() (string, error) {
	n, err := rand.Int(rand.Reader, accessCodeMax)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

var accessCodeRe = regexp.MustCompile(`^[0-9]{6}$`)

// NormalizeAccessCode strips spaces and hyphens guests tend to type.
func NormalizeAccessCode(code string) string {
	code = strings.TrimSpace(code)
	return strings.NewReplacer(" ", "", "-", "").Replace(code)
}

func IsValidAccessCode(code string) bool {
	return accessCodeRe.MatchString(code)
}

// PtrTime returns pointer to time.Time
func PtrTime(t time.Time) *time.Time { return &t }

func PtrUint(v uint) *uint { return &v }

//
// ===========================================================
//  DATE PARSING
// ===========================================================
//

var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDateTime accepts RFC3339 and the zone-less forms used by the front desk
// (interpreted in local time).
func ParseDateTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errors.New("empty date")
	}
	for _, layout := range dateTimeLayouts {
		if layout == time.RFC3339 {
			if t, err := time.Parse(layout, raw); err == nil {
				return t, nil
			}
			continue
		}
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", raw)
}

//
// ===========================================================
//  EMAIL MASKING
// ===========================================================
//

// MaskEmail returns masked email for safe display
func MaskEmail(email string) string {
	email = strings.TrimSpace(email)
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return email
	}
	local, domain := parts[0], parts[1]

	maskedLocal := local
	if len(local) > 2 {
		maskedLocal = local[:1] + strings.Repeat("*", len(local)-2) + local[len(local)-1:]
	} else if len(local) == 2 {
		maskedLocal = local[:1] + "*"
	}

	domainParts := strings.Split(domain, ".")
	if len(domainParts) >= 2 && len(domainParts[0]) > 1 {
		domainParts[0] = domainParts[0][:1] + strings.Repeat("*", len(domainParts[0])-1)
	}

	return maskedLocal + "@" + strings.Join(domainParts, ".")
}
