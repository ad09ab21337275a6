package launch

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	initdata "github.com/telegram-mini-apps/init-data-golang"
)

// Sentinel errors returned by Validate.
var (
	ErrMalformed   = errors.New("launch: malformed init data")
	ErrMissingHash = errors.New("launch: init data has no hash")
	ErrInvalidHash = errors.New("launch: init data signature mismatch")
	ErrExpired     = errors.New("launch: init data expired")
)

// Validate verifies the init data signature against botToken. When maxAge is
// positive, init data whose auth_date is older than maxAge relative to now is
// rejected with ErrExpired.
func Validate(initData, botToken string, maxAge time.Duration, now time.Time) error {
	// Expiry is checked here against now, not by the library's wall clock.
	if err := initdata.Validate(initData, botToken, 0); err != nil {
		switch {
		case errors.Is(err, initdata.ErrSignMissing):
			return ErrMissingHash
		case errors.Is(err, initdata.ErrSignInvalid):
			return ErrInvalidHash
		default:
			return fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	}

	if maxAge > 0 {
		data, err := initdata.Parse(initData)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		authDate := data.AuthDate()
		if authDate.Unix() <= 0 {
			return fmt.Errorf("%w: missing auth_date", ErrMalformed)
		}
		if now.Sub(authDate) > maxAge {
			return ErrExpired
		}
	}
	return nil
}

// Sign returns the hash Telegram attaches to values for botToken. values
// must carry auth_date; an existing hash is ignored.
func Sign(values url.Values, botToken string) string {
	payload := make(map[string]string, len(values))
	for k := range values {
		if k == "hash" || k == "auth_date" {
			continue
		}
		payload[k] = values.Get(k)
	}
	authDate, _ := strconv.ParseInt(values.Get("auth_date"), 10, 64)
	return initdata.Sign(payload, botToken, time.Unix(authDate, 0))
}
