package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/nfrund/starbeam/internal/launch"
)

// SessionName is the cookie carrying the device session.
const SessionName = "starbeam"

const (
	// DeviceContextKey holds the device id on the echo context.
	DeviceContextKey = "device_id"

	deviceIDKey = "device_id"
	launchedKey = "launched"
	initDataKey = "init_data"
)

// Device makes sure every visitor carries a device id in its session cookie
// and exposes it under DeviceContextKey. The id namespaces the visitor's
// storage the way local storage is scoped to one browser. It must run after
// session.Middleware.
func Device() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, err := session.Get(SessionName, c)
			if sess == nil {
				return err
			}
			if err != nil {
				// Typically a cookie signed with a rotated secret.
				FromContext(c.Request().Context()).Warn("discarding unreadable session", "error", err)
			}

			id, _ := sess.Values[deviceIDKey].(string)
			if id == "" {
				id = uuid.NewString()
				sess.Values[deviceIDKey] = id
				if err := sess.Save(c.Request(), c.Response()); err != nil {
					return err
				}
			}

			c.Set(DeviceContextKey, id)
			return next(c)
		}
	}
}

// NewSessionStore returns the cookie store backing device sessions. Secure
// cookies use SameSite=None so the Telegram web client, which embeds the
// Mini App in an iframe, still sends them.
func NewSessionStore(secret string, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	if secure {
		store.Options.SameSite = http.SameSiteNoneMode
	}
	return store
}

// DeviceID returns the id set by Device, or "" outside it.
func DeviceID(c echo.Context) string {
	id, _ := c.Get(DeviceContextKey).(string)
	return id
}

// SaveLaunch records the raw launch data for the session. Empty data is
// allowed; the Mini App may be opened outside Telegram.
func SaveLaunch(c echo.Context, initData string) error {
	sess, err := session.Get(SessionName, c)
	if sess == nil {
		return err
	}
	sess.Values[launchedKey] = true
	sess.Values[initDataKey] = initData
	return sess.Save(c.Request(), c.Response())
}

// Launch returns the parsed launch context of the session and whether the
// Mini App was launched at all.
func Launch(c echo.Context) (launch.Context, bool) {
	sess, _ := session.Get(SessionName, c)
	if sess == nil {
		return launch.Context{}, false
	}
	launched, _ := sess.Values[launchedKey].(bool)
	if !launched {
		return launch.Context{}, false
	}
	raw, _ := sess.Values[initDataKey].(string)
	return launch.Parse(raw), true
}

// RequireLaunch rejects requests from sessions that never went through the
// launch step.
func RequireLaunch() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := Launch(c); !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Mini App has not been launched")
			}
			return next(c)
		}
	}
}
