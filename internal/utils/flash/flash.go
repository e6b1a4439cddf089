// Package flash carries a one-shot notice across a redirect using a
// short-lived cookie: the failing handler sets it, the next page render
// takes it and clears it.
package flash

import (
	"net/http"
	"net/url"
)

const cookieName = "flash"

// Set stores msg as the pending flash notice for this client.
// The message is URL-escaped because cookie values cannot contain
// spaces or most punctuation.
func Set(w http.ResponseWriter, msg string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    url.QueryEscape(msg),
		Path:     "/",
		HttpOnly: true,
	})
}

// Take returns the pending flash notice, if any, and clears it so it is
// shown at most once.
func Take(w http.ResponseWriter, r *http.Request) string {
	c, err := r.Cookie(cookieName)
	if err != nil || c.Value == "" {
		return ""
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	msg, err := url.QueryUnescape(c.Value)
	if err != nil {
		return ""
	}
	return msg
}
