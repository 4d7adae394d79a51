// internal/handlers/identity.go
package handlers

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// Identity is the opaque cookie pair identifying a player. There is no
// account behind it; the id only has to be unique.
type Identity struct {
	UserID   uuid.UUID
	UserName string
}

// EnsureIdentity reads the userId/userName cookies, minting a fresh id when
// absent or unparsable.
func EnsureIdentity(w http.ResponseWriter, r *http.Request) Identity {
	id := Identity{UserName: cookieValue(r, "userName")}
	if raw := cookieValue(r, "userId"); raw != "" {
		if parsed, err := uuid.Parse(raw); err == nil {
			id.UserID = parsed
		}
	}
	if id.UserID == uuid.Nil {
		id.UserID = uuid.New()
		setIdentityCookie(w, "userId", id.UserID.String())
	}
	if id.UserName == "" {
		id.UserName = fmt.Sprintf("User_%s", id.UserID.String()[:4])
	}
	return id
}

// SigninHandler mints the cookie identity from a submitted display name.
func SigninHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		userName := r.FormValue("userName")
		if userName == "" {
			http.Error(w, "missing userName", http.StatusBadRequest)
			return
		}
		userID := uuid.New()
		setIdentityCookie(w, "userId", userID.String())
		setIdentityCookie(w, "userName", userName)
		writeJSON(w, http.StatusOK, map[string]string{
			"userId":   userID.String(),
			"userName": userName,
		})
	}
}

func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}

func setIdentityCookie(w http.ResponseWriter, name, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
	})
}
