package users

import (
	"net/url"
	"strings"

	"eventdesk/internal/remote"
)

// User is the account profile as returned by the user API.
type User = remote.User

const avatarBaseURL = "https://ui-avatars.com/api/"

// AvatarURL returns a generated avatar for a display name.
func AvatarURL(name string) string {
	q := url.Values{}
	q.Set("name", strings.TrimSpace(name))
	q.Set("background", "random")
	return avatarBaseURL + "?" + q.Encode()
}

// Initials is shown when no avatar is available.
func Initials(name string) string {
	var out []rune
	for _, part := range strings.Fields(name) {
		for _, r := range part {
			out = append(out, r)
			break
		}
		if len(out) == 2 {
			break
		}
	}
	return strings.ToUpper(string(out))
}
