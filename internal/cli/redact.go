package cli

import "net/url"

// redactURI masks the password in a connection string. Unparseable input is
// masked entirely.
func redactURI(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return redacted
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	}
	return u.String()
}
