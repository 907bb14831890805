package wizard

import (
	"math/rand"
	"strings"
)

const (
	passwordLength  = 12
	passwordCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*"
)

// GeneratePassword returns a 12-character suggestion for the personal
// step's password field. This is a form-filling convenience, not a
// security control: the candidate sees and can replace it, so plain
// math/rand is fine here.
func GeneratePassword() string {
	var b strings.Builder
	b.Grow(passwordLength)
	for i := 0; i < passwordLength; i++ {
		b.WriteByte(passwordCharset[rand.Intn(len(passwordCharset))]) //nolint:gosec // non-secret convenience value
	}
	return b.String()
}
