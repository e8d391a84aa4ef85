package utils

import (
	"crypto/rand"
	"fmt"
	"time"
)

const tokenChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789" // no 0/O/1/I, tokens are read over the phone

// GenerateOrderToken generates an external order token in the format
// TLR-YYYYMMDD-XXXXXX. The random suffix keeps tokens unique under concurrent
// creation and unguessable for the public tracking URL.
func GenerateOrderToken() (string, error) {
	const suffixLen = 6

	buf := make([]byte, suffixLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate order token: %w", err)
	}
	for i := range buf {
		buf[i] = tokenChars[int(buf[i])%len(tokenChars)]
	}

	return fmt.Sprintf("TLR-%s-%s", time.Now().Format("20060102"), string(buf)), nil
}
