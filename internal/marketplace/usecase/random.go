package usecase

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"strings"
)

func randomIntn(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}

func randomString(alphabet string, length int) (string, error) {
	var sb strings.Builder
	sb.Grow(length)
	for i := 0; i < length; i++ {
		idx, err := randomIntn(len(alphabet))
		if err != nil {
			return "", err
		}
		sb.WriteByte(alphabet[idx])
	}
	return sb.String(), nil
}

// randomOTPCode returns a five digit code in [10000, 99999].
func randomOTPCode() (string, error) {
	n, err := randomIntn(90000)
	if err != nil {
		return "", err
	}
	return strconv.Itoa(10000 + n), nil
}

// describeAgent reduces a User-Agent header to "<browser> <os> device".
func describeAgent(userAgent string) string {
	if userAgent == "" {
		return "unknown device"
	}
	browsers := []struct{ token, name string }{
		{"Edg/", "Edge"},
		{"OPR/", "Opera"},
		{"Chrome/", "Chrome"},
		{"Firefox/", "Firefox"},
		{"Safari/", "Safari"},
	}
	systems := []struct{ token, name string }{
		{"Windows", "Windows"},
		{"Android", "Android"},
		{"iPhone", "iOS"},
		{"iPad", "iPadOS"},
		{"Mac OS X", "macOS"},
		{"Linux", "Linux"},
	}
	var parts []string
	for _, b := range browsers {
		if strings.Contains(userAgent, b.token) {
			parts = append(parts, b.name)
			break
		}
	}
	for _, s := range systems {
		if strings.Contains(userAgent, s.token) {
			parts = append(parts, s.name)
			break
		}
	}
	if len(parts) == 0 {
		return "unknown device"
	}
	return strings.Join(parts, " ") + " device"
}
