package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBookingNumber_Unique(t *testing.T) {
	seen := make(map[string]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		n := NewBookingNumber(time.Now())
		_, dup := seen[n]
		require.False(t, dup, "duplicate booking number %q after %d generations", n, i)
		seen[n] = struct{}{}
	}
}

func TestNewBookingNumber_Format(t *testing.T) {
	n := NewBookingNumber(time.Now())
	assert.True(t, strings.HasPrefix(n, "BK"))
	for _, r := range n[2:] {
		assert.True(t, r >= '0' && r <= '9', "non-digit %q in %q", r, n)
	}
}

func TestNewAccessCode(t *testing.T) {
	for i := 0; i < 100; i++ {
		code := NewAccessCode()
		require.Len(t, code, 6)
		for _, r := range code {
			assert.Contains(t, accessCodeChars, string(r))
			assert.NotContains(t, "IO0", string(r))
		}
	}
}

func TestAccessArtifactsAssignIdempotently(t *testing.T) {
	b := Booking{BookingNumber: "BK123"}

	b = b.WithQRCode("https://spotsense.app/")
	assert.Equal(t, "https://spotsense.app/bookings/BK123/qr", b.QRCode)

	// overwrite is allowed and replaces the previous value
	b = b.WithQRCode("https://spotsense.app")
	assert.Equal(t, "https://spotsense.app/bookings/BK123/qr", b.QRCode)

	b = b.WithAccessCode("ABC123")
	b = b.WithAccessCode("XYZ789")
	assert.Equal(t, "XYZ789", b.AccessCode)
}
