package domain

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

const bookingNumberPrefix = "BK"

// NewBookingNumber builds a unique booking reference: prefix, nanosecond
// timestamp, and a zero-padded random suffix.
func NewBookingNumber(now time.Time) string {
	return fmt.Sprintf("%s%d%04d", bookingNumberPrefix, now.UnixNano(), rand.Intn(10000))
}

// accessCodeChars deliberately excludes glyphs that read ambiguously on a
// printed ticket (I, O, 0).
const accessCodeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ123456789"

const accessCodeLength = 6

// NewAccessCode draws a 6-character gate code from the unambiguous set.
func NewAccessCode() string {
	var sb strings.Builder
	sb.Grow(accessCodeLength)
	for i := 0; i < accessCodeLength; i++ {
		sb.WriteByte(accessCodeChars[rand.Intn(len(accessCodeChars))])
	}
	return sb.String()
}

// WithQRCode assigns the derived QR reference URL. Reassignment overwrites
// idempotently.
func (b Booking) WithQRCode(baseURL string) Booking {
	b.QRCode = fmt.Sprintf("%s/bookings/%s/qr", strings.TrimRight(baseURL, "/"), b.BookingNumber)
	return b
}

// WithAccessCode assigns the gate access code. Reassignment overwrites
// idempotently.
func (b Booking) WithAccessCode(code string) Booking {
	b.AccessCode = code
	return b
}
