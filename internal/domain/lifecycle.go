package domain

import (
	"fmt"
	"time"
)

// Lifecycle transitions. Every operation takes the booking by value and
// returns the updated value plus the events to dispatch after the write
// succeeds. Persistence is the caller's concern.

// ConfirmPayment moves a pending booking to confirmed. This is the explicit
// payment-confirmation trigger; a payment method is mandatory once the
// payment is marked paid.
func (b Booking) ConfirmPayment(method, transactionID string, now time.Time) (Booking, []Event, error) {
	if b.Status != BookingPending {
		return b, nil, invalidState("confirm booking", b.Status)
	}
	if method == "" {
		return b, nil, &ValidationError{Field: "payment.method", Reason: "required when payment is marked paid"}
	}

	b.Status = BookingConfirmed
	b.Payment.Status = PaymentPaid
	b.Payment.Method = method
	b.Payment.TransactionID = transactionID
	b.UpdatedAt = now

	return b, []Event{NewEvent(EventBookingConfirmed, b, now)}, nil
}

// CheckInUser moves a confirmed booking to active.
func (b Booking) CheckInUser(method, notes string, verifiedBy int64, now time.Time) (Booking, []Event, error) {
	if b.Status != BookingConfirmed {
		return b, nil, invalidState("check in booking", b.Status)
	}

	b.Status = BookingActive
	b.CheckIn = &CheckInRecord{
		Time:       now,
		Method:     method,
		Notes:      notes,
		VerifiedBy: verifiedBy,
	}
	b.UpdatedAt = now

	return b, []Event{NewEvent(EventBookingActivated, b, now)}, nil
}

// CheckOutUser completes an active booking. Overstay past endTime is
// recorded in whole minutes, rounded up; additional charges are added to
// the payment amount.
func (b Booking) CheckOutUser(method, notes string, verifiedBy int64, additionalCharges float64, now time.Time) (Booking, []Event, error) {
	if b.Status != BookingActive {
		return b, nil, invalidState("check out booking", b.Status)
	}

	extended := 0
	if now.After(b.EndTime) {
		extended = durationMinutes(b.EndTime, now)
	}

	b.Status = BookingCompleted
	b.CheckOut = &CheckOutRecord{
		Time:              now,
		Method:            method,
		Notes:             notes,
		VerifiedBy:        verifiedBy,
		ExtendedTime:      extended,
		AdditionalCharges: additionalCharges,
	}
	if additionalCharges > 0 {
		b.Payment.Amount = roundMoney(b.Payment.Amount + additionalCharges)
	}
	b.UpdatedAt = now

	return b, []Event{NewEvent(EventBookingCompleted, b, now)}, nil
}

// Refund tiers by lead time before the booking start.
const (
	fullRefundHours    = 24
	refund75Hours      = 12
	refund50Hours      = 6
	refund75Percentage = 0.75
	refund50Percentage = 0.50
)

// Cancel cancels any non-terminal booking. The refund is a deterministic
// function of the hours between now and the start time; when a refund is
// issued the payment flips to refunded and the booking lands in the
// refunded status, otherwise in cancelled. receiptID marks the refund as
// processed when non-empty.
func (b Booking) Cancel(cancelledBy int64, reason, receiptID string, now time.Time) (Booking, []Event, error) {
	if b.Status.IsTerminal() {
		return b, nil, invalidState("cancel booking", b.Status)
	}

	hoursUntilStart := b.StartTime.Sub(now).Hours()

	cancellation := &Cancellation{
		Time:        now,
		Reason:      reason,
		CancelledBy: cancelledBy,
	}
	switch {
	case hoursUntilStart >= fullRefundHours:
		cancellation.RefundEligible = true
		cancellation.RefundAmount = b.Payment.Amount
	case hoursUntilStart >= refund75Hours:
		cancellation.RefundEligible = true
		cancellation.RefundAmount = roundMoney(b.Payment.Amount * refund75Percentage)
	case hoursUntilStart >= refund50Hours:
		cancellation.RefundEligible = true
		cancellation.RefundAmount = roundMoney(b.Payment.Amount * refund50Percentage)
	default:
		cancellation.RefundEligible = false
		cancellation.RefundAmount = 0
	}

	b.Status = BookingCancelled
	if cancellation.RefundEligible && cancellation.RefundAmount > 0 {
		b.Status = BookingRefunded
		refundDate := now
		b.Payment.Status = PaymentRefunded
		b.Payment.RefundAmount = cancellation.RefundAmount
		b.Payment.RefundReason = reason
		b.Payment.RefundDate = &refundDate
		if receiptID != "" {
			b.Payment.Receipt = receiptID
			cancellation.RefundProcessed = true
			cancellation.RefundTransactionID = receiptID
		}
	}
	b.Cancellation = cancellation
	b.UpdatedAt = now

	return b, []Event{NewEvent(EventBookingCancelled, b, now)}, nil
}

// RequestExtension records a request to push the end time later. The caller
// runs the availability check for [endTime, endTime+additionalTime) on the
// booking's space and passes the outcome as conflict. A conflicting request
// is recorded as rejected and returned together with ErrConflict; the
// parent's end time, duration and payment stay untouched. Supplying a
// payment method auto-approves the extension immediately.
func (b Booking) RequestExtension(additionalMinutes int, paymentMethod, transactionID string, conflict bool, now time.Time) (Booking, []Event, error) {
	if b.Status != BookingConfirmed && b.Status != BookingActive {
		return b, nil, invalidState("extend booking", b.Status)
	}
	if additionalMinutes <= 0 {
		return b, nil, &ValidationError{Field: "additional_time", Reason: "must be a positive number of minutes"}
	}

	additionalAmount := roundMoney(b.Pricing.Rate * (float64(additionalMinutes) / 60))
	originalEnd := b.EndTime
	newEnd := originalEnd.Add(time.Duration(additionalMinutes) * time.Minute)

	ext := Extension{
		RequestTime:      now,
		AdditionalTime:   additionalMinutes,
		OriginalEndTime:  originalEnd,
		NewEndTime:       newEnd,
		Status:           ExtensionPending,
		AdditionalAmount: additionalAmount,
		PaymentStatus:    PaymentPending,
	}
	if paymentMethod != "" {
		ext.PaymentStatus = PaymentPaid
		ext.PaymentTransactionID = transactionID
	}

	if conflict {
		ext.Status = ExtensionRejected
		b.Extensions = appendExtension(b.Extensions, ext)
		b.UpdatedAt = now
		return b, nil, ErrConflict
	}

	var events []Event
	if paymentMethod != "" {
		ext.Status = ExtensionApproved
		b.EndTime = newEnd
		b.Duration += additionalMinutes
		b.Payment.Amount = roundMoney(b.Payment.Amount + additionalAmount)
		events = append(events, NewEvent(EventBookingExtended, b, now))
	}

	b.Extensions = appendExtension(b.Extensions, ext)
	b.UpdatedAt = now

	return b, events, nil
}

// ApproveExtension approves the pending extension at the given index,
// irreversibly shifting the end time forward.
func (b Booking) ApproveExtension(index int, transactionID string, now time.Time) (Booking, []Event, error) {
	if index < 0 || index >= len(b.Extensions) {
		return b, nil, fmt.Errorf("extension %d: %w", index, ErrNotFound)
	}

	exts := appendExtension(nil, b.Extensions...)
	ext := exts[index]
	if ext.Status != ExtensionPending {
		return b, nil, invalidState("approve extension", BookingStatus(ext.Status))
	}

	ext.Status = ExtensionApproved
	if transactionID != "" {
		ext.PaymentStatus = PaymentPaid
		ext.PaymentTransactionID = transactionID
	}
	exts[index] = ext

	b.Extensions = exts
	b.EndTime = ext.NewEndTime
	b.Duration += ext.AdditionalTime
	b.Payment.Amount = roundMoney(b.Payment.Amount + ext.AdditionalAmount)
	b.UpdatedAt = now

	return b, []Event{NewEvent(EventBookingExtended, b, now)}, nil
}

// AddRating attaches a rating to a completed booking. Ratings are the only
// mutation allowed in a terminal status.
func (b Booking) AddRating(score int, comment string, now time.Time) (Booking, []Event, error) {
	if b.Status != BookingCompleted {
		return b, nil, invalidState("rate booking", b.Status)
	}
	if score < 1 || score > 5 {
		return b, nil, &ValidationError{Field: "score", Reason: "must be between 1 and 5"}
	}

	ratings := make([]Rating, len(b.Ratings), len(b.Ratings)+1)
	copy(ratings, b.Ratings)
	b.Ratings = append(ratings, Rating{Score: score, Comment: comment, Date: now})
	b.UpdatedAt = now

	return b, []Event{NewEvent(EventBookingRated, b, now)}, nil
}

// AppendNotification records a delivered notification on the booking.
func (b Booking) AppendNotification(notifType, channel, content string, now time.Time) Booking {
	records := make([]NotificationRecord, len(b.Notifications), len(b.Notifications)+1)
	copy(records, b.Notifications)
	b.Notifications = append(records, NotificationRecord{
		Type:    notifType,
		Sent:    true,
		SentAt:  now,
		Channel: channel,
		Content: content,
	})
	b.UpdatedAt = now
	return b
}

// AddNote appends a free-text note.
func (b Booking) AddNote(text string, addedBy int64, isPrivate bool, now time.Time) Booking {
	notes := make([]Note, len(b.Notes), len(b.Notes)+1)
	copy(notes, b.Notes)
	b.Notes = append(notes, Note{Text: text, AddedBy: addedBy, AddedAt: now, IsPrivate: isPrivate})
	b.UpdatedAt = now
	return b
}

func appendExtension(dst []Extension, exts ...Extension) []Extension {
	out := make([]Extension, len(dst), len(dst)+len(exts))
	copy(out, dst)
	return append(out, exts...)
}
