package models

import (
	"testing"
	"time"
)

func TestExpired(t *testing.T) {
	t.Parallel()

	now := time.Now()
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	cases := []struct {
		name   string
		number RaffleNumber
		want   bool
	}{
		{"available never expires", RaffleNumber{Status: NumberStatusAvailable}, false},
		{"sold never expires", RaffleNumber{Status: NumberStatusSold, ExpiresAt: &past}, false},
		{"reserved before deadline", RaffleNumber{Status: NumberStatusReserved, ExpiresAt: &future}, false},
		{"reserved past deadline", RaffleNumber{Status: NumberStatusReserved, ExpiresAt: &past}, true},
		{"reserved without deadline", RaffleNumber{Status: NumberStatusReserved}, false},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			if got := c.number.Expired(now); got != c.want {
				t.Errorf("Expired() = %v, want %v", got, c.want)
			}
		})
	}
}

func TestPaymentMethodNameValid(t *testing.T) {
	t.Parallel()

	for _, m := range []PaymentMethodName{MethodPagoMovil, MethodBinance, MethodZelle, MethodEfectivo} {
		if !m.Valid() {
			t.Errorf("expected %q to be valid", m)
		}
	}
	for _, m := range []PaymentMethodName{"", "paypal", "PAGO_MOVIL"} {
		if m.Valid() {
			t.Errorf("expected %q to be invalid", m)
		}
	}
}
