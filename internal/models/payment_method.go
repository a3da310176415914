package models

// PaymentMethodName enumerates the in-app transfer methods a payer can
// declare on a payment record.
type PaymentMethodName string

const (
	MethodPagoMovil PaymentMethodName = "pago_movil"
	MethodBinance   PaymentMethodName = "binance"
	MethodZelle     PaymentMethodName = "zelle"
	MethodEfectivo  PaymentMethodName = "efectivo"
)

// Valid reports whether the name is one of the known methods.
func (m PaymentMethodName) Valid() bool {
	switch m {
	case MethodPagoMovil, MethodBinance, MethodZelle, MethodEfectivo:
		return true
	}
	return false
}

// PaymentMethod describes how to pay through one method. AccountInfo is
// a tagged variant: exactly one of its per-method structs is set,
// matching Name.
type PaymentMethod struct {
	Name        PaymentMethodName `json:"method_name"`
	DisplayName string            `json:"display_name"`
	Active      bool              `json:"is_active"`
	AccountInfo AccountInfo       `json:"account_info"`
}

// AccountInfo carries the per-method transfer coordinates. Only the
// field matching the method name is populated.
type AccountInfo struct {
	PagoMovil *PagoMovilAccount `json:"pago_movil,omitempty"`
	Binance   *BinanceAccount   `json:"binance,omitempty"`
	Zelle     *ZelleAccount     `json:"zelle,omitempty"`
	Efectivo  *EfectivoAccount  `json:"efectivo,omitempty"`
}

// PagoMovilAccount holds the national mobile-payment coordinates.
type PagoMovilAccount struct {
	Bank  string `json:"bank"`
	Phone string `json:"phone"`
	DocID string `json:"document_id"`
}

// BinanceAccount holds a Binance Pay destination.
type BinanceAccount struct {
	Email string `json:"email"`
}

// ZelleAccount holds a Zelle destination.
type ZelleAccount struct {
	Email  string `json:"email"`
	Holder string `json:"holder"`
}

// EfectivoAccount holds the cash hand-off instructions.
type EfectivoAccount struct {
	Instructions string `json:"instructions"`
}
