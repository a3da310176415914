package services

import (
	"github.com/rifas-el-negro/raffle-backend/internal/config"
	"github.com/rifas-el-negro/raffle-backend/internal/models"
)

// MethodCatalog builds the payment method catalog from the configured
// transfer coordinates. Each entry carries only the account fields that
// exist for its method.
func MethodCatalog(cfg config.PaymentMethodsConfig) []models.PaymentMethod {
	return []models.PaymentMethod{
		{
			Name:        models.MethodPagoMovil,
			DisplayName: "Pago Móvil",
			Active:      cfg.PagoMovil.Enabled,
			AccountInfo: models.AccountInfo{
				PagoMovil: &models.PagoMovilAccount{
					Bank:  cfg.PagoMovil.Bank,
					Phone: cfg.PagoMovil.Phone,
					DocID: cfg.PagoMovil.DocID,
				},
			},
		},
		{
			Name:        models.MethodBinance,
			DisplayName: "Binance Pay",
			Active:      cfg.Binance.Enabled,
			AccountInfo: models.AccountInfo{
				Binance: &models.BinanceAccount{
					Email: cfg.Binance.Email,
				},
			},
		},
		{
			Name:        models.MethodZelle,
			DisplayName: "Zelle",
			Active:      cfg.Zelle.Enabled,
			AccountInfo: models.AccountInfo{
				Zelle: &models.ZelleAccount{
					Email:  cfg.Zelle.Email,
					Holder: cfg.Zelle.Holder,
				},
			},
		},
		{
			Name:        models.MethodEfectivo,
			DisplayName: "Efectivo",
			Active:      cfg.Efectivo.Enabled,
			AccountInfo: models.AccountInfo{
				Efectivo: &models.EfectivoAccount{
					Instructions: cfg.Efectivo.Instructions,
				},
			},
		},
	}
}
