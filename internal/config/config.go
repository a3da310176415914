package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server         ServerConfig
	MongoDB        MongoDBConfig
	JWT            JWTConfig
	Reservation    ReservationConfig
	PaymentMethods PaymentMethodsConfig
	LogLevel       string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port         string
	AllowedHosts []string
}

// MongoDBConfig holds MongoDB-specific configuration
type MongoDBConfig struct {
	URI      string
	Database string
}

// JWTConfig holds JWT-specific configuration
type JWTConfig struct {
	Secret    string
	ExpiresIn int // seconds
}

// ReservationConfig holds the hold-expiry policy. The TTL is attached
// to a reservation when it is created, never recomputed at read time.
type ReservationConfig struct {
	TTLMinutes      int // user-initiated holds
	StaffTTLMinutes int // staff-initiated holds on behalf of a user
}

// TTL returns the hold duration for user-initiated reservations.
func (r ReservationConfig) TTL() time.Duration {
	return time.Duration(r.TTLMinutes) * time.Minute
}

// StaffTTL returns the hold duration for staff-initiated reservations.
func (r ReservationConfig) StaffTTL() time.Duration {
	return time.Duration(r.StaffTTLMinutes) * time.Minute
}

// PaymentMethodsConfig holds the transfer coordinates shown on the
// payment form, so changing an account does not need a redeploy.
type PaymentMethodsConfig struct {
	PagoMovil PagoMovilMethodConfig
	Binance   BinanceMethodConfig
	Zelle     ZelleMethodConfig
	Efectivo  EfectivoMethodConfig
}

// PagoMovilMethodConfig holds the national mobile-payment coordinates
type PagoMovilMethodConfig struct {
	Enabled bool
	Bank    string
	Phone   string
	DocID   string
}

// BinanceMethodConfig holds the Binance Pay destination
type BinanceMethodConfig struct {
	Enabled bool
	Email   string
}

// ZelleMethodConfig holds the Zelle destination
type ZelleMethodConfig struct {
	Enabled bool
	Email   string
	Holder  string
}

// EfectivoMethodConfig holds the cash hand-off instructions
type EfectivoMethodConfig struct {
	Enabled      bool
	Instructions string
}

// Load loads configuration from environment variables and config files
func Load(path string) (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(path)
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// It's okay if config file is not found, we'll use environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults sets default values for configuration
func setDefaults() {
	viper.SetDefault("Server.Port", "4000")
	viper.SetDefault("Server.AllowedHosts", []string{"localhost:3000"})
	viper.SetDefault("MongoDB.URI", "mongodb://localhost:27017")
	viper.SetDefault("MongoDB.Database", "rifas-el-negro")
	viper.SetDefault("JWT.ExpiresIn", 7*24*60*60) // 7 days
	viper.SetDefault("Reservation.TTLMinutes", 15)
	viper.SetDefault("Reservation.StaffTTLMinutes", 6*60)
	viper.SetDefault("PaymentMethods.PagoMovil.Enabled", true)
	viper.SetDefault("PaymentMethods.PagoMovil.Bank", "Banco de Venezuela")
	viper.SetDefault("PaymentMethods.PagoMovil.Phone", "0414-0000000")
	viper.SetDefault("PaymentMethods.PagoMovil.DocID", "V-00000000")
	viper.SetDefault("PaymentMethods.Binance.Enabled", true)
	viper.SetDefault("PaymentMethods.Binance.Email", "pagos@rifaselnegro.com")
	viper.SetDefault("PaymentMethods.Zelle.Enabled", true)
	viper.SetDefault("PaymentMethods.Zelle.Email", "pagos@rifaselnegro.com")
	viper.SetDefault("PaymentMethods.Zelle.Holder", "Rifas El Negro")
	viper.SetDefault("PaymentMethods.Efectivo.Enabled", true)
	viper.SetDefault("PaymentMethods.Efectivo.Instructions", "Entrega en el punto de venta antes del sorteo")
	viper.SetDefault("LogLevel", "info")
}
