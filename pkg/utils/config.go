package utils

import (
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	VNPay    VNPayConfig
	Frontend FrontendConfig
	Email    EmailConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

// VNPayConfig holds the merchant credentials shared with the payment gateway.
// HashSecret signs outbound redirect URLs and verifies inbound callbacks.
type VNPayConfig struct {
	TmnCode    string
	HashSecret string
	PayURL     string
	ReturnURL  string
}

// FrontendConfig lists the pages the gateway callback redirects the member to.
type FrontendConfig struct {
	PaymentSuccessURL string
	PaymentFailureURL string
}

type EmailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("VNPAY_PAY_URL", "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html")
	viper.SetDefault("PAYMENT_SUCCESS_URL", "/payment/success")
	viper.SetDefault("PAYMENT_FAILURE_URL", "/payment/failure")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		VNPay: VNPayConfig{
			TmnCode:    viper.GetString("VNPAY_TMN_CODE"),
			HashSecret: viper.GetString("VNPAY_HASH_SECRET"),
			PayURL:     viper.GetString("VNPAY_PAY_URL"),
			ReturnURL:  viper.GetString("VNPAY_RETURN_URL"),
		},
		Frontend: FrontendConfig{
			PaymentSuccessURL: viper.GetString("PAYMENT_SUCCESS_URL"),
			PaymentFailureURL: viper.GetString("PAYMENT_FAILURE_URL"),
		},
		Email: EmailConfig{
			Host:     viper.GetString("SMTP_HOST"),
			Port:     viper.GetInt("SMTP_PORT"),
			User:     viper.GetString("SMTP_USER"),
			Password: viper.GetString("SMTP_PASS"),
			From:     viper.GetString("EMAIL_FROM"),
		},
	}

	return config, nil
}
