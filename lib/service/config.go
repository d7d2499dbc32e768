package service

type Config struct {
	DatabaseUri             string  `envconfig:"DATABASE_URI" default:"file:invoicehub.db"`
	DatabaseMaxConns        int     `envconfig:"DATABASE_MAX_CONNS" default:"10"`
	DatabaseMaxIdleConns    int     `envconfig:"DATABASE_MAX_IDLE_CONNS" default:"5"`
	DatabaseConnMaxLifetime int     `envconfig:"DATABASE_CONN_MAX_LIFETIME" default:"1800"` // 30 minutes
	SentryDSN               string  `envconfig:"SENTRY_DSN"`
	SentryTracesSampleRate  float64 `envconfig:"SENTRY_TRACES_SAMPLE_RATE"`
	LogFilePath             string  `envconfig:"LOG_FILE_PATH"`
	AdminToken              string  `envconfig:"ADMIN_TOKEN"`
	Host                    string  `envconfig:"HOST" default:"localhost:3000"`
	Port                    int     `envconfig:"PORT" default:"3000"`
	DefaultRateLimit        int     `envconfig:"DEFAULT_RATE_LIMIT" default:"10"`
	StrictRateLimit         int     `envconfig:"STRICT_RATE_LIMIT" default:"10"`
	BurstRateLimit          int     `envconfig:"BURST_RATE_LIMIT" default:"1"`
	WebhookUrl              string  `envconfig:"WEBHOOK_URL"`
	// Invoices scoring at or below the threshold are listed without review.
	ListingThreshold int64 `envconfig:"LISTING_THRESHOLD" default:"40"`
	// CustodyAccount is the payment-token account that holds repayments
	// until the share holders claim them. It is also the spender that
	// investors and the treasury approve.
	CustodyAccount string `envconfig:"CUSTODY_ACCOUNT" default:"invoicehub-custody"`
	// RiskPollInterval enables the risk oracle routine when > 0 (seconds).
	RiskPollInterval        int    `envconfig:"RISK_POLL_INTERVAL" default:"0"`
	RabbitMQUri             string `envconfig:"RABBITMQ_URI"`
	RabbitMQInvoiceExchange string `envconfig:"RABBITMQ_INVOICE_EXCHANGE" default:"invoicehub_invoice"`
}
