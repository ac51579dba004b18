package outbound

import "time"

// Config holds the dispatcher tunables, loadable from the environment.
type Config struct {
	DispatchInterval time.Duration `env:"OUTBOUND_DISPATCH_INTERVAL" envDefault:"2s"`
	BatchSize        int           `env:"OUTBOUND_BATCH_SIZE" envDefault:"5"`
	SendTimeout      time.Duration `env:"OUTBOUND_SEND_TIMEOUT" envDefault:"0"`
}
