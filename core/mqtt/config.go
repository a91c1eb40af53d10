package mqtt

// Config holds configuration for the MQTT bridge.
type Config struct {
	// Enabled turns the bridge on. When off, pin changes stay local.
	Enabled bool `mapstructure:"enabled" default:"false"`
	// Broker is the broker URL, e.g. tcp://localhost:1883.
	Broker string `mapstructure:"broker" default:"tcp://localhost:1883"`
	// ClientID identifies this process at the broker. Empty generates one per run.
	ClientID string `mapstructure:"client_id" default:""`
	// Prefix is the topic root; pins live under <prefix>/<number>/state and /set.
	Prefix string `mapstructure:"prefix" default:"home/gpio"`
	// Username is the optional broker user.
	Username string `mapstructure:"username" default:""`
	// Password is the optional broker password.
	Password string `mapstructure:"password" default:""`
	// QoS is used for every publish and subscription.
	QoS int `mapstructure:"qos" default:"1"`
	// TimeoutSeconds bounds how long a single broker operation is awaited before it is logged.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"5"`
	// QueueSize bounds the number of broker operations waiting to be sent.
	QueueSize int `mapstructure:"queue_size" default:"256"`
}
