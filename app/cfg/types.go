package cfg

type Cfg struct {
	// HTTP server configuration
	Port    string
	BaseUrl string

	// Relay configuration
	RelayURL     string
	RelayTimeout int     // seconds
	RelayRate    float64 // requests per second, 0 disables limiting

	// Reconciliation configuration
	RefreshInterval   int // seconds, measured from the end of a cycle
	WorkerCount       int
	IsolateFeedErrors bool
	FeedsFile         string

	// Application metadata
	Lang      string
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
