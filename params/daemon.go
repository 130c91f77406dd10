package params

type WebDaemonConfig struct {
	NetAddr string
	NetPort int
}

func DefaultWebDaemonConfig() *WebDaemonConfig {
	return &WebDaemonConfig{
		NetAddr: "localhost",
		NetPort: 8080,
	}
}
