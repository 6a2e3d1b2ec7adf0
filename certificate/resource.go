package certificate

// Resource is a CA-issued certificate plus the key it was requested with.
// Certificate is the full PEM chain as returned by the server; PrivateKey
// is PEM-encoded separately so callers can persist them independently.
type Resource struct {
	Domain      string
	CertURL     string
	PrivateKey  []byte
	Certificate []byte
}
