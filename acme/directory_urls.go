package acme

// Well-known Let's Encrypt ACME directory URLs.
const (
	LEDirectoryProduction = "https://acme-v02.api.letsencrypt.org/directory"
	LEDirectoryStaging    = "https://acme-staging-v02.api.letsencrypt.org/directory"
)
