package stubsource

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/http"
	"net/url"

	"github.com/cloudfoundry-community/vaultkv"
)

// VaultConfig locates a Vault KV mount holding stub manifests, carried
// straight over from the teacher's initializeVaultClient
// (pkg/graft/operators/op_vault.go): address, token, namespace, and a
// TLS-verify escape hatch for internal CAs.
type VaultConfig struct {
	Address            string
	Token              string
	Namespace          string
	InsecureSkipVerify bool
	// MountPrefix is prepended to the manifest name to build the KV
	// path, e.g. "secret/sift-stubs" + "/" + name.
	MountPrefix string
}

// NewVaultFetcher builds a Fetcher backed by a Vault KV mount. Each
// Fetch reads mountPrefix/name and decodes its "manifest" key as a JSON
// stub Manifest, mirroring getVaultSecretWithClient's
// kvClient.Get(secret, &ret, nil) shape.
func NewVaultFetcher(cfg VaultConfig) (Fetcher, error) {
	parsed, err := url.Parse(cfg.Address)
	if err != nil {
		return nil, fmt.Errorf("stubsource: parsing Vault address %q: %w", cfg.Address, err)
	}
	if parsed.Port() == "" {
		if parsed.Scheme == "http" {
			parsed.Host += ":80"
		} else {
			parsed.Host += ":443"
		}
	}

	roots, err := x509.SystemCertPool()
	if err != nil {
		return nil, fmt.Errorf("stubsource: loading system CA pool: %w", err)
	}

	client := &vaultkv.Client{
		AuthToken: cfg.Token,
		VaultURL:  parsed,
		Namespace: cfg.Namespace,
		Client: &http.Client{
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				TLSClientConfig: &tls.Config{
					RootCAs:            roots,
					InsecureSkipVerify: cfg.InsecureSkipVerify,
				},
			},
		},
	}
	kv := client.NewKV()

	return newCachingFetcher(func(name string) (*Manifest, error) {
		path := cfg.MountPrefix + "/" + name
		var raw map[string]interface{}
		if _, err := kv.Get(path, &raw, nil); err != nil {
			return nil, fmt.Errorf("stubsource: fetching %s from vault: %w", path, err)
		}
		blob, ok := raw["manifest"].(string)
		if !ok {
			return nil, fmt.Errorf("stubsource: %s has no string \"manifest\" key", path)
		}
		return ParseManifest([]byte(blob))
	}), nil
}
