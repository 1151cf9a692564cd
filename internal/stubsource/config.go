package stubsource

import (
	"fmt"

	"github.com/siftlang/sift/internal/config"
)

// FromConfig builds a Fetcher for one configured stub source entry,
// dispatching on its Type field ("s3", "secretsmanager", "ssm",
// "vault") the way the teacher's engine construction dispatches on a
// target's backend kind.
func FromConfig(cfg config.StubSourceConfig) (Fetcher, error) {
	switch cfg.Type {
	case "s3":
		return NewS3Fetcher(S3Config{Region: cfg.Region, Bucket: cfg.Address, Prefix: cfg.Prefix})
	case "secretsmanager":
		return NewSecretsManagerFetcher(SecretsManagerConfig{Region: cfg.Region, Prefix: cfg.Prefix})
	case "ssm":
		return NewSSMFetcher(SSMConfig{Region: cfg.Region, Prefix: cfg.Prefix})
	case "vault":
		return NewVaultFetcher(VaultConfig{Address: cfg.Address, Token: cfg.Token, MountPrefix: cfg.Prefix})
	default:
		return nil, fmt.Errorf("stubsource: unknown stub source type %q", cfg.Type)
	}
}

// FetchAll resolves every configured stub source's manifest in order,
// used at startup to seed the Module registry (pkg/sift.Registry)
// before analysis begins.
func FetchAll(cfgs []config.StubSourceConfig) ([]*Manifest, error) {
	var manifests []*Manifest
	for _, c := range cfgs {
		f, err := FromConfig(c)
		if err != nil {
			return nil, err
		}
		m, err := f.Fetch(c.Address)
		if err != nil {
			return nil, fmt.Errorf("stubsource: fetching %s manifest: %w", c.Type, err)
		}
		manifests = append(manifests, m)
	}
	return manifests, nil
}
