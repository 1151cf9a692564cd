// Package stubsource provides pluggable fetchers that hand the Module
// registry (pkg/sift.Registry) a JSON stub manifest describing a
// third-party module's member signatures, re-themed from the teacher's
// remote-secret-fetch plumbing (pkg/graft/vault_tasks.go,
// pkg/graft/operators/op_vault.go, op_vault_try.go): fetch a keyed blob
// from a remote store, cache it, inject it - only the payload changes
// from "secret value" to "stub manifest".
package stubsource

import "encoding/json"

// Manifest is the decoded stub manifest: one entry per module member
// name, the declared permitted argument-type set used by
// ARGUMENT_INVALID validation (spec.md 4.10).
type Manifest struct {
	Module  string              `json:"module"`
	Members map[string][]string `json:"members"`
}

// ParseManifest decodes a fetched manifest blob.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Fetcher retrieves a stub manifest by name from a remote store. Each
// concrete fetcher (S3, Secrets Manager, SSM, Vault) caches fetched
// manifests for the process lifetime, per the Knowledge base / Module
// registry's write-once discipline (spec.md 5).
type Fetcher interface {
	Fetch(name string) (*Manifest, error)
}

// cachingFetcher wraps a Fetcher with a process-lifetime, fetch-once
// memo - the same shape as the teacher's globalKV-backed single fetch
// per secret path, generalized to any backend.
type cachingFetcher struct {
	fetch func(name string) (*Manifest, error)
	cache map[string]*Manifest
}

func newCachingFetcher(fetch func(name string) (*Manifest, error)) *cachingFetcher {
	return &cachingFetcher{fetch: fetch, cache: map[string]*Manifest{}}
}

func (c *cachingFetcher) Fetch(name string) (*Manifest, error) {
	if m, ok := c.cache[name]; ok {
		return m, nil
	}
	m, err := c.fetch(name)
	if err != nil {
		return nil, err
	}
	c.cache[name] = m
	return m, nil
}
