package stubsource

import (
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/secretsmanager"
)

// SecretsManagerConfig locates a stub manifest stored as an AWS
// Secrets Manager secret, ported from getAwsSecret's session/client
// setup in the teacher's AWS operator (pkg/graft/operators/op_aws.go).
type SecretsManagerConfig struct {
	Region string
	// Prefix is prepended to the manifest name to build the secret id.
	Prefix string
}

// NewSecretsManagerFetcher builds a Fetcher backed by AWS Secrets
// Manager: each Fetch issues one GetSecretValue call (memoized by the
// caching wrapper) and decodes the secret string as a JSON Manifest.
func NewSecretsManagerFetcher(cfg SecretsManagerConfig) (Fetcher, error) {
	sess, err := session.NewSessionWithOptions(session.Options{
		Config:            aws.Config{Region: aws.String(cfg.Region)},
		SharedConfigState: session.SharedConfigEnable,
	})
	if err != nil {
		return nil, fmt.Errorf("stubsource: creating AWS session: %w", err)
	}
	client := secretsmanager.New(sess)

	return newCachingFetcher(func(name string) (*Manifest, error) {
		id := cfg.Prefix + name
		out, err := client.GetSecretValue(&secretsmanager.GetSecretValueInput{
			SecretId: aws.String(id),
		})
		if err != nil {
			return nil, fmt.Errorf("stubsource: fetching secret %s: %w", id, err)
		}
		return ParseManifest([]byte(aws.StringValue(out.SecretString)))
	}), nil
}
