package stubsource

import (
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ssm"
)

// SSMConfig locates a stub manifest stored as an AWS SSM Parameter
// Store parameter, ported from getAwsParam's session/client setup in
// the teacher's AWS operator (pkg/graft/operators/op_aws.go).
type SSMConfig struct {
	Region string
	// Prefix is prepended to the manifest name to build the parameter
	// name.
	Prefix string
}

// NewSSMFetcher builds a Fetcher backed by AWS SSM Parameter Store:
// each Fetch issues one GetParameter call with decryption enabled
// (memoized by the caching wrapper) and decodes the value as a JSON
// Manifest.
func NewSSMFetcher(cfg SSMConfig) (Fetcher, error) {
	sess, err := session.NewSessionWithOptions(session.Options{
		Config:            aws.Config{Region: aws.String(cfg.Region)},
		SharedConfigState: session.SharedConfigEnable,
	})
	if err != nil {
		return nil, fmt.Errorf("stubsource: creating AWS session: %w", err)
	}
	client := ssm.New(sess)

	return newCachingFetcher(func(name string) (*Manifest, error) {
		paramName := cfg.Prefix + name
		out, err := client.GetParameter(&ssm.GetParameterInput{
			Name:           aws.String(paramName),
			WithDecryption: aws.Bool(true),
		})
		if err != nil {
			return nil, fmt.Errorf("stubsource: fetching parameter %s: %w", paramName, err)
		}
		return ParseManifest([]byte(aws.StringValue(out.Parameter.Value)))
	}), nil
}
