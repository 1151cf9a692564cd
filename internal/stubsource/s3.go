package stubsource

import (
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// S3Config locates a stub manifest object in an S3 bucket, the same
// session-then-client construction the teacher's AWS operator uses for
// Secrets Manager and SSM (pkg/graft/operators/op_aws.go), pointed at
// S3 instead.
type S3Config struct {
	Region string
	Bucket string
	// Prefix is prepended to the manifest name to build the object key,
	// e.g. "stubs/" + name + ".json".
	Prefix string
}

// NewS3Fetcher builds a Fetcher backed by an S3 bucket: each Fetch
// issues one GetObject call (memoized by the caching wrapper) and
// decodes the body as a JSON Manifest.
func NewS3Fetcher(cfg S3Config) (Fetcher, error) {
	sess, err := session.NewSessionWithOptions(session.Options{
		Config:            aws.Config{Region: aws.String(cfg.Region)},
		SharedConfigState: session.SharedConfigEnable,
	})
	if err != nil {
		return nil, fmt.Errorf("stubsource: creating AWS session: %w", err)
	}
	client := s3.New(sess)

	return newCachingFetcher(func(name string) (*Manifest, error) {
		key := cfg.Prefix + name + ".json"
		out, err := client.GetObject(&s3.GetObjectInput{
			Bucket: aws.String(cfg.Bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			return nil, fmt.Errorf("stubsource: fetching s3://%s/%s: %w", cfg.Bucket, key, err)
		}
		defer out.Body.Close()

		data, err := io.ReadAll(out.Body)
		if err != nil {
			return nil, fmt.Errorf("stubsource: reading s3://%s/%s: %w", cfg.Bucket, key, err)
		}
		return ParseManifest(data)
	}), nil
}
