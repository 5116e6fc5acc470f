package publish

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3PutObjectAPI is the subset of *s3.Client used by S3Sink.
type S3PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Sink uploads each file as an object in a bucket.
//
// Example usage:
//
//	client, err := publish.NewS3Client(publish.S3Options{Region: "eu-west-1"})
//	if err != nil {
//		return err
//	}
//	sink := publish.NewS3Sink(client, "my-site", "www/")
type S3Sink struct {
	client S3PutObjectAPI
	bucket string
	prefix string
}

// NewS3Sink creates a sink that writes key prefix+path for every file.
func NewS3Sink(client S3PutObjectAPI, bucket, prefix string) *S3Sink {
	return &S3Sink{client: client, bucket: bucket, prefix: prefix}
}

// Write uploads data with a content type derived from the file extension.
func (s *S3Sink) Write(ctx context.Context, p string, data []byte) error {
	name, err := cleanPath(p)
	if err != nil {
		return err
	}
	key := path.Join(s.prefix, name)

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType(name)),
	})
	if err != nil {
		return fmt.Errorf("s3 upload %s: %w", key, err)
	}
	return nil
}

// S3Options configures NewS3Client.
type S3Options struct {
	// Region is the bucket region. Default: $AWS_REGION.
	Region string

	// Endpoint overrides the service endpoint, for S3-compatible stores
	// such as MinIO or R2.
	Endpoint string

	// PathStyle addresses buckets as endpoint/bucket instead of
	// bucket.endpoint.
	PathStyle bool
}

// ErrMissingCredentials is returned when no static credentials are found in
// the environment.
var ErrMissingCredentials = errors.New("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set")

// NewS3Client builds an S3 client from opts and the standard AWS_*
// environment variables.
func NewS3Client(opts S3Options) (*s3.Client, error) {
	region := opts.Region
	if region == "" {
		region = os.Getenv("AWS_REGION")
	}
	if region == "" {
		region = "us-east-1"
	}

	creds := aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
		id, secret := os.Getenv("AWS_ACCESS_KEY_ID"), os.Getenv("AWS_SECRET_ACCESS_KEY")
		if id == "" || secret == "" {
			return aws.Credentials{}, ErrMissingCredentials
		}
		return aws.Credentials{
			AccessKeyID:     id,
			SecretAccessKey: secret,
			SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
			Source:          "environment",
		}, nil
	})

	s3opts := s3.Options{
		Region:       region,
		Credentials:  aws.NewCredentialsCache(creds),
		UsePathStyle: opts.PathStyle,
	}
	if opts.Endpoint != "" {
		s3opts.BaseEndpoint = aws.String(opts.Endpoint)
	}
	return s3.New(s3opts), nil
}
