package images

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

type S3Options struct {
	Bucket    string
	Region    string
	Endpoint  string
	PathStyle bool
	AccessKey string
	SecretKey string
}

type HeadObjectAPI interface {
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// S3Prober asks the object storage about URLs under its base and leaves every
// other URL to Fallback.
type S3Prober struct {
	API      HeadObjectAPI
	Bucket   string
	BaseURL  string
	Fallback Prober
	Log      *slog.Logger
}

func NewS3Client(ctx context.Context, o S3Options) (*s3.Client, error) {
	region := o.Region
	if region == "" {
		region = "ru-central1"
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if o.AccessKey != "" {
		creds := aws.Credentials{AccessKeyID: o.AccessKey, SecretAccessKey: o.SecretKey, Source: "storeadmin"}
		opts = append(opts, awsconfig.WithCredentialsProvider(aws.CredentialsProviderFunc(
			func(context.Context) (aws.Credentials, error) { return creds, nil },
		)))
	} else {
		// public bucket: requests go unsigned
		opts = append(opts, awsconfig.WithCredentialsProvider(aws.AnonymousCredentials{}))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return s3.NewFromConfig(cfg, func(so *s3.Options) {
		if o.Endpoint != "" {
			so.BaseEndpoint = aws.String(o.Endpoint)
		}
		so.UsePathStyle = o.PathStyle
	}), nil
}

func (p *S3Prober) Probe(ctx context.Context, rawURL string) error {
	key, ok := p.keyFor(rawURL)
	if !ok {
		if p.Fallback == nil {
			return fmt.Errorf("image probe: %q is outside the storage", rawURL)
		}
		return p.Fallback.Probe(ctx, rawURL)
	}

	out, err := p.API.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(p.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && p.Log != nil {
			p.Log.Debug("head object failed", "key", key, "code", apiErr.ErrorCode())
		}
		return fmt.Errorf("head %s: %w", key, err)
	}

	if ct := aws.ToString(out.ContentType); ct != "" && !strings.HasPrefix(ct, "image/") && ct != "application/octet-stream" {
		return fmt.Errorf("%w: %s", ErrNotImage, ct)
	}
	return nil
}

// keyFor strips the storage base and the bucket segment of path-style URLs.
func (p *S3Prober) keyFor(rawURL string) (string, bool) {
	base := strings.TrimRight(p.BaseURL, "/")
	if base == "" || !strings.HasPrefix(rawURL, base+"/") {
		return "", false
	}
	rest := strings.TrimPrefix(rawURL, base+"/")
	if p.Bucket != "" {
		rest = strings.TrimPrefix(rest, p.Bucket+"/")
	}
	if i := strings.IndexAny(rest, "?#"); i >= 0 {
		rest = rest[:i]
	}
	key, err := url.PathUnescape(rest)
	if err != nil || key == "" {
		return "", false
	}
	return key, true
}
