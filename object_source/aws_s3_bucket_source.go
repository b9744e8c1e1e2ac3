package object_source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	typehelpers "github.com/turbot/go-kit/types"
	"github.com/turbot/tailpipe-file-ingest/constants"
	"github.com/turbot/tailpipe-file-ingest/rate_limiter"
	"github.com/turbot/tailpipe-file-ingest/types"
)

const (
	AwsS3BucketSourceIdentifier = "aws_s3_bucket"
	defaultBucketRegion         = "us-east-1"
	maxListKeys                 = 1000
	maxRetryAttempts            = 5
	assumeRoleDuration          = time.Hour
)

// AwsS3BucketSource is an [ObjectSource] implementation that reads objects from an S3 bucket
type AwsS3BucketSource struct {
	Config *AwsS3BucketSourceConfig

	client  *s3.Client
	limiter *rate_limiter.APILimiter
}

func NewAwsS3BucketSource(ctx context.Context, c *AwsS3BucketSourceConfig) (*AwsS3BucketSource, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s config: %w", AwsS3BucketSourceIdentifier, err)
	}
	if c.Region == nil {
		slog.Info("No region set, using default", "region", defaultBucketRegion)
		c.Region = aws.String(defaultBucketRegion)
	}

	limiter, err := newLimiter(AwsS3BucketSourceIdentifier, c.limits())
	if err != nil {
		return nil, err
	}

	s := &AwsS3BucketSource{Config: c, limiter: limiter}
	client, err := s.getClient(ctx)
	if err != nil {
		return nil, err
	}
	s.client = client

	slog.Info("Initialized AwsS3BucketSource", "bucket", c.Bucket, "region", typehelpers.SafeString(c.Region), "role_arn", typehelpers.SafeString(c.RoleArn))
	return s, nil
}

func (s *AwsS3BucketSource) Identifier() string {
	return AwsS3BucketSourceIdentifier
}

func (s *AwsS3BucketSource) Location() string {
	return s.Config.Bucket
}

func (s *AwsS3BucketSource) Close() error {
	return nil
}

func (s *AwsS3BucketSource) List(ctx context.Context, prefix string, recursive bool, fn func(*types.ObjectInfo) error) error {
	input := &s3.ListObjectsV2Input{
		Bucket:  aws.String(s.Config.Bucket),
		MaxKeys: aws.Int32(maxListKeys),
	}
	if !recursive {
		// limit results to the exact folder given by the prefix
		if prefix != "" && !strings.HasSuffix(prefix, "/") {
			prefix += "/"
		}
		input.Delimiter = aws.String("/")
	}
	if prefix != "" {
		input.Prefix = aws.String(prefix)
	}

	paginator := s3.NewListObjectsV2Paginator(s.client, input)
	pages, count := 0, 0
	for paginator.HasMorePages() {
		var output *s3.ListObjectsV2Output
		err := s.limiter.Do(ctx, func() error {
			var err error
			output, err = paginator.NextPage(ctx)
			return err
		})
		if err != nil {
			return fmt.Errorf("failed to get page of S3 objects, %w", err)
		}
		pages++
		slog.Debug("Listed page of S3 objects", "bucket", s.Config.Bucket, "page", pages, "objects", len(output.Contents))

		for _, object := range output.Contents {
			count++
			info := types.NewObjectInfo(aws.ToString(object.Key), aws.ToTime(object.LastModified), aws.ToInt64(object.Size))
			if err := fn(info); err != nil {
				return err
			}
		}
	}

	if count > 0 {
		slog.Info("Found objects", "bucket", s.Config.Bucket, "count", count)
	} else {
		slog.Warn("Found no objects in bucket for prefix", "bucket", s.Config.Bucket, "prefix", prefix)
	}
	return nil
}

func (s *AwsS3BucketSource) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	var output *s3.GetObjectOutput
	err := s.limiter.Do(ctx, func() error {
		var err error
		output, err = s.client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(s.Config.Bucket),
			Key:    aws.String(key),
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s, %w", key, err)
	}
	return output.Body, nil
}

func (s *AwsS3BucketSource) getClient(ctx context.Context) (*s3.Client, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(typehelpers.SafeString(s.Config.Region)),
		config.WithRetryMaxAttempts(maxRetryAttempts),
	}
	// static credentials take precedence over the default chain
	if s.Config.AccessKey != nil && s.Config.SecretKey != nil {
		provider := credentials.NewStaticCredentialsProvider(*s.Config.AccessKey, *s.Config.SecretKey, typehelpers.SafeString(s.Config.SessionToken))
		opts = append(opts, config.WithCredentialsProvider(provider))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config, %w", err)
	}

	if s.Config.RoleArn != nil {
		slog.Info("Assuming role", "role_arn", *s.Config.RoleArn)
		provider := stscreds.NewAssumeRoleProvider(sts.NewFromConfig(cfg), *s.Config.RoleArn, func(o *stscreds.AssumeRoleOptions) {
			o.RoleSessionName = constants.ToolName
			o.Duration = assumeRoleDuration
			if s.Config.ExternalId != nil {
				o.ExternalID = s.Config.ExternalId
			}
		})
		cfg.Credentials = aws.NewCredentialsCache(provider)
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if s.Config.Endpoint != nil {
			o.BaseEndpoint = s.Config.Endpoint
			o.UsePathStyle = true
		}
	}), nil
}
