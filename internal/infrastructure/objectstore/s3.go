// Package objectstore lists the models published to the S3 bucket that backs
// the CDN. Each model lives under <prefix><model_id>/.
package objectstore

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/privytune/backend/internal/core/domain"
)

// Config selects the bucket and, optionally, static credentials and a custom
// endpoint (MinIO, localstack).
type Config struct {
	Region          string
	Bucket          string
	Prefix          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// NewS3Client builds an S3 client. Without static keys the default AWS
// credential chain is used.
func NewS3Client(ctx context.Context, cfg Config) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// ModelLister enumerates model directories in a bucket.
type ModelLister struct {
	client s3.ListObjectsV2APIClient
	bucket string
	prefix string
}

func NewModelLister(client s3.ListObjectsV2APIClient, bucket, prefix string) *ModelLister {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &ModelLister{client: client, bucket: bucket, prefix: prefix}
}

// ListModelIDs returns the sorted ids of every model directory directly under
// the configured prefix. Entries that are not valid model ids are skipped.
func (l *ModelLister) ListModelIDs(ctx context.Context) ([]string, error) {
	input := &s3.ListObjectsV2Input{
		Bucket:    aws.String(l.bucket),
		Delimiter: aws.String("/"),
	}
	if l.prefix != "" {
		input.Prefix = aws.String(l.prefix)
	}

	var ids []string
	p := s3.NewListObjectsV2Paginator(l.client, input)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list s3://%s/%s: %w", l.bucket, l.prefix, err)
		}
		for _, cp := range page.CommonPrefixes {
			id := strings.TrimSuffix(strings.TrimPrefix(aws.ToString(cp.Prefix), l.prefix), "/")
			if domain.ValidModelID(id) {
				ids = append(ids, id)
			}
		}
	}

	sort.Strings(ids)
	return ids, nil
}
