package ipfs

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/bitrise-io/go-utils/retry"
	"github.com/bitrise-io/go-utils/v2/log"
)

const (
	numCIDLookupRetries = 5
	cidLookupWait       = 2 * time.Second

	// cidMetadataKey is where S3-compatible pinning providers expose the CID
	// of an uploaded object (surfaced as the x-amz-meta-cid header).
	cidMetadataKey = "cid"
)

// S3TransportParams configures a transport for S3-compatible IPFS pinning
// providers (Filebase and friends): objects are put into a bucket and the
// provider reports the resulting CID through object metadata.
type S3TransportParams struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	// Endpoint overrides the S3 endpoint, e.g. "https://s3.filebase.com".
	Endpoint string
}

type s3Transport struct {
	client *s3.Client
	bucket string
	logger log.Logger
}

// NewS3Transport creates a Transport backed by an S3-compatible pinning
// provider. Content uploaded through it is always pinned; the per-upload pin
// flag cannot opt out.
func NewS3Transport(ctx context.Context, params S3TransportParams, logger log.Logger) (Transport, error) {
	if params.Bucket == "" {
		return nil, fmt.Errorf("bucket must not be empty")
	}
	if logger == nil {
		logger = log.NewLogger()
	}

	cfg, err := loadAWSConfig(ctx, params.Region, params.AccessKeyID, params.SecretAccessKey, logger)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(*cfg, func(o *s3.Options) {
		if params.Endpoint != "" {
			o.BaseEndpoint = aws.String(params.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &s3Transport{
		client: client,
		bucket: params.Bucket,
		logger: logger,
	}, nil
}

func (t *s3Transport) Upload(ctx context.Context, data []byte, pin bool) (string, error) {
	if !pin {
		t.logger.Debugf("S3-compatible providers pin implicitly, ignoring pin=false")
	}

	// Content-addressed key so re-uploading the same payload is idempotent.
	digest := sha256.Sum256(data)
	key := hex.EncodeToString(digest[:])

	uploader := manager.NewUploader(t.client)
	_, err := uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(t.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/octet-stream"),
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}

	return t.lookupCIDWithRetry(ctx, key)
}

// lookupCIDWithRetry polls the uploaded object until the provider has
// attached the CID metadata, which can lag the put by a moment.
func (t *s3Transport) lookupCIDWithRetry(ctx context.Context, key string) (string, error) {
	var cid string
	err := retry.Times(numCIDLookupRetries).Wait(cidLookupWait).TryWithAbort(func(attempt uint) (error, bool) {
		head, err := t.client.HeadObject(ctx, &s3.HeadObjectInput{
			Bucket: aws.String(t.bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			var apiError smithy.APIError
			if errors.As(err, &apiError) {
				switch apiError.(type) {
				case *types.NotFound:
					return fmt.Errorf("object %s not visible yet", key), false
				default:
					return fmt.Errorf("head object: %w", err), true
				}
			}
			return fmt.Errorf("head object: %w", err), true
		}

		cid = head.Metadata[cidMetadataKey]
		if cid == "" {
			return fmt.Errorf("cid metadata not set yet for %s", key), false
		}
		return nil, true
	})
	if err != nil {
		return "", err
	}

	return cid, nil
}

func loadAWSConfig(
	ctx context.Context,
	region string,
	accessKeyID string,
	secretKey string,
	logger log.Logger,
) (*aws.Config, error) {
	if region == "" {
		return nil, fmt.Errorf("region must not be empty")
	}

	opts := []func(*config.LoadOptions) error{
		config.WithRegion(region),
	}

	if accessKeyID != "" && secretKey != "" {
		logger.Debugf("aws credentials provided, using them...")
		opts = append(opts,
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKeyID, secretKey, "")))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load config, %v", err)
	}

	return &cfg, nil
}
