package services

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"

	"github.com/dmitrijs2005/escrowdeck/internal/common"
	"github.com/dmitrijs2005/escrowdeck/internal/logging"
)

// MaxProofSize bounds uploaded proof documents.
const MaxProofSize = 10 << 20

// allowedProofTypes lists the accepted proof document types by extension
// as reported by content sniffing.
var allowedProofTypes = map[string]bool{
	"jpg":  true,
	"png":  true,
	"gif":  true,
	"webp": true,
	"pdf":  true,
	"zip":  true,
}

// ObjectPutter is the slice of the S3 API the uploader needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// ProofStorageConfig configures the object store proofs are uploaded to.
// Endpoint and path-style addressing cover MinIO and other
// S3-compatible stores.
type ProofStorageConfig struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	PublicBaseURL   string
}

// NewS3Client builds an S3 client from the proof storage configuration.
func NewS3Client(ctx context.Context, cfg ProofStorageConfig) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load s3 config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// ProofUploader stores proof documents in an object store and returns
// the public URI to submit to the backend.
type ProofUploader struct {
	store         ObjectPutter
	bucket        string
	publicBaseURL string
	log           logging.Logger
}

func NewProofUploader(store ObjectPutter, bucket, publicBaseURL string, log logging.Logger) *ProofUploader {
	return &ProofUploader{
		store:         store,
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		log:           log.With("component", "proof-uploader"),
	}
}

// Upload validates the file by content sniffing, stores it under a
// random key and returns its public URI.
func (u *ProofUploader) Upload(ctx context.Context, filePath string) (string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("read proof file: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: proof file is empty", common.ErrValidation)
	}
	if len(data) > MaxProofSize {
		return "", fmt.Errorf("%w: proof file exceeds %d bytes", common.ErrValidation, MaxProofSize)
	}

	kind, err := filetype.Match(data)
	if err != nil || kind == types.Unknown {
		return "", fmt.Errorf("%w: unrecognized file type", common.ErrValidation)
	}
	if !allowedProofTypes[kind.Extension] {
		return "", fmt.Errorf("%w: file type %q not accepted as proof", common.ErrValidation, kind.Extension)
	}

	key := path.Join("proofs", uuid.NewString()+"."+kind.Extension)
	_, err = u.store.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(kind.MIME.Value),
	})
	if err != nil {
		return "", fmt.Errorf("upload proof: %w", err)
	}

	uri := u.publicBaseURL + "/" + key
	u.log.Info(ctx, "proof uploaded", "key", key, "bytes", len(data))
	return uri, nil
}
