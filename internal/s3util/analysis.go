// Package s3util loads photo-analysis snapshots stored in S3 by the analysis
// service. Layout requests reference a snapshot by key instead of inlining it.
package s3util

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"

	"github.com/fpang/ai-layout-corrector/internal/imageanalysis"
)

// maxObjectSize bounds how much of an object is read into memory.
const maxObjectSize = 4 << 20

// ObjectGetter is the subset of the S3 client used here.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// GetJSON downloads bucket/key and unmarshals it into v.
func GetJSON(ctx context.Context, client ObjectGetter, bucket, key string, v any) error {
	start := time.Now()
	result, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &bucket, Key: &key,
	})
	if err != nil {
		return fmt.Errorf("S3 GetObject: %w", err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(io.LimitReader(result.Body, maxObjectSize+1))
	if err != nil {
		return fmt.Errorf("read %s: %w", key, err)
	}
	if len(data) > maxObjectSize {
		return fmt.Errorf("object %s exceeds %d bytes", key, maxObjectSize)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	log.Debug().
		Str("bucket", bucket).
		Str("key", key).
		Int("bytes", len(data)).
		Dur("elapsed", time.Since(start)).
		Msg("Loaded JSON object from S3")
	return nil
}

// LoadAnalysis fetches the snapshot at key. An empty key means the request
// carries no analysis and returns nil without error.
func LoadAnalysis(ctx context.Context, client ObjectGetter, bucket, key string) (*imageanalysis.Analysis, error) {
	if key == "" {
		return nil, nil
	}
	var a imageanalysis.Analysis
	if err := GetJSON(ctx, client, bucket, key, &a); err != nil {
		return nil, fmt.Errorf("load analysis: %w", err)
	}
	return &a, nil
}
