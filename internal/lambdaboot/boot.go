// Package lambdaboot provides the Lambda cold-start bootstrap shared by the
// layout entry points: AWS config, the analysis bucket client, the SSM
// origin-verify secret and the startup summary.
package lambdaboot

import (
	"context"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog/log"

	"github.com/fpang/ai-layout-corrector/internal/logging"
)

// Environment variables read at cold start.
const (
	BucketEnv            = "ANALYSIS_BUCKET_NAME"
	OriginVerifyParamEnv = "SSM_ORIGIN_VERIFY_PARAM"
	OriginVerifyEnv      = "ORIGIN_VERIFY_SECRET"
)

// DefaultOriginVerifyParam is read when OriginVerifyParamEnv is unset.
const DefaultOriginVerifyParam = "/ai-layout-corrector/prod/origin-verify-secret"

// AWSClients holds the core AWS SDK clients.
type AWSClients struct {
	Config aws.Config
	SSM    *ssm.Client
}

// S3Clients holds the S3 client and the analysis bucket name.
type S3Clients struct {
	Client *s3.Client
	Bucket string
}

// ParameterGetter is the subset of the SSM client used here.
type ParameterGetter interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// InitAWS loads the default AWS config and returns it along with common clients.
func InitAWS() AWSClients {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load AWS config")
	}
	log.Debug().Str("region", cfg.Region).Msg("AWS config loaded")
	return AWSClients{
		Config: cfg,
		SSM:    ssm.NewFromConfig(cfg),
	}
}

// InitS3 creates an S3 client for the bucket named by bucketEnvVar. Analysis
// snapshots are optional, so an unset bucket returns a zero S3Clients with a
// warning instead of failing the cold start.
func InitS3(cfg aws.Config, bucketEnvVar string) S3Clients {
	bucket := os.Getenv(bucketEnvVar)
	if bucket == "" {
		log.Warn().Str("envVar", bucketEnvVar).Msg("Analysis bucket not set, analysisKey requests disabled")
		return S3Clients{}
	}
	return S3Clients{
		Client: s3.NewFromConfig(cfg),
		Bucket: bucket,
	}
}

// LoadOriginVerifySecret returns the shared secret CloudFront sends in the
// origin-verify header. ORIGIN_VERIFY_SECRET wins over SSM. A missing
// parameter is not fatal: the check is disabled and a warning logged.
func LoadOriginVerifySecret(ctx context.Context, client ParameterGetter) string {
	if s := os.Getenv(OriginVerifyEnv); s != "" {
		return s
	}
	paramName := logging.EnvOrDefault(OriginVerifyParamEnv, DefaultOriginVerifyParam)
	ssmStart := time.Now()
	result, err := client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           &paramName,
		WithDecryption: aws.Bool(true),
	})
	if err != nil || result.Parameter == nil || result.Parameter.Value == nil {
		log.Warn().Err(err).Str("param", paramName).Msg("Origin verify secret not found in SSM, check disabled")
		return ""
	}
	log.Debug().Str("param", paramName).Dur("elapsed", time.Since(ssmStart)).Msg("Origin verify secret loaded from SSM")
	return *result.Parameter.Value
}

// StartupLog is a convenience wrapper for the startup logger.
func StartupLog(name string, initStart time.Time) *logging.StartupLogger {
	return logging.NewStartupLogger(name).InitDuration(time.Since(initStart))
}
