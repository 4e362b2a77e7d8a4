// Package main provides the Lambda entry point for the layout API.
//
// It serves the same handler as "layoutctl serve" behind API Gateway v2.
//
// Security:
//   - Origin-verify middleware blocks direct API Gateway access (CloudFront-only)
//   - Request bodies are capped and analysis keys are checked for traversal
//   - Internal error details are logged, never returned
//
// Endpoints:
//
//	GET  /api/health           health check (no origin verification)
//	GET  /api/formats          canvas format registry
//	POST /api/layout/correct   self-correction pass
//	POST /api/layout/critique  visual critique
//	POST /api/layout/fix       critique, remedy, critique again
//	POST /api/layout/resize    rescale to another format
package main

import (
	"context"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
	"github.com/rs/zerolog/log"

	"github.com/fpang/ai-layout-corrector/internal/api"
	"github.com/fpang/ai-layout-corrector/internal/brandkit"
	"github.com/fpang/ai-layout-corrector/internal/lambdaboot"
	"github.com/fpang/ai-layout-corrector/internal/logging"
)

// Set at build time via -ldflags.
var (
	commitHash = "dev"
	buildTime  = "unknown"
)

// brandKitEnv names a brand kit TOML bundled with the function.
const brandKitEnv = "LAYOUT_BRAND_KIT"

var server *api.Server

func init() {
	initStart := time.Now()
	logging.Init()

	clients := lambdaboot.InitAWS()
	s3c := lambdaboot.InitS3(clients.Config, lambdaboot.BucketEnv)
	secret := lambdaboot.LoadOriginVerifySecret(context.Background(), clients.SSM)

	kit := brandkit.Default()
	if path := os.Getenv(brandKitEnv); path != "" {
		loaded, err := brandkit.Load(path)
		if err != nil {
			log.Fatal().Err(err).Str("path", path).Msg("Failed to load brand kit")
		}
		kit = loaded
	}

	cfg := api.Config{
		AnalysisBucket:     s3c.Bucket,
		OriginVerifySecret: secret,
		Brand:              kit,
	}
	if s3c.Client != nil {
		cfg.Analysis = s3c.Client
	}
	server = api.New(cfg)

	lambdaboot.StartupLog("layout-lambda", initStart).
		CommitHash(commitHash).
		BuildTime(buildTime).
		S3Bucket("analysis", s3c.Bucket).
		SSMParam("originVerify", logging.EnvOrDefault(lambdaboot.OriginVerifyParamEnv, lambdaboot.DefaultOriginVerifyParam)).
		Feature("originVerify", secret != "").
		Feature("analysisKey", s3c.Client != nil).
		Config("brand", kit.Name).
		Config("canvasFormat", kit.Format).
		Log()
}

func main() {
	adapter := httpadapter.NewV2(server.Handler())
	lambda.Start(adapter.ProxyWithContext)
}
