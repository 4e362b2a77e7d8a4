package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/fpang/ai-layout-corrector/internal/api"
	"github.com/fpang/ai-layout-corrector/internal/lambdaboot"
)

func newServeCmd(rf *rootFlags) *cobra.Command {
	var addr, bucket string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout API locally",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kit, err := rf.brand()
			if err != nil {
				return err
			}
			cfg := api.Config{Brand: kit}
			if bucket != "" {
				clients := lambdaboot.InitAWS()
				cfg.Analysis = s3.NewFromConfig(clients.Config)
				cfg.AnalysisBucket = bucket
			}

			srv := &http.Server{
				Addr:         addr,
				Handler:      api.New(cfg).Handler(),
				ReadTimeout:  30 * time.Second,
				WriteTimeout: 60 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			go func() {
				sigCh := make(chan os.Signal, 1)
				signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
				<-sigCh
				log.Info().Msg("Shutting down...")
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				srv.Shutdown(ctx)
			}()

			log.Info().Str("addr", addr).Str("brand", kit.Name).Str("bucket", bucket).Msg("Starting layout API")
			fmt.Fprintf(cmd.OutOrStdout(), "\n  Layout API: http://localhost%s/api/health\n\n", addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serve: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	cmd.Flags().StringVar(&bucket, "bucket", os.Getenv(lambdaboot.BucketEnv), "S3 bucket holding analysis snapshots")
	return cmd
}
