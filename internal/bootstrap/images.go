package bootstrap

import (
	"context"
	"log/slog"
	"time"

	"storeadmin/internal/client/proxy"
	"storeadmin/internal/config"
	"storeadmin/internal/images"
)

// BuildResolver picks the prober: HEAD requests against the object storage
// when s3 is enabled (plain GET for foreign URLs), plain GET otherwise.
func BuildResolver(ctx context.Context, profile *config.Config, proxyFn proxy.Func, rec images.Recorder, log *slog.Logger) (*images.Resolver, error) {
	httpProber := &images.HTTPProber{Doer: imageHTTPClient(proxyFn), Log: log}

	var prober images.Prober = httpProber
	s3c := profile.Storage.S3
	if s3c.Enabled {
		api, err := images.NewS3Client(ctx, images.S3Options{
			Bucket:    s3c.Bucket,
			Region:    s3c.Region,
			Endpoint:  s3c.Endpoint,
			PathStyle: s3c.PathStyle,
			AccessKey: s3c.AccessKey,
			SecretKey: s3c.SecretKey,
		})
		if err != nil {
			return nil, err
		}
		prober = &images.S3Prober{
			API:      api,
			Bucket:   s3c.Bucket,
			BaseURL:  profile.Storage.BaseURL,
			Fallback: httpProber,
			Log:      log,
		}
		log.Info("image probes via object storage", "bucket", s3c.Bucket, "endpoint", s3c.Endpoint)
	}

	return images.NewResolver(images.Options{
		StorageBase:  profile.Storage.BaseURL,
		Prober:       prober,
		CheckTimeout: time.Duration(profile.Images.CheckTimeoutSeconds) * time.Second,
		Workers:      profile.Images.Workers,
		Recorder:     rec,
		Logger:       log,
	}), nil
}
