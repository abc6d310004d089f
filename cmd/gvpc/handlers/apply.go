// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command definitions
// in the commands package. Handlers are framework-agnostic and can be tested
// independently of the CLI framework.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/imamik/gvpc/internal/config"
	"github.com/imamik/gvpc/internal/orchestration"
	"github.com/imamik/gvpc/internal/platform/ec2"
	"github.com/imamik/gvpc/internal/platform/s3"
	"github.com/imamik/gvpc/internal/provisioning"
)

// ErrIncompleteRun is returned by a strict apply when any region or
// peering did not fully succeed.
var ErrIncompleteRun = errors.New("run finished with failures")

// reportStore uploads run reports.
type reportStore interface {
	EnsureBucket(ctx context.Context, bucket string) error
	PutJSON(ctx context.Context, bucket, key string, v any) error
}

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// newProvider creates the EC2 client for a run.
	newProvider = func(ctx context.Context, cfg *config.Config) (ec2.Provider, error) {
		client, err := ec2.NewRealClient(ctx, cfg.AWS.Profile, cfg.AWS.HomeRegion,
			ec2.WithTimeouts(config.LoadTimeouts()))
		if err != nil {
			return nil, err
		}
		return client, nil
	}

	// newReportStore creates the S3 client used for report uploads.
	newReportStore = func(ctx context.Context, cfg *config.Config) (reportStore, error) {
		client, err := s3.NewClient(ctx, s3.Options{
			Region:       cfg.Report.Region,
			Profile:      cfg.AWS.Profile,
			Endpoint:     cfg.Report.Endpoint,
			UsePathStyle: cfg.Report.UsePathStyle,
		})
		if err != nil {
			return nil, err
		}
		return client, nil
	}

	// confirm asks the user whether to proceed.
	confirm = confirmRun

	// stdout receives the rendered summaries.
	stdout io.Writer = os.Stdout
)

// ApplyOptions holds the flags of the apply command.
type ApplyOptions struct {
	ConfigPath string
	Yes        bool
	Strict     bool
}

// Apply builds a VPC in every enabled region and peers all of them.
//
// The workflow:
//  1. Loads .env and the configuration, opens the log stream
//  2. Asks for confirmation unless --yes is set
//  3. Discovers regions and runs both provisioning phases
//  4. Prints the run summary, writes metrics and uploads the report
//
// Failed regions and pairs do not make Apply fail unless Strict is set.
// Startup failures (configuration, AWS config, region listing) are returned.
func Apply(ctx context.Context, opts ApplyOptions) error {
	sess, err := openSession(opts.ConfigPath)
	if err != nil {
		return err
	}
	defer sess.Close()

	provider, err := newProvider(ctx, sess.cfg)
	if err != nil {
		return err
	}

	proceed := opts.Yes
	if !proceed {
		proceed, err = confirm(ctx)
		if err != nil {
			return err
		}
	}

	orcOpts := []orchestration.Option{
		orchestration.WithObserver(sess.observer),
		orchestration.WithTimeouts(config.LoadTimeouts()),
	}
	var metrics *orchestration.Metrics
	if sess.cfg.Metrics.Textfile != "" {
		metrics = orchestration.NewMetrics()
		orcOpts = append(orcOpts, orchestration.WithMetrics(metrics))
	}

	orc := orchestration.New(provider, sess.cfg, orcOpts...)
	report, err := orc.RunWithDiscovery(ctx, proceed)
	if err != nil {
		return err
	}
	if !report.Proceeded {
		fmt.Fprintln(stdout, "Aborted, nothing was created.")
		return nil
	}

	fmt.Fprint(stdout, renderRunReport(report))

	if metrics != nil {
		if err := metrics.WriteTextfile(sess.cfg.Metrics.Textfile); err != nil {
			provisioning.LogWarning(sess.observer, "report", fmt.Sprintf("failed to write metrics: %v", err))
		}
	}

	if sess.cfg.Report.Bucket != "" {
		key, err := publishReport(ctx, sess.cfg, report)
		if err != nil {
			provisioning.LogWarning(sess.observer, "report", fmt.Sprintf("failed to upload run report: %v", err))
		} else {
			sess.observer.Printf("run report uploaded to s3://%s/%s", sess.cfg.Report.Bucket, key)
		}
	}

	if opts.Strict && !report.Clean() {
		rc, pc := report.RegionCounts(), report.PairCounts()
		return fmt.Errorf("%w: %d of %d regions and %d of %d peerings incomplete",
			ErrIncompleteRun, rc.Partial+rc.Failed, rc.Total(), pc.Failed, pc.Total())
	}
	return nil
}

// publishReport uploads the report as <prefix>/<run-id>.json.
func publishReport(ctx context.Context, cfg *config.Config, report *orchestration.RunReport) (string, error) {
	store, err := newReportStore(ctx, cfg)
	if err != nil {
		return "", err
	}
	if err := store.EnsureBucket(ctx, cfg.Report.Bucket); err != nil {
		return "", err
	}
	key := path.Join(cfg.Report.Prefix, report.RunID+".json")
	if err := store.PutJSON(ctx, cfg.Report.Bucket, key, report); err != nil {
		return "", err
	}
	return key, nil
}
