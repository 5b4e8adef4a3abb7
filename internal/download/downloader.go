package download

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rickgao/consensus-export/internal/api"
	"github.com/rickgao/consensus-export/internal/config"
	"github.com/rickgao/consensus-export/internal/model"
	"github.com/rickgao/consensus-export/internal/writer"
)

// API is the subset of the consensus API used by the downloader.
type API interface {
	ListAssets(ctx context.Context, snapTime string) ([]model.Asset, error)
	FileHistory(ctx context.Context, req api.FileHistoryRequest) ([]api.HistoryRow, error)
	ExportLink(ctx context.Context, req api.ExportRequest) (string, error)
	FetchExport(ctx context.Context, link string) ([]byte, error)
}

// Downloader runs export tasks sequentially against the API.
type Downloader struct {
	api       API
	sink      writer.Sink
	observers []Observer
	logger    *slog.Logger
	now       func() time.Time
}

// New creates a Downloader. Observers are notified in order after each task.
func New(client API, sink writer.Sink, logger *slog.Logger, observers ...Observer) *Downloader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Downloader{
		api:       client,
		sink:      sink,
		observers: observers,
		logger:    logger,
		now:       time.Now,
	}
}

// catalogEntry memoizes one snap time's catalog lookup for the run.
type catalogEntry struct {
	assets []model.Asset
	err    error
}

// Run executes every task of cfg and returns one Result per task, in task
// order. It never returns early: once ctx is done, remaining tasks are
// recorded as failed with the context error.
func (d *Downloader) Run(ctx context.Context, cfg config.RunConfig) *Summary {
	summary := &Summary{
		RunID:     uuid.New(),
		Client:    cfg.Client,
		SnapDate:  cfg.SnapDate,
		StartedAt: d.now(),
		Results:   make([]Result, 0, model.TaskCount(cfg.AssetTypes, cfg.SnapTimes)),
	}
	logger := d.logger.With("run_id", summary.RunID.String())

	logger.Info("export run started",
		"client", cfg.Client,
		"snap_date", cfg.SnapDate,
		"tasks", cap(summary.Results),
	)

	catalogs := make(map[string]catalogEntry)
	for task := range model.Tasks(cfg.AssetTypes, cfg.SnapTimes) {
		var res Result
		if err := ctx.Err(); err != nil {
			res = Result{
				Task:    task,
				Asset:   model.Asset{SubAsset: task.AssetType},
				Outcome: Failed,
				Err:     err,
			}
		} else {
			res = d.process(ctx, logger, cfg, task, catalogs)
		}

		d.log(logger, res)
		summary.Results = append(summary.Results, res)
		for _, o := range d.observers {
			o.Observe(res)
		}
	}

	summary.FinishedAt = d.now()
	logger.Info("export run finished",
		"downloaded", summary.Count(Downloaded),
		"skipped", summary.Count(Skipped),
		"failed", summary.Count(Failed),
		"duration", summary.Duration(),
	)

	return summary
}

// process resolves a task to catalog entries and exports each of them.
func (d *Downloader) process(ctx context.Context, logger *slog.Logger, cfg config.RunConfig, task model.Task, catalogs map[string]catalogEntry) Result {
	res := Result{
		Task:  task,
		Asset: model.Asset{SubAsset: task.AssetType},
	}

	catalog, err := d.catalog(ctx, logger, task.SnapTime, catalogs)
	if err != nil {
		res.Outcome = Failed
		res.Err = err
		return res
	}

	matches := matchAssets(catalog, task.AssetType)
	if len(matches) == 0 {
		res.Outcome = Failed
		res.Err = fmt.Errorf("%w: %q at %q", ErrAssetNotListed, task.AssetType, task.SnapTime)
		return res
	}
	if len(matches) > 1 {
		logger.Warn("asset type matches several catalog entries",
			"asset_type", task.AssetType,
			"snap_time", task.SnapTime,
			"matches", len(matches),
		)
	}
	res.Asset = matches[0]

	outcomes := make([]assetOutcome, 0, len(matches))
	for _, asset := range matches {
		outcomes = append(outcomes, d.exportAsset(ctx, cfg, task, asset))
	}

	res.Outcome, res.Files, res.Bytes, res.Err = aggregate(outcomes)
	return res
}

func (d *Downloader) catalog(ctx context.Context, logger *slog.Logger, snapTime string, catalogs map[string]catalogEntry) ([]model.Asset, error) {
	if entry, ok := catalogs[snapTime]; ok {
		return entry.assets, entry.err
	}

	assets, err := d.api.ListAssets(ctx, snapTime)
	if err == nil {
		logger.Debug("asset catalog loaded",
			"snap_time", snapTime,
			"assets", len(assets),
		)
	}

	catalogs[snapTime] = catalogEntry{assets: assets, err: err}
	return assets, err
}

// exportAsset runs file-history, export, fetch and write for one catalog entry.
func (d *Downloader) exportAsset(ctx context.Context, cfg config.RunConfig, task model.Task, asset model.Asset) assetOutcome {
	rows, err := d.api.FileHistory(ctx, api.FileHistoryRequest{
		Client:   cfg.Client,
		AssetID:  asset.ID,
		FileDate: cfg.SnapDate,
		Limit:    api.Limit{Value: api.DefaultHistoryLimit},
	})
	if err != nil {
		return assetOutcome{err: err}
	}

	run, ok, err := LatestRun(rows)
	if err != nil {
		return assetOutcome{err: fmt.Errorf("file history %s: %w", asset.ID, err)}
	}
	if !ok {
		return assetOutcome{skipped: true}
	}

	link, err := d.api.ExportLink(ctx, api.ExportRequest{
		AssetID:               asset.ID,
		ConsensusRunTimestamp: run.ConsensusRunTimestamp,
		SubmissionDate:        run.SubmissionTimestamp,
		IncludeHeader:         "True",
	})
	if err != nil {
		return assetOutcome{err: err}
	}

	data, err := d.api.FetchExport(ctx, link)
	if err != nil {
		return assetOutcome{err: err}
	}

	name := FileName(cfg.Client, asset.TraceName, cfg.SnapDate, task.SnapTime, run.ResultType())
	location, err := d.sink.Write(ctx, name, data)
	if err != nil {
		return assetOutcome{err: err}
	}

	return assetOutcome{file: location, bytes: int64(len(data))}
}

func (d *Downloader) log(logger *slog.Logger, res Result) {
	attrs := []any{
		"asset_type", res.Task.AssetType,
		"snap_time", res.Task.SnapTime,
		"asset", res.Asset.Name,
	}

	switch res.Outcome {
	case Downloaded:
		logger.Info("task downloaded", append(attrs, "files", res.Files, "bytes", res.Bytes)...)
	case Skipped:
		logger.Info("task skipped", attrs...)
	default:
		logger.Warn("task failed", append(attrs, "error", res.Err)...)
	}
}
