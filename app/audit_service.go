package app

import (
	"context"
	"fmt"

	"goentropy/domain/audit"
	"goentropy/internal"
	"goentropy/internal/telemetry"
	"goentropy/ports"

	"golang.org/x/sync/errgroup"
)

// Upload is one file submitted for auditing
type Upload struct {
	Filename    string
	ContentType string
	Content     []byte
}

// AuditOutcome is the per-file result of a batch audit
type AuditOutcome struct {
	Filename string                `json:"filename"`
	Report   *audit.AnalysisReport `json:"report,omitempty"`
	Err      error                 `json:"-"`
}

// AuditService decodes uploads and runs the statistical analyzer over them
type AuditService struct {
	decoder     ports.UploadDecoder
	analyzer    ports.Analyzer
	concurrency int
	logger      *internal.Logger
}

// NewAuditService creates an audit service; batches run at most concurrency
// analyses at once
func NewAuditService(decoder ports.UploadDecoder, analyzer ports.Analyzer, concurrency int, logger *internal.Logger) *AuditService {
	if concurrency < 1 {
		concurrency = 1
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &AuditService{decoder: decoder, analyzer: analyzer, concurrency: concurrency, logger: logger}
}

// AuditBytes analyzes a byte stream directly
func (s *AuditService) AuditBytes(ctx context.Context, data []byte) (*audit.AnalysisReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report, err := s.analyzer.Analyze(data)
	if err != nil {
		return nil, err
	}
	telemetry.ObserveAudit(report.FileSizeBytes, anomalyKinds(report))
	return report, nil
}

// AuditUpload decodes an uploaded file and analyzes the resulting stream
func (s *AuditService) AuditUpload(ctx context.Context, upload Upload) (*audit.AnalysisReport, error) {
	data, err := s.decoder.Decode(upload.Filename, upload.ContentType, upload.Content)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", upload.Filename, err)
	}

	report, err := s.AuditBytes(ctx, data)
	if err != nil {
		return nil, err
	}

	s.logger.Info("[AuditService] %s: %d bytes, %.4f bits/byte, %d anomalies",
		upload.Filename, report.FileSizeBytes, report.EntropyPerByte, len(report.Findings))
	return report, nil
}

// AuditBatch audits every upload concurrently. A failing file is reported in
// its outcome and does not stop the others; only cancellation aborts the batch.
func (s *AuditService) AuditBatch(ctx context.Context, uploads []Upload) ([]AuditOutcome, error) {
	outcomes := make([]AuditOutcome, len(uploads))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, upload := range uploads {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			report, err := s.AuditUpload(gCtx, upload)
			outcomes[i] = AuditOutcome{Filename: upload.Filename, Report: report, Err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

func anomalyKinds(report *audit.AnalysisReport) []string {
	kinds := make([]string, len(report.Findings))
	for i, f := range report.Findings {
		kinds[i] = string(f.Kind)
	}
	return kinds
}
