package api

import (
	"net/http"

	"goentropy/domain/audit"
	"goentropy/domain/core"
	"goentropy/domain/seed"
	"goentropy/domain/stage"
	"goentropy/internal"
	"goentropy/internal/errors"

	"github.com/gin-gonic/gin"
)

// AuditResponse is an analysis report with its anomaly descriptors
type AuditResponse struct {
	*audit.AnalysisReport
	Anomalies []string `json:"anomalies"`
}

func newAuditResponse(report *audit.AnalysisReport) AuditResponse {
	return AuditResponse{AnalysisReport: report, Anomalies: report.Anomalies()}
}

// BatchItem is one file of a batch audit; exactly one of Report and Detail is set
type BatchItem struct {
	Filename string         `json:"filename"`
	Report   *AuditResponse `json:"report,omitempty"`
	Detail   string         `json:"detail,omitempty"`
	Status   int            `json:"status"`
}

// DemoExplanations describes each mixing stage of a demo run
type DemoExplanations struct {
	Chaotic string `json:"chaotic"`
	CA      string `json:"ca"`
	Hash    string `json:"hash"`
	HKDF    string `json:"hkdf"`
}

// DemoResponse exposes every intermediate value of one pipeline run as full hex
type DemoResponse struct {
	RunID            core.RunID        `json:"run_id"`
	RawEntropySample string            `json:"raw_entropy_sample"`
	AfterChaotic     string            `json:"after_chaotic"`
	AfterCA          string            `json:"after_ca"`
	AfterHash        string            `json:"after_hash"`
	FinalSeed        string            `json:"final_seed"`
	SnapshotHash     core.SnapshotHash `json:"snapshot_hash"`
	Explanations     DemoExplanations  `json:"explanations"`
}

func newDemoResponse(result *seed.SeedResult) DemoResponse {
	return DemoResponse{
		RunID:            result.RunID,
		RawEntropySample: result.Representation(stage.StageRaw),
		AfterChaotic:     result.Representation(stage.StageChaotic),
		AfterCA:          result.Representation(stage.StageCellularAutomaton),
		AfterHash:        result.Representation(stage.StageWhitened),
		FinalSeed:        result.Representation(stage.StageFinal),
		SnapshotHash:     result.SnapshotHash,
		Explanations: DemoExplanations{
			Chaotic: result.Explanation(stage.StageChaotic),
			CA:      result.Explanation(stage.StageCellularAutomaton),
			Hash:    result.Explanation(stage.StageWhitened),
			HKDF:    result.Explanation(stage.StageFinal),
		},
	}
}

// VerifyRequest is the body of POST /lottery/verify
type VerifyRequest struct {
	RawEntropy   string `json:"raw_entropy" binding:"required,hexadecimal"`
	SnapshotHash string `json:"snapshot_hash" binding:"required,len=64,hexadecimal"`
}

// FeedRequest is the body of POST /entropy/feed
type FeedRequest struct {
	Raw []int `json:"raw" binding:"required,min=1,dive,min=0,max=255"`
}

// NISTRequest is the body of POST /api/generate_nist_data
type NISTRequest struct {
	Length int `json:"length" binding:"required,min=1"`
}

// respondError writes {detail} with the status the error maps to
func respondError(c *gin.Context, err error) {
	status := errors.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		internal.DefaultLogger.Error("[API] %s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(status, gin.H{"detail": err.Error()})
}

// respondBindingError reports malformed request bodies as 400
func respondBindingError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
}
