package api

import (
	"fmt"
	"net/http"
	"strings"

	"goentropy/adapters/mixing"
	"goentropy/domain/core"
	"goentropy/internal/telemetry"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleLotteryDraw(c *gin.Context) {
	result, err := s.container.Draws.Lottery(c.Request.Context())
	s.publishPoolLevel()
	if err != nil {
		respondError(c, err)
		return
	}

	s.events.Publish(EventDraw, map[string]any{
		"run_id":        result.RunID,
		"draw":          result.Numbers,
		"snapshot_hash": result.SnapshotHash,
	})
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleLotteryVerify(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	expected := core.SnapshotHash(strings.ToLower(req.SnapshotHash))
	v, err := s.container.Draws.Verify(c.Request.Context(), req.RawEntropy, expected)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (s *Server) handleDemo(c *gin.Context) {
	result, err := s.container.Seeds.Derive(c.Request.Context(), mixing.InfoDemo)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newDemoResponse(result))
}

func (s *Server) handleEntropyStatus(c *gin.Context) {
	available := s.container.Pool.Available()
	telemetry.SetPoolBytes(available)
	c.JSON(http.StatusOK, gin.H{
		"bytes_available": available,
		"capacity":        s.container.Pool.Capacity(),
	})
}

func (s *Server) handleEntropyFeed(c *gin.Context) {
	var req FeedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	batch := make([]byte, len(req.Raw))
	for i, v := range req.Raw {
		batch[i] = byte(v)
	}

	total, err := s.container.Pool.Feed(c.Request.Context(), batch)
	s.publishPoolLevel()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "total_bytes": total})
}

func (s *Server) handleNISTExport(c *gin.Context) {
	var req NISTRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	export, err := s.container.Exporter.Export(c.Request.Context(), req.Length)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", export.Filename))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(export.Bits))
}

// publishPoolLevel refreshes the pool gauge and notifies event subscribers
func (s *Server) publishPoolLevel() {
	available := s.container.Pool.Available()
	telemetry.SetPoolBytes(available)
	s.events.Publish(EventPool, map[string]any{
		"bytes_available": available,
		"capacity":        s.container.Pool.Capacity(),
	})
}
