package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/kindredlabs/matchmaker/internal/catalog"
	"github.com/kindredlabs/matchmaker/internal/introductions"
	"github.com/kindredlabs/matchmaker/internal/models"
	"github.com/kindredlabs/matchmaker/internal/services"
	"github.com/kindredlabs/matchmaker/internal/utils"
	"github.com/kindredlabs/matchmaker/internal/workers"
)

type CandidateHandler struct {
	candidates  services.CandidateService
	matchmaking services.MatchmakingService
	catalog     *catalog.Catalog
	speaker     *introductions.Speaker
	rdb         *redis.Client
	log         *logrus.Logger
}

func NewCandidateHandler(candidates services.CandidateService, mm services.MatchmakingService, cat *catalog.Catalog, speaker *introductions.Speaker, rdb *redis.Client, log *logrus.Logger) *CandidateHandler {
	return &CandidateHandler{
		candidates:  candidates,
		matchmaking: mm,
		catalog:     cat,
		speaker:     speaker,
		rdb:         rdb,
		log:         log,
	}
}

func (h *CandidateHandler) Categories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": h.catalog.All()})
}

// personalityFor resolves the user's completed personality category, or ""
// when the analysis has not finished.
func (h *CandidateHandler) personalityFor(c *gin.Context, userID string) string {
	sess, err := h.matchmaking.GetSession(c.Request.Context(), userID)
	if err != nil || sess == nil {
		return ""
	}
	if sess.Status != models.StatusCompleted {
		return ""
	}
	return sess.PersonalityCategory
}

func (h *CandidateHandler) Browse(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	personality := h.personalityFor(c, userID)
	items, err := h.candidates.Browse(c.Request.Context(), personality, limit)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"personality_category": personality,
		"candidates":           items,
	})
}

func (h *CandidateHandler) Import(c *gin.Context) {
	var req services.CandidateImport
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "CandidateHandler.Import", "invalid request body", err))
		return
	}

	cand, err := h.candidates.Import(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, cand)
}

// Speak runs the introduction pipeline for one candidate and plays the
// result on the caller's audio channel, interrupting whatever is playing.
func (h *CandidateHandler) Speak(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	candidateID := c.Param("id")
	cand, err := h.candidates.Get(c.Request.Context(), candidateID)
	if err != nil {
		writeError(c, err)
		return
	}

	personality := h.personalityFor(c, userID)
	if personality == "" {
		writeError(c, utils.E(utils.CodeInvalidArgument, "CandidateHandler.Speak", "complete your personality analysis first", nil))
		return
	}
	cat, ok := h.catalog.ByName(personality)
	if !ok {
		writeError(c, utils.E(utils.CodeInternal, "CandidateHandler.Speak", "unknown personality category", nil))
		return
	}

	player := introductions.NewChannelPlayer(h.rdb, userID, logrus.NewEntry(h.log), nowMillis)
	entry, err := h.speaker.Speak(c.Request.Context(), cand, cat.ID, player)
	if err != nil {
		writeError(c, utils.E(utils.CodeUnavailable, "CandidateHandler.Speak", "introduction unavailable", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"candidate_id":   entry.CandidateID,
		"personality_id": entry.PersonalityID,
		"text":           entry.Text,
		"audio_url":      entry.AudioURL,
		"has_audio":      len(entry.Audio) > 0,
		"cached_at":      entry.CreatedAt,
	})
}

// StopSpeak interrupts playback; stopping silence is still success.
func (h *CandidateHandler) StopSpeak(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	player := introductions.NewChannelPlayer(h.rdb, userID, logrus.NewEntry(h.log), nowMillis)
	player.Stop(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"status": "stopped"})
}

type WarmupRequest struct {
	CandidateIDs []string `json:"candidate_ids" binding:"required"`
}

// Warmup enqueues background pre-generation so later browsing hits cache.
func (h *CandidateHandler) Warmup(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req WarmupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "CandidateHandler.Warmup", "invalid request body", err))
		return
	}

	personality := h.personalityFor(c, userID)
	if personality == "" {
		writeError(c, utils.E(utils.CodeInvalidArgument, "CandidateHandler.Warmup", "complete your personality analysis first", nil))
		return
	}
	cat, ok := h.catalog.ByName(personality)
	if !ok {
		writeError(c, utils.E(utils.CodeInternal, "CandidateHandler.Warmup", "unknown personality category", nil))
		return
	}

	enqueued := 0
	for _, id := range req.CandidateIDs {
		if id == "" {
			continue
		}
		if err := workers.Enqueue(c.Request.Context(), h.rdb, "", id, cat.ID, userID); err != nil {
			h.log.WithError(err).WithField("candidate_id", id).Warn("failed to enqueue warmup job")
			continue
		}
		enqueued++
	}

	c.JSON(http.StatusAccepted, gin.H{"enqueued": enqueued})
}
