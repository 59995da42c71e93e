package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kindredlabs/matchmaker/internal/services"
	"github.com/kindredlabs/matchmaker/internal/utils"
)

type MatchmakingHandler struct {
	svc services.MatchmakingService
}

func NewMatchmakingHandler(svc services.MatchmakingService) *MatchmakingHandler {
	return &MatchmakingHandler{svc: svc}
}

type MessageRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Message   string `json:"message"`
}

func (h *MatchmakingHandler) Message(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "MatchmakingHandler.Message", "invalid request body", err))
		return
	}

	res, err := h.svc.ProcessMessage(c.Request.Context(), userID, req.SessionID, req.Message)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

type VoiceRequest struct {
	SessionID   string `json:"session_id" binding:"required"`
	AudioBase64 string `json:"audio_base64" binding:"required"`
	Language    string `json:"language"`
}

type VoiceResponse struct {
	Transcript string `json:"transcript"`
	Result     any    `json:"result"`
}

func (h *MatchmakingHandler) Voice(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req VoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "MatchmakingHandler.Voice", "invalid request body", err))
		return
	}

	res, transcript, err := h.svc.ProcessVoice(c.Request.Context(), userID, req.SessionID, req.AudioBase64, req.Language)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, VoiceResponse{Transcript: transcript, Result: res})
}

func (h *MatchmakingHandler) GetSession(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	sess, err := h.svc.GetSession(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, sess)
}

func (h *MatchmakingHandler) Reset(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.svc.Reset(c.Request.Context(), userID); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "reset"})
}
