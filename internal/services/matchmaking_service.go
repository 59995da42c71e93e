package services

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"sync"

	"github.com/kindredlabs/matchmaker/internal/matchmaking"
	"github.com/kindredlabs/matchmaker/internal/models"
	"github.com/kindredlabs/matchmaker/internal/providers/stt"
	"github.com/kindredlabs/matchmaker/internal/utils"
)

type MatchmakingService interface {
	ProcessMessage(ctx context.Context, userID, sessionID, message string) (*matchmaking.Result, error)
	ProcessVoice(ctx context.Context, userID, sessionID, audioB64, language string) (*matchmaking.Result, string, error)
	GetSession(ctx context.Context, userID string) (*models.MatchSession, error)
	Reset(ctx context.Context, userID string) error
}

// matchmakingService serializes message processing per user. The
// orchestrator reads then writes the session, so two in-flight messages from
// the same user must not interleave; different users never contend.
type matchmakingService struct {
	orch *matchmaking.Orchestrator
	stt  stt.Provider

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewMatchmakingService(orch *matchmaking.Orchestrator, sttProvider stt.Provider) MatchmakingService {
	return &matchmakingService{
		orch:  orch,
		stt:   sttProvider,
		locks: make(map[string]*sync.Mutex),
	}
}

func (s *matchmakingService) userLock(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[userID] = l
	}
	return l
}

func (s *matchmakingService) ProcessMessage(ctx context.Context, userID, sessionID, message string) (*matchmaking.Result, error) {
	const op = "MatchmakingService.ProcessMessage"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}
	if sessionID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "session_id is required", nil)
	}

	l := s.userLock(userID)
	l.Lock()
	defer l.Unlock()

	return s.orch.ProcessMessage(ctx, userID, sessionID, message), nil
}

// ProcessVoice transcribes an audio answer and feeds the transcript through
// the normal message path. Returns the transcript alongside the result so
// clients can echo what was heard.
func (s *matchmakingService) ProcessVoice(ctx context.Context, userID, sessionID, audioB64, language string) (*matchmaking.Result, string, error) {
	const op = "MatchmakingService.ProcessVoice"

	if s.stt == nil {
		return nil, "", utils.E(utils.CodeUnavailable, op, "voice input is not enabled", nil)
	}

	raw := audioB64
	if i := strings.Index(raw, ","); i >= 0 {
		raw = raw[i+1:] // strip data:...;base64,
	}
	audio, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, "", utils.E(utils.CodeInvalidArgument, op, "invalid base64 audio", err)
	}
	if len(audio) == 0 {
		return nil, "", utils.E(utils.CodeInvalidArgument, op, "empty audio", nil)
	}

	if language == "" {
		language = "en-US"
	}
	text, _, err := s.stt.Transcribe(ctx, audio, language)
	if err != nil {
		return nil, "", utils.E(utils.CodeInternal, op, "transcription failed", err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, "", utils.E(utils.CodeInvalidArgument, op, "could not understand audio", nil)
	}

	res, err := s.ProcessMessage(ctx, userID, sessionID, text)
	if err != nil {
		return nil, "", err
	}
	return res, text, nil
}

func (s *matchmakingService) GetSession(ctx context.Context, userID string) (*models.MatchSession, error) {
	const op = "MatchmakingService.GetSession"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}
	sess, err := s.orch.Session(ctx, userID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "no active session", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load session", err)
	}
	return sess, nil
}

func (s *matchmakingService) Reset(ctx context.Context, userID string) error {
	const op = "MatchmakingService.Reset"

	if userID == "" {
		return utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}

	l := s.userLock(userID)
	l.Lock()
	defer l.Unlock()

	if err := s.orch.Reset(ctx, userID); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to reset session", err)
	}
	return nil
}
