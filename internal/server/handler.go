package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/abhisek/prepcoach/internal/practice"
	"github.com/abhisek/prepcoach/internal/remote"
)

const maxRequestBytes = 64 << 10

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// generateQuestions handles POST /api/interview/question.
func (s *Server) generateQuestions(w http.ResponseWriter, r *http.Request) {
	var req remote.QuestionRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.JobRole) == "" {
		s.writeError(w, http.StatusBadRequest, "job_role is required")
		return
	}

	// The request body is the whole input, so its canonical encoding is a
	// complete key.
	key, _ := json.Marshal(req)
	v, err, shared := s.batches.Do(string(key), func() (any, error) {
		ctx, cancel := s.generateContext(r.Context())
		defer cancel()
		return s.questions.Questions(ctx, req.Context())
	})
	if err != nil {
		s.fail(w, "question generation failed", err)
		return
	}
	if shared {
		s.logger.Debug("question batch shared", zap.String("job_role", req.JobRole))
	}

	s.writeJSON(w, http.StatusOK, remote.NewQuestionResponse(v.(*practice.Batch)))
}

// generateFeedback handles POST /api/interview/feedback.
func (s *Server) generateFeedback(w http.ResponseWriter, r *http.Request) {
	var req remote.FeedbackRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Question.Question) == "" {
		s.writeError(w, http.StatusBadRequest, "question is required")
		return
	}
	if strings.TrimSpace(req.UserAnswer) == "" {
		s.writeError(w, http.StatusBadRequest, "userAnswer is required")
		return
	}

	ctx, cancel := s.generateContext(r.Context())
	defer cancel()
	rec, err := s.feedback.Feedback(ctx, req.Question.ToQuestion(0), req.UserAnswer, req.Profile.Context())
	if err != nil {
		s.fail(w, "feedback generation failed", err)
		return
	}

	s.writeJSON(w, http.StatusOK, remote.NewFeedbackResponse(rec))
}

// generateContext detaches generation from the client connection. A
// shared batch must not be cancelled because its first caller went away.
func (s *Server) generateContext(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx = context.WithoutCancel(ctx)
	if s.cfg.GenerateTimeout > 0 {
		return context.WithTimeout(ctx, s.cfg.GenerateTimeout)
	}
	return context.WithCancel(ctx)
}

func (s *Server) fail(w http.ResponseWriter, msg string, err error) {
	s.logger.Warn(msg, zap.String("kind", string(practice.Classify(err))), zap.Error(err))
	s.writeError(w, http.StatusBadGateway, msg)
}

func decode(r *http.Request, v any) error {
	return json.NewDecoder(io.LimitReader(r.Body, maxRequestBytes)).Decode(v)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("write response failed", zap.Int("status", status), zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
