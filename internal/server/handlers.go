package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/insightxpress/server/internal/chart"
	errx "github.com/insightxpress/server/internal/core/error"
	"github.com/insightxpress/server/internal/dataset"
	"github.com/insightxpress/server/internal/session"
	logx "github.com/insightxpress/server/pkg/logger"
)

const sessionCookie = "ixp_session"

const sessionCookieMaxAge = int(30 * time.Minute / time.Second)

// TurnView is one rendered history entry. Chart turns are exposed as a URL
// instead of inline bytes.
type TurnView struct {
	Kind     string `json:"kind"`
	Content  string `json:"content,omitempty"`
	Question string `json:"question,omitempty"`
	Answer   string `json:"answer,omitempty"`
	ChartURL string `json:"chart_url,omitempty"`
}

// StateView is the render instruction every command handler answers with.
// Rendering it is read-only; the history is never mutated by display.
type StateView struct {
	Provider        string         `json:"provider"`
	PipelineEnabled bool           `json:"pipeline_enabled"`
	HasTable        bool           `json:"has_table"`
	Columns         []string       `json:"columns,omitempty"`
	Limits          session.Limits `json:"limits"`
	Turns           []TurnView     `json:"turns"`
}

func (s *Server) view(sess *session.Session) StateView {
	v := StateView{
		Provider:        s.provider,
		PipelineEnabled: s.pipeline.Enabled(),
		HasTable:        sess.Table != nil && !sess.Table.Empty(),
		Limits:          sess.Limits,
		Turns:           make([]TurnView, 0, len(sess.Turns)),
	}
	if sess.Table != nil {
		v.Columns = sess.Table.Columns
	}
	for i, turn := range sess.Turns {
		tv := TurnView{
			Kind:     string(turn.Kind),
			Content:  turn.Content,
			Question: turn.Question,
			Answer:   turn.Answer,
		}
		if turn.Kind == session.TurnChart {
			tv.ChartURL = fmt.Sprintf("/api/chart/%d", i)
		}
		v.Turns = append(v.Turns, tv)
	}
	return v
}

// loadSession resolves the cookie-bound session, creating a fresh one when
// absent or expired.
func (s *Server) loadSession(c *gin.Context) (*session.Session, error) {
	id, err := c.Cookie(sessionCookie)
	if err != nil || id == "" {
		id = uuid.NewString()
		c.SetCookie(sessionCookie, id, sessionCookieMaxAge, "/", "", false, true)
	}

	sess, err := s.store.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, errx.ErrSessionNotFound) {
			return session.New(id, s.limits.MaxGraphs, s.limits.MaxFollowUps), nil
		}
		return nil, err
	}
	return sess, nil
}

func (s *Server) saveSession(c *gin.Context, sess *session.Session) error {
	return s.store.Put(c.Request.Context(), sess)
}

// fail turns any pipeline failure into a transient visible message and
// leaves prior session state untouched.
func fail(c *gin.Context, err error) {
	var e *errx.Error
	if errors.As(err, &e) {
		c.JSON(e.HTTPStatus(), resp.Failure().WithDesc(e.Message))
		return
	}
	logx.Error().Err(err).Msg("unhandled error")
	c.JSON(http.StatusInternalServerError, resp.Failure().WithDesc(errx.SystemErrorMessage))
}

func (s *Server) handleState(c *gin.Context) {
	sess, err := s.loadSession(c)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.Success(s.view(sess)))
}

func (s *Server) handleUpload(c *gin.Context) {
	sess, err := s.loadSession(c)
	if err != nil {
		fail(c, err)
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		fail(c, errx.New(err, errx.KindInputRejected, "Nenhum arquivo foi enviado."))
		return
	}
	defer file.Close()

	if header.Size > dataset.MaxUploadBytes {
		fail(c, errx.New(nil, errx.KindInputRejected, "Arquivo muito grande. O limite é de 2MB."))
		return
	}
	data, err := io.ReadAll(io.LimitReader(file, dataset.MaxUploadBytes+1))
	if err != nil {
		fail(c, errx.New(err, errx.KindUnexpected, errx.SystemErrorMessage))
		return
	}

	tbl, err := dataset.Read(header.Filename, data)
	if err != nil {
		fail(c, err)
		return
	}

	sess.Table = tbl
	if err := s.saveSession(c, sess); err != nil {
		fail(c, err)
		return
	}
	logx.Info().Str("filename", header.Filename).Int("rows", len(tbl.Rows)).Msg("workbook loaded")
	c.JSON(http.StatusOK, resp.Success(s.view(sess)))
}

type analyzeRequest struct {
	Context string `json:"context"`
}

func (s *Server) handleAnalyze(c *gin.Context) {
	sess, err := s.loadSession(c)
	if err != nil {
		fail(c, err)
		return
	}

	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, errx.New(err, errx.KindInputRejected, "Requisição inválida."))
		return
	}

	if err := s.pipeline.Analyze(c.Request.Context(), sess, req.Context); err != nil {
		fail(c, err)
		return
	}
	if err := s.saveSession(c, sess); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.Success(s.view(sess)))
}

type followUpRequest struct {
	Question string `json:"question"`
}

func (s *Server) handleFollowUp(c *gin.Context) {
	sess, err := s.loadSession(c)
	if err != nil {
		fail(c, err)
		return
	}

	var req followUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, errx.New(err, errx.KindInputRejected, "Requisição inválida."))
		return
	}

	if err := s.pipeline.FollowUp(c.Request.Context(), sess, req.Question); err != nil {
		fail(c, err)
		return
	}
	if err := s.saveSession(c, sess); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.Success(s.view(sess)))
}

type chartRequest struct {
	Kind string `json:"kind"`
	X    string `json:"x"`
	Y    string `json:"y"`
}

func (s *Server) handleChart(c *gin.Context) {
	sess, err := s.loadSession(c)
	if err != nil {
		fail(c, err)
		return
	}

	var req chartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, errx.New(err, errx.KindInputRejected, "Requisição inválida."))
		return
	}
	kind, err := chart.ParseKind(req.Kind)
	if err != nil {
		fail(c, err)
		return
	}

	if err := s.pipeline.Chart(c.Request.Context(), sess, chart.Request{Kind: kind, X: req.X, Y: req.Y}); err != nil {
		fail(c, err)
		return
	}
	if err := s.saveSession(c, sess); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.Success(s.view(sess)))
}

func (s *Server) handleChartPNG(c *gin.Context) {
	sess, err := s.loadSession(c)
	if err != nil {
		fail(c, err)
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 || index >= len(sess.Turns) {
		c.JSON(http.StatusNotFound, resp.Failure().WithDesc("Gráfico não encontrado."))
		return
	}
	turn := sess.Turns[index]
	if turn.Kind != session.TurnChart || len(turn.ChartPNG) == 0 {
		c.JSON(http.StatusNotFound, resp.Failure().WithDesc("Gráfico não encontrado."))
		return
	}
	c.Data(http.StatusOK, "image/png", turn.ChartPNG)
}
