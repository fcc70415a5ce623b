package server

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/example/provreg/internal/ports/primary"
)

type errorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

type ownerResponse struct {
	Identity      string `json:"identity,omitempty"`
	Initialized   bool   `json:"initialized"`
	InitializedAt string `json:"initialized_at,omitempty"`
}

type registerTaskRequest struct {
	TaskID string `json:"task_id"`
}

type publishRequest struct {
	Hash string `json:"hash"`
}

type versionResponse struct {
	TaskID    string `json:"task_id"`
	Version   uint64 `json:"version"`
	Hash      string `json:"hash"`
	Timestamp uint64 `json:"timestamp"`
}

type taskResponse struct {
	ID             string `json:"id"`
	LatestVersion  uint64 `json:"latest_version"`
	PublishedCount uint64 `json:"published_count"`
	CreatedAt      string `json:"created_at"`
}

type auditResponse struct {
	ID      string `json:"id"`
	Op      string `json:"op"`
	Caller  string `json:"caller"`
	TaskID  string `json:"task_id,omitempty"`
	Version uint64 `json:"version,omitempty"`
	At      string `json:"at"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, healthResponse{Status: "ok", Service: "provreg"})
}

func (s *Server) handleGetOwner(c echo.Context) error {
	info, err := s.svc.GetOwner(c.Request().Context())
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, ownerToResponse(info))
}

func (s *Server) handleInit(c echo.Context) error {
	caller, err := callerIdentity(c)
	if err != nil {
		return err
	}

	info, err := s.svc.InitOwner(c.Request().Context(), primary.InitRequest{Caller: caller})
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, ownerToResponse(info))
}

func (s *Server) handleRegisterTask(c echo.Context) error {
	caller, err := callerIdentity(c)
	if err != nil {
		return err
	}

	var req registerTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.TaskID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "task_id required")
	}

	summary, err := s.svc.RegisterTask(c.Request().Context(), primary.RegisterTaskRequest{
		Caller: caller,
		TaskID: req.TaskID,
	})
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, taskToResponse(summary))
}

func (s *Server) handleListTasks(c echo.Context) error {
	tasks, err := s.svc.ListTasks(c.Request().Context())
	if err != nil {
		return s.fail(c, err)
	}

	out := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, taskToResponse(t))
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) handleGetTask(c echo.Context) error {
	task, err := s.svc.GetTask(c.Request().Context(), c.Param("id"))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, taskToResponse(task))
}

func (s *Server) handlePublish(c echo.Context) error {
	caller, err := callerIdentity(c)
	if err != nil {
		return err
	}

	var req publishRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	v, err := s.svc.PublishVersion(c.Request().Context(), primary.PublishVersionRequest{
		Caller: caller,
		TaskID: c.Param("id"),
		Hash:   req.Hash,
	})
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, versionToResponse(v))
}

func (s *Server) handleGetLatest(c echo.Context) error {
	v, err := s.svc.GetLatest(c.Request().Context(), c.Param("id"))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, versionToResponse(v))
}

func (s *Server) handleHistory(c echo.Context) error {
	versions, err := s.svc.History(c.Request().Context(), c.Param("id"))
	if err != nil {
		return s.fail(c, err)
	}

	out := make([]versionResponse, 0, len(versions))
	for _, v := range versions {
		out = append(out, versionToResponse(v))
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) handleGetVersion(c echo.Context) error {
	n, err := strconv.ParseUint(c.Param("n"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid version number")
	}

	v, err := s.svc.GetVersion(c.Request().Context(), c.Param("id"), n)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, versionToResponse(v))
}

func (s *Server) handleListAudit(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid limit")
		}
		limit = n
	}

	entries, err := s.svc.ListAudit(c.Request().Context(), limit)
	if err != nil {
		return s.fail(c, err)
	}

	out := make([]auditResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, auditResponse{
			ID:      e.ID,
			Op:      e.Op,
			Caller:  e.Caller,
			TaskID:  e.TaskID,
			Version: e.Version,
			At:      e.At,
		})
	}
	return c.JSON(http.StatusOK, out)
}

func ownerToResponse(info *primary.OwnerInfo) ownerResponse {
	return ownerResponse{
		Identity:      info.Identity,
		Initialized:   info.Initialized,
		InitializedAt: info.InitializedAt,
	}
}

func taskToResponse(t *primary.TaskSummary) taskResponse {
	return taskResponse{
		ID:             t.ID,
		LatestVersion:  t.LatestVersion,
		PublishedCount: t.PublishedCount,
		CreatedAt:      t.CreatedAt,
	}
}

func versionToResponse(v *primary.Version) versionResponse {
	return versionResponse{
		TaskID:    v.TaskID,
		Version:   v.Version,
		Hash:      v.Hash,
		Timestamp: v.Timestamp,
	}
}
