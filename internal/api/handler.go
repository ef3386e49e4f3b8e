package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/yakoovad/teamquery/internal/auth"
	"github.com/yakoovad/teamquery/internal/model"
	"github.com/yakoovad/teamquery/internal/service"
	"github.com/yakoovad/teamquery/pkg/logger"
)

type Handler struct {
	team   *service.TeamService
	member *service.MemberService
	signer *auth.Signer

	healthChecker HealthChecker

	logger *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{
		logger: logger,
	}
}

func (h *Handler) WithHealthChecker(c HealthChecker) *Handler {
	h.healthChecker = c
	return h
}

func (h *Handler) WithTeamService(team *service.TeamService) *Handler {
	h.team = team
	return h
}

func (h *Handler) WithMemberService(member *service.MemberService) *Handler {
	h.member = member
	return h
}

func (h *Handler) WithSigner(signer *auth.Signer) *Handler {
	h.signer = signer
	return h
}

// RegisterRoutes mounts the API. Without a token secret reads are public
// and the admin routes are not registered.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.Validator = NewValidator()
	e.Use(middleware.RequestID())
	e.Use(ZapLoggerMiddleware(h.logger))
	e.Use(MetricsMiddleware())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	if h.healthChecker != nil {
		e.GET("/health", h.healthChecker.HealthCheck())
	}
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	var readers []echo.MiddlewareFunc
	if h.signer.Enabled() {
		readers = append(readers, AuthMiddleware(h.signer, auth.TokenTypeUser, auth.TokenTypeAdmin))
	}
	userSecurity := e.Group("", readers...)

	userSecurity.GET("/v1/members", h.SearchMembers)
	userSecurity.GET("/v2/members", h.SearchMembersPage)
	userSecurity.GET("/members/:id", h.GetMember)
	userSecurity.GET("/teams/stats", h.TeamStats)
	userSecurity.GET("/teams/:name", h.GetTeam)

	if !h.signer.Enabled() {
		h.logger.Warn("token secret is not set, admin routes are disabled")
		return
	}

	adminSecurity := e.Group("", AuthMiddleware(h.signer, auth.TokenTypeAdmin))

	adminSecurity.POST("/teams", h.AddTeam)
	adminSecurity.POST("/members", h.AddMember)
}

func (h *Handler) SearchMembers(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	var req searchRequest
	if err := ProcessRequest(e, &req, bindCondition, validateCondition); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return transportError(e, err)
	}

	l.Info("searching members", zap.Any("condition", req.Condition))

	members, err := h.member.Search(e.Request().Context(), &req.Condition)
	if err != nil {
		return transportError(e, err)
	}

	return e.JSON(http.StatusOK, members)
}

func (h *Handler) SearchMembersPage(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	var req searchRequest
	if err := ProcessRequest(e, &req, bindCondition, bindPage, validateCondition, validatePage); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return transportError(e, err)
	}

	l.Info("searching members page",
		zap.Any("condition", req.Condition),
		zap.Int64("offset", req.Page.Offset),
		zap.Int64("limit", req.Page.Limit))

	page, err := h.member.SearchPage(e.Request().Context(), &req.Condition, req.Page)
	if err != nil {
		return transportError(e, err)
	}

	return e.JSON(http.StatusOK, page)
}

func (h *Handler) GetMember(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	id, err := strconv.ParseInt(e.Param("id"), 10, 64)
	if err != nil {
		l.Error("invalid member id", zap.String("id", e.Param("id")))
		return transportError(e, service.NewError(service.ErrorCodeInvalidBody, "invalid member id"))
	}

	member, serr := h.member.GetMember(e.Request().Context(), id)
	if serr != nil {
		return transportError(e, serr)
	}

	return e.JSON(http.StatusOK, member)
}

func (h *Handler) GetTeam(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	teamName := e.Param("name")

	l.Info("getting team", zap.String("team_name", teamName))

	team, err := h.team.GetTeam(e.Request().Context(), teamName)
	if err != nil {
		l.Error("failed to get team", zap.String("team_name", teamName), zap.Any("error", err))
		return transportError(e, err)
	}

	return e.JSON(http.StatusOK, team)
}

func (h *Handler) TeamStats(e echo.Context) error {
	stats, err := h.team.Stats(e.Request().Context())
	if err != nil {
		return transportError(e, err)
	}

	return e.JSON(http.StatusOK, stats)
}

func (h *Handler) AddTeam(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	team := &model.Team{}

	if err := h.decodeRequest(e, team); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return transportError(e, err)
	}

	l.Info("adding team", zap.String("team_name", team.Name))

	if err := h.team.AddTeam(e.Request().Context(), team); err != nil {
		l.Error("failed to add team", zap.String("team_name", team.Name), zap.Any("error", err))
		return transportError(e, err)
	}

	return e.JSON(http.StatusCreated, team)
}

func (h *Handler) AddMember(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	var req struct {
		Username string `json:"username" validate:"required"`
		Age      int    `json:"age" validate:"gte=0"`
		TeamID   *int64 `json:"team_id"`
	}

	if err := h.decodeRequest(e, &req); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return transportError(e, err)
	}

	member := &model.Member{Username: &req.Username, Age: req.Age, TeamID: req.TeamID}

	if err := h.member.AddMember(e.Request().Context(), member); err != nil {
		l.Error("failed to add member", zap.String("username", req.Username), zap.Any("error", err))
		return transportError(e, err)
	}

	return e.JSON(http.StatusCreated, member)
}

func (h *Handler) decodeRequest(e echo.Context, req any) *service.Error {
	if err := e.Bind(req); err != nil {
		return service.NewError(service.ErrorCodeInvalidBody, "invalid request body")
	}

	if err := e.Validate(req); err != nil {
		return service.NewError(service.ErrorCodeInvalidBody, errors.Wrap(err, "request validation failed").Error())
	}
	return nil
}
