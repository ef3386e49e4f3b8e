package api

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/yakoovad/teamquery/internal/model"
	"github.com/yakoovad/teamquery/internal/service"
)

const defaultPageLimit = 20

// ProcessRequest runs the steps in order and stops at the first failure.
func ProcessRequest[T any](e echo.Context, req *T, steps ...func(echo.Context, *T) *service.Error) *service.Error {
	for _, step := range steps {
		if err := step(e, req); err != nil {
			return err
		}
	}
	return nil
}

type searchRequest struct {
	Condition model.MemberSearchCondition
	Page      model.PageRequest
}

// bindCondition reads username, teamName, ageGoe and ageLoe. Absent age
// bounds stay nil.
func bindCondition(e echo.Context, req *searchRequest) *service.Error {
	cond := &req.Condition
	var goe, loe int

	err := echo.QueryParamsBinder(e).
		String("username", &cond.Username).
		String("teamName", &cond.TeamName).
		Int("ageGoe", &goe).
		Int("ageLoe", &loe).
		BindError()
	if err != nil {
		return service.NewError(service.ErrorCodeInvalidBody, "invalid search condition")
	}

	if e.QueryParam("ageGoe") != "" {
		cond.AgeGoe = &goe
	}
	if e.QueryParam("ageLoe") != "" {
		cond.AgeLoe = &loe
	}
	return nil
}

func bindPage(e echo.Context, req *searchRequest) *service.Error {
	req.Page.Limit = defaultPageLimit

	err := echo.QueryParamsBinder(e).
		Int64("offset", &req.Page.Offset).
		Int64("limit", &req.Page.Limit).
		BindError()
	if err != nil {
		return service.NewError(service.ErrorCodeInvalidBody, "invalid page request")
	}
	return nil
}

func validateCondition(e echo.Context, req *searchRequest) *service.Error {
	if err := e.Validate(&req.Condition); err != nil {
		return service.NewError(service.ErrorCodeInvalidBody, errors.Wrap(err, "search condition validation failed").Error())
	}
	return nil
}

func validatePage(e echo.Context, req *searchRequest) *service.Error {
	if err := e.Validate(&req.Page); err != nil {
		return service.NewError(service.ErrorCodeInvalidBody, errors.Wrap(err, "page request validation failed").Error())
	}
	return nil
}
