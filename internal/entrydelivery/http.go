// Package entrydelivery manages delivery layer of ledger entries.
package entrydelivery

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/corebank/ledger/internal/domain"
	"github.com/corebank/ledger/internal/middleware"
	"github.com/corebank/ledger/pkg/errorspkg"
	"github.com/corebank/ledger/pkg/web"
)

// Service provides service layer interface needed by entry delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package entrydelivery
type Service interface {
	ListForAccount(ctx context.Context, userID, accountID string, limit int32) ([]domain.Entry, error)
	ListForUser(ctx context.Context, userID string, limit int32) ([]domain.Entry, error)
}

// Handler facilitates entry delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns entry handler.
func NewHandler(es Service) *Handler {
	return &Handler{service: es}
}

type listURI struct {
	ID string `uri:"id" binding:"required,uuid"`
}

type listQuery struct {
	Limit int32 `form:"limit,default=50" binding:"min=1,max=100"`
}

type data struct {
	Entries []domain.Entry `json:"entries"`
}

func bindError(l *zerolog.Logger, err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		field := ve[0]
		return field.Field() + web.GetErrorMsg(field)
	}

	l.Info().Err(err).Send()

	return "invalid request"
}

// ListForAccount handles http request to list one account's latest entries.
func (h *Handler) ListForAccount(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri listURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindError(l, err)})
		return
	}

	var query listQuery
	if err := gctx.ShouldBindQuery(&query); err != nil {
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindError(l, err)})
		return
	}

	entries, err := h.service.ListForAccount(ctx, middleware.UserID(gctx), uri.ID, query.Limit)
	if err != nil {
		l.Info().Err(err).Send()

		switch {
		case errors.Is(err, domain.ErrAccountNotFound):
			gctx.JSON(http.StatusNotFound, web.Error(err))
		case errors.Is(err, domain.ErrAccountOwnerMismatch):
			gctx.JSON(http.StatusUnauthorized, web.Error(err))
		default:
			gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
		}

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: data{entries}})
}

// ListForUser handles http request to list the user's latest entries.
func (h *Handler) ListForUser(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var query listQuery
	if err := gctx.ShouldBindQuery(&query); err != nil {
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindError(l, err)})
		return
	}

	entries, err := h.service.ListForUser(ctx, middleware.UserID(gctx), query.Limit)
	if err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: data{entries}})
}
