// Package accountdelivery manages delivery layer of accounts.
package accountdelivery

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
	"github.com/corebank/ledger/pkg/moneypkg"
	"github.com/corebank/ledger/pkg/web"
)

// Service provides service layer interface needed by account delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package accountdelivery
type Service interface {
	Create(ctx context.Context, owner, accountType, currency string) (domain.Account, error)
	Get(ctx context.Context, id string) (domain.Account, error)
	List(ctx context.Context, owner string, pageSize, pageID int32) ([]domain.Account, error)
	Deposit(ctx context.Context, userID, accountID string, amount int64, currency, description string) (domain.Account, domain.Entry, error)
}

// Handler facilitates account delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns account handler.
func NewHandler(as Service) *Handler {
	return &Handler{service: as}
}

// accountView renders the account with its balance additionally formatted
// as a decimal string in the account currency's conventional precision.
type accountView struct {
	domain.Account
	BalanceDecimal string `json:"balance_decimal"`
}

func newAccountView(a domain.Account) accountView {
	return accountView{Account: a, BalanceDecimal: moneypkg.Format(a.Balance, a.Currency)}
}

func newAccountViews(accounts []domain.Account) []accountView {
	views := make([]accountView, len(accounts))
	for i, a := range accounts {
		views[i] = newAccountView(a)
	}

	return views
}

type data struct {
	Account accountView `json:"account"`
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

type createRequest struct {
	Type     string `json:"type" binding:"required,accounttype"`
	Currency string `json:"currency" binding:"required,currency"`
}

// Create handles http request to create account.
func (h *Handler) Create(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req createRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindError(l, err)})
		return
	}

	createdAccount, err := h.service.Create(ctx, middleware.UserID(gctx), req.Type, req.Currency)
	if err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: data{newAccountView(createdAccount)}})
}

type getRequest struct {
	ID string `uri:"id" binding:"required,uuid"`
}

// Get handles http request to get account.
func (h *Handler) Get(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req getRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindError(l, err)})
		return
	}

	acc, err := h.service.Get(ctx, req.ID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	if acc.Owner != middleware.UserID(gctx) {
		l.Warn().Str("account_id", acc.ID).Msg("account owner mismatch")
		gctx.JSON(http.StatusUnauthorized, web.Error(domain.ErrAccountOwnerMismatch))

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: data{newAccountView(acc)}})
}

type listRequest struct {
	PageID   int32 `form:"page_id" binding:"required,min=1"`
	PageSize int32 `form:"page_size" binding:"required,min=1,max=100"`
}

// List handles http request to list the user's accounts.
func (h *Handler) List(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req listRequest
	if err := gctx.ShouldBindQuery(&req); err != nil {
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindError(l, err)})
		return
	}

	accounts, err := h.service.List(ctx, middleware.UserID(gctx), req.PageSize, req.PageID)
	if err != nil {
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: gin.H{"accounts": newAccountViews(accounts)}})
}

type depositURI struct {
	ID string `uri:"id" binding:"required,uuid"`
}

type depositRequest struct {
	Amount      string `json:"amount" binding:"required"`
	Currency    string `json:"currency" binding:"required,currency"`
	Description string `json:"description" binding:"max=255"`
}

type depositData struct {
	Account accountView  `json:"account"`
	Entry   domain.Entry `json:"entry"`
}

// Deposit handles http request to credit an account.
func (h *Handler) Deposit(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri depositURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindError(l, err)})
		return
	}

	var req depositRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindError(l, err)})
		return
	}

	amount, err := moneypkg.Parse(req.Amount, req.Currency)
	if err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	account, entry, err := h.service.Deposit(ctx, middleware.UserID(gctx), uri.ID, amount, req.Currency, req.Description)
	if err != nil {
		l.Info().Err(err).Send()

		switch {
		case errors.Is(err, domain.ErrAccountNotFound):
			gctx.JSON(http.StatusNotFound, web.Error(err))
		case errors.Is(err, domain.ErrAccountOwnerMismatch):
			gctx.JSON(http.StatusUnauthorized, web.Error(err))
		case errors.Is(err, domain.ErrInvalidAmount),
			errors.Is(err, domain.ErrCurrencyMismatch),
			errors.Is(err, domain.ErrAccountNotActive):
			gctx.JSON(http.StatusBadRequest, web.Error(err))
		case errors.Is(err, domain.ErrContention):
			gctx.JSON(http.StatusConflict, web.Error(err))
		case errors.Is(err, domain.ErrStoreUnavailable):
			gctx.JSON(http.StatusServiceUnavailable, web.Error(err))
		default:
			gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
		}

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: depositData{newAccountView(account), entry}})
}
