// Package transferdelivery manages delivery layer of transfers.
package transferdelivery

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

// Service provides service layer interface needed by transfer delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package transferdelivery
type Service interface {
	Transfer(ctx context.Context, fromUserID string, arg domain.CreateTransferParams) (domain.TransferTxResult, error)
}

// Handler facilitates transfer delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns transfer handler.
func NewHandler(ts Service) *Handler {
	return &Handler{service: ts}
}

type createRequest struct {
	FromAccountID string `json:"from_account_id" binding:"required,uuid"`
	ToAccountID   string `json:"to_account_id" binding:"required,uuid"`
	Amount        string `json:"amount" binding:"required"`
	Currency      string `json:"currency" binding:"required,currency"`
	Description   string `json:"description" binding:"max=255"`
}

type data struct {
	Transfer domain.TransferTxResult `json:"transfer"`
}

// Create handles http request to create a transfer between two accounts.
func (h *Handler) Create(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req createRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		var (
			ve     validator.ValidationErrors
			errMsg string
		)

		if errors.As(err, &ve) {
			field := ve[0]
			errMsg = field.Field() + web.GetErrorMsg(field)
		}

		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: errMsg})

		return
	}

	amount, err := moneypkg.Parse(req.Amount, req.Currency)
	if err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	arg := domain.CreateTransferParams{
		FromAccountID: req.FromAccountID,
		ToAccountID:   req.ToAccountID,
		Amount:        amount,
		Currency:      req.Currency,
		Description:   req.Description,
	}

	result, err := h.service.Transfer(ctx, middleware.UserID(gctx), arg)
	if err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(statusFromError(err), web.Error(publicError(err)))

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: data{result}})
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, domain.ErrAccountOwnerMismatch):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrSourceAccountNotFound),
		errors.Is(err, domain.ErrDestinationAccountNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrSameAccountTransfer),
		errors.Is(err, domain.ErrCurrencyMismatch),
		errors.Is(err, domain.ErrAccountNotActive),
		errors.Is(err, domain.ErrInsufficientBalance):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrContention):
		return http.StatusConflict
	case errors.Is(err, domain.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func publicError(err error) error {
	if statusFromError(err) == http.StatusInternalServerError {
		return errorspkg.ErrInternal
	}

	return err
}
