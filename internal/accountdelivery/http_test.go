package accountdelivery

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/corebank/ledger/internal/domain"
	"github.com/corebank/ledger/internal/middleware"
	"github.com/corebank/ledger/pkg/currencypkg"
	"github.com/corebank/ledger/pkg/errorspkg"
	"github.com/corebank/ledger/pkg/moneypkg"
	"github.com/corebank/ledger/pkg/randompkg"
)

func validAccountType(fl validator.FieldLevel) bool {
	if accountType, ok := fl.Field().Interface().(string); ok {
		return domain.IsSupportedAccountType(accountType)
	}

	return false
}

func setupServer(t *testing.T, service Service) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("currency", currencypkg.ValidCurrency)
		_ = v.RegisterValidation("accounttype", validAccountType)
	}

	server := gin.New()
	server.Use(middleware.RequireUser())

	handler := NewHandler(service)
	server.POST("/accounts", handler.Create)
	server.GET("/accounts/:id", handler.Get)
	server.GET("/accounts", handler.List)
	server.POST("/accounts/:id/deposits", handler.Deposit)

	return server
}

func TestCreateAccountAPI(t *testing.T) {
	userID := randompkg.Owner()

	account := domain.Account{
		ID:       randompkg.AccountID(),
		Number:   randompkg.AccountNumber(),
		Owner:    userID,
		Type:     domain.TypeChecking,
		Currency: currencypkg.USD,
		Status:   domain.StatusActive,
	}

	testCases := []struct {
		name          string
		requestBody   gin.H
		setupAuth     func(request *http.Request)
		buildStubs    func(service *MockService)
		checkResponse func(recorder *httptest.ResponseRecorder)
	}{
		{
			name:        "NoUserHeader",
			requestBody: gin.H{"type": domain.TypeChecking, "currency": currencypkg.USD},
			setupAuth:   func(request *http.Request) {},
			buildStubs: func(service *MockService) {
				service.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusUnauthorized, recorder.Code)
			},
		},
		{
			name:        "UnsupportedType",
			requestBody: gin.H{"type": "bitcoin", "currency": currencypkg.USD},
			setupAuth:   func(request *http.Request) { middleware.SetUserID(request, userID) },
			buildStubs: func(service *MockService) {
				service.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name:        "UnsupportedCurrency",
			requestBody: gin.H{"type": domain.TypeChecking, "currency": "XYZ"},
			setupAuth:   func(request *http.Request) { middleware.SetUserID(request, userID) },
			buildStubs: func(service *MockService) {
				service.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name:        "ServiceError",
			requestBody: gin.H{"type": domain.TypeChecking, "currency": currencypkg.USD},
			setupAuth:   func(request *http.Request) { middleware.SetUserID(request, userID) },
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Create(gomock.Any(), gomock.Eq(userID), gomock.Eq(domain.TypeChecking), gomock.Eq(currencypkg.USD)).
					Return(domain.Account{}, errorspkg.ErrInternal)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusInternalServerError, recorder.Code)
			},
		},
		{
			name:        "OK",
			requestBody: gin.H{"type": domain.TypeChecking, "currency": currencypkg.USD},
			setupAuth:   func(request *http.Request) { middleware.SetUserID(request, userID) },
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Create(gomock.Any(), gomock.Eq(userID), gomock.Eq(domain.TypeChecking), gomock.Eq(currencypkg.USD)).
					Return(account, nil)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)
				requireBodyMatchAccount(t, recorder, account)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			service := NewMockService(ctrl)
			tc.buildStubs(service)

			server := setupServer(t, service)

			body, err := json.Marshal(tc.requestBody)
			require.NoError(t, err)

			request := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewReader(body))
			tc.setupAuth(request)

			recorder := httptest.NewRecorder()
			server.ServeHTTP(recorder, request)

			tc.checkResponse(recorder)
		})
	}
}

func TestGetAccountAPI(t *testing.T) {
	userID := randompkg.Owner()

	account := domain.Account{
		ID:       randompkg.AccountID(),
		Number:   randompkg.AccountNumber(),
		Owner:    userID,
		Type:     domain.TypeSavings,
		Balance:  12345,
		Currency: currencypkg.USD,
		Status:   domain.StatusActive,
	}

	testCases := []struct {
		name          string
		accountID     string
		setupAuth     func(request *http.Request)
		buildStubs    func(service *MockService)
		checkResponse func(recorder *httptest.ResponseRecorder)
	}{
		{
			name:      "InvalidID",
			accountID: "not-a-uuid",
			setupAuth: func(request *http.Request) { middleware.SetUserID(request, userID) },
			buildStubs: func(service *MockService) {
				service.EXPECT().Get(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name:      "NotFound",
			accountID: account.ID,
			setupAuth: func(request *http.Request) { middleware.SetUserID(request, userID) },
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Get(gomock.Any(), gomock.Eq(account.ID)).
					Return(domain.Account{}, domain.ErrAccountNotFound)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusNotFound, recorder.Code)
			},
		},
		{
			name:      "OwnerMismatch",
			accountID: account.ID,
			setupAuth: func(request *http.Request) { middleware.SetUserID(request, randompkg.Owner()) },
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Get(gomock.Any(), gomock.Eq(account.ID)).
					Return(account, nil)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusUnauthorized, recorder.Code)
			},
		},
		{
			name:      "StoreError",
			accountID: account.ID,
			setupAuth: func(request *http.Request) { middleware.SetUserID(request, userID) },
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Get(gomock.Any(), gomock.Eq(account.ID)).
					Return(domain.Account{}, domain.ErrStoreUnavailable)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusInternalServerError, recorder.Code)
			},
		},
		{
			name:      "OK",
			accountID: account.ID,
			setupAuth: func(request *http.Request) { middleware.SetUserID(request, userID) },
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Get(gomock.Any(), gomock.Eq(account.ID)).
					Return(account, nil)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)
				requireBodyMatchAccount(t, recorder, account)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			service := NewMockService(ctrl)
			tc.buildStubs(service)

			server := setupServer(t, service)

			request := httptest.NewRequest(http.MethodGet, "/accounts/"+tc.accountID, nil)
			tc.setupAuth(request)

			recorder := httptest.NewRecorder()
			server.ServeHTTP(recorder, request)

			tc.checkResponse(recorder)
		})
	}
}

func TestListAccountsAPI(t *testing.T) {
	userID := randompkg.Owner()

	accounts := []domain.Account{
		{ID: randompkg.AccountID(), Owner: userID, Currency: currencypkg.USD},
		{ID: randompkg.AccountID(), Owner: userID, Currency: currencypkg.EUR},
	}

	testCases := []struct {
		name          string
		query         string
		buildStubs    func(service *MockService)
		checkResponse func(recorder *httptest.ResponseRecorder)
	}{
		{
			name:  "MissingPageID",
			query: "?page_size=10",
			buildStubs: func(service *MockService) {
				service.EXPECT().List(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name:  "PageSizeTooLarge",
			query: "?page_id=1&page_size=500",
			buildStubs: func(service *MockService) {
				service.EXPECT().List(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name:  "OK",
			query: "?page_id=1&page_size=10",
			buildStubs: func(service *MockService) {
				service.EXPECT().
					List(gomock.Any(), gomock.Eq(userID), gomock.Eq(int32(10)), gomock.Eq(int32(1))).
					Return(accounts, nil)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)

				var got struct {
					Data struct {
						Accounts []domain.Account `json:"accounts"`
					} `json:"data"`
				}

				require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
				require.Equal(t, accounts, got.Data.Accounts)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			service := NewMockService(ctrl)
			tc.buildStubs(service)

			server := setupServer(t, service)

			request := httptest.NewRequest(http.MethodGet, "/accounts"+tc.query, nil)
			middleware.SetUserID(request, userID)

			recorder := httptest.NewRecorder()
			server.ServeHTTP(recorder, request)

			tc.checkResponse(recorder)
		})
	}
}

func TestDepositAPI(t *testing.T) {
	userID := randompkg.Owner()
	accountID := randompkg.AccountID()

	account := domain.Account{
		ID:       accountID,
		Owner:    userID,
		Balance:  5000,
		Currency: currencypkg.USD,
		Status:   domain.StatusActive,
	}

	entry := domain.Entry{
		ID:        randompkg.AccountID(),
		UserID:    userID,
		AccountID: accountID,
		Direction: domain.DirectionCredit,
		Category:  domain.CategoryDeposit,
		Amount:    5000,
		Status:    domain.EntryCompleted,
	}

	requestBody := gin.H{"amount": "50.00", "currency": currencypkg.USD}

	testCases := []struct {
		name          string
		requestBody   gin.H
		buildStubs    func(service *MockService)
		checkResponse func(recorder *httptest.ResponseRecorder)
	}{
		{
			name:        "MissingAmount",
			requestBody: gin.H{"currency": currencypkg.USD},
			buildStubs: func(service *MockService) {
				service.EXPECT().Deposit(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name:        "NegativeAmount",
			requestBody: gin.H{"amount": "-50.00", "currency": currencypkg.USD},
			buildStubs: func(service *MockService) {
				service.EXPECT().Deposit(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name:        "NotFound",
			requestBody: requestBody,
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Deposit(gomock.Any(), gomock.Eq(userID), gomock.Eq(accountID), gomock.Eq(int64(5000)), gomock.Eq(currencypkg.USD), gomock.Eq("")).
					Return(domain.Account{}, domain.Entry{}, domain.ErrAccountNotFound)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusNotFound, recorder.Code)
			},
		},
		{
			name:        "AccountFrozen",
			requestBody: requestBody,
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Deposit(gomock.Any(), gomock.Eq(userID), gomock.Eq(accountID), gomock.Eq(int64(5000)), gomock.Eq(currencypkg.USD), gomock.Eq("")).
					Return(domain.Account{}, domain.Entry{}, domain.ErrAccountNotActive)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name:        "CurrencyMismatch",
			requestBody: requestBody,
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Deposit(gomock.Any(), gomock.Eq(userID), gomock.Eq(accountID), gomock.Eq(int64(5000)), gomock.Eq(currencypkg.USD), gomock.Eq("")).
					Return(domain.Account{}, domain.Entry{}, domain.ErrCurrencyMismatch)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name:        "Contention",
			requestBody: requestBody,
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Deposit(gomock.Any(), gomock.Eq(userID), gomock.Eq(accountID), gomock.Eq(int64(5000)), gomock.Eq(currencypkg.USD), gomock.Eq("")).
					Return(domain.Account{}, domain.Entry{}, domain.ErrContention)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusConflict, recorder.Code)
			},
		},
		{
			name:        "OK",
			requestBody: requestBody,
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Deposit(gomock.Any(), gomock.Eq(userID), gomock.Eq(accountID), gomock.Eq(int64(5000)), gomock.Eq(currencypkg.USD), gomock.Eq("")).
					Return(account, entry, nil)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)

				var got struct {
					Data struct {
						Account domain.Account `json:"account"`
						Entry   domain.Entry   `json:"entry"`
					} `json:"data"`
				}

				require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
				require.Equal(t, account, got.Data.Account)
				require.Equal(t, entry, got.Data.Entry)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			service := NewMockService(ctrl)
			tc.buildStubs(service)

			server := setupServer(t, service)

			body, err := json.Marshal(tc.requestBody)
			require.NoError(t, err)

			url := fmt.Sprintf("/accounts/%s/deposits", accountID)
			request := httptest.NewRequest(http.MethodPost, url, bytes.NewReader(body))
			middleware.SetUserID(request, userID)

			recorder := httptest.NewRecorder()
			server.ServeHTTP(recorder, request)

			tc.checkResponse(recorder)
		})
	}
}

func requireBodyMatchAccount(t *testing.T, recorder *httptest.ResponseRecorder, account domain.Account) {
	t.Helper()

	var got struct {
		Data struct {
			Account struct {
				domain.Account
				BalanceDecimal string `json:"balance_decimal"`
			} `json:"account"`
		} `json:"data"`
	}

	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	require.Equal(t, account, got.Data.Account.Account)
	require.Equal(t, moneypkg.Format(account.Balance, account.Currency), got.Data.Account.BalanceDecimal)
}
