package accountdelivery

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-petr/voice-bank/internal/domain"
	"github.com/go-petr/voice-bank/internal/middleware"
	"github.com/go-petr/voice-bank/pkg/errorspkg"
	"github.com/go-petr/voice-bank/pkg/randompkg"
	"github.com/go-petr/voice-bank/pkg/tokenpkg"
	"github.com/go-petr/voice-bank/pkg/web"
	"github.com/go-playground/validator/v10"
	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := v.RegisterValidation("accounttype", ValidAccountType); err != nil {
			log.Fatalf("RegisterValidation(accounttype) returned error: %v", err)
		}
	}

	os.Exit(m.Run())
}

const (
	authType = middleware.AuthTypeBearer
	duration = time.Minute
)

func newTokenMaker(t *testing.T) tokenpkg.Maker {
	t.Helper()

	key := randompkg.String(32)

	maker, err := tokenpkg.NewPasetoMaker(key)
	if err != nil {
		t.Fatalf("tokenpkg.NewPasetoMaker(%v) returned error: %v", key, err)
	}

	return maker
}

func randomAccount() domain.MaskedAccount {
	return domain.MaskedAccount{
		ID:            randompkg.Int64Between(1, 1000),
		AccountNumber: domain.MaskAccountNumber(randompkg.Digits(16)),
		AccountType:   domain.AccountTypeChecking,
		Balance:       randompkg.Int64Between(0, 1_000_000),
		CreatedAt:     time.Now().UTC(),
	}
}

func TestCreate(t *testing.T) {
	t.Parallel()

	userID := randompkg.Int64Between(1, 1000)
	username := randompkg.Username()
	account := randomAccount()
	tokenMaker := newTokenMaker(t)

	type requestBody struct {
		AccountType    string `json:"account_type"`
		InitialBalance int64  `json:"initial_balance"`
	}

	withAuth := func(t *testing.T, r *http.Request) error {
		return middleware.AddAuthorization(r, tokenMaker, authType, userID, username, duration)
	}

	testCases := []struct {
		name           string
		requestBody    requestBody
		setupAuth      func(t *testing.T, r *http.Request) error
		buildStubs     func(accountService *MockService)
		wantStatusCode int
		wantError      string
	}{
		{
			name:        "OK",
			requestBody: requestBody{AccountType: "checking", InitialBalance: account.Balance},
			setupAuth:   withAuth,
			buildStubs: func(accountService *MockService) {
				accountService.EXPECT().
					Create(gomock.Any(), gomock.Eq(userID), gomock.Eq(domain.AccountTypeChecking), gomock.Eq(account.Balance)).
					Times(1).
					Return(account, nil)
			},
			wantStatusCode: http.StatusCreated,
		},
		{
			name:        "NoAuthorization",
			requestBody: requestBody{AccountType: "checking"},
			setupAuth: func(t *testing.T, r *http.Request) error {
				return nil
			},
			buildStubs: func(accountService *MockService) {
				accountService.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusUnauthorized,
			wantError:      middleware.ErrAuthHeaderNotFound.Error(),
		},
		{
			name:        "InvalidAccountType",
			requestBody: requestBody{AccountType: "crypto"},
			setupAuth:   withAuth,
			buildStubs: func(accountService *MockService) {
				accountService.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "accounttype field must be a supported account type",
		},
		{
			name:        "NegativeBalance",
			requestBody: requestBody{AccountType: "savings", InitialBalance: -1},
			setupAuth:   withAuth,
			buildStubs: func(accountService *MockService) {
				accountService.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:        "UserNotFound",
			requestBody: requestBody{AccountType: "checking"},
			setupAuth:   withAuth,
			buildStubs: func(accountService *MockService) {
				accountService.EXPECT().
					Create(gomock.Any(), gomock.Eq(userID), gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.MaskedAccount{}, domain.ErrUserNotFound)
			},
			wantStatusCode: http.StatusNotFound,
			wantError:      domain.ErrUserNotFound.Error(),
		},
		{
			name:        "InternalServerError",
			requestBody: requestBody{AccountType: "checking"},
			setupAuth:   withAuth,
			buildStubs: func(accountService *MockService) {
				accountService.EXPECT().
					Create(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.MaskedAccount{}, fmt.Errorf("pq: connection refused"))
			},
			wantStatusCode: http.StatusInternalServerError,
			wantError:      errorspkg.ErrInternal.Error(),
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			accountService := NewMockService(ctrl)
			accountHandler := NewHandler(accountService)

			server := gin.New()
			server.Use(middleware.AuthMiddleware(tokenMaker))
			server.POST("/accounts", accountHandler.Create)

			tc.buildStubs(accountService)

			body, err := json.Marshal(tc.requestBody)
			if err != nil {
				t.Fatalf("Encoding request body error: %v", err)
			}

			req, err := http.NewRequest(http.MethodPost, "/accounts", bytes.NewReader(body))
			if err != nil {
				t.Fatalf("Creating request error: %v", err)
			}

			if err = tc.setupAuth(t, req); err != nil {
				t.Fatalf("tc.setupAuth(t, %+v) returned error: %v", req, err)
			}

			recorder := httptest.NewRecorder()
			server.ServeHTTP(recorder, req)

			if got := recorder.Code; got != tc.wantStatusCode {
				t.Errorf("Status code: got %v, want %v", got, tc.wantStatusCode)
			}

			got := &accountData{}
			res := web.Response{Data: got}

			if err := json.NewDecoder(recorder.Body).Decode(&res); err != nil {
				t.Fatalf("Decoding response body error: %v", err)
			}

			if tc.wantStatusCode != http.StatusCreated {
				if tc.wantError != "" && res.Error != tc.wantError {
					t.Errorf(`res.Error=%q, want %q`, res.Error, tc.wantError)
				}

				return
			}

			compareCreatedAt := cmpopts.EquateApproxTime(time.Second)
			if diff := cmp.Diff(account, got.Account, compareCreatedAt); diff != "" {
				t.Errorf("res.Data mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestList(t *testing.T) {
	t.Parallel()

	userID := randompkg.Int64Between(1, 1000)
	username := randompkg.Username()
	tokenMaker := newTokenMaker(t)
	accounts := []domain.MaskedAccount{randomAccount(), randomAccount()}

	testCases := []struct {
		name           string
		buildStubs     func(accountService *MockService)
		wantStatusCode int
		wantAccounts   []domain.MaskedAccount
	}{
		{
			name: "OK",
			buildStubs: func(accountService *MockService) {
				accountService.EXPECT().List(gomock.Any(), gomock.Eq(userID)).Times(1).Return(accounts, nil)
			},
			wantStatusCode: http.StatusOK,
			wantAccounts:   accounts,
		},
		{
			name: "Empty",
			buildStubs: func(accountService *MockService) {
				accountService.EXPECT().List(gomock.Any(), gomock.Eq(userID)).Times(1).Return([]domain.MaskedAccount{}, nil)
			},
			wantStatusCode: http.StatusOK,
			wantAccounts:   []domain.MaskedAccount{},
		},
		{
			name: "InternalServerError",
			buildStubs: func(accountService *MockService) {
				accountService.EXPECT().List(gomock.Any(), gomock.Any()).Times(1).Return(nil, errorspkg.ErrInternal)
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			accountService := NewMockService(ctrl)
			tc.buildStubs(accountService)

			server := gin.New()
			server.Use(middleware.AuthMiddleware(tokenMaker))
			server.GET("/accounts", NewHandler(accountService).List)

			req, err := http.NewRequest(http.MethodGet, "/accounts", nil)
			if err != nil {
				t.Fatalf("Creating request error: %v", err)
			}

			if err := middleware.AddAuthorization(req, tokenMaker, authType, userID, username, duration); err != nil {
				t.Fatalf("middleware.AddAuthorization returned error: %v", err)
			}

			recorder := httptest.NewRecorder()
			server.ServeHTTP(recorder, req)

			if got := recorder.Code; got != tc.wantStatusCode {
				t.Errorf("Status code: got %v, want %v", got, tc.wantStatusCode)
			}

			if tc.wantStatusCode != http.StatusOK {
				return
			}

			got := &accountsData{}
			if err := json.NewDecoder(recorder.Body).Decode(&web.Response{Data: got}); err != nil {
				t.Fatalf("Decoding response body error: %v", err)
			}

			compareCreatedAt := cmpopts.EquateApproxTime(time.Second)
			if diff := cmp.Diff(tc.wantAccounts, got.Accounts, compareCreatedAt); diff != "" {
				t.Errorf("accounts mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDelete(t *testing.T) {
	t.Parallel()

	userID := randompkg.Int64Between(1, 1000)
	username := randompkg.Username()
	tokenMaker := newTokenMaker(t)

	testCases := []struct {
		name           string
		accountID      string
		buildStubs     func(accountService *MockService)
		wantStatusCode int
		wantError      string
	}{
		{
			name:      "OK",
			accountID: "7",
			buildStubs: func(accountService *MockService) {
				accountService.EXPECT().Deactivate(gomock.Any(), gomock.Eq(userID), gomock.Eq(int64(7))).Times(1).Return(nil)
			},
			wantStatusCode: http.StatusNoContent,
		},
		{
			name:      "InvalidID",
			accountID: "0",
			buildStubs: func(accountService *MockService) {
				accountService.EXPECT().Deactivate(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:      "NotFound",
			accountID: "7",
			buildStubs: func(accountService *MockService) {
				accountService.EXPECT().
					Deactivate(gomock.Any(), gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.ErrAccountNotFound)
			},
			wantStatusCode: http.StatusNotFound,
			wantError:      domain.ErrAccountNotFound.Error(),
		},
		{
			name:      "ForeignAccount",
			accountID: "7",
			buildStubs: func(accountService *MockService) {
				accountService.EXPECT().
					Deactivate(gomock.Any(), gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.ErrAccountOwnerMismatch)
			},
			wantStatusCode: http.StatusForbidden,
			wantError:      domain.ErrAccountOwnerMismatch.Error(),
		},
		{
			name:      "InternalServerError",
			accountID: "7",
			buildStubs: func(accountService *MockService) {
				accountService.EXPECT().
					Deactivate(gomock.Any(), gomock.Any(), gomock.Any()).
					Times(1).
					Return(errorspkg.ErrInternal)
			},
			wantStatusCode: http.StatusInternalServerError,
			wantError:      errorspkg.ErrInternal.Error(),
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			accountService := NewMockService(ctrl)
			tc.buildStubs(accountService)

			server := gin.New()
			server.Use(middleware.AuthMiddleware(tokenMaker))
			server.DELETE("/accounts/:id", NewHandler(accountService).Delete)

			req, err := http.NewRequest(http.MethodDelete, "/accounts/"+tc.accountID, nil)
			if err != nil {
				t.Fatalf("Creating request error: %v", err)
			}

			if err := middleware.AddAuthorization(req, tokenMaker, authType, userID, username, duration); err != nil {
				t.Fatalf("middleware.AddAuthorization returned error: %v", err)
			}

			recorder := httptest.NewRecorder()
			server.ServeHTTP(recorder, req)

			if got := recorder.Code; got != tc.wantStatusCode {
				t.Errorf("Status code: got %v, want %v", got, tc.wantStatusCode)
			}

			if tc.wantError == "" {
				return
			}

			var res web.Response
			if err := json.NewDecoder(recorder.Body).Decode(&res); err != nil {
				t.Fatalf("Decoding response body error: %v", err)
			}

			if res.Error != tc.wantError {
				t.Errorf(`res.Error=%q, want %q`, res.Error, tc.wantError)
			}
		})
	}
}
