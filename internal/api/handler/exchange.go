// internal/api/handler/exchange.go
package handler

import (
	"net/http"
	"strconv"

	"cryptoex/internal/api/types"
	"cryptoex/internal/domain"
	"cryptoex/internal/service"
	"cryptoex/internal/util"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Default page size of the operation history.
const defaultOperationsLimit = 10

// ExchangeHandler handles HTTP requests for currencies, users and trades.
type ExchangeHandler struct {
	exchange service.ExchangeService
	trading  service.TradingService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewExchangeHandler creates a new ExchangeHandler.
func NewExchangeHandler(exchange service.ExchangeService, trading service.TradingService, logger *zap.Logger) *ExchangeHandler {
	return &ExchangeHandler{
		exchange: exchange,
		trading:  trading,
		validate: newValidator(),
		logger:   logger,
	}
}

// NameRequest represents the request body for creating a currency or registering a user.
type NameRequest struct {
	Name string `json:"name" validate:"required,max=32"`
}

// TradeRequest represents the request body for a trade.
type TradeRequest struct {
	UserName       string          `json:"user_name" validate:"required"`
	CurrencyName   string          `json:"currency_name" validate:"required"`
	Operation      string          `json:"operation" validate:"required"`
	CurrencyAmount decimal.Decimal `json:"currency_amount" validate:"gt=0"`
	ExchangeRate   decimal.Decimal `json:"exchange_rate" validate:"gt=0"` // Rate the client last saw
}

// OperationsQuery represents the query string of the operation history.
type OperationsQuery struct {
	Limit int `validate:"gte=1,lte=100"`
	Page  int `validate:"gte=0"`
}

// AddCurrency handles listing a new currency.
// POST /currencies
func (h *ExchangeHandler) AddCurrency(w http.ResponseWriter, r *http.Request) {
	req, err := bindAndValidate[NameRequest](h.validate, r)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	currency, err := h.exchange.AddCurrency(r.Context(), req.Name)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	h.respondOK(w, currency)
}

// ListCurrencies handles listing every currency.
// GET /currencies
func (h *ExchangeHandler) ListCurrencies(w http.ResponseWriter, r *http.Request) {
	currencies, err := h.exchange.ListCurrencies(r.Context())
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	h.respondOK(w, currencies)
}

// GetCurrency handles reading one currency with its buying and selling rates.
// GET /currencies/{currencyName}
func (h *ExchangeHandler) GetCurrency(w http.ResponseWriter, r *http.Request) {
	quote, err := h.exchange.GetCurrency(r.Context(), chi.URLParam(r, "currencyName"))
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	h.respondOK(w, quote)
}

// RegisterUser handles user registration.
// POST /users
func (h *ExchangeHandler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	req, err := bindAndValidate[NameRequest](h.validate, r)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	profile, err := h.exchange.RegisterUser(r.Context(), req.Name)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	h.respondOK(w, profile)
}

// GetUser handles reading a user with their wallet.
// GET /users/{userName}
func (h *ExchangeHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	profile, err := h.exchange.GetUser(r.Context(), chi.URLParam(r, "userName"))
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	h.respondOK(w, profile)
}

// GetOperations handles one page of a user's trade history.
// GET /users/{userName}/operations?limit=&page=
func (h *ExchangeHandler) GetOperations(w http.ResponseWriter, r *http.Request) {
	query, err := h.parseOperationsQuery(r)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	operations, total, err := h.exchange.GetOperations(r.Context(), chi.URLParam(r, "userName"), query.Limit, query.Page)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	h.respondOK(w, types.PaginatedResponse[domain.Operation]{
		Items:      operations,
		Limit:      query.Limit,
		Page:       query.Page,
		Offset:     query.Limit * query.Page,
		TotalCount: total,
	})
}

func (h *ExchangeHandler) parseOperationsQuery(r *http.Request) (*OperationsQuery, error) {
	query := OperationsQuery{Limit: defaultOperationsLimit}
	values := r.URL.Query()

	if s := values.Get("limit"); s != "" {
		limit, err := strconv.Atoi(s)
		if err != nil {
			return nil, util.ErrInvalidInput
		}
		query.Limit = limit
	}
	if s := values.Get("page"); s != "" {
		page, err := strconv.Atoi(s)
		if err != nil {
			return nil, util.ErrInvalidInput
		}
		query.Page = page
	}

	if err := validateStruct(h.validate, &query); err != nil {
		return nil, err
	}
	return &query, nil
}

// Trade handles a buy or sell order.
// POST /trades
func (h *ExchangeHandler) Trade(w http.ResponseWriter, r *http.Request) {
	req, err := bindAndValidate[TradeRequest](h.validate, r)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	opType, err := domain.ParseOperationType(req.Operation)
	if err != nil {
		h.respondWithError(w, r, util.ErrInvalidInput)
		return
	}

	err = h.trading.Trade(r.Context(), service.TradeRequest{
		UserName:     req.UserName,
		CurrencyName: req.CurrencyName,
		Type:         opType,
		Amount:       req.CurrencyAmount,
		ExchangeRate: req.ExchangeRate,
	})
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	h.respondOK(w, nil)
}
