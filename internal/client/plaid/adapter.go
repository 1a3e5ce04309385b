package plaidclient

import (
	"context"

	"github.com/plaid/plaid-go/v24/plaid"

	"github.com/alphafinance/backend/internal/dto"
	"github.com/alphafinance/backend/internal/errs"
)

// Adapter wraps the Plaid SDK behind the provider interfaces consumed by the
// sync pipeline. Responses are lifted into typed dto records before anything
// downstream touches them.
type Adapter struct {
	client *plaid.APIClient
}

func NewAdapter(clientID, secret string, env dto.PlaidEnvironment) *Adapter {
	cfg := plaid.NewConfiguration()
	cfg.AddDefaultHeader("PLAID-CLIENT-ID", clientID)
	cfg.AddDefaultHeader("PLAID-SECRET", secret)
	cfg.UseEnvironment(toPlaidEnv(env))

	return &Adapter{
		client: plaid.NewAPIClient(cfg),
	}
}

func (a *Adapter) CreateLinkToken(ctx context.Context, uid string) (string, error) {
	req := plaid.NewLinkTokenCreateRequest(
		"Alpha Finance",
		"en",
		[]plaid.CountryCode{plaid.COUNTRYCODE_GB},
		plaid.LinkTokenCreateRequestUser{ClientUserId: uid},
	)
	req.SetProducts([]plaid.Products{plaid.PRODUCTS_TRANSACTIONS})

	resp, _, err := a.client.PlaidApi.LinkTokenCreate(ctx).LinkTokenCreateRequest(*req).Execute()
	if err != nil {
		return "", toProviderError("link token creation failed", err)
	}
	return resp.GetLinkToken(), nil
}

func (a *Adapter) ExchangePublicToken(ctx context.Context, publicToken string) (itemID, accessToken string, err error) {
	req := plaid.NewItemPublicTokenExchangeRequest(publicToken)
	resp, _, err := a.client.PlaidApi.ItemPublicTokenExchange(ctx).ItemPublicTokenExchangeRequest(*req).Execute()
	if err != nil {
		return "", "", toProviderError("public token exchange failed", err)
	}
	return resp.GetItemId(), resp.GetAccessToken(), nil
}

// ListAccounts returns the full current account list for a credential.
func (a *Adapter) ListAccounts(ctx context.Context, accessToken string) ([]dto.ProviderAccount, error) {
	req := plaid.NewAccountsGetRequest(accessToken)
	resp, _, err := a.client.PlaidApi.AccountsGet(ctx).AccountsGetRequest(*req).Execute()
	if err != nil {
		return nil, toProviderError("account fetch failed", err)
	}

	accounts := make([]dto.ProviderAccount, 0, len(resp.GetAccounts()))
	for _, acct := range resp.GetAccounts() {
		balances := acct.GetBalances()
		accounts = append(accounts, dto.ProviderAccount{
			ProviderAccountID: acct.GetAccountId(),
			Name:              acct.GetName(),
			Balance:           balances.GetCurrent(),
			Type:              string(acct.GetType()),
			Subtype:           string(acct.GetSubtype()),
			Currency:          balances.GetIsoCurrencyCode(),
		})
	}
	return accounts, nil
}

// ListTransactions returns one page of the transaction feed for the date
// range, with the provider's reported total for pagination.
func (a *Adapter) ListTransactions(ctx context.Context, accessToken, startDate, endDate string, offset int) (dto.ProviderTransactionsPage, error) {
	var page dto.ProviderTransactionsPage

	req := plaid.NewTransactionsGetRequest(accessToken, startDate, endDate)
	opts := plaid.NewTransactionsGetRequestOptions()
	opts.SetCount(500)
	opts.SetOffset(int32(offset))
	opts.SetIncludePersonalFinanceCategory(true)
	req.SetOptions(*opts)

	resp, _, err := a.client.PlaidApi.TransactionsGet(ctx).TransactionsGetRequest(*req).Execute()
	if err != nil {
		return page, toProviderError("transaction fetch failed", err)
	}

	txs := make([]dto.ProviderTransaction, 0, len(resp.GetTransactions()))
	for _, t := range resp.GetTransactions() {
		pfc := t.GetPersonalFinanceCategory()
		location := t.GetLocation()
		txs = append(txs, dto.ProviderTransaction{
			ProviderTransactionID: t.GetTransactionId(),
			ProviderAccountID:     t.GetAccountId(),
			Name:                  t.GetName(),
			Amount:                t.GetAmount(),
			Currency:              t.GetIsoCurrencyCode(),
			Pending:               t.GetPending(),
			Date:                  t.GetDate(),
			AuthorizedDate:        t.GetAuthorizedDate(),
			Category:              pfc.GetPrimary(),
			Subcategory:           pfc.GetDetailed(),
			MerchantName:          t.GetMerchantName(),
			PaymentChannel:        t.GetPaymentChannel(),
			LocationCity:          location.GetCity(),
			LocationRegion:        location.GetRegion(),
			LocationCountry:       location.GetCountry(),
			LogoURL:               t.GetLogoUrl(),
			Website:               t.GetWebsite(),
		})
	}

	page.Transactions = txs
	page.Total = int(resp.GetTotalTransactions())
	return page, nil
}

// toProviderError classifies a Plaid SDK error. Rate limits and upstream
// API errors are worth retrying; ITEM_LOGIN_REQUIRED needs the user to
// relink their institution.
func toProviderError(message string, err error) *errs.ProviderError {
	plaidErr, convErr := plaid.ToPlaidError(err)
	if convErr != nil {
		return errs.NewProviderError(message, false, err)
	}

	switch plaidErr.GetErrorCode() {
	case "ITEM_LOGIN_REQUIRED":
		return errs.NewReauthProviderError(message+": bank requires re-authentication", err)
	case "RATE_LIMIT_EXCEEDED", "API_ERROR", "INTERNAL_SERVER_ERROR", "INSTITUTION_NOT_RESPONDING":
		return errs.NewProviderError(message, true, err)
	default:
		return errs.NewProviderError(message, false, err)
	}
}

func toPlaidEnv(env dto.PlaidEnvironment) plaid.Environment {
	switch env {
	case dto.PlaidSandbox:
		return plaid.Sandbox
	case dto.PlaidDevelopment:
		return plaid.Development
	default: // dto.PlaidProduction
		return plaid.Production
	}
}
