package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"github.com/arbit-labs/arbit/core"
	"github.com/arbit-labs/arbit/ports"
)

// BuilderAddress is the Pear Protocol fee-routing identity. The end user's
// wallet must approve it before trades routed through it are accepted.
const BuilderAddress = "0xA47D4d99191db54A4829cdf3de2417E527c3b042"

const (
	defaultLeverage = 1
	defaultSlippage = 0.05
)

// DegradePolicy optionally rewrites an order's sides when the agent wallet
// record is unusable. It returns the replacement sides and whether a rewrite
// happened.
type DegradePolicy func(wallet core.AgentWalletState, long, short []core.BasketAsset) (newLong, newShort []core.BasketAsset, degraded bool)

// DegradeToSingleLong reduces the order to its first long leg at full weight
// when no usable agent wallet record exists. This reproduces a diagnostic
// workaround for an undocumented remote failure mode, kept from the original
// integration; it is not part of the remote contract and can be swapped out
// with WithDegradePolicy.
func DegradeToSingleLong(wallet core.AgentWalletState, long, short []core.BasketAsset) ([]core.BasketAsset, []core.BasketAsset, bool) {
	if !wallet.Empty() || len(long) == 0 {
		return long, short, false
	}
	return []core.BasketAsset{{Symbol: long[0].Symbol, Weight: 1}}, nil, true
}

// NoDegrade leaves every order untouched.
func NoDegrade(_ core.AgentWalletState, long, short []core.BasketAsset) ([]core.BasketAsset, []core.BasketAsset, bool) {
	return long, short, false
}

// CreateWalletResult reports the outcome of an agent wallet creation attempt.
type CreateWalletResult struct {
	Exists        bool                   `json:"exists"`
	NeedsApproval bool                   `json:"needsApproval"`
	Wallet        map[string]interface{} `json:"wallet,omitempty"`
}

// TradeClient is the façade for authenticated Pear Protocol trading. It owns
// its token store; nothing in this package is a process-wide singleton.
type TradeClient struct {
	conn     *apiConn
	auth     *AuthClient
	store    ports.TokenStore
	events   ports.EventPublisher
	cred     core.Credential
	degrade  DegradePolicy
	redactor *core.Redactor
	log      *logrus.Logger
}

// TradeClientOption customizes a TradeClient.
type TradeClientOption func(*TradeClient)

// WithHTTPClient replaces the HTTP client used for all remote calls.
func WithHTTPClient(httpc *http.Client) TradeClientOption {
	return func(c *TradeClient) {
		c.conn.httpc = httpc
		c.auth.conn.httpc = httpc
	}
}

// WithEventPublisher wires an event publisher for trade and logout events.
func WithEventPublisher(pub ports.EventPublisher) TradeClientOption {
	return func(c *TradeClient) { c.events = pub }
}

// WithDegradePolicy replaces the empty-agent-wallet fallback policy.
func WithDegradePolicy(policy DegradePolicy) TradeClientOption {
	return func(c *TradeClient) { c.degrade = policy }
}

// WithLogger replaces the logger.
func WithLogger(log *logrus.Logger) TradeClientOption {
	return func(c *TradeClient) {
		c.log = log
		c.auth.log = log
	}
}

// NewTradeClient creates the trading façade. cred may be zero-valued for
// callers that only inspect public endpoints; authenticated operations then
// fail with ErrMissingCredential.
func NewTradeClient(baseURL, clientID string, cred core.Credential, signer ports.Signer, store ports.TokenStore, opts ...TradeClientOption) *TradeClient {
	log := logrus.StandardLogger()

	// Resolve the wallet address up front so cred stays immutable afterwards;
	// one client serves concurrent requests.
	if cred.Address == "" && cred.PrivateKey != "" {
		if addr, err := signer.DeriveAddress(cred.PrivateKey); err == nil {
			cred.Address = addr
		}
	}

	c := &TradeClient{
		conn:     &apiConn{baseURL: baseURL, clientID: clientID, httpc: http.DefaultClient},
		auth:     NewAuthClient(baseURL, clientID, nil, signer, log),
		store:    store,
		cred:     cred,
		degrade:  DegradeToSingleLong,
		redactor: core.NewRedactor(cred.PrivateKey),
		log:      log,
	}
	c.auth.redactor = c.redactor
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// EnsureAuthenticated makes sure the store holds a token pair, running the
// full handshake when it does not. A held token is assumed valid; expiry
// surfaces as a 401-class failure on the next remote call. Two concurrent
// callers that both see an empty store will both authenticate, which is
// wasteful but safe against this remote.
func (c *TradeClient) EnsureAuthenticated(ctx context.Context) error {
	if pair, ok := c.store.Get(); ok {
		c.warnIfExpiring(pair.AccessToken)
		return nil
	}

	if !c.cred.Configured() {
		return core.ErrMissingCredential
	}

	pair, err := c.auth.Authenticate(ctx, c.cred)
	if err != nil {
		return err
	}
	c.store.Set(pair)
	c.redactor.Add(pair.AccessToken)
	c.redactor.Add(pair.RefreshToken)
	return nil
}

// warnIfExpiring decodes the access token's exp claim without verifying the
// signature and logs when the token is close to the end of its 15 minute
// lifetime. Purely diagnostic: the client still relies on the remote to
// reject stale tokens rather than refreshing proactively.
func (c *TradeClient) warnIfExpiring(token string) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return
	}
	if until := time.Until(exp.Time); until < time.Minute {
		c.log.WithField("expires_in", until.Round(time.Second).String()).
			Warn("access token near expiry; the next call may require re-authentication")
	}
}

// RefreshTokens rotates the stored pair via the refresh endpoint. On failure
// the stored pair is left untouched.
func (c *TradeClient) RefreshTokens(ctx context.Context) (core.TokenPair, error) {
	pair, ok := c.store.Get()
	if !ok {
		return core.TokenPair{}, fmt.Errorf("%w: no refresh token held", core.ErrRefreshFailed)
	}

	next, err := c.auth.Refresh(ctx, pair.RefreshToken)
	if err != nil {
		return core.TokenPair{}, err
	}
	c.store.Set(next)
	c.redactor.Add(next.AccessToken)
	c.redactor.Add(next.RefreshToken)
	return next, nil
}

// Logout clears the stored tokens and best-effort invalidates the refresh
// token server-side. Remote failures are logged, never raised.
func (c *TradeClient) Logout(ctx context.Context) {
	pair, ok := c.store.Get()
	c.store.Clear()
	if !ok {
		return
	}

	c.auth.Logout(ctx, pair.RefreshToken)
	if c.events != nil {
		if err := c.events.PublishLogout(ctx, c.cred.Address); err != nil {
			c.log.WithError(err).Warn("failed to publish logout event")
		}
	}
}

// CheckAgentWallet queries the delegated-wallet record. A 404 is a valid
// "absent" answer, not an error; an empty 2xx body means the wallet exists
// but awaits approval.
func (c *TradeClient) CheckAgentWallet(ctx context.Context) (core.AgentWalletState, error) {
	if err := c.EnsureAuthenticated(ctx); err != nil {
		return core.AgentWalletState{}, err
	}
	pair, _ := c.store.Get()

	body, status, err := c.conn.do(ctx, http.MethodGet, "/agentWallet", nil, pair.AccessToken)
	if err != nil {
		return core.AgentWalletState{}, fmt.Errorf("check agent wallet: %w", err)
	}
	if status == http.StatusNotFound {
		return core.AgentWalletState{Status: core.WalletAbsent}, nil
	}
	if status/100 != 2 {
		return core.AgentWalletState{}, c.remoteErr("check agent wallet", status, body, core.ErrRemoteRejected)
	}
	return core.ParseAgentWallet(body), nil
}

// CreateAgentWallet creates the delegated wallet when none exists. A
// populated record short-circuits to an exists/needsApproval result without
// calling create. The creation POST goes out with no body and no
// Content-Type header; the endpoint rejects an empty JSON-typed body.
func (c *TradeClient) CreateAgentWallet(ctx context.Context) (CreateWalletResult, error) {
	state, err := c.CheckAgentWallet(ctx)
	if err != nil {
		return CreateWalletResult{}, err
	}
	if len(state.Raw) > 0 {
		c.log.WithField("wallet_status", state.Status).Info("agent wallet already exists")
		return CreateWalletResult{Exists: true, NeedsApproval: true, Wallet: state.Raw}, nil
	}

	pair, _ := c.store.Get()
	body, status, err := c.conn.do(ctx, http.MethodPost, "/agentWallet", nil, pair.AccessToken)
	if err != nil {
		return CreateWalletResult{}, fmt.Errorf("create agent wallet: %w", err)
	}
	if status/100 != 2 {
		if cond := inferRemoteCondition(body); cond != nil {
			return CreateWalletResult{Exists: true, NeedsApproval: true}, fmt.Errorf("create agent wallet: %w", cond)
		}
		return CreateWalletResult{}, c.remoteErr("create agent wallet", status, body, core.ErrAgentWalletCreationFailed)
	}

	var wallet map[string]interface{}
	_ = json.Unmarshal(body, &wallet) // tolerate non-JSON creation responses
	return CreateWalletResult{Wallet: wallet, NeedsApproval: true}, nil
}

// ExecuteBasketTrade validates and normalizes the basket, checks the agent
// wallet diagnostically, submits the order and normalizes the response.
func (c *TradeClient) ExecuteBasketTrade(ctx context.Context, params core.BasketTradeParams, notionalUSD float64) (core.TradeResult, error) {
	if err := c.EnsureAuthenticated(ctx); err != nil {
		return core.TradeResult{}, err
	}
	if params.Empty() {
		return core.TradeResult{}, core.ErrInvalidBasket
	}

	long := core.NormalizeSide(params.Long)
	short := core.NormalizeSide(params.Short)
	if err := core.ValidateWeights("long", long); err != nil {
		return core.TradeResult{}, err
	}
	if err := core.ValidateWeights("short", short); err != nil {
		return core.TradeResult{}, err
	}

	// Diagnostic only: a failed or unusable wallet lookup does not block the
	// trade, it just informs the degrade policy and the operator log.
	wallet, err := c.CheckAgentWallet(ctx)
	if err != nil {
		c.log.WithError(err).Warn("agent wallet check failed before trade")
		wallet = core.AgentWalletState{Status: core.WalletUnknown}
	}

	long, short, degraded := c.degrade(wallet, long, short)
	if degraded {
		c.log.WithField("wallet_status", wallet.Status).
			Warn("agent wallet record unusable; degrading to a single-asset long-only diagnostic trade")
	}

	order := core.OrderRequest{
		ExecutionType: core.ExecutionMarket,
		Leverage:      defaultLeverage,
		UsdValue:      notionalUSD,
		Slippage:      defaultSlippage,
		LongAssets:    long,
		ShortAssets:   short,
	}
	if order.LongAssets == nil {
		order.LongAssets = []core.BasketAsset{}
	}
	if order.ShortAssets == nil {
		order.ShortAssets = []core.BasketAsset{}
	}

	pair, _ := c.store.Get()
	body, status, err := c.conn.do(ctx, http.MethodPost, "/positions", order, pair.AccessToken)
	if err != nil {
		return core.TradeResult{}, fmt.Errorf("execute basket trade: %w", err)
	}
	if status/100 != 2 {
		c.log.WithFields(logrus.Fields{
			"status":  status,
			"body":    string(body),
			"payload": order,
		}).Error("trade execution failed")
		return core.TradeResult{}, &core.TradeError{
			Status: status,
			Body:   c.redactor.Clean(string(body)),
			Order:  order,
			Err:    core.ErrTradeExecutionFailed,
		}
	}

	result := parseTradeResult(body)
	c.log.WithFields(logrus.Fields{"order_id": result.OrderID, "status": result.Status}).
		Info("basket trade submitted")

	if c.events != nil {
		if err := c.events.PublishTradeExecuted(ctx, c.cred.Address, result, order); err != nil {
			c.log.WithError(err).Warn("failed to publish trade event")
		}
	}
	return result, nil
}

// remoteErr records the full failure on the operator log and returns a
// redacted error safe for external callers.
func (c *TradeClient) remoteErr(op string, status int, body []byte, sentinel error) error {
	c.log.WithFields(logrus.Fields{"op": op, "status": status, "body": string(body)}).
		Error("remote call failed")
	return &core.RemoteError{Op: op, Status: status, Body: c.redactor.Clean(string(body)), Err: sentinel}
}
