package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/AlexZinkM/phantom-waitlist/internal/crypto"
	"github.com/AlexZinkM/phantom-waitlist/internal/model"
	"github.com/AlexZinkM/phantom-waitlist/solana"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// FlowParam is the query parameter carrying the flow id through the redirect link.
const FlowParam = "flow"

const (
	flowKeyPrefix    = "flow:"
	sessionKeyPrefix = "session-flow:"
)

// Options configures a Negotiator.
type Options struct {
	AppURL       string // public origin, e.g. https://waitlist.example.com
	CallbackPath string // defaults to /callback
	Cluster      string // defaults to mainnet-beta
	FlowTTL      time.Duration
	Logger       zerolog.Logger
}

// Negotiator resolves a wallet address through an injected provider or a
// Phantom deep link.
type Negotiator struct {
	store       KeyValueStore
	appURL      string
	callbackURL string
	cluster     string
	flowTTL     time.Duration
	log         zerolog.Logger
}

// NewNegotiator creates a Negotiator backed by store.
func NewNegotiator(store KeyValueStore, opts Options) (*Negotiator, error) {
	if store == nil {
		return nil, errors.New("key-value store is required")
	}

	appURL := strings.TrimRight(opts.AppURL, "/")
	u, err := url.Parse(appURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("app URL must be absolute, got %q", opts.AppURL)
	}

	callbackPath := opts.CallbackPath
	if callbackPath == "" {
		callbackPath = "/callback"
	}
	if !strings.HasPrefix(callbackPath, "/") {
		callbackPath = "/" + callbackPath
	}

	cluster := opts.Cluster
	if cluster == "" {
		cluster = "mainnet-beta"
	}

	ttl := opts.FlowTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}

	return &Negotiator{
		store:       store,
		appURL:      appURL,
		callbackURL: appURL + callbackPath,
		cluster:     cluster,
		flowTTL:     ttl,
		log:         opts.Logger,
	}, nil
}

// Connect picks a strategy from env. An injected provider is used directly; without
// one a mobile browser is sent through a deep link and anything else is refused.
func (n *Negotiator) Connect(ctx context.Context, env Environment) (*Result, error) {
	if env.Provider != nil {
		pk, err := env.Provider.Connect(ctx, ConnectOptions{OnlyIfTrusted: env.Silent})
		if err != nil {
			n.log.Info().Err(err).Str("session", env.SessionID).Msg("injected connect declined")
			if errors.Is(err, ErrUserRejectedConnect) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %v", ErrUserRejectedConnect, err)
		}
		return &Result{
			Strategy:  StrategyInjected,
			State:     FlowCompleted,
			Address:   pk.String(),
			SessionID: env.SessionID,
		}, nil
	}

	if env.Silent || !env.Mobile {
		return nil, ErrProviderUnavailable
	}

	return n.StartDeepLink(ctx, env.SessionID)
}

// StartDeepLink generates a single-use keypair, persists it under a new flow id and
// returns the Phantom connect URL. Any earlier flow of the same session is discarded.
func (n *Negotiator) StartDeepLink(ctx context.Context, sessionID string) (*Result, error) {
	keys, err := crypto.GenerateKeyPair()
	if err != nil {
		return nil, err
	}
	defer crypto.Wipe(keys)

	flow := &Flow{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		State:     FlowAwaitingRedirect,
		PublicKey: keys.PublicKeyBase58(),
		SecretKey: keys.SecretKeyBase58(),
		CreatedAt: time.Now().UTC(),
	}

	redirect, err := url.Parse(n.callbackURL)
	if err != nil {
		return nil, fmt.Errorf("invalid callback URL: %w", err)
	}
	q := redirect.Query()
	q.Set(FlowParam, flow.ID)
	redirect.RawQuery = q.Encode()

	link, err := solana.ConnectURL(solana.ConnectParams{
		AppURL:        n.appURL,
		DappPublicKey: flow.PublicKey,
		RedirectLink:  redirect.String(),
		Cluster:       n.cluster,
	})
	if err != nil {
		return nil, err
	}

	if sessionID != "" {
		n.discardPrevious(ctx, sessionID)
	}
	if err := n.saveFlow(ctx, flow); err != nil {
		return nil, err
	}
	if sessionID != "" {
		if err := n.store.Set(ctx, sessionKeyPrefix+sessionID, []byte(flow.ID), n.flowTTL); err != nil {
			return nil, fmt.Errorf("failed to index flow: %w", err)
		}
	}

	n.log.Info().Str("flow", flow.ID).Str("session", sessionID).Msg("deep link started")

	return &Result{
		Strategy:    StrategyDeepLink,
		State:       FlowAwaitingRedirect,
		FlowID:      flow.ID,
		SessionID:   sessionID,
		RedirectURL: link,
	}, nil
}

// HandleCallback completes a deep-link flow from the callback query. Missing
// parameters fail before any key material is read.
func (n *Negotiator) HandleCallback(ctx context.Context, query url.Values) (*Result, error) {
	flowID := query.Get(FlowParam)

	if code := query.Get(solana.ParamErrorCode); code != "" {
		n.log.Info().Str("flow", flowID).Str("code", code).
			Str("message", query.Get(solana.ParamErrorMessage)).Msg("wallet rejected deep link")
		if flowID != "" {
			if flow, err := n.loadFlow(ctx, flowID); err == nil && flow.State == FlowAwaitingRedirect {
				flow.finish(FlowFailed, "")
				_ = n.saveFlow(ctx, flow)
			}
		}
		return nil, ErrUserRejectedConnect
	}

	peerKey := query.Get(solana.ParamPhantomPublicKey)
	nonce := query.Get(solana.ParamNonce)
	data := query.Get(solana.ParamData)
	if flowID == "" || peerKey == "" || nonce == "" || data == "" {
		return nil, ErrCallbackMalformed
	}

	flow, err := n.loadFlow(ctx, flowID)
	if err != nil {
		return nil, err
	}
	if flow.State != FlowAwaitingRedirect || flow.SecretKey == "" {
		return nil, ErrFlowNotFound
	}

	address, err := openConnectPayload(flow.SecretKey, peerKey, nonce, data)
	if err != nil {
		n.log.Warn().Err(err).Str("flow", flowID).Msg("deep link callback rejected")
		flow.finish(FlowFailed, "")
		if saveErr := n.saveFlow(ctx, flow); saveErr != nil {
			n.log.Error().Err(saveErr).Str("flow", flowID).Msg("failed to persist failed flow")
		}
		return nil, ErrDecryptionFailed
	}

	flow.finish(FlowCompleted, address)
	if err := n.saveFlow(ctx, flow); err != nil {
		return nil, err
	}

	n.log.Info().Str("flow", flowID).Str("session", flow.SessionID).Msg("deep link completed")

	return &Result{
		Strategy:  StrategyDeepLink,
		State:     FlowCompleted,
		Address:   address,
		FlowID:    flow.ID,
		SessionID: flow.SessionID,
	}, nil
}

// Flow returns the current state of a deep-link flow.
func (n *Negotiator) Flow(ctx context.Context, id string) (*Flow, error) {
	flow, err := n.loadFlow(ctx, id)
	if err != nil {
		return nil, err
	}
	flow.SecretKey = ""
	return flow, nil
}

func openConnectPayload(secret, peerKey, nonce, data string) (string, error) {
	keys, err := crypto.KeyPairFromSecret(secret)
	if err != nil {
		return "", err
	}
	defer crypto.Wipe(keys)

	plaintext, err := crypto.OpenEncoded(keys.SecretKey, peerKey, nonce, data)
	if err != nil {
		return "", err
	}
	defer clear(plaintext)

	var payload model.ConnectPayload
	if err := json.Unmarshal(plaintext, &payload); err != nil {
		return "", fmt.Errorf("failed to unmarshal connect payload: %w", err)
	}
	if payload.PublicKey == "" {
		return "", errors.New("connect payload has no public_key")
	}

	pk, err := solana.ParseAddress(payload.PublicKey)
	if err != nil {
		return "", err
	}
	return pk.String(), nil
}

func (n *Negotiator) discardPrevious(ctx context.Context, sessionID string) {
	prev, err := n.store.Get(ctx, sessionKeyPrefix+sessionID)
	if err != nil {
		return
	}
	if err := n.store.Delete(ctx, flowKeyPrefix+string(prev)); err != nil && !errors.Is(err, ErrNotFound) {
		n.log.Warn().Err(err).Str("flow", string(prev)).Msg("failed to discard previous flow")
	}
}

func (n *Negotiator) loadFlow(ctx context.Context, id string) (*Flow, error) {
	raw, err := n.store.Get(ctx, flowKeyPrefix+id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrFlowNotFound
		}
		return nil, fmt.Errorf("failed to load flow: %w", err)
	}
	flow, err := decodeFlow(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode flow: %w", err)
	}
	return flow, nil
}

func (n *Negotiator) saveFlow(ctx context.Context, flow *Flow) error {
	raw, err := json.Marshal(flow)
	if err != nil {
		return fmt.Errorf("failed to marshal flow: %w", err)
	}
	if err := n.store.Set(ctx, flowKeyPrefix+flow.ID, raw, n.flowTTL); err != nil {
		return fmt.Errorf("failed to save flow: %w", err)
	}
	return nil
}
