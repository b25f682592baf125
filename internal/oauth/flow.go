package oauth

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os/exec"
	"runtime"
	"time"

	"github.com/vickgarcia/fitpull/internal/tokenstore"
	"golang.org/x/oauth2"
)

const shutdownTime = 5 * time.Second

type tokenResult struct {
	token *oauth2.Token
	err   error
}

// Flow runs the authorization-code exchange: it opens the browser, serves the
// loopback callback configured as the app's redirect URL, exchanges the code,
// and persists the token. The callback handler hands its result over a
// one-shot channel; nothing polls.
type Flow struct {
	config  *oauth2.Config
	store   *tokenstore.Store
	account string
	state   string
}

func NewFlow(config *oauth2.Config, store *tokenstore.Store, account string) (*Flow, error) {
	state, err := GenerateState()
	if err != nil {
		return nil, fmt.Errorf("failed to generate state: %w", err)
	}
	return &Flow{
		config:  config,
		store:   store,
		account: account,
		state:   state,
	}, nil
}

func (f *Flow) Run(ctx context.Context) (*oauth2.Token, error) {
	redirect, err := url.Parse(f.config.RedirectURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redirect URL: %w", err)
	}

	resultCh := make(chan tokenResult, 1)

	server, err := f.startCallbackServer(redirect, resultCh)
	if err != nil {
		return nil, fmt.Errorf("failed to start callback server: %w", err)
	}

	authURL := f.config.AuthCodeURL(f.state)

	fmt.Printf("Opening browser for authorization...\n")
	fmt.Printf("If the browser doesn't open, visit:\n%s\n\n", authURL)

	if err := openBrowser(authURL); err != nil {
		fmt.Printf("Failed to open browser: %v\n", err)
	}

	select {
	case result := <-resultCh:
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTime)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("Warning: failed to shutdown server: %v\n", err)
		}

		if result.err != nil {
			return nil, result.err
		}

		if err := SaveToken(ctx, f.store, f.account, result.token); err != nil {
			return nil, fmt.Errorf("failed to save token: %w", err)
		}

		return result.token, nil

	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTime)
		defer cancel()

		_ = server.Shutdown(shutdownCtx)

		return nil, ctx.Err()
	}
}

func (f *Flow) startCallbackServer(redirect *url.URL, resultCh chan<- tokenResult) (*http.Server, error) {
	path := redirect.Path
	if path == "" {
		path = "/"
	}

	mux := http.NewServeMux()
	mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		token, err := f.handleCallback(w, r)
		if err != nil {
			resultCh <- tokenResult{err: err}
			return
		}
		writeSuccessHTML(w)
		resultCh <- tokenResult{token: token}
	})

	listener, err := net.Listen("tcp", redirect.Host)
	if err != nil {
		return nil, fmt.Errorf("failed to start listener on %s: %w", redirect.Host, err)
	}

	server := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			resultCh <- tokenResult{err: fmt.Errorf("server error: %w", err)}
		}
	}()

	return server, nil
}

func (f *Flow) handleCallback(w http.ResponseWriter, r *http.Request) (*oauth2.Token, error) {
	if !ValidateState(f.state, r.URL.Query().Get("state")) {
		http.Error(w, "Invalid state parameter", http.StatusBadRequest)
		return nil, errors.New("invalid state parameter")
	}

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		errDesc := r.URL.Query().Get("error_description")
		http.Error(w, fmt.Sprintf("OAuth error: %s", errDesc), http.StatusBadRequest)
		return nil, fmt.Errorf("oauth error: %s - %s", errParam, errDesc)
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "Missing authorization code", http.StatusBadRequest)
		return nil, errors.New("missing authorization code")
	}

	token, err := f.config.Exchange(r.Context(), code)
	if err != nil {
		http.Error(w, "Failed to exchange authorization code", http.StatusInternalServerError)
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	return token, nil
}

// SaveToken persists a grant, carrying along the Fitbit user id the token
// endpoint returns next to the token fields.
func SaveToken(ctx context.Context, store *tokenstore.Store, account string, token *oauth2.Token) error {
	stored := tokenstore.Token{
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
		Expiry:      token.Expiry,
	}

	if token.RefreshToken != "" {
		stored.RefreshToken = &token.RefreshToken
	}
	if userID, ok := token.Extra("user_id").(string); ok {
		stored.UserID = userID
	}

	return store.Upsert(ctx, account, stored)
}

func writeSuccessHTML(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = fmt.Fprint(w, `<!DOCTYPE html>
<html>
<head><title>Authorization Successful</title></head>
<body>
<h1>Authorization Successful</h1>
<p>You can close this window and return to the terminal.</p>
</body>
</html>`)
}

func openBrowser(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}
