package oauth

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"net/url"
	"strings"
)

// confirmationBody is shown in the operator's browser after the redirect
// lands. Served with an explicit content-length so the browser renders it
// immediately over the raw connection.
const confirmationBody = "Go back to your terminal :)"

// callbackResult carries the two query parameters of interest from the
// authorization server's redirect.
type callbackResult struct {
	code  string
	state string
}

// listenCallback binds a TCP listener on the host:port of the redirect URL.
// Split from awaitCallback so the caller can bind before publishing the
// authorization URL, guaranteeing the browser never races the bind.
func listenCallback(ctx context.Context, redirect *url.URL) (net.Listener, error) {
	addr := net.JoinHostPort(redirect.Hostname(), redirect.Port())

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("binding callback listener on %s: %w", addr, err)
	}
	return ln, nil
}

// awaitCallback accepts exactly one connection on ln, parses the redirect
// request it carries, writes the confirmation page, and closes the listener.
// Cancelling ctx closes the listener and returns ctx.Err().
//
// Goroutine+select pattern because net.Listener.Accept has no native context
// support.
func awaitCallback(ctx context.Context, ln net.Listener, redirect *url.URL) (callbackResult, error) {
	defer func() { _ = ln.Close() }()

	type acceptResult struct {
		conn net.Conn
		err  error
	}
	acceptCh := make(chan acceptResult, 1)

	go func() {
		conn, err := ln.Accept()
		acceptCh <- acceptResult{conn: conn, err: err}
	}()

	select {
	case <-ctx.Done():
		// Unblocks the Accept above; the goroutine's send is buffered.
		_ = ln.Close()
		return callbackResult{}, ctx.Err()
	case res := <-acceptCh:
		if res.err != nil {
			return callbackResult{}, fmt.Errorf("accepting callback connection: %w", res.err)
		}
		defer func() { _ = res.conn.Close() }()
		return handleCallbackConn(res.conn, redirect)
	}
}

// handleCallbackConn parses the first request line of the redirect request
// and answers with the confirmation page. Only the request line is read; the
// code and state travel in the request target's query string.
func handleCallbackConn(conn net.Conn, redirect *url.URL) (callbackResult, error) {
	requestLine, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		return callbackResult{}, &CallbackParseError{Reason: "reading request line: " + err.Error()}
	}

	fields := strings.Fields(requestLine)
	if len(fields) < 2 {
		return callbackResult{}, &CallbackParseError{Reason: fmt.Sprintf("malformed request line %q", strings.TrimSpace(requestLine))}
	}

	// The target is relative; resolve it against the redirect URL's
	// scheme and host so it parses as a full URL.
	target, err := url.Parse(redirect.Scheme + "://" + redirect.Host + fields[1])
	if err != nil {
		return callbackResult{}, &CallbackParseError{Reason: "parsing request target: " + err.Error()}
	}

	query := target.Query()
	result := callbackResult{
		code:  query.Get("code"),
		state: query.Get("state"),
	}
	if result.code == "" {
		return callbackResult{}, &CallbackParseError{Reason: "callback is missing the code parameter"}
	}
	if result.state == "" {
		return callbackResult{}, &CallbackParseError{Reason: "callback is missing the state parameter"}
	}

	// Answer before validating state: the browser tab deserves a response
	// either way, and the state check happens in Authorize.
	response := fmt.Sprintf("HTTP/1.1 200 OK\r\ncontent-length: %d\r\n\r\n%s", len(confirmationBody), confirmationBody)
	if _, err := conn.Write([]byte(response)); err != nil {
		return callbackResult{}, fmt.Errorf("writing confirmation response: %w", err)
	}

	return result, nil
}
