// Package radio forwards frequency changes to a flrig rig-control daemon over XML-RPC.
package radio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/rpc"
	"strconv"
	"strings"
	"time"

	"github.com/kolo/xmlrpc"
)

// DefaultTimeout bounds a single flrig call.
const DefaultTimeout = 5 * time.Second

const setVFOMethod = "rig.set_vfo"

// FaultError is an XML-RPC fault returned by flrig. The daemon was reached but
// rejected the call.
type FaultError struct {
	Message string
}

func (e *FaultError) Error() string {
	return "flrig XML-RPC fault: " + e.Message
}

// UnreachableError reports a transport failure talking to flrig.
type UnreachableError struct {
	Err error
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("flrig unreachable: %v", e.Err)
}

func (e *UnreachableError) Unwrap() error {
	return e.Err
}

// Endpoint is the address of a flrig daemon.
type Endpoint struct {
	Host string
	Port int
}

// URL returns the XML-RPC endpoint URL.
func (e Endpoint) URL() string {
	return "http://" + net.JoinHostPort(e.Host, strconv.Itoa(e.Port)) + "/RPC2"
}

// Bridge sends commands to flrig. A new XML-RPC client is built per call
// since the endpoint comes from settings that may change between calls.
type Bridge struct {
	timeout   time.Duration
	transport http.RoundTripper
}

// NewBridge creates a bridge whose calls time out after timeout.
func NewBridge(timeout time.Duration) *Bridge {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Bridge{
		timeout:   timeout,
		transport: http.DefaultTransport,
	}
}

// SetFrequency tunes the rig to hz. The value is sent as an XML-RPC double.
func (b *Bridge) SetFrequency(ctx context.Context, ep Endpoint, hz float64) error {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	client, err := xmlrpc.NewClient(ep.URL(), &contextTransport{ctx: ctx, base: b.transport})
	if err != nil {
		return &UnreachableError{Err: err}
	}
	defer client.Close()

	start := time.Now()
	err = client.Call(setVFOMethod, hz, nil)
	if err != nil {
		err = classify(err)
		slog.Warn("flrig call failed", "endpoint", ep.URL(), "hz", hz, "error", err)
		return err
	}

	slog.Info("flrig frequency set", "endpoint", ep.URL(), "hz", hz, "duration", time.Since(start))
	return nil
}

// classify splits daemon faults from transport failures. net/rpc surfaces
// faults decoded from the response body as rpc.ServerError.
func classify(err error) error {
	var serverErr rpc.ServerError
	if errors.As(err, &serverErr) {
		return &FaultError{Message: faultString(string(serverErr))}
	}
	return &UnreachableError{Err: err}
}

// faultString strips the "Fault(code): " prefix the xmlrpc client adds.
func faultString(s string) string {
	if strings.HasPrefix(s, "Fault(") {
		if _, rest, ok := strings.Cut(s, "): "); ok {
			return rest
		}
	}
	return s
}

// contextTransport attaches a context to every outgoing request.
type contextTransport struct {
	ctx  context.Context
	base http.RoundTripper
}

func (t *contextTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.base.RoundTrip(req.WithContext(t.ctx))
}
