package connector

import (
	"bufio"
	"net/http"

	"github.com/gridsec/https-utils/common"
)

// Default framing limits applied by DefaultHTTPConfiguration.
const (
	// DefaultOutputBufferSize is the response write buffer size.
	DefaultOutputBufferSize = 32768

	// DefaultRequestHeaderSize caps the size of accepted request
	// headers.
	DefaultRequestHeaderSize = 8192

	// DefaultResponseHeaderSize is the nominal response header limit.
	DefaultResponseHeaderSize = 8192
)

// HTTPConfiguration carries the HTTP-layer limits and behavior applied
// atop the secure transport of one connector.
type HTTPConfiguration struct {
	// SecureScheme is the URL scheme stamped on requests arriving over
	// this connector.
	SecureScheme string

	// SecurePort is the port advertised as the secure port.
	SecurePort int

	// OutputBufferSize is the size of the buffered response writer.
	// Zero disables response buffering.
	OutputBufferSize int

	// RequestHeaderSize caps accepted request headers; it maps onto
	// http.Server.MaxHeaderBytes.
	RequestHeaderSize int

	// ResponseHeaderSize is the nominal response header limit. net/http
	// does not enforce a response header cap; the field is carried for
	// configuration parity and exposure to callers.
	ResponseHeaderSize int

	// SendServerVersion controls emission of the Server header.
	SendServerVersion bool

	// SendDateHeader controls emission of the Date header.
	SendDateHeader bool

	// SecureRequestCustomizer stamps SecureScheme onto the request URL
	// so handlers see the scheme the client used.
	SecureRequestCustomizer bool
}

// DefaultHTTPConfiguration returns the framing configuration used when
// none is supplied: https scheme on the given port, 32KiB output
// buffer, 8KiB header limits, Server header on, Date header off, with
// the secure request customizer attached.
func DefaultHTTPConfiguration(port int) *HTTPConfiguration {
	return &HTTPConfiguration{
		SecureScheme:            "https",
		SecurePort:              port,
		OutputBufferSize:        DefaultOutputBufferSize,
		RequestHeaderSize:       DefaultRequestHeaderSize,
		ResponseHeaderSize:      DefaultResponseHeaderSize,
		SendServerVersion:       true,
		SendDateHeader:          false,
		SecureRequestCustomizer: true,
	}
}

// wrap applies the framing behavior around the server's handler.
func (hc *HTTPConfiguration) wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hc.SecureRequestCustomizer && hc.SecureScheme != "" {
			r.URL.Scheme = hc.SecureScheme
		}

		if hc.SendServerVersion {
			w.Header().Set("Server", common.PackageName+"/"+common.Version)
		}
		if !hc.SendDateHeader {
			// Assigning nil suppresses the Date header net/http would
			// otherwise add on write.
			w.Header()["Date"] = nil
		}

		if hc.OutputBufferSize > 0 {
			bw := &bufferedResponseWriter{
				ResponseWriter: w,
				buf:            bufio.NewWriterSize(writerOnly{w}, hc.OutputBufferSize),
			}
			defer bw.buf.Flush()
			w = bw
		}

		next.ServeHTTP(w, r)
	})
}

// writerOnly hides the ResponseWriter's other methods from
// bufio.Writer so header state stays with the wrapper.
type writerOnly struct {
	w http.ResponseWriter
}

func (wo writerOnly) Write(p []byte) (int, error) {
	return wo.w.Write(p)
}

// bufferedResponseWriter batches response body writes through a
// fixed-size buffer.
type bufferedResponseWriter struct {
	http.ResponseWriter
	buf *bufio.Writer
}

func (w *bufferedResponseWriter) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

// Flush satisfies http.Flusher for handlers that stream.
func (w *bufferedResponseWriter) Flush() {
	w.buf.Flush()
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
