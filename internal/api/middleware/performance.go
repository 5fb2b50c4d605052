package middleware

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
)

// ResponseOptimization applies cache headers, ETag revalidation and gzip
// compression, in that order from the outside in.
func ResponseOptimization(next http.Handler) http.Handler {
	return CacheControl(ETag(Compression(next)))
}

// Compression gzips responses for clients that accept it.
func Compression(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			next.ServeHTTP(w, r)
			return
		}

		gz := gzipWriterPool.Get().(*gzip.Writer)
		defer gzipWriterPool.Put(gz)
		gz.Reset(w)
		defer gz.Close()

		w.Header().Set("Content-Encoding", "gzip")
		// The compressed length is only known at close.
		w.Header().Del("Content-Length")

		next.ServeHTTP(&gzipResponseWriter{ResponseWriter: w, Writer: gz}, r)
	})
}

var gzipWriterPool = sync.Pool{
	New: func() interface{} {
		// Level 5 trades a little ratio for throughput.
		gz, _ := gzip.NewWriterLevel(io.Discard, 5)
		return gz
	},
}

type gzipResponseWriter struct {
	http.ResponseWriter
	Writer io.Writer
}

func (w *gzipResponseWriter) Write(b []byte) (int, error) {
	return w.Writer.Write(b)
}

func (w *gzipResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hj, ok := w.ResponseWriter.(http.Hijacker); ok {
		return hj.Hijack()
	}
	return nil, nil, fmt.Errorf("ResponseWriter does not support Hijack")
}

// ETag hashes successful GET/HEAD responses and answers If-None-Match with
// 304 Not Modified when the body has not changed.
func ETag(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			next.ServeHTTP(w, r)
			return
		}

		rec := &etagResponseRecorder{ResponseWriter: w, buffer: &bytes.Buffer{}}
		next.ServeHTTP(rec, r)

		status := rec.statusCode
		if status == 0 {
			status = http.StatusOK
		}

		if status != http.StatusOK {
			w.WriteHeader(status)
			w.Write(rec.buffer.Bytes())
			return
		}

		sum := sha256.Sum256(rec.buffer.Bytes())
		// First 16 bytes keep the header short.
		etag := `"` + hex.EncodeToString(sum[:16]) + `"`
		w.Header().Set("ETag", etag)

		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}

		w.Header().Set("Cache-Control", "private, must-revalidate")
		w.WriteHeader(status)
		w.Write(rec.buffer.Bytes())
	})
}

type etagResponseRecorder struct {
	http.ResponseWriter
	buffer     *bytes.Buffer
	statusCode int
}

func (r *etagResponseRecorder) Write(b []byte) (int, error) {
	return r.buffer.Write(b)
}

func (r *etagResponseRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
}

// cacheControlRules maps route prefixes to browser cache lifetimes. Search
// and suggest results churn with the index, the listing snapshot is
// refreshed by the indexer, and popular queries move slowest.
var cacheControlRules = []struct {
	prefix string
	maxAge int
}{
	{"/api/listings/search", 120},
	{"/api/listings/suggest", 120},
	{"/api/listings", 300},
	{"/api/searches/popular", 600},
}

// CacheControl sets Cache-Control per route; anything unmatched is treated
// as dynamic and not cached.
func CacheControl(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := "private, no-cache, must-revalidate"
		for _, rule := range cacheControlRules {
			if strings.HasPrefix(r.URL.Path, rule.prefix) {
				header = "public, max-age=" + strconv.Itoa(rule.maxAge) + ", must-revalidate"
				break
			}
		}
		w.Header().Set("Cache-Control", header)

		next.ServeHTTP(w, r)
	})
}
