package middleware

import (
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"errors"
	"fmt"
	"io"
	"strings"

	"wanderlust/config"
	"wanderlust/internal/core"
	cErr "wanderlust/internal/pkg/error"
	"wanderlust/internal/pkg/response"
	"wanderlust/internal/telemetry"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/zstd"
	"go.uber.org/zap"
)

const defaultMaxBodyBytes int64 = 1 << 20

var errBodyTooLarge = errors.New("decompressed body too large")

type Decompress struct {
	logger   *zap.Logger
	trace    *telemetry.Trace
	maxBytes int64
}

func NewDecompress(logger *zap.Logger, trace *telemetry.Trace, conf *config.Configuration) *Decompress {
	maxBytes := conf.App.MaxBodyBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxBodyBytes
	}
	return &Decompress{logger: logger, trace: trace, maxBytes: maxBytes}
}

// Handler 解開 gzip / deflate / br / zstd 的請求 body，之後的 handler 只看到明文
func (m *Decompress) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		enc := strings.ToLower(strings.TrimSpace(c.GetHeader("Content-Encoding")))
		if enc == "" || enc == "identity" || c.Request.Body == nil {
			c.Next()
			return
		}

		_, span, end := m.trace.WithSpan(c.Request.Context(), string(core.SpanDecompressMiddleware))

		raw, err := io.ReadAll(io.LimitReader(c.Request.Body, m.maxBytes+1))
		_ = c.Request.Body.Close()
		if err != nil {
			appErr := cErr.BadRequestBody("read request body failed")
			end(appErr)
			response.AbortWithError(c, appErr)
			return
		}

		var decoded []byte
		if int64(len(raw)) > m.maxBytes {
			err = errBodyTooLarge
		} else {
			decoded, err = m.decode(enc, raw)
		}
		m.trace.ApplyTraceAttributes(span, core.TraceDecompressMeta{
			Encoding: enc,
			Before:   int64(len(raw)),
			After:    int64(len(decoded)),
		})
		if err != nil {
			var appErr *cErr.Error
			switch {
			case errors.As(err, &appErr):
			case errors.Is(err, errBodyTooLarge):
				appErr = cErr.BadRequestBody(fmt.Sprintf("request body exceeds %d bytes", m.maxBytes))
			default:
				m.logger.Debug("decompress request body failed", zap.String("encoding", enc), zap.Error(err))
				appErr = cErr.BadRequestBody("malformed " + enc + " body")
			}
			end(appErr)
			response.AbortWithError(c, appErr)
			return
		}
		end(nil)

		c.Request.Body = io.NopCloser(bytes.NewReader(decoded))
		c.Request.ContentLength = int64(len(decoded))
		c.Request.Header.Del("Content-Encoding")
		c.Request.Header.Del("Content-Length")
		c.Next()
	}
}

func (m *Decompress) decode(enc string, raw []byte) ([]byte, error) {
	var (
		r   io.Reader
		err error
	)
	switch enc {
	case "gzip", "x-gzip":
		var zr *gzip.Reader
		if zr, err = gzip.NewReader(bytes.NewReader(raw)); err == nil {
			defer zr.Close()
			r = zr
		}
	case "deflate":
		var zr io.ReadCloser
		if zr, err = zlib.NewReader(bytes.NewReader(raw)); err == nil {
			defer zr.Close()
			r = zr
		}
	case "br":
		r = brotli.NewReader(bytes.NewReader(raw))
	case "zstd":
		var dec *zstd.Decoder
		if dec, err = zstd.NewReader(bytes.NewReader(raw), zstd.WithDecoderMaxMemory(uint64(m.maxBytes)*2)); err == nil {
			defer dec.Close()
			r = dec
		}
	default:
		return nil, cErr.UnsupportedMediaType("unsupported content encoding: " + enc)
	}
	if err != nil {
		return nil, err
	}

	// 多讀 1 byte 判斷是否超過上限
	out, err := io.ReadAll(io.LimitReader(r, m.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(out)) > m.maxBytes {
		return nil, errBodyTooLarge
	}
	return out, nil
}
