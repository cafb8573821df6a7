package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/ctrlware/go-ctrl-boot/logger"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func GetEnvOrDefault(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func RetryWithExponentialBackoff(ctx context.Context, maxRetries int, baseDelay time.Duration, fn func() error) error {
	limiter := rate.NewLimiter(rate.Every(baseDelay), 1)
	retries := 0

	for retries < maxRetries {
		// Wait for the next retry attempt
		if err := limiter.Wait(ctx); err != nil {
			return err
		}

		// Attempt the operation
		if err := fn(); err != nil {
			logger.Error("Failed attempt. ", zap.Int("Try", retries+1), zap.Error(err))
			retries++
			// Increase delay exponentially
			limiter.SetLimit(rate.Every(baseDelay * time.Duration(1<<retries)))
		} else {
			logger.Info("Succeeded")
			return nil
		}
	}

	return errors.New("all attempts failed")
}

/*
* Buffers an upload body, enforcing a size cap and a mime whitelist.
* Example usage inside a controller method:
*
*	func (c *ProfileController) UploadImage(req *rest.Request, res *rest.Response) error {
*		acceptable := map[string]struct{}{
*			"image/jpeg": {},
*			"image/png":  {},
*		}
*
*		data, mime, err := server.BufferUpload(req.Context(), req.Raw().Body, acceptable, 10*1024*1024) // 10 MB limit
*		...
*	}
 */
func BufferUpload(ctx context.Context, body io.Reader, acceptable map[string]struct{}, maxSize int) ([]byte, string, error) {
	var head [512]byte
	headFilled := 0

	buf := bytes.Buffer{}
	size := 0
	chunk := make([]byte, 32*1024)

	for {
		if ctx.Err() != nil { // honour deadline / cancel
			return nil, "", fmt.Errorf("client canceled upload: %w", ctx.Err())
		}

		n, err := body.Read(chunk)
		if n > 0 {
			data := chunk[:n]
			size += len(data)
			if size > maxSize {
				return nil, "", errors.New("file too large")
			}

			if _, werr := buf.Write(data); werr != nil {
				return nil, "", fmt.Errorf("write buffer: %w", werr)
			}

			// capture first 512 B once
			if headFilled < 512 {
				c := copy(head[headFilled:], data)
				headFilled += c
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, "", fmt.Errorf("read failed: %w", err)
		}
	}

	mime := http.DetectContentType(head[:headFilled])
	if _, ok := acceptable[mime]; !ok {
		return nil, "", errors.New("unacceptable mime type")
	}
	return buf.Bytes(), mime, nil
}
