package captcha

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mojocn/base64Captcha"
	"github.com/redis/go-redis/v9"
)

// charSource excludes 0/O/o, 1/l/I, and 9/g to keep codes unambiguous when
// rendered with line noise.
const charSource = "2345678abcdefhjkmnprstuvwxyzABCDEFGHJKLMNPRSTUVWXYZ"

// ErrCaptchaUnavailable wraps Redis or rendering failures.
var ErrCaptchaUnavailable = errors.New("captcha backend unavailable")

// Config holds captcha tuning parameters.
type Config struct {
	TTL        time.Duration
	Length     int
	Width      int
	Height     int
	NoiseCount int
	Prefix     string
}

// Engine renders captcha images and tracks the expected code per client
// fingerprint.
type Engine struct {
	redis  redis.UniversalClient
	driver *base64Captcha.DriverString
	config Config
}

// NewEngine creates a captcha engine backed by the given Redis client.
func NewEngine(redisClient redis.UniversalClient, cfg Config) *Engine {
	driver := base64Captcha.NewDriverString(
		cfg.Height,
		cfg.Width,
		cfg.NoiseCount,
		base64Captcha.OptionShowHollowLine,
		cfg.Length,
		charSource,
		nil,
		nil,
		nil,
	)
	return &Engine{redis: redisClient, driver: driver, config: cfg}
}

func (e *Engine) key(fingerprint string) string {
	return e.config.Prefix + ":captcha:" + fingerprint
}

// Generate renders a fresh code for the fingerprint, overwriting any prior
// code, and returns the image as a base64 data string.
func (e *Engine) Generate(ctx context.Context, fingerprint string) (string, error) {
	_, content, answer := e.driver.GenerateIdQuestionAnswer()
	item, err := e.driver.DrawCaptcha(content)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCaptchaUnavailable, err)
	}

	if err := e.redis.Set(ctx, e.key(fingerprint), answer, e.config.TTL).Err(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrCaptchaUnavailable, err)
	}
	return item.EncodeB64string(), nil
}

// Validate compares submitted against the stored code, case-insensitively.
// A match consumes the stored code; a mismatch or absent code leaves state
// untouched, so a stale code stays validatable until it expires or succeeds.
func (e *Engine) Validate(ctx context.Context, fingerprint, submitted string) (bool, error) {
	stored, err := e.redis.Get(ctx, e.key(fingerprint)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrCaptchaUnavailable, err)
	}

	if !strings.EqualFold(stored, strings.TrimSpace(submitted)) {
		return false, nil
	}

	if err := e.redis.Del(ctx, e.key(fingerprint)).Err(); err != nil {
		return false, fmt.Errorf("%w: %v", ErrCaptchaUnavailable, err)
	}
	return true, nil
}
