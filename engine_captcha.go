package authcore

import (
	"context"
	"fmt"
)

// Captcha renders a fresh code for the client and returns the image as a
// base64 data string. Any prior code for the same client is overwritten.
func (e *Engine) Captcha(ctx context.Context, clientIP, userAgent string) (string, error) {
	if !e.ready() {
		return "", ErrEngineNotReady
	}

	fingerprint := Fingerprint(clientIP, userAgent)
	image, err := e.captcha.Generate(ctx, fingerprint)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	e.metricInc(MetricCaptchaIssued)
	e.auditEmit(EventCaptchaIssued, 0, "", fingerprint, true, nil)
	return image, nil
}
