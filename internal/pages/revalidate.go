// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package pages triggers out-of-band regeneration of statically generated
// site pages. The front-end exposes a revalidation webhook; this client
// posts the path to regenerate, authenticated with a shared secret.
// Regeneration is always best-effort: the caller logs failures and moves on.
package pages

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Revalidator calls the front-end revalidation webhook.
type Revalidator struct {
	client *resty.Client
	secret string
}

// NewRevalidator creates a revalidation client for the given webhook
// endpoint. Returns nil if endpoint is empty, letting the platform run
// without a static front-end attached.
func NewRevalidator(endpoint, secret string) *Revalidator {
	if endpoint == "" {
		return nil
	}
	client := resty.New().
		SetBaseURL(endpoint).
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)
	return &Revalidator{client: client, secret: secret}
}

// Invalidate requests regeneration of a previously generated page.
func (r *Revalidator) Invalidate(ctx context.Context, path string) error {
	resp, err := r.client.R().
		SetContext(ctx).
		SetHeader("X-Revalidate-Secret", r.secret).
		SetBody(map[string]string{"path": path}).
		Post("")
	if err != nil {
		return fmt.Errorf("revalidate %s: %w", path, err)
	}
	if resp.IsError() {
		return fmt.Errorf("revalidate %s: status %d", path, resp.StatusCode())
	}
	return nil
}
