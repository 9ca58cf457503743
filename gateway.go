/*
Copyright 2025 Wayfind Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package wayfind

import (
	"context"
	"net/http"

	"github.com/pkg/errors"

	"github.com/wayfindhq/wayfind/config"
	"github.com/wayfindhq/wayfind/internal/request"
	"github.com/wayfindhq/wayfind/model"
)

// HTTPGateway is the production RemoteGateway: a thin JSON client over the
// onboarding backend. Failures come back as plain errors; the recovery
// engine classifies them from the message text alone.
type HTTPGateway struct {
	baseURL string
	token   string
}

func NewHTTPGateway(conf config.GatewayConfig) *HTTPGateway {
	return &HTTPGateway{baseURL: conf.BaseURL, token: conf.AuthToken}
}

func (g *HTTPGateway) post(ctx context.Context, path string, payload, out interface{}) error {
	body, err := request.ToJsonReq(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}
	resp, err := request.Call(req, out)
	if err != nil {
		return err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return errors.Errorf("gateway returned %d for %s", resp.StatusCode, path)
	}
	return nil
}

func (g *HTTPGateway) ValidateStep(ctx context.Context, step model.StepID, data model.OnboardingData) (model.ValidationResult, error) {
	var result model.ValidationResult
	payload := map[string]interface{}{"step": step, "data": data}
	if err := g.post(ctx, "/onboarding/validate", payload, &result); err != nil {
		return model.ValidationResult{}, err
	}
	return result, nil
}

func (g *HTTPGateway) SaveProgress(ctx context.Context, userID string, step model.StepID, data model.OnboardingData) error {
	payload := map[string]interface{}{"user_id": userID, "step": step, "data": data}
	var resp map[string]interface{}
	return g.post(ctx, "/onboarding/progress", payload, &resp)
}

func (g *HTTPGateway) AssignTier(ctx context.Context, userID string, tier model.Tier) error {
	payload := map[string]interface{}{"user_id": userID, "tier": tier}
	var resp map[string]interface{}
	return g.post(ctx, "/onboarding/tier", payload, &resp)
}

func (g *HTTPGateway) Resume(ctx context.Context, userID string, step model.StepID, data model.OnboardingData) error {
	payload := map[string]interface{}{"user_id": userID, "step": step, "data": data}
	var resp map[string]interface{}
	return g.post(ctx, "/onboarding/resume", payload, &resp)
}
