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

package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayfindhq/wayfind"
	model2 "github.com/wayfindhq/wayfind/api/model"
	"github.com/wayfindhq/wayfind/config"
	"github.com/wayfindhq/wayfind/internal/request"
	"github.com/wayfindhq/wayfind/internal/store"
	"github.com/wayfindhq/wayfind/model"
)

type TestRequest struct {
	Payload  io.Reader
	Router   *gin.Engine
	Response interface{}
	Method   string
	Route    string
	Header   map[string]string
}

func SetUpTestRequest(s TestRequest) (*httptest.ResponseRecorder, error) {
	req := httptest.NewRequest(s.Method, s.Route, s.Payload)
	for key, value := range s.Header {
		req.Header.Set(key, value)
	}
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	s.Router.ServeHTTP(resp, req)

	err := json.NewDecoder(resp.Body).Decode(&s.Response)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// stubGateway is an always-succeeding RemoteGateway for API tests; saveErr
// flips the save path into failure.
type stubGateway struct {
	saveErr error
}

func (g *stubGateway) ValidateStep(context.Context, model.StepID, model.OnboardingData) (model.ValidationResult, error) {
	return model.ValidationResult{IsValid: true}, nil
}

func (g *stubGateway) SaveProgress(context.Context, string, model.StepID, model.OnboardingData) error {
	return g.saveErr
}

func (g *stubGateway) AssignTier(context.Context, string, model.Tier) error { return nil }

func (g *stubGateway) Resume(context.Context, string, model.StepID, model.OnboardingData) error {
	return nil
}

func setupRouter(gateway *stubGateway) (*gin.Engine, *wayfind.Wayfind) {
	config.MockConfig(&config.Configuration{
		Redis: config.RedisConfig{Dns: "localhost:6379"},
	})
	sessions := store.NewDualStore(store.NewLocalStore(), store.NewLocalStore())
	core := wayfind.NewWayfind(gateway, sessions, nil)
	return NewAPI(core).Router(), core
}

func TestGetPlansEndpoint(t *testing.T) {
	router, _ := setupRouter(&stubGateway{})

	var response []model.TierDefinition
	resp, err := SetUpTestRequest(TestRequest{
		Response: &response,
		Method:   "GET",
		Route:    "/plans",
		Router:   router,
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.Code)
	require.Len(t, response, 4)
	assert.Equal(t, model.TierMicro, response[0].Tier)
}

func TestRecommendEndpoint(t *testing.T) {
	router, _ := setupRouter(&stubGateway{})

	payload := model2.RecommendReq{
		Profile: model2.BusinessProfileReq{
			BusinessType:        "retail",
			BusinessSize:        "small",
			EmployeeCount:       8,
			LocationCount:       2,
			MonthlyRevenue:      5000,
			MonthlyTransactions: 800,
		},
	}
	body, _ := request.ToJsonReq(&payload)

	var response struct {
		Recommendation model.Recommendation    `json:"recommendation"`
		Eligibility    model.EligibilityResult `json:"eligibility"`
	}
	resp, err := SetUpTestRequest(TestRequest{
		Payload:  body,
		Response: &response,
		Method:   "POST",
		Route:    "/recommendations",
		Router:   router,
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, model.TierSmall, response.Recommendation.Tier)
	assert.True(t, response.Eligibility.Eligible)
}

func TestRecommendEndpointRejectsBadType(t *testing.T) {
	router, _ := setupRouter(&stubGateway{})

	payload := model2.RecommendReq{
		Profile: model2.BusinessProfileReq{BusinessType: "bakery"},
	}
	body, _ := request.ToJsonReq(&payload)

	var response map[string]interface{}
	resp, err := SetUpTestRequest(TestRequest{
		Payload:  body,
		Response: &response,
		Method:   "POST",
		Route:    "/recommendations",
		Router:   router,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestSubmitStepEndpoint(t *testing.T) {
	router, _ := setupRouter(&stubGateway{})

	payload := model2.SubmitStepReq{
		UserID: "usr_1",
		Step:   "business_profile",
		Data: map[string]interface{}{
			"business_name":  gofakeit.Company(),
			"industry":       "retail",
			"employee_count": 12,
		},
	}
	body, _ := request.ToJsonReq(&payload)

	var response wayfind.StepSubmission
	resp, err := SetUpTestRequest(TestRequest{
		Payload:  body,
		Response: &response,
		Method:   "POST",
		Route:    "/onboarding/steps",
		Router:   router,
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.True(t, response.Saved)
	assert.Equal(t, model.StepBusinessType, response.NextStep)
}

func TestSubmitStepEndpointValidationFailure(t *testing.T) {
	router, _ := setupRouter(&stubGateway{})

	payload := model2.SubmitStepReq{
		UserID: "usr_1",
		Step:   "business_profile",
		Data:   map[string]interface{}{"business_name": "A"},
	}
	body, _ := request.ToJsonReq(&payload)

	var response wayfind.StepSubmission
	resp, err := SetUpTestRequest(TestRequest{
		Payload:  body,
		Response: &response,
		Method:   "POST",
		Route:    "/onboarding/steps",
		Router:   router,
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	assert.False(t, response.Validation.IsValid)
	assert.Contains(t, response.Validation.Errors, "business_name")
}

func TestSubmitStepEndpointGatedDependency(t *testing.T) {
	router, _ := setupRouter(&stubGateway{})

	payload := model2.SubmitStepReq{
		UserID: "usr_1",
		Step:   "plan_selection",
		Data:   map[string]interface{}{"selected_tier": "small"},
	}
	body, _ := request.ToJsonReq(&payload)

	var response map[string]interface{}
	resp, err := SetUpTestRequest(TestRequest{
		Payload:  body,
		Response: &response,
		Method:   "POST",
		Route:    "/onboarding/steps",
		Router:   router,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.Code)
}

func TestRecoveryFlowOverHTTP(t *testing.T) {
	gateway := &stubGateway{saveErr: fmt.Errorf("network connection lost")}
	router, core := setupRouter(gateway)

	// A failing submit creates a recovery session behind the error.
	payload := model2.SubmitStepReq{
		UserID: "usr_1",
		Step:   "business_profile",
		Data: map[string]interface{}{
			"business_name":  "Acme Stores",
			"industry":       "retail",
			"employee_count": 12,
		},
	}
	body, _ := request.ToJsonReq(&payload)

	var failResp struct {
		Submission wayfind.StepSubmission `json:"submission"`
	}
	resp, err := SetUpTestRequest(TestRequest{
		Payload:  body,
		Response: &failResp,
		Method:   "POST",
		Route:    "/onboarding/steps",
		Router:   router,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusInternalServerError, resp.Code)
	sessionID := failResp.Submission.RecoverySessionID
	require.NotEmpty(t, sessionID)

	// The session is readable over HTTP.
	var session model.RecoverySession
	resp, err = SetUpTestRequest(TestRequest{
		Response: &session,
		Method:   "GET",
		Route:    fmt.Sprintf("/recovery/%s", sessionID),
		Router:   router,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "usr_1", session.UserID)

	// Resume succeeds once the backend recovers, clearing the session.
	gateway.saveErr = nil
	resumeBody, _ := request.ToJsonReq(&model2.ResumeRecoveryReq{Data: map[string]interface{}{"employee_count": 15}})
	var result model.RecoveryResult
	resp, err = SetUpTestRequest(TestRequest{
		Payload:  resumeBody,
		Response: &result,
		Method:   "POST",
		Route:    fmt.Sprintf("/recovery/%s/resume", sessionID),
		Router:   router,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.True(t, result.Success)

	_, err = core.Recovery().GetSession(context.Background(), sessionID)
	assert.Error(t, err)
}

func TestRecoverySessionNotFound(t *testing.T) {
	router, _ := setupRouter(&stubGateway{})

	var response map[string]interface{}
	resp, err := SetUpTestRequest(TestRequest{
		Response: &response,
		Method:   "GET",
		Route:    "/recovery/rcv_missing",
		Router:   router,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
