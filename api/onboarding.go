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
	"net/http"

	"github.com/gin-gonic/gin"

	model2 "github.com/wayfindhq/wayfind/api/model"
	"github.com/wayfindhq/wayfind/internal/apierror"
	"github.com/wayfindhq/wayfind/model"
)

func (a Api) GetPlans(c *gin.Context) {
	c.JSON(http.StatusOK, a.wayfind.GetAvailablePlans(c.Request.Context()))
}

func (a Api) RecommendPlan(c *gin.Context) {
	var req model2.RecommendReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	if err := req.ValidateRecommend(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	rec, eligibility := a.wayfind.RecommendPlan(req.Profile.ToProfile())
	c.JSON(http.StatusOK, gin.H{"recommendation": rec, "eligibility": eligibility})
}

func (a Api) GetStatus(c *gin.Context) {
	userID, passed := c.Params.Get("user_id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required. pass user_id in the route /:user_id"})
		return
	}

	completed := make([]model.StepID, 0)
	for _, step := range c.QueryArray("completed") {
		completed = append(completed, model.StepID(step))
	}

	c.JSON(http.StatusOK, a.wayfind.Status(userID, completed))
}

func (a Api) SubmitStep(c *gin.Context) {
	var req model2.SubmitStepReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	if err := req.ValidateSubmitStep(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	sub, err := a.wayfind.SubmitStep(c.Request.Context(), req.UserID, req.ToStepID(), req.ToCompleted(), req.Data)
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error(), "submission": sub})
		return
	}

	if !sub.Validation.IsValid {
		c.JSON(http.StatusUnprocessableEntity, sub)
		return
	}

	c.JSON(http.StatusOK, sub)
}

func (a Api) CompleteOnboarding(c *gin.Context) {
	var req model2.CompleteOnboardingReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	if err := req.ValidateCompleteOnboarding(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	result, err := a.wayfind.CompleteOnboarding(c.Request.Context(), req.UserID, model.Tier(req.Tier), req.Profile.ToProfile())
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error(), "result": result})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (a Api) ChangeTier(c *gin.Context) {
	var req model2.ChangeTierReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	if err := req.ValidateChangeTier(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	diff, err := a.wayfind.ChangeTier(c.Request.Context(), req.UserID, model.Tier(req.FromTier), model.Tier(req.ToTier), req.Profile.ToProfile())
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, diff)
}
