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

	"github.com/wayfindhq/wayfind"
	"github.com/wayfindhq/wayfind/api/middleware"
	"github.com/wayfindhq/wayfind/config"
)

type Api struct {
	wayfind *wayfind.Wayfind
	router  *gin.Engine
}

func (a Api) Router() *gin.Engine {
	router := a.router

	router.GET("/plans", a.GetPlans)
	router.POST("/recommendations", a.RecommendPlan)

	router.GET("/onboarding/:user_id/status", a.GetStatus)
	router.POST("/onboarding/steps", a.SubmitStep)
	router.POST("/onboarding/complete", a.CompleteOnboarding)
	router.POST("/onboarding/change-tier", a.ChangeTier)

	router.GET("/recovery/:session_id", a.GetRecoverySession)
	router.POST("/recovery/:session_id/attempt", a.AttemptRecovery)
	router.POST("/recovery/:session_id/resume", a.ResumeRecovery)

	return a.router
}

func NewAPI(w *wayfind.Wayfind) *Api {
	gin.SetMode(gin.ReleaseMode)
	conf, err := config.Fetch()
	if err != nil {
		return nil
	}
	r := gin.Default()
	r.Use(middleware.RateLimitMiddleware(conf))
	if conf.Server.Secure {
		r.Use(middleware.SecretKeyAuthMiddleware())
	}

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, "server running...")
	})

	return &Api{wayfind: w, router: r}
}
